package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Add merges a product line into the caller's cart.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := h.Cart.Add(callerID(c), req.ProductID, req.Quantity); err != nil {
		return err
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": req.ProductID, "qty": req.Quantity})
	return c.JSON(fiber.Map{"message": "Product added to cart"})
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	view, err := h.Cart.View(callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(view)
}
