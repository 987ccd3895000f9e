package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
	"github.com/deputyJo/ironcart-backend/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

// Checkout turns the caller's cart into an order via the built-in gateway.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	order, err := h.Order.Checkout(callerID(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "order.checkout", map[string]any{"order_id": order.ID, "total": order.TotalAmount})
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	out, err := h.Order.ListMine(callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *OrderHandler) All(c *fiber.Ctx) error {
	out, err := h.Order.ListAll()
	if err != nil {
		return err
	}
	return c.JSON(out)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("orderId"))
	if !ok {
		return apperr.BadRequest("Invalid order ID")
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	order, err := h.Order.UpdateStatus(id, req.Status)
	if err != nil {
		return err
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": id, "status": req.Status})
	return c.JSON(order)
}
