package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/repos"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

// AdminHandler serves the admin-only read surfaces. Role enforcement happens
// in the route middleware, not here.
type AdminHandler struct {
	Users   *repos.UserRepo
	Order   *services.OrderService
	Catalog *services.CatalogService
}

func (h *AdminHandler) AllUsers(c *fiber.Ctx) error {
	users, err := h.Users.ListAll()
	if err != nil {
		return apperr.Internal("Could not retrieve users", err)
	}
	applog.Audit(c, "admin.users.list", map[string]any{"count": len(users)})
	return c.JSON(users)
}

func (h *AdminHandler) AllOrders(c *fiber.Ctx) error {
	orders, err := h.Order.ListAll()
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.list", map[string]any{"count": len(orders)})
	return c.JSON(orders)
}

func (h *AdminHandler) AllProducts(c *fiber.Ctx) error {
	products, err := h.Catalog.List()
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.products.list", map[string]any{"count": len(products)})
	return c.JSON(products)
}
