package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/domain"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
	"github.com/deputyJo/ironcart-backend/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	p, err := h.Catalog.Create(caller(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.Catalog.List()
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.BadRequest("Invalid product ID")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Mine lists the products owned by the authenticated seller.
func (h *ProductHandler) Mine(c *fiber.Ctx) error {
	out, err := h.Catalog.ListBySeller(callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *ProductHandler) BySeller(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("sellerId"))
	if !ok {
		return apperr.BadRequest("Invalid seller ID")
	}
	out, err := h.Catalog.ListBySeller(id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.BadRequest("Invalid product ID")
	}
	var patch domain.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	p, err := h.Catalog.Update(id, caller(c), patch)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.BadRequest("Invalid product ID")
	}
	if err := h.Catalog.Delete(id, caller(c)); err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
