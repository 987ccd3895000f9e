package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

type PaymentHandler struct {
	Payments *services.PaymentService
}

// CreateSession starts a hosted Stripe checkout for the caller's cart.
func (h *PaymentHandler) CreateSession(c *fiber.Ctx) error {
	url, err := h.Payments.CreateCheckoutSession(callerID(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "payment.stripe.session", nil)
	return c.JSON(fiber.Map{"url": url})
}

// PayPalCreate starts a PayPal approval flow for the caller's cart.
func (h *PaymentHandler) PayPalCreate(c *fiber.Ctx) error {
	url, err := h.Payments.PayPalCreateOrder(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "payment.paypal.create", nil)
	return c.JSON(fiber.Map{"approveUrl": url})
}

type paypalCaptureRequest struct {
	OrderID string `json:"orderId"`
}

// PayPalCapture settles an approved PayPal order and marks the internal
// order as paid.
func (h *PaymentHandler) PayPalCapture(c *fiber.Ctx) error {
	var req paypalCaptureRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := h.Payments.PayPalCapture(c.Context(), callerID(c), req.OrderID); err != nil {
		return err
	}
	applog.Audit(c, "payment.paypal.capture", map[string]any{"provider_order": req.OrderID})
	return c.JSON(fiber.Map{"message": "Payment captured successfully"})
}
