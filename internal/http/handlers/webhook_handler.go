package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

type WebhookHandler struct {
	Payments *services.PaymentService
}

// Stripe receives provider events. The raw body must reach signature
// verification unmodified, so the handler never parses it as JSON first.
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	if err := h.Payments.HandleWebhook(c.Body(), c.Get("Stripe-Signature")); err != nil {
		applog.Security(c, "webhook.stripe.reject", nil)
		return err
	}
	applog.Info(c, "webhook.stripe.ok", nil)
	return c.JSON(fiber.Map{"received": true})
}
