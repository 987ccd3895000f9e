package services

import (
	"context"
	"math"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/payments"
	"github.com/deputyJo/ironcart-backend/internal/repos"
)

// CheckoutProvider is the hosted-session payment surface (Stripe).
type CheckoutProvider interface {
	CreateSession(items []payments.CheckoutItem, orderID string) (string, error)
	ParseWebhook(payload []byte, sigHeader string) (payments.WebhookResult, error)
}

// PayPalProvider is the redirect-then-capture payment surface.
type PayPalProvider interface {
	CreateOrder(ctx context.Context, total float64, currency, customID, returnURL, cancelURL string) (string, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (payments.CaptureResult, error)
}

// PaymentService drives the two hosted payment flows. Both converge on
// OrderService.MarkPaid so an order becomes Paid by exactly one rule.
type PaymentService struct {
	Orders      *OrderService
	Carts       *repos.CartRepo
	Checkout    CheckoutProvider
	PayPal      PayPalProvider
	FrontendURL string
}

func NewPaymentService(orders *OrderService, carts *repos.CartRepo, checkout CheckoutProvider, paypal PayPalProvider, frontendURL string) *PaymentService {
	return &PaymentService{Orders: orders, Carts: carts, Checkout: checkout, PayPal: paypal, FrontendURL: frontendURL}
}

// CreateCheckoutSession snapshots the cart into a Pending order and returns
// the hosted session URL. Stock is not touched; the webhook settles the order.
func (s *PaymentService) CreateCheckoutSession(userID string) (string, error) {
	order, items, err := s.Orders.CreatePending(userID, domain.MethodStripe)
	if err != nil {
		return "", err
	}

	lines := make([]payments.CheckoutItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, payments.CheckoutItem{
			Name:       it.Name,
			UnitAmount: int64(math.Round(it.Price * 100)),
			Quantity:   int64(it.Qty),
		})
	}

	url, err := s.Checkout.CreateSession(lines, order.ID)
	if err != nil {
		return "", apperr.Internal("Failed to create Stripe session", err)
	}
	return url, nil
}

// HandleWebhook verifies a provider event and marks the correlated order as
// paid. A bad signature is a client error; unrecognized event types are
// acknowledged without effect.
func (s *PaymentService) HandleWebhook(payload []byte, sigHeader string) error {
	res, err := s.Checkout.ParseWebhook(payload, sigHeader)
	if err != nil {
		return apperr.BadRequest("Webhook signature verification failed")
	}
	if !res.Completed || res.OrderID == "" {
		return nil
	}
	return s.Orders.MarkPaid(res.OrderID, domain.MethodStripe, res.TransactionID, "")
}

// PayPalCreateOrder snapshots the cart into a Pending order, creates the
// provider-side order with the internal id as custom_id, and returns the
// buyer approval URL.
func (s *PaymentService) PayPalCreateOrder(ctx context.Context, userID string) (string, error) {
	order, _, err := s.Orders.CreatePending(userID, domain.MethodPayPal)
	if err != nil {
		return "", err
	}

	approveURL, err := s.PayPal.CreateOrder(ctx, order.TotalAmount, "GBP", order.ID,
		s.FrontendURL+"/paypal-success", s.FrontendURL+"/paypal-cancel")
	if err != nil {
		return "", apperr.Internal("Failed to create PayPal order", err)
	}
	return approveURL, nil
}

// PayPalCapture captures an approved provider order. On COMPLETED the
// correlated internal order becomes Paid and the buyer's cart is cleared.
func (s *PaymentService) PayPalCapture(ctx context.Context, userID, providerOrderID string) error {
	if providerOrderID == "" {
		return apperr.BadRequest("Missing PayPal order ID")
	}

	res, err := s.PayPal.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		return apperr.Internal("Failed to capture PayPal order", err)
	}
	if res.Status != "COMPLETED" {
		return apperr.PaymentRequired("PayPal payment was not completed")
	}
	if res.CustomID == "" {
		return apperr.Internal("PayPal capture missing order reference", nil)
	}

	if err := s.Orders.MarkPaid(res.CustomID, domain.MethodPayPal, providerOrderID, res.PayerEmail); err != nil {
		return err
	}
	_ = s.Carts.Clear(userID)
	return nil
}
