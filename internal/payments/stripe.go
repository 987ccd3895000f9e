package payments

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// CheckoutItem is one priced line for a hosted checkout session. UnitAmount
// is in the currency's minor unit (pence).
type CheckoutItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// WebhookResult is the provider-neutral outcome of a verified webhook event.
type WebhookResult struct {
	OrderID       string
	TransactionID string
	Completed     bool
}

// StripeCheckout creates hosted checkout sessions and verifies webhook
// signatures against the shared endpoint secret.
type StripeCheckout struct {
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

func NewStripeCheckout(apiKey, webhookSecret, frontendURL string) *StripeCheckout {
	stripe.Key = apiKey
	return &StripeCheckout{
		WebhookSecret: webhookSecret,
		SuccessURL:    frontendURL + "/success",
		CancelURL:     frontendURL + "/cancel",
	}
}

// CreateSession requests a hosted checkout session carrying the internal
// order id as metadata, and returns the redirect URL.
func (s *StripeCheckout) CreateSession(items []CheckoutItem, orderID string) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, it := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("gbp"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
				UnitAmount: stripe.Int64(it.UnitAmount),
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(s.SuccessURL),
		CancelURL:          stripe.String(s.CancelURL),
	}
	params.AddMetadata("orderId", orderID)

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe session: %w", err)
	}
	return sess.URL, nil
}

// ParseWebhook verifies the event signature and extracts the correlated
// order id from a checkout completion. Signature failure is terminal; this
// system never retries the event.
func (s *StripeCheckout) ParseWebhook(payload []byte, sigHeader string) (WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
	if err != nil {
		return WebhookResult{}, fmt.Errorf("webhook signature: %w", err)
	}
	if event.Type != "checkout.session.completed" {
		return WebhookResult{Completed: false}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return WebhookResult{}, fmt.Errorf("webhook payload: %w", err)
	}

	res := WebhookResult{OrderID: sess.Metadata["orderId"], Completed: true, TransactionID: sess.ID}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		res.TransactionID = sess.PaymentIntent.ID
	}
	return res, nil
}
