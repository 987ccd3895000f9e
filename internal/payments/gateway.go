// Package payments holds the payment-provider adapters: the simulated
// gateway used by plain checkout, the Stripe Checkout adapter, and a thin
// typed client for the PayPal Orders REST API.
package payments

import (
	"errors"
	"math/rand"
)

var ErrDeclined = errors.New("payment declined")

// Gateway confirms a charge at checkout time.
type Gateway interface {
	Charge(amount float64) error
}

// FakeGateway simulates a provider that declines a fixed fraction of charges.
type FakeGateway struct {
	FailRate float64
}

func (g FakeGateway) Charge(amount float64) error {
	if amount < 0 {
		return ErrDeclined
	}
	if g.FailRate > 0 && rand.Float64() < g.FailRate {
		return ErrDeclined
	}
	return nil
}
