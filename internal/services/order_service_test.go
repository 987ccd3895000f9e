package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/events"
	"github.com/deputyJo/ironcart-backend/internal/payments"
	"github.com/deputyJo/ironcart-backend/internal/repos"
)

type decliningGateway struct{}

func (decliningGateway) Charge(float64) error { return errors.New("declined") }

type recordingSink struct {
	created []domain.Order
	paid    []events.OrderPaidEvent
}

func (s *recordingSink) OrderCreated(_ context.Context, o domain.Order) error {
	s.created = append(s.created, o)
	return nil
}

func (s *recordingSink) OrderPaid(_ context.Context, e events.OrderPaidEvent) error {
	s.paid = append(s.paid, e)
	return nil
}

func newOrderService(db *sqlx.DB, gw payments.Gateway) *OrderService {
	return NewOrderService(repos.NewCartRepo(db), repos.NewProductRepo(db), repos.NewOrderRepo(db), gw)
}

func seedCheckout(t *testing.T, db *sqlx.DB) *repos.CartRepo {
	t.Helper()
	seedUser(t, db, "buyer", domain.RoleCustomer)
	seedUser(t, db, "seller", domain.RoleSeller)
	seedProduct(t, db, "p1", "seller", "Widget", 10.00, 5)
	seedProduct(t, db, "p2", "seller", "Gadget", 2.50, 8)
	carts := repos.NewCartRepo(db)
	if err := carts.UpsertItem("buyer", "p1", 2); err != nil {
		t.Fatalf("cart seed: %v", err)
	}
	if err := carts.UpsertItem("buyer", "p2", 4); err != nil {
		t.Fatalf("cart seed: %v", err)
	}
	return carts
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "buyer", domain.RoleCustomer)
	svc := newOrderService(db, payments.FakeGateway{})

	_, err := svc.Checkout("buyer")
	if errStatus(err) != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
	if err.Error() != "Your cart is empty" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestCheckoutSuccess(t *testing.T) {
	db := newTestDB(t)
	seedCheckout(t, db)
	svc := newOrderService(db, payments.FakeGateway{})
	sink := &recordingSink{}
	svc.Events = sink

	order, err := svc.Checkout("buyer")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.Status != domain.StatusPending {
		t.Fatalf("status = %q, want Pending", order.Status)
	}
	if want := 2*10.00 + 4*2.50; order.TotalAmount != want {
		t.Fatalf("total = %v, want %v", order.TotalAmount, want)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}

	if got := productStock(t, db, "p1"); got != 3 {
		t.Fatalf("p1 stock = %d, want 3", got)
	}
	if got := productStock(t, db, "p2"); got != 4 {
		t.Fatalf("p2 stock = %d, want 4", got)
	}

	// Cart is cleared on success.
	view, _, err := repos.NewCartRepo(db).View("buyer")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view) != 0 {
		t.Fatalf("cart should be empty, has %d lines", len(view))
	}

	if len(sink.created) != 1 || sink.created[0].ID != order.ID {
		t.Fatalf("order-created event missing: %+v", sink.created)
	}

	// The stored order carries the snapshot lines.
	stored, err := repos.NewOrderRepo(db).Get(order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Items) != 2 || stored.Payment.Method != domain.MethodFake {
		t.Fatalf("stored order incomplete: %+v", stored)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	carts := seedCheckout(t, db)
	if err := carts.UpsertItem("buyer", "p1", 10); err != nil {
		t.Fatalf("cart seed: %v", err)
	}
	svc := newOrderService(db, payments.FakeGateway{})

	_, err := svc.Checkout("buyer")
	if errStatus(err) != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
	if !strings.Contains(err.Error(), "Widget") {
		t.Fatalf("error should name the product: %q", err.Error())
	}

	// Rejection happens before any stock moves.
	if got := productStock(t, db, "p1"); got != 5 {
		t.Fatalf("p1 stock = %d, want 5", got)
	}
	if got := productStock(t, db, "p2"); got != 8 {
		t.Fatalf("p2 stock = %d, want 8", got)
	}
}

func TestCheckoutPaymentDeclined(t *testing.T) {
	db := newTestDB(t)
	seedCheckout(t, db)
	svc := newOrderService(db, decliningGateway{})

	_, err := svc.Checkout("buyer")
	if errStatus(err) != 402 {
		t.Fatalf("expected 402, got %v", err)
	}

	// Documented behavior: stock taken before the charge stays taken.
	if got := productStock(t, db, "p1"); got != 3 {
		t.Fatalf("p1 stock = %d, want 3", got)
	}

	// No order is written and the cart survives.
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
	view, _, _ := repos.NewCartRepo(db).View("buyer")
	if len(view) == 0 {
		t.Fatal("cart should survive a declined payment")
	}
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	seedCheckout(t, db)
	svc := newOrderService(db, payments.FakeGateway{})

	order, err := svc.Checkout("buyer")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	updated, err := svc.UpdateStatus(order.ID, domain.StatusShipped)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusShipped {
		t.Fatalf("status = %q, want Shipped", updated.Status)
	}

	if _, err := svc.UpdateStatus(order.ID, "Cancelled"); errStatus(err) != 400 {
		t.Fatalf("bad status should 400, got %v", err)
	}
	if _, err := svc.UpdateStatus("ghost", domain.StatusShipped); errStatus(err) != 404 {
		t.Fatalf("unknown order should 404, got %v", err)
	}
}

func TestMarkPaidUnifiedTransition(t *testing.T) {
	db := newTestDB(t)
	seedCheckout(t, db)
	svc := newOrderService(db, payments.FakeGateway{})
	sink := &recordingSink{}
	svc.Events = sink

	order, err := svc.Checkout("buyer")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if err := svc.MarkPaid(order.ID, domain.MethodStripe, "pi_123", ""); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	stored, err := repos.NewOrderRepo(db).Get(order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.StatusPaid || !stored.Payment.IsPaid {
		t.Fatalf("order not paid: %+v", stored)
	}
	if stored.Payment.Method != domain.MethodStripe || stored.Payment.TransactionID != "pi_123" {
		t.Fatalf("payment record wrong: %+v", stored.Payment)
	}
	if stored.Payment.PaidAt == "" {
		t.Fatal("paid_at not set")
	}
	if len(sink.paid) != 1 || sink.paid[0].OrderID != order.ID {
		t.Fatalf("order-paid event missing: %+v", sink.paid)
	}

	if err := svc.MarkPaid("ghost", domain.MethodPayPal, "cap_1", ""); errStatus(err) != 404 {
		t.Fatalf("unknown order should 404, got %v", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seedCheckout(t, db)
	svc := newOrderService(db, payments.FakeGateway{})

	first, err := svc.Checkout("buyer")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	carts := repos.NewCartRepo(db)
	if err := carts.UpsertItem("buyer", "p2", 1); err != nil {
		t.Fatalf("cart seed: %v", err)
	}
	// Force distinct timestamps so the ordering is deterministic.
	if _, err := db.Exec(`UPDATE orders SET created_at = datetime(created_at, '-1 hour') WHERE id=?`, first.ID); err != nil {
		t.Fatalf("backdate: %v", err)
	}
	second, err := svc.Checkout("buyer")
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	mine, err := svc.ListMine("buyer")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", mine)
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
}
