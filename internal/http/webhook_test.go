package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/http/handlers"
	"github.com/deputyJo/ironcart-backend/internal/payments"
	"github.com/deputyJo/ironcart-backend/internal/repos"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

// sigCheckout verifies that the handler passes the raw body and signature
// header through untouched.
type sigCheckout struct {
	wantBody []byte
	wantSig  string
	result   payments.WebhookResult
}

func (f *sigCheckout) CreateSession([]payments.CheckoutItem, string) (string, error) {
	return "https://checkout.test/session", nil
}

func (f *sigCheckout) ParseWebhook(payload []byte, sig string) (payments.WebhookResult, error) {
	if !bytes.Equal(payload, f.wantBody) || sig != f.wantSig {
		return payments.WebhookResult{}, errors.New("signature mismatch")
	}
	return f.result, nil
}

type noPayPal struct{}

func (noPayPal) CreateOrder(context.Context, float64, string, string, string, string) (string, error) {
	return "", errors.New("unused")
}

func (noPayPal) CaptureOrder(context.Context, string) (payments.CaptureResult, error) {
	return payments.CaptureResult{}, errors.New("unused")
}

func seedPendingOrder(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	if _, err := db.Exec(`
	  INSERT INTO users(id, username, email, password_hash, role, verified)
	  VALUES('buyer','buyeruser','buyer@example.com','$2a$10$x','customer',1)
	`); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := db.Exec(`
	  INSERT INTO orders(id, user_id, total_amount, status, is_paid, method)
	  VALUES('ord-1','buyer',25.00,'Pending',0,'Stripe Checkout')
	`); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return "ord-1"
}

func TestWebhookEndpoint(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	orderID := seedPendingOrder(t, db)

	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	checkout := &sigCheckout{
		wantBody: body,
		wantSig:  "t=1,v1=abc",
		result:   payments.WebhookResult{OrderID: orderID, TransactionID: "pi_77", Completed: true},
	}

	cartRepo := repos.NewCartRepo(db)
	orderSvc := services.NewOrderService(cartRepo, repos.NewProductRepo(db), repos.NewOrderRepo(db), payments.FakeGateway{})
	paySvc := services.NewPaymentService(orderSvc, cartRepo, checkout, noPayPal{}, "https://shop.test")

	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(false)})
	webhookH := &handlers.WebhookHandler{Payments: paySvc}
	app.Post("/webhook", webhookH.Stripe)

	// Wrong signature header rejects with 400.
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=wrong")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad signature: expected 400, got %d", resp.StatusCode)
	}

	// Valid event settles the order.
	req = httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook: expected 200, got %d", resp.StatusCode)
	}

	order, err := repos.NewOrderRepo(db).Get(orderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.Status != domain.StatusPaid || order.Payment.TransactionID != "pi_77" {
		t.Fatalf("order not settled: %+v", order)
	}
}

func TestAdminUsersHidePasswordHash(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	seedPendingOrder(t, db)

	userRepo := repos.NewUserRepo(db)
	adminH := &handlers.AdminHandler{Users: userRepo}

	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(false)})
	app.Get("/admin/all-users", adminH.AllUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/all-users", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte("$2a$10$x")) {
		t.Fatal("password hash serialized in admin listing")
	}
	if !bytes.Contains(buf.Bytes(), []byte("buyer@example.com")) {
		t.Fatal("user missing from listing")
	}
}
