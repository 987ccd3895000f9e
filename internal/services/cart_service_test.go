package services

import (
	"testing"

	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/repos"
)

func TestCartAddMergesDuplicateLines(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "buyer", domain.RoleCustomer)
	seedUser(t, db, "seller", domain.RoleSeller)
	seedProduct(t, db, "p1", "seller", "Widget", 9.99, 10)

	svc := NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	if err := svc.Add("buyer", "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add("buyer", "p1", 3); err != nil {
		t.Fatalf("second add: %v", err)
	}

	view, err := svc.View("buyer")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(view.Items))
	}
	if view.Items[0].Qty != 5 {
		t.Fatalf("qty = %d, want 5", view.Items[0].Qty)
	}
	if want := 5 * 9.99; view.Total != want {
		t.Fatalf("total = %v, want %v", view.Total, want)
	}
}

func TestCartAddValidation(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "buyer", domain.RoleCustomer)
	svc := NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	if err := svc.Add("buyer", "", 1); errStatus(err) != 400 {
		t.Fatalf("empty product id should 400, got %v", err)
	}
	if err := svc.Add("buyer", "p1", 0); errStatus(err) != 400 {
		t.Fatalf("zero qty should 400, got %v", err)
	}
	if err := svc.Add("buyer", "ghost", 1); errStatus(err) != 404 {
		t.Fatalf("unknown product should 404, got %v", err)
	}
}

func TestCartViewEmpty(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "buyer", domain.RoleCustomer)
	svc := NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	view, err := svc.View("buyer")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Items) != 0 || view.Total != 0 {
		t.Fatalf("expected empty cart shape, got %+v", view)
	}
}
