package services

import (
	"testing"

	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/repos"
)

func newCatalogFixture(t *testing.T) *CatalogService {
	db := newTestDB(t)
	seedUser(t, db, "seller", domain.RoleSeller)
	seedUser(t, db, "other", domain.RoleSeller)
	seedUser(t, db, "boss", domain.RoleAdmin)
	return NewCatalogService(repos.NewProductRepo(db))
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc := newCatalogFixture(t)
	seller := Caller{ID: "seller", Role: domain.RoleSeller}

	p, err := svc.Create(seller, ProductInput{Name: "Widget", Price: 9.99, Stock: 3, Category: "tools"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.SellerID != "seller" || !p.IsPublished {
		t.Fatalf("unexpected product: %+v", p)
	}

	got, err := svc.Get(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Widget" {
		t.Fatalf("name = %q", got.Name)
	}

	if _, err := svc.Get("ghost"); errStatus(err) != 404 {
		t.Fatalf("unknown id should 404, got %v", err)
	}
	if _, err := svc.Create(seller, ProductInput{Name: "", Price: 1}); errStatus(err) != 400 {
		t.Fatalf("empty name should 400, got %v", err)
	}
	if _, err := svc.Create(seller, ProductInput{Name: "X", Price: -1}); errStatus(err) != 400 {
		t.Fatalf("negative price should 400, got %v", err)
	}
}

func TestCatalogOwnershipChecks(t *testing.T) {
	svc := newCatalogFixture(t)
	seller := Caller{ID: "seller", Role: domain.RoleSeller}
	other := Caller{ID: "other", Role: domain.RoleSeller}
	admin := Caller{ID: "boss", Role: domain.RoleAdmin}

	p, err := svc.Create(seller, ProductInput{Name: "Widget", Price: 9.99, Stock: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed"
	if _, err := svc.Update(p.ID, other, domain.ProductPatch{Name: &name}); errStatus(err) != 403 {
		t.Fatalf("foreign seller should 403, got %v", err)
	}
	// Unknown id is 404 even for a caller who could not have owned it.
	if _, err := svc.Update("ghost", other, domain.ProductPatch{Name: &name}); errStatus(err) != 404 {
		t.Fatalf("unknown id should 404, got %v", err)
	}

	updated, err := svc.Update(p.ID, admin, domain.ProductPatch{Name: &name})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name = %q", updated.Name)
	}
	// Fields absent from the patch are retained.
	if updated.Price != 9.99 || updated.Stock != 3 {
		t.Fatalf("partial update clobbered fields: %+v", updated)
	}

	if err := svc.Delete(p.ID, other); errStatus(err) != 403 {
		t.Fatalf("foreign delete should 403, got %v", err)
	}
	if err := svc.Delete(p.ID, seller); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(p.ID); errStatus(err) != 404 {
		t.Fatalf("deleted product should 404, got %v", err)
	}
}
