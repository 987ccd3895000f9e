package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/repos"
)

// Caller identifies the authenticated principal for ownership checks.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) canManage(p domain.Product) bool {
	return c.Role == domain.RoleAdmin || c.ID == p.SellerID
}

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *CatalogService) Create(caller Caller, in ProductInput) (*domain.Product, error) {
	if in.Name == "" {
		return nil, apperr.BadRequest("Product name is required")
	}
	if in.Price < 0 {
		return nil, apperr.BadRequest("Price must not be negative")
	}
	if in.Stock < 0 {
		return nil, apperr.BadRequest("Stock must not be negative")
	}
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		SellerID:    caller.ID,
		IsPublished: published,
	}
	if err := s.Prods.Create(p); err != nil {
		return nil, apperr.Internal("Could not create product", err)
	}
	return p, nil
}

func (s *CatalogService) List() ([]domain.Product, error) {
	out, err := s.Prods.List()
	if err != nil {
		return nil, apperr.Internal("Could not retrieve products", err)
	}
	return out, nil
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperr.NotFound("Product not found")
	}
	if err != nil {
		return domain.Product{}, apperr.Internal("Failed to retrieve product", err)
	}
	return p, nil
}

func (s *CatalogService) ListBySeller(sellerID string) ([]domain.Product, error) {
	out, err := s.Prods.ListBySeller(sellerID)
	if err != nil {
		return nil, apperr.Internal("Could not retrieve products", err)
	}
	return out, nil
}

// Update applies a partial overwrite after the 404-then-403 ownership check.
func (s *CatalogService) Update(id string, caller Caller, patch domain.ProductPatch) (domain.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if !caller.canManage(p) {
		return domain.Product{}, apperr.Forbidden("Only the owning seller or an admin may modify this product")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return domain.Product{}, apperr.BadRequest("Price must not be negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return domain.Product{}, apperr.BadRequest("Stock must not be negative")
	}
	if err := s.Prods.Update(id, patch); err != nil {
		return domain.Product{}, apperr.Internal("Could not update product", err)
	}
	return s.Get(id)
}

func (s *CatalogService) Delete(id string, caller Caller) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	if !caller.canManage(p) {
		return apperr.Forbidden("Only the owning seller or an admin may delete this product")
	}
	if err := s.Prods.Delete(id); err != nil {
		return apperr.Internal("Could not delete product", err)
	}
	return nil
}
