package services

import (
	"database/sql"
	"errors"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add merges the product into the user's cart, incrementing the existing line
// quantity on a duplicate add.
func (s *CartService) Add(userID, productID string, qty int) error {
	if productID == "" || qty < 1 {
		return apperr.BadRequest("Product ID and valid quantity are required")
	}
	if _, err := s.Prods.Get(productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Product not found")
		}
		return apperr.Internal("Could not update cart", err)
	}
	if err := s.Carts.UpsertItem(userID, productID, qty); err != nil {
		return apperr.Internal("Could not update cart", err)
	}
	return nil
}

type CartView struct {
	Items []repos.CartItemRow `json:"items"`
	Total float64             `json:"total"`
}

// View returns the cart with product summaries expanded. A missing cart is an
// explicit empty shape, not an error.
func (s *CartService) View(userID string) (CartView, error) {
	items, total, err := s.Carts.View(userID)
	if err != nil {
		return CartView{}, apperr.Internal("Failed to retrieve cart", err)
	}
	return CartView{Items: items, Total: total}, nil
}
