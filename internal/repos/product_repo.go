package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/deputyJo/ironcart-backend/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, COALESCE(description,'') AS description, price, stock,
  COALESCE(category,'') AS category, seller_id, is_published,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Create(p *domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, price, stock, category, seller_id, is_published)
	  VALUES(?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.SellerID, p.IsPublished)
	return err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id=?`, id)
	return p, err
}

func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY datetime(created_at) DESC`)
	return out, err
}

func (r *ProductRepo) ListBySeller(sellerID string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products WHERE seller_id=? ORDER BY datetime(created_at) DESC
	`, sellerID)
	return out, err
}

// Update applies a partial overwrite; nil patch fields retain stored values.
func (r *ProductRepo) Update(id string, patch domain.ProductPatch) error {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.IsPublished != nil {
		add("is_published", *patch.IsPublished)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	q := "UPDATE products SET " + set[0]
	for _, s := range set[1:] {
		q += ", " + s
	}
	q += " WHERE id = ?"
	args = append(args, id)
	_, err := r.db.Exec(q, args...)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}

func (r *ProductRepo) Stock(id string) (int, error) {
	var stock int
	err := r.db.Get(&stock, `SELECT stock FROM products WHERE id=?`, id)
	return stock, err
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
// Returns an error if there isn't sufficient stock, leaving the row intact.
func (r *ProductRepo) DecrementStock(id string, by int) error {
	res, err := r.db.Exec(`
	  UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for %s", id)
	}
	return nil
}
