package repos

import (
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartItemRow is a cart line expanded with a product summary.
type CartItemRow struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Price     float64 `db:"price" json:"price"`
	Qty       int     `db:"qty" json:"quantity"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

func (r *CartRepo) ensure(userID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO carts(user_id, updated_at) VALUES(?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	`, userID)
	return err
}

// UpsertItem creates the cart lazily and merges duplicate product adds into a
// single line by incrementing its quantity.
func (r *CartRepo) UpsertItem(userID, productID string, qty int) error {
	if err := r.ensure(userID); err != nil {
		return err
	}
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(user_id, product_id, qty, created_at)
	  VALUES(?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, product_id) DO UPDATE
	  SET qty = qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, userID, productID, qty)
	return err
}

// View returns the cart lines joined with current product data. A user with
// no cart gets an empty slice, not an error.
func (r *CartRepo) View(userID string) ([]CartItemRow, float64, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.product_id, p.name, p.price, ci.qty, (ci.qty*p.price) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY datetime(ci.created_at)
	`, userID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

// Clear removes the whole cart document; cart_items cascade.
func (r *CartRepo) Clear(userID string) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE user_id = ?`, userID)
	return err
}
