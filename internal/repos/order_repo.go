package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/deputyJo/ironcart-backend/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// orderRow is the flat scan target; payment columns fold into the nested
// domain.Payment on the way out.
type orderRow struct {
	ID            string  `db:"id"`
	UserID        string  `db:"user_id"`
	TotalAmount   float64 `db:"total_amount"`
	Status        string  `db:"status"`
	IsPaid        bool    `db:"is_paid"`
	PaidAt        string  `db:"paid_at"`
	Method        string  `db:"method"`
	TransactionID string  `db:"transaction_id"`
	PayerEmail    string  `db:"payer_email"`
	CreatedAt     string  `db:"created_at"`
}

const orderCols = `id, user_id, total_amount, status, is_paid,
  COALESCE(paid_at,'') AS paid_at, method,
  COALESCE(transaction_id,'') AS transaction_id,
  COALESCE(payer_email,'') AS payer_email, created_at`

func (row orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:          row.ID,
		UserID:      row.UserID,
		TotalAmount: row.TotalAmount,
		Status:      row.Status,
		Payment: domain.Payment{
			IsPaid:        row.IsPaid,
			PaidAt:        row.PaidAt,
			Method:        row.Method,
			TransactionID: row.TransactionID,
			PayerEmail:    row.PayerEmail,
		},
		CreatedAt: row.CreatedAt,
	}
}

// Create inserts the order header.
func (r *OrderRepo) Create(o *domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id, user_id, total_amount, status, is_paid, method)
	  VALUES(?,?,?,?,?,?)
	`, o.ID, o.UserID, o.TotalAmount, o.Status, o.Payment.IsPaid, o.Payment.Method)
	return err
}

// InsertItem inserts a single priced line snapshot.
func (r *OrderRepo) InsertItem(orderID string, it domain.OrderItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, name, quantity, price)
	  VALUES(?,?,?,?,?)
	`, orderID, it.ProductID, it.Name, it.Quantity, it.Price)
	return err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `SELECT `+orderCols+` FROM orders WHERE id=?`, id); err != nil {
		return domain.Order{}, err
	}
	o := row.toDomain()
	items, err := r.Items(id)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) Items(orderID string) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.db.Select(&out, `
	  SELECT product_id, name, quantity, price FROM order_items WHERE order_id=?
	`, orderID)
	return out, err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders WHERE user_id=? ORDER BY datetime(created_at) DESC
	`, userID); err != nil {
		return nil, err
	}
	return r.withItems(rows)
}

func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders ORDER BY datetime(created_at) DESC
	`); err != nil {
		return nil, err
	}
	return r.withItems(rows)
}

func (r *OrderRepo) withItems(rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o := row.toDomain()
		items, err := r.Items(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
		out = append(out, o)
	}
	return out, nil
}

// UpdateStatus overwrites the status; no sequencing is enforced. Returns
// false when the order does not exist.
func (r *OrderRepo) UpdateStatus(id, status string) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET status=? WHERE id=?`, status, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkPaid is the single Pending -> Paid transition used by both the Stripe
// webhook and the PayPal capture path. Returns false when the order is
// unknown.
func (r *OrderRepo) MarkPaid(id, method, transactionID, payerEmail string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status='Paid', is_paid=1, paid_at=CURRENT_TIMESTAMP,
	    method=?, transaction_id=?, payer_email=?
	  WHERE id=?
	`, method, transactionID, payerEmail, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
