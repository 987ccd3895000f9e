package domain

// Roles assignable to a user. Customer is the registration default; admin and
// seller are assigned out of band.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Order statuses. Forward progression Pending -> Paid -> Shipped -> Delivered
// is expected but not enforced on the admin update path.
const (
	StatusPending   = "Pending"
	StatusPaid      = "Paid"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
)

// Payment methods recorded on an order.
const (
	MethodFake   = "FakeGateway"
	MethodStripe = "Stripe Checkout"
	MethodPayPal = "PayPal"
)

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Stock       int     `db:"stock" json:"stock"`
	Category    string  `db:"category" json:"category"`
	SellerID    string  `db:"seller_id" json:"sellerId"`
	IsPublished bool    `db:"is_published" json:"isPublished"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt"`
}

// ProductPatch carries a partial update; nil fields retain the stored value.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	IsPublished *bool    `json:"isPublished"`
}

type Order struct {
	ID          string      `db:"id" json:"id"`
	UserID      string      `db:"user_id" json:"userId"`
	TotalAmount float64     `db:"total_amount" json:"totalAmount"`
	Status      string      `db:"status" json:"status"`
	Payment     Payment     `db:"payment" json:"payment"`
	Items       []OrderItem `json:"items,omitempty"`
	CreatedAt   string      `db:"created_at" json:"createdAt"`
}

// Payment is the mutable sub-record of an otherwise immutable order.
type Payment struct {
	IsPaid        bool   `db:"is_paid" json:"isPaid"`
	PaidAt        string `db:"paid_at" json:"paidAt,omitempty"`
	Method        string `db:"method" json:"method"`
	TransactionID string `db:"transaction_id" json:"transactionId,omitempty"`
	PayerEmail    string `db:"payer_email" json:"payerEmail,omitempty"`
}

// OrderItem snapshots product identity and price at purchase time, so later
// product edits do not retroactively alter historical orders.
type OrderItem struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
}
