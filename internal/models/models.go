package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User represents a registered account
type User struct {
	ID           string    `db:"id" json:"userId"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Product represents a product in the catalog
type Product struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Price       float64    `db:"price" json:"price"`
	Image       string     `db:"image" json:"image,omitempty"`
	Category    string     `db:"category" json:"category"`
	Sizes       StringList `db:"sizes" json:"sizes"`
	Colors      StringList `db:"colors" json:"colors"`
	Stock       int        `db:"stock" json:"stock"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// Cart is the single per-user aggregate holding all cart lines.
// It is always persisted as one unit (whole-document replace).
type Cart struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Items     CartItems `db:"items" json:"items"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Total is derived, never stored.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// CartItem is one line in a cart. Name/price/image are snapshots taken from
// the product at the time of the last add/update, not live joins.
type CartItem struct {
	ItemID    string  `json:"itemId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Order is the immutable record created at checkout. Items and totalAmount
// never change after creation; only status, paymentReference,
// checkoutSessionId and updatedAt may be updated.
type Order struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"userId"`
	Items             OrderItems `db:"items" json:"items"`
	TotalAmount       float64    `db:"total_amount" json:"totalAmount"`
	Status            string     `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
	PaymentReference  string     `db:"payment_reference" json:"paymentReference,omitempty"`
	CheckoutSessionID string     `db:"checkout_session_id" json:"checkoutSessionId,omitempty"`
}

// OrderItem is a frozen copy of a cart line, decoupled from live product
// state so historical orders survive later product edits or deletes.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Subtotal for a single line.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// StringList is a []string stored as a JSONB column.
type StringList []string

// CartItems is a []CartItem stored as a JSONB column.
type CartItems []CartItem

// OrderItems is a []OrderItem stored as a JSONB column.
type OrderItems []OrderItem

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func (l CartItems) Value() (driver.Value, error) {
	if l == nil {
		l = CartItems{}
	}
	return json.Marshal(l)
}

func (l *CartItems) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func (l OrderItems) Value() (driver.Value, error) {
	if l == nil {
		l = OrderItems{}
	}
	return json.Marshal(l)
}

func (l *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported scan type %T for JSON column", src)
	}
}
