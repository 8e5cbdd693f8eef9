package store

import (
	"context"
	"database/sql"

	"storefront-api/internal/models"

	"github.com/google/uuid"
)

// InsertOrder creates a new order. Items and total are written once and
// never touched by any other store operation.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Items == nil {
		order.Items = models.OrderItems{}
	}

	query := `
		INSERT INTO orders (id, user_id, items, total_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	row := s.db.QueryRowxContext(ctx, query,
		order.ID, order.UserID, order.Items, order.TotalAmount, order.Status)
	return row.Scan(&order.CreatedAt, &order.UpdatedAt)
}

// GetOrderByID retrieves an order, nil when absent. A non-empty userID
// additionally scopes the lookup to that owner.
func (s *Store) GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error) {
	var order models.Order
	var err error
	if userID == "" {
		err = s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", orderID)
	} else {
		err = s.db.GetContext(ctx, &order,
			"SELECT * FROM orders WHERE id = $1 AND user_id = $2", orderID, userID)
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUserID retrieves a user's orders, most recent first
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// UpdateOrderStatus sets status (and paymentReference when non-empty) and
// returns the updated order, nil when the order no longer exists.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status, paymentReference string) (*models.Order, error) {
	var order models.Order
	var err error
	if paymentReference == "" {
		err = s.db.GetContext(ctx, &order,
			"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING *",
			status, orderID)
	} else {
		err = s.db.GetContext(ctx, &order,
			"UPDATE orders SET status = $1, payment_reference = $2, updated_at = NOW() WHERE id = $3 RETURNING *",
			status, paymentReference, orderID)
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AttachCheckoutSession stores the payment gateway session id so a later
// confirmation can correlate back to the order. Nil when the order is gone.
func (s *Store) AttachCheckoutSession(ctx context.Context, orderID, sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"UPDATE orders SET checkout_session_id = $1, updated_at = NOW() WHERE id = $2 RETURNING *",
		sessionID, orderID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
