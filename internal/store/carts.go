package store

import (
	"context"
	"database/sql"
	"time"

	"storefront-api/internal/models"

	"github.com/google/uuid"
)

// GetCartByUserID retrieves the user's cart, nil when absent.
// user_id is unique, so at most one row matches.
func (s *Store) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.GetContext(ctx, &cart, "SELECT * FROM carts WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// InsertCart creates a new cart for a user
func (s *Store) InsertCart(ctx context.Context, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	cart.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO carts (id, user_id, items, updated_at) VALUES ($1, $2, $3, $4)",
		cart.ID, cart.UserID, cart.Items, cart.UpdatedAt)
	return err
}

// ReplaceCart persists the whole aggregate. There is no version token:
// concurrent writers race and the last write wins.
func (s *Store) ReplaceCart(ctx context.Context, cart *models.Cart) error {
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	cart.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"UPDATE carts SET items = $1, updated_at = $2 WHERE id = $3",
		cart.Items, cart.UpdatedAt, cart.ID)
	return err
}
