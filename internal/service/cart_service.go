package service

import (
	"context"
	"fmt"
	"strings"

	"storefront-api/internal/models"
	"storefront-api/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartStore persists the per-user cart aggregate
type CartStore interface {
	GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error)
	InsertCart(ctx context.Context, cart *models.Cart) error
	ReplaceCart(ctx context.Context, cart *models.Cart) error
}

// ProductReader looks up live product state for stock validation and
// snapshot refresh
type ProductReader interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
}

// CartService maintains exactly one cart per user and keeps its lines
// consistent with product availability at the moment of mutation. Stock
// checks are advisory: nothing is reserved between check and commit, and
// concurrent writers to the same cart race last-writer-wins.
type CartService struct {
	carts    CartStore
	products ProductReader
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts CartStore, products ProductReader) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   util.GetLogger(),
	}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access. Carts are never deleted afterwards, only cleared.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{
		UserID: userID,
		Items:  models.CartItems{},
	}
	if err := s.carts.InsertCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.Info("Cart created", zap.String("user_id", userID))
	return cart, nil
}

// AddItem adds quantity of a product variant to the cart. An existing line
// with the same (productId, size, color) tuple is incremented instead of
// duplicated; its name/price/image snapshot is refreshed either way.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int, size, color string) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Stock <= 0 {
		return nil, ErrOutOfStock
	}
	if quantity > product.Stock {
		return nil, ErrQuantityExceedsStock
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing := findLine(cart, productID, size, color); existing != nil {
		newQuantity := existing.Quantity + quantity
		if newQuantity > product.Stock {
			return nil, ErrQuantityExceedsStock
		}
		existing.Quantity = newQuantity
		refreshSnapshot(existing, product)
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ItemID:    uuid.New().String(),
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
			Image:     product.Image,
		})
	}

	if err := s.carts.ReplaceCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	return cart, nil
}

// UpdateItemQuantity sets a line's quantity, revalidating against current
// stock and refreshing the product snapshot.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateItemQuantity")
	defer span.End()

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var item *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			item = &cart.Items[i]
			break
		}
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	product, err := s.products.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if quantity > product.Stock {
		return nil, ErrQuantityExceedsStock
	}

	item.Quantity = quantity
	refreshSnapshot(item, product)

	if err := s.carts.ReplaceCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("update").Inc()
	return cart, nil
}

// RemoveItem deletes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ItemID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, ErrCartItemNotFound
	}
	cart.Items = kept

	if err := s.carts.ReplaceCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return cart, nil
}

// ClearCart empties the cart. Clearing an already-empty cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	ctx, span := util.StartSpan(ctx, "CartService.ClearCart")
	defer span.End()

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	cart.Items = models.CartItems{}
	if err := s.carts.ReplaceCart(ctx, cart); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// Line identity is the (productId, size, color) tuple; size and color
// compare case-insensitively.
func findLine(cart *models.Cart, productID, size, color string) *models.CartItem {
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ProductID == productID &&
			strings.EqualFold(item.Size, size) &&
			strings.EqualFold(item.Color, color) {
			return item
		}
	}
	return nil
}

func refreshSnapshot(item *models.CartItem, product *models.Product) {
	item.Name = product.Name
	item.Price = product.Price
	item.Image = product.Image
}
