package service

import (
	"context"
	"errors"
	"time"

	"storefront-api/internal/models"

	"github.com/google/uuid"
)

// In-memory stores emulating the database: they hand out copies, so state
// only changes through an explicit Insert/Replace.

type fakeCartStore struct {
	carts   map[string]*models.Cart
	inserts int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*models.Cart)}
}

func copyCart(c *models.Cart) *models.Cart {
	dup := *c
	dup.Items = append(models.CartItems{}, c.Items...)
	return &dup
}

func (f *fakeCartStore) GetCartByUserID(_ context.Context, userID string) (*models.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return nil, nil
	}
	return copyCart(cart), nil
}

func (f *fakeCartStore) InsertCart(_ context.Context, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	cart.UpdatedAt = time.Now().UTC()
	f.inserts++
	f.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (f *fakeCartStore) ReplaceCart(_ context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	for _, existing := range f.carts {
		if existing.ID == cart.ID {
			f.carts[existing.UserID] = copyCart(cart)
			return nil
		}
	}
	return errors.New("cart not found")
}

type fakeProductStore struct {
	products map[string]*models.Product
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{products: make(map[string]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	dup := *product
	return &dup, nil
}

type fakeOrderStore struct {
	orders map[string]*models.Order
	seq    int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func copyOrder(o *models.Order) *models.Order {
	dup := *o
	dup.Items = append(models.OrderItems{}, o.Items...)
	return &dup
}

func (f *fakeOrderStore) InsertOrder(_ context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Items == nil {
		order.Items = models.OrderItems{}
	}
	f.seq++
	now := time.Now().UTC().Add(time.Duration(f.seq) * time.Millisecond)
	order.CreatedAt = now
	order.UpdatedAt = now
	f.orders[order.ID] = copyOrder(order)
	return nil
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, orderID, userID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	if userID != "" && order.UserID != userID {
		return nil, nil
	}
	return copyOrder(order), nil
}

func (f *fakeOrderStore) GetOrdersByUserID(_ context.Context, userID string) ([]models.Order, error) {
	var result []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			result = append(result, *copyOrder(order))
		}
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, orderID, status, paymentReference string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	order.Status = status
	if paymentReference != "" {
		order.PaymentReference = paymentReference
	}
	f.seq++
	order.UpdatedAt = time.Now().UTC().Add(time.Duration(f.seq) * time.Millisecond)
	return copyOrder(order), nil
}

func (f *fakeOrderStore) AttachCheckoutSession(_ context.Context, orderID, sessionID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	order.CheckoutSessionID = sessionID
	f.seq++
	order.UpdatedAt = time.Now().UTC().Add(time.Duration(f.seq) * time.Millisecond)
	return copyOrder(order), nil
}

type fakePublisher struct {
	created   []*models.OrderCreatedEvent
	paid      []*models.OrderPaidEvent
	cancelled []*models.OrderCancelledEvent
	err       error
}

func (f *fakePublisher) PublishOrderCreated(_ context.Context, event *models.OrderCreatedEvent) error {
	f.created = append(f.created, event)
	return f.err
}

func (f *fakePublisher) PublishOrderPaid(_ context.Context, event *models.OrderPaidEvent) error {
	f.paid = append(f.paid, event)
	return f.err
}

func (f *fakePublisher) PublishOrderCancelled(_ context.Context, event *models.OrderCancelledEvent) error {
	f.cancelled = append(f.cancelled, event)
	return f.err
}

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return errors.New("duplicate email")
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	dup := *user
	f.byEmail[user.Email] = &dup
	f.byID[user.ID] = &dup
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	dup := *user
	return &dup, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	dup := *user
	return &dup, nil
}

type fakeGateway struct {
	session    *CheckoutSession
	err        error
	successURL string
	cancelURL  string
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, _ *models.Order, successURL, cancelURL string) (*CheckoutSession, error) {
	f.successURL = successURL
	f.cancelURL = cancelURL
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}
