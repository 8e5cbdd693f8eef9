package service

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/models"
	"storefront-api/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore persists order documents
type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status, paymentReference string) (*models.Order, error)
	AttachCheckoutSession(ctx context.Context, orderID, sessionID string) (*models.Order, error)
}

// OrderService converts carts into immutable order records and manages the
// post-creation status lifecycle: pending -> paid, pending -> cancelled,
// both terminal.
type OrderService struct {
	orders    OrderStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. publisher may be nil when no
// broker is configured.
func NewOrderService(orders OrderStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateOrder snapshots the cart into a new pending order. It does not
// clear the source cart; the checkout flow does that afterwards, and order
// creation is the durable commit point if clearing fails.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, cart *models.Cart) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make(models.OrderItems, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
			Image:     line.Image,
		})
	}

	order := &models.Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: cart.Total(),
		Status:      models.OrderStatusPending,
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total_amount", order.TotalAmount))

	s.publish(ctx, func(p EventPublisher) error {
		return p.PublishOrderCreated(ctx, &models.OrderCreatedEvent{
			BaseEvent:   newBaseEvent(models.EventTypeOrderCreated),
			OrderID:     order.ID,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount,
			Items:       order.Items,
		})
	})

	return order, nil
}

// GetOrdersForUser returns the user's orders, most recent first
func (s *OrderService) GetOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.GetOrdersByUserID(ctx, userID)
}

// GetOrderByID returns the order, nil when absent. A non-empty userID
// scopes the lookup to that owner, so another user's order reads as
// not found rather than forbidden.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error) {
	return s.orders.GetOrderByID(ctx, orderID, userID)
}

// UpdateStatus applies a status transition. Only pending -> paid and
// pending -> cancelled are accepted; paid and cancelled are terminal.
// Returns nil, nil when the order no longer exists.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status, paymentReference string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	current, err := s.orders.GetOrderByID(ctx, orderID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	if !transitionAllowed(current.Status, status) {
		s.logger.Warn("Rejected order status transition",
			zap.String("order_id", orderID),
			zap.String("from", current.Status),
			zap.String("to", status))
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, orderID, status, paymentReference)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if updated == nil {
		return nil, nil
	}

	switch status {
	case models.OrderStatusPaid:
		util.OrdersPaidTotal.Inc()
		s.publish(ctx, func(p EventPublisher) error {
			return p.PublishOrderPaid(ctx, &models.OrderPaidEvent{
				BaseEvent:        newBaseEvent(models.EventTypeOrderPaid),
				OrderID:          updated.ID,
				UserID:           updated.UserID,
				TotalAmount:      updated.TotalAmount,
				PaymentReference: updated.PaymentReference,
			})
		})
	case models.OrderStatusCancelled:
		util.OrdersCancelledTotal.Inc()
		s.publish(ctx, func(p EventPublisher) error {
			return p.PublishOrderCancelled(ctx, &models.OrderCancelledEvent{
				BaseEvent: newBaseEvent(models.EventTypeOrderCancelled),
				OrderID:   updated.ID,
				UserID:    updated.UserID,
			})
		})
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", status))
	return updated, nil
}

// AttachCheckoutSession records the gateway session id on the order.
// Returns nil, nil when the order no longer exists.
func (s *OrderService) AttachCheckoutSession(ctx context.Context, orderID, sessionID string) (*models.Order, error) {
	return s.orders.AttachCheckoutSession(ctx, orderID, sessionID)
}

func transitionAllowed(from, to string) bool {
	if from != models.OrderStatusPending {
		return false
	}
	return to == models.OrderStatusPaid || to == models.OrderStatusCancelled
}

func (s *OrderService) publish(ctx context.Context, fn func(EventPublisher) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(s.publisher); err != nil {
		s.logger.Error("Failed to publish order event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
