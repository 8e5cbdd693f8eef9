package service

import (
	"context"
	"io"

	"storefront-api/internal/models"
)

// CheckoutSession is a payment-provider-issued reference correlating a
// hosted payment page back to an order.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway creates hosted checkout sessions. The core never depends
// on a specific provider's client library.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, order *models.Order, successURL, cancelURL string) (*CheckoutSession, error)
}

// UploadResult is the remote location of an uploaded asset
type UploadResult struct {
	URL string `json:"url"`
}

// AssetUploader pushes binary assets to external storage
type AssetUploader interface {
	Upload(ctx context.Context, filename, contentType string, content io.Reader) (*UploadResult, error)
}

// EventPublisher is the outbound order-lifecycle event stream
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error
	PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error
}
