package service

import (
	"context"
	"strings"

	"storefront-api/internal/util"

	"go.uber.org/zap"
)

// PaymentService orchestrates checkout-session creation against the
// configured gateway and correlates the session back to the order.
type PaymentService struct {
	orders         *OrderService
	gateway        PaymentGateway
	successURL     string
	cancelURL      string
	publishableKey string
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service. gateway is nil when no
// provider is configured; session creation then fails with
// ErrGatewayNotConfigured.
func NewPaymentService(orders *OrderService, gateway PaymentGateway, successURL, cancelURL, publishableKey string) *PaymentService {
	return &PaymentService{
		orders:         orders,
		gateway:        gateway,
		successURL:     successURL,
		cancelURL:      cancelURL,
		publishableKey: publishableKey,
		logger:         util.GetLogger(),
	}
}

// CheckoutSessionResult is returned to the client to start the hosted
// payment flow
type CheckoutSessionResult struct {
	CheckoutURL    string `json:"checkoutUrl"`
	SessionID      string `json:"sessionId"`
	PublishableKey string `json:"publishableKey,omitempty"`
}

// CreateCheckoutSession creates a hosted payment session for the caller's
// order. Per-request URL overrides win over configured defaults; the order
// id is appended to both so the redirect pages can correlate.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID, orderID, successURL, cancelURL string) (*CheckoutSessionResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreateCheckoutSession")
	defer span.End()

	if s.gateway == nil {
		return nil, ErrGatewayNotConfigured
	}

	order, err := s.orders.GetOrderByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	successURL = firstNonEmpty(successURL, s.successURL)
	cancelURL = firstNonEmpty(cancelURL, s.cancelURL)
	if successURL == "" || cancelURL == "" {
		return nil, ErrMissingRedirectURLs
	}

	successURL = appendQuery(successURL, "orderId="+order.ID)
	cancelURL = appendQuery(cancelURL, "orderId="+order.ID)

	session, err := s.gateway.CreateCheckoutSession(ctx, order, successURL, cancelURL)
	if err != nil {
		util.CheckoutSessionsFailedTotal.Inc()
		return nil, &GatewayError{Err: err}
	}

	if _, err := s.orders.AttachCheckoutSession(ctx, order.ID, session.ID); err != nil {
		s.logger.Error("Failed to attach checkout session to order",
			zap.String("order_id", order.ID),
			zap.String("session_id", session.ID),
			zap.Error(err))
		return nil, err
	}

	util.CheckoutSessionsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.String("order_id", order.ID),
		zap.String("session_id", session.ID))

	return &CheckoutSessionResult{
		CheckoutURL:    session.URL,
		SessionID:      session.ID,
		PublishableKey: s.publishableKey,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func appendQuery(url, query string) string {
	if strings.Contains(url, "?") {
		return url + "&" + query
	}
	return url + "?" + query
}
