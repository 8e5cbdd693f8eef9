package service

import (
	"context"
	"errors"
	"testing"

	"storefront-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture(gateway PaymentGateway, successURL, cancelURL string) (*PaymentService, *fakeOrderStore) {
	orders := newFakeOrderStore()
	orderSvc := NewOrderService(orders, nil)
	return NewPaymentService(orderSvc, gateway, successURL, cancelURL, "pk_test_abc"), orders
}

func placePendingOrder(t *testing.T, orders *fakeOrderStore, userID string) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:      userID,
		Items:       models.OrderItems{{ProductID: "p1", Name: "Tee", Price: 10.00, Quantity: 1}},
		TotalAmount: 10.00,
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, orders.InsertOrder(context.Background(), order))
	return order
}

func TestCreateCheckoutSession(t *testing.T) {
	gateway := &fakeGateway{session: &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}}
	svc, orders := newPaymentFixture(gateway, "https://shop.example.com/success", "https://shop.example.com/cancel")
	order := placePendingOrder(t, orders, "u1")

	result, err := svc.CreateCheckoutSession(context.Background(), "u1", order.ID, "", "")
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.example.com/cs_test_1", result.CheckoutURL)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.Equal(t, "pk_test_abc", result.PublishableKey)

	// Order id is appended for redirect correlation
	assert.Equal(t, "https://shop.example.com/success?orderId="+order.ID, gateway.successURL)
	assert.Equal(t, "https://shop.example.com/cancel?orderId="+order.ID, gateway.cancelURL)

	stored, err := orders.GetOrderByID(context.Background(), order.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", stored.CheckoutSessionID)
}

func TestCreateCheckoutSessionRequestURLsWin(t *testing.T) {
	gateway := &fakeGateway{session: &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}}
	svc, orders := newPaymentFixture(gateway, "https://shop.example.com/success", "https://shop.example.com/cancel")
	order := placePendingOrder(t, orders, "u1")

	_, err := svc.CreateCheckoutSession(context.Background(), "u1", order.ID,
		"https://other.example.com/ok?src=app", "https://other.example.com/no")
	require.NoError(t, err)

	assert.Equal(t, "https://other.example.com/ok?src=app&orderId="+order.ID, gateway.successURL)
	assert.Equal(t, "https://other.example.com/no?orderId="+order.ID, gateway.cancelURL)
}

func TestCreateCheckoutSessionNoGateway(t *testing.T) {
	svc, orders := newPaymentFixture(nil, "https://s", "https://c")
	order := placePendingOrder(t, orders, "u1")

	_, err := svc.CreateCheckoutSession(context.Background(), "u1", order.ID, "", "")
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestCreateCheckoutSessionOrderNotFound(t *testing.T) {
	gateway := &fakeGateway{session: &CheckoutSession{ID: "cs", URL: "https://u"}}
	svc, _ := newPaymentFixture(gateway, "https://s", "https://c")

	_, err := svc.CreateCheckoutSession(context.Background(), "u1", "nope", "", "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCreateCheckoutSessionOtherUsersOrder(t *testing.T) {
	gateway := &fakeGateway{session: &CheckoutSession{ID: "cs", URL: "https://u"}}
	svc, orders := newPaymentFixture(gateway, "https://s", "https://c")
	order := placePendingOrder(t, orders, "u1")

	_, err := svc.CreateCheckoutSession(context.Background(), "u2", order.ID, "", "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCreateCheckoutSessionMissingRedirectURLs(t *testing.T) {
	gateway := &fakeGateway{session: &CheckoutSession{ID: "cs", URL: "https://u"}}
	svc, orders := newPaymentFixture(gateway, "", "")
	order := placePendingOrder(t, orders, "u1")

	_, err := svc.CreateCheckoutSession(context.Background(), "u1", order.ID, "", "")
	assert.ErrorIs(t, err, ErrMissingRedirectURLs)
}

func TestCreateCheckoutSessionGatewayFailure(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("stripe unavailable")}
	svc, orders := newPaymentFixture(gateway, "https://s", "https://c")
	order := placePendingOrder(t, orders, "u1")

	_, err := svc.CreateCheckoutSession(context.Background(), "u1", order.ID, "", "")

	var gatewayErr *GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.ErrorContains(t, gatewayErr.Err, "stripe unavailable")

	stored, err := orders.GetOrderByID(context.Background(), order.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.CheckoutSessionID)
}
