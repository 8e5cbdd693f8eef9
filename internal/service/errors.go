package service

import "errors"

// Business-rule and not-found errors. Handlers translate these with
// errors.Is; anything else is an infrastructure failure and maps to a
// generic server error.
var (
	ErrProductNotFound         = errors.New("product not found")
	ErrOutOfStock              = errors.New("product is out of stock")
	ErrQuantityExceedsStock    = errors.New("requested quantity exceeds available stock")
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
	ErrEmailTaken              = errors.New("email is already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrUserNotFound            = errors.New("user not found")
	ErrGatewayNotConfigured    = errors.New("payment gateway is not configured")
	ErrMissingRedirectURLs     = errors.New("success and cancel URLs must be configured")
)

// GatewayError wraps a failure reported by the external payment provider,
// distinguished from internal failures at the HTTP boundary.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "payment gateway error: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
