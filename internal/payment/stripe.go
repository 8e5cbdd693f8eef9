package payment

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"storefront-api/internal/models"
	"storefront-api/internal/service"
	"storefront-api/internal/util"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

const maxImageURLLength = 2048

// StripeGateway implements service.PaymentGateway on Stripe's hosted
// checkout. The API key is injected at construction; the process-global
// stripe.Key is never touched.
type StripeGateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeGateway creates a gateway bound to the given secret key
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		api:    api,
		logger: util.GetLogger(),
	}
}

// CreateCheckoutSession builds a card-payment session from the order
// snapshot and returns Stripe's session id and hosted URL.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, order *models.Order, successURL, cancelURL string) (*service.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if image, ok := resolveImageURL(item.Image); ok {
			productData.Images = stripe.StringSlice([]string{image})
		} else if item.Image != "" {
			g.logger.Warn("Skipping invalid image URL for checkout line item",
				zap.String("order_id", order.ID),
				zap.String("product_id", item.ProductID))
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount:  stripe.Int64(toCents(item.Price)),
				ProductData: productData,
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
		ClientReferenceID:  stripe.String(order.ID),
		LineItems:          lineItems,
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	return &service.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// Stripe rejects non-absolute or overlong image URLs, so anything that
// does not look like a plain http(s) URL is dropped.
func resolveImageURL(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > maxImageURLLength {
		return "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", false
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}

	return parsed.String(), true
}
