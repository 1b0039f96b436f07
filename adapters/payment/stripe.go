package payment

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/ports"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// StripeProvider implements ports.PaymentProvider for Stripe hosted
// checkout.
type StripeProvider struct {
	config StripeConfig
}

// NewStripeProvider creates a new Stripe payment provider.
func NewStripeProvider(config StripeConfig) *StripeProvider {
	stripe.Key = config.SecretKey
	return &StripeProvider{config: config}
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CheckoutURL creates a one-time-payment Checkout session for an
// order and returns its hosted URL. The amount is already discounted.
func (p *StripeProvider) CheckoutURL(ctx context.Context, o order.Order) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.config.SuccessURL),
		CancelURL:  stripe.String(p.config.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(string(o.Currency))),
					UnitAmount: stripe.Int64(toMinorUnits(o.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("eSIM " + o.PackageSlug),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if o.Email != "" {
		params.CustomerEmail = stripe.String(o.Email)
	}
	params.AddMetadata("order_id", o.ID)

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// ParseEvent parses and validates a Stripe webhook payload.
func (p *StripeProvider) ParseEvent(payload []byte, signature string) (string, map[string]any, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.config.WebhookSecret)
	if err != nil {
		return "", nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(event.Data.Raw, &data); err != nil {
		return "", nil, err
	}

	return string(event.Type), data, nil
}

// toMinorUnits converts a decimal amount to gateway minor units
// (cents). Rounding matches the displayed 2-decimal price.
func toMinorUnits(v float64) int64 {
	return int64(v*100 + 0.5)
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*StripeProvider)(nil)
