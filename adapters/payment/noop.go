package payment

import (
	"context"
	"errors"

	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/ports"
)

// ErrPaymentsDisabled is returned when no gateway is configured.
var ErrPaymentsDisabled = errors.New("payments are not configured")

// NoopProvider rejects every checkout. Used when no gateway is
// configured so the catalog keeps working without payments.
type NoopProvider struct{}

// NewNoopProvider creates a no-op payment provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Name returns the provider name.
func (p *NoopProvider) Name() string {
	return "none"
}

// CheckoutURL always fails.
func (p *NoopProvider) CheckoutURL(ctx context.Context, o order.Order) (string, error) {
	return "", ErrPaymentsDisabled
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*NoopProvider)(nil)
