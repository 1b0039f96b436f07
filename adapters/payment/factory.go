package payment

import (
	"fmt"

	"github.com/roamsim/storefront/ports"
)

// Providers holds the configured gateways keyed by provider name.
type Providers struct {
	Robokassa *RobokassaProvider
	Stripe    *StripeProvider
}

// Config selects and configures the enabled gateways.
type Config struct {
	Robokassa RobokassaConfig
	Stripe    StripeConfig
}

// NewProviders builds the gateway set from config. A gateway with no
// credentials is simply absent.
func NewProviders(cfg Config) Providers {
	var p Providers
	if cfg.Robokassa.Login != "" {
		p.Robokassa = NewRobokassaProvider(cfg.Robokassa)
	}
	if cfg.Stripe.SecretKey != "" {
		p.Stripe = NewStripeProvider(cfg.Stripe)
	}
	return p
}

// ForName returns the gateway for a requested provider name.
func (p Providers) ForName(name string) (ports.PaymentProvider, error) {
	switch name {
	case "robokassa":
		if p.Robokassa != nil {
			return p.Robokassa, nil
		}
	case "stripe":
		if p.Stripe != nil {
			return p.Stripe, nil
		}
	case "none", "":
		return NewNoopProvider(), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", name)
	}
	return nil, fmt.Errorf("payment provider %s is not configured", name)
}
