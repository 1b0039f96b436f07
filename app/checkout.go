package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/domain/pricing"
	"github.com/roamsim/storefront/ports"
)

var (
	// ErrOrderNotFound is returned when no order matches.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNoPrice is returned when a package has no positive price in
	// the requested currency.
	ErrNoPrice = errors.New("package has no price in the requested currency")

	// ErrAmountMismatch is returned when a gateway confirms a different
	// amount than the order was created with.
	ErrAmountMismatch = errors.New("paid amount does not match order")

	// ErrBadTransition is returned when a status change is not allowed.
	ErrBadTransition = errors.New("invalid order status transition")

	// ErrEmailRequired is returned when a checkout carries no email.
	ErrEmailRequired = errors.New("email is required")

	// ErrBadCurrency is returned for a currency outside the supported
	// set.
	ErrBadCurrency = errors.New("unsupported currency")

	// ErrBadProvider is returned when the requested payment provider is
	// unknown or not configured.
	ErrBadProvider = errors.New("unknown payment provider")

	// ErrGatewayFailed is returned when the gateway rejects or times out
	// on a checkout session. The order is already cancelled.
	ErrGatewayFailed = errors.New("payment gateway unavailable")
)

// ProviderRegistry resolves a payment gateway by name.
type ProviderRegistry interface {
	ForName(name string) (ports.PaymentProvider, error)
}

// CheckoutRequest is one checkout attempt from the storefront.
type CheckoutRequest struct {
	Package  string // package id or slug
	Email    string
	Currency string
	Provider string
	BrandID  string
}

// CheckoutResult carries the created order and the gateway redirect.
type CheckoutResult struct {
	Order       order.Order
	RedirectURL string
}

// OrderStatus is the polling view of an order.
type OrderStatus struct {
	Order   order.Order
	Profile *order.Profile
}

// CheckoutService creates orders, hands customers to a payment gateway
// and settles orders when the gateway calls back.
type CheckoutService struct {
	orders    ports.OrderStore
	profiles  ports.ProfileStore
	packages  ports.PackageStore
	config    ports.ConfigStore
	providers ProviderRegistry
	notifier  ports.Notifier
	idGen     ports.IDGenerator
	clock     ports.Clock
	smdp      string // SM-DP+ address stamped on provisioning records
	logger    zerolog.Logger
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	orders ports.OrderStore,
	profiles ports.ProfileStore,
	packages ports.PackageStore,
	config ports.ConfigStore,
	providers ProviderRegistry,
	notifier ports.Notifier,
	idGen ports.IDGenerator,
	clock ports.Clock,
	smdp string,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		profiles:  profiles,
		packages:  packages,
		config:    config,
		providers: providers,
		notifier:  notifier,
		idGen:     idGen,
		clock:     clock,
		smdp:      smdp,
		logger:    logger,
	}
}

// Create builds a pending order for a package at its current discounted
// price and returns the gateway redirect URL.
func (s *CheckoutService) Create(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	if strings.TrimSpace(req.Email) == "" {
		return CheckoutResult{}, ErrEmailRequired
	}

	p, err := s.lookupPackage(ctx, req.Package)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return CheckoutResult{}, ErrPlanNotFound
		}
		return CheckoutResult{}, fmt.Errorf("get package: %w", err)
	}
	if !p.Active {
		return CheckoutResult{}, ErrPlanNotFound
	}

	currency, ok := parseCurrency(req.Currency)
	if !ok {
		return CheckoutResult{}, fmt.Errorf("%w: %s", ErrBadCurrency, req.Currency)
	}
	raw := p.Prices.Get(currency)
	if raw == nil || *raw <= 0 {
		return CheckoutResult{}, ErrNoPrice
	}
	amount := s.discount(ctx).Apply(*raw)

	provider, err := s.providers.ForName(req.Provider)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: %v", ErrBadProvider, err)
	}

	now := s.clock.Now().UTC()
	o := order.Order{
		ID:          s.idGen.New(),
		PackageID:   p.ID,
		PackageSlug: p.Slug,
		Email:       strings.TrimSpace(req.Email),
		Currency:    currency,
		Amount:      amount,
		Provider:    provider.Name(),
		Status:      order.StatusPending,
		BrandID:     req.BrandID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	invID, err := s.orders.Create(ctx, o)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("create order: %w", err)
	}
	o.InvID = invID

	url, err := provider.CheckoutURL(ctx, o)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID).Str("provider", o.Provider).
			Msg("gateway checkout failed, cancelling order")
		if cancelErr := s.orders.UpdateStatus(ctx, o.ID, order.StatusCancelled, s.clock.Now().UTC()); cancelErr != nil {
			s.logger.Error().Err(cancelErr).Str("order_id", o.ID).Msg("failed to cancel order")
		}
		return CheckoutResult{}, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}

	s.logger.Info().Str("order_id", o.ID).Int64("inv_id", o.InvID).
		Str("package", o.PackageSlug).Str("provider", o.Provider).
		Msg("order created")
	return CheckoutResult{Order: o, RedirectURL: url}, nil
}

// Status returns an order with its provisioning record, for polling.
func (s *CheckoutService) Status(ctx context.Context, orderID string) (OrderStatus, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return OrderStatus{}, ErrOrderNotFound
		}
		return OrderStatus{}, fmt.Errorf("get order: %w", err)
	}

	st := OrderStatus{Order: o}
	if p, err := s.profiles.GetByOrder(ctx, o.ID); err == nil {
		st.Profile = &p
	}
	return st, nil
}

// ConfirmByInvID settles the Robokassa result callback. The amount must
// match the order; replays of an already-settled order succeed without
// side effects.
func (s *CheckoutService) ConfirmByInvID(ctx context.Context, invID int64, amount float64) (order.Order, error) {
	o, err := s.orders.GetByInvID(ctx, invID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return order.Order{}, ErrOrderNotFound
		}
		return order.Order{}, fmt.Errorf("get order: %w", err)
	}
	if math.Abs(amount-o.Amount) > 0.01 {
		return order.Order{}, ErrAmountMismatch
	}
	return s.settle(ctx, o)
}

// ConfirmByOrderID settles a Stripe checkout.session.completed event
// carrying the order id in its metadata.
func (s *CheckoutService) ConfirmByOrderID(ctx context.Context, orderID string) (order.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return order.Order{}, ErrOrderNotFound
		}
		return order.Order{}, fmt.Errorf("get order: %w", err)
	}
	return s.settle(ctx, o)
}

// settle marks an order paid, provisions the eSIM record and fires the
// push notification. Each step is idempotent against webhook replays.
func (s *CheckoutService) settle(ctx context.Context, o order.Order) (order.Order, error) {
	if o.Status == order.StatusProvisioned {
		// Webhook replay of a fully settled order.
		return o, nil
	}
	if !order.CanTransition(o.Status, order.StatusPaid) {
		return order.Order{}, ErrBadTransition
	}

	now := s.clock.Now().UTC()
	if o.Status == order.StatusPending {
		if err := s.orders.UpdateStatus(ctx, o.ID, order.StatusPaid, now); err != nil {
			return order.Order{}, fmt.Errorf("mark paid: %w", err)
		}
		o.Status = order.StatusPaid
		o.UpdatedAt = now
	}

	if _, err := s.profiles.GetByOrder(ctx, o.ID); errors.Is(err, ports.ErrNotFound) {
		token := s.idGen.New()
		profile := order.Profile{
			ID:             s.idGen.New(),
			OrderID:        o.ID,
			SMDPAddress:    s.smdp,
			ActivationCode: "LPA:1$" + s.smdp + "$" + token,
			CreatedAt:      now,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return order.Order{}, fmt.Errorf("create profile: %w", err)
		}
		if err := s.orders.UpdateStatus(ctx, o.ID, order.StatusProvisioned, now); err != nil {
			return order.Order{}, fmt.Errorf("mark provisioned: %w", err)
		}
		o.Status = order.StatusProvisioned
		o.UpdatedAt = now

		if err := s.notifier.Notify(ctx, "order.paid", map[string]any{
			"order_id": o.ID,
			"inv_id":   o.InvID,
			"package":  o.PackageSlug,
			"email":    o.Email,
			"amount":   o.Amount,
			"currency": string(o.Currency),
		}); err != nil {
			s.logger.Warn().Err(err).Str("order_id", o.ID).Msg("push notification failed")
		}

		s.logger.Info().Str("order_id", o.ID).Int64("inv_id", o.InvID).
			Msg("order paid and provisioned")
	}

	return o, nil
}

func (s *CheckoutService) lookupPackage(ctx context.Context, idOrSlug string) (catalog.Package, error) {
	row, err := s.packages.Get(ctx, idOrSlug)
	if errors.Is(err, ports.ErrNotFound) {
		row, err = s.packages.GetBySlug(ctx, idOrSlug)
	}
	return row, err
}

// discount mirrors CatalogService.Discount so checkout charges the
// displayed price.
func (s *CheckoutService) discount(ctx context.Context) pricing.Discount {
	raw, err := s.config.Get(ctx, ports.ConfigDiscountPercentage)
	if err != nil {
		return pricing.Discount{}
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return pricing.Discount{}
	}
	return pricing.NewDiscount(pct)
}

func parseCurrency(raw string) (pricing.Currency, bool) {
	c := pricing.Currency(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" {
		return pricing.USD, true
	}
	for _, known := range pricing.Currencies {
		if c == known {
			return c, true
		}
	}
	return "", false
}
