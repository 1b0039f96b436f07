// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/roamsim/storefront/domain/brand"
	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/country"
	"github.com/roamsim/storefront/domain/order"
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher hashes and verifies admin passwords.
type Hasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) bool
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// PackageStore persists esim_packages rows. The catalog pipeline only
// reads; writes come from the admin surface.
type PackageStore interface {
	// ListActive returns every active package row.
	ListActive(ctx context.Context) ([]catalog.Package, error)

	// List returns all rows, including inactive, for the admin view.
	List(ctx context.Context) ([]catalog.Package, error)

	// Get retrieves a package by ID.
	Get(ctx context.Context, id string) (catalog.Package, error)

	// GetBySlug retrieves a package by slug.
	GetBySlug(ctx context.Context, slug string) (catalog.Package, error)

	// Create stores a new package.
	Create(ctx context.Context, p catalog.Package) error

	// Update modifies a package.
	Update(ctx context.Context, p catalog.Package) error

	// Delete removes a package.
	Delete(ctx context.Context, id string) error
}

// CountryStore reads the esim_countries names table.
type CountryStore interface {
	// All returns every country-name row keyed by 2-letter code.
	All(ctx context.Context) (map[string]country.Names, error)

	// Get retrieves one country's names.
	Get(ctx context.Context, code string) (country.Names, error)
}

// ConfigStore persists admin_config key-value rows.
type ConfigStore interface {
	// Get retrieves a config value. ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set writes a config value (upsert).
	Set(ctx context.Context, key, value string) error
}

// Config keys used by the pipeline.
const (
	ConfigDiscountPercentage = "discount_percentage"
)

// LabelStore reads and writes the ui_labels table.
type LabelStore interface {
	// All returns every label.
	All(ctx context.Context) (country.Labels, error)

	// Set writes a label (upsert).
	Set(ctx context.Context, key, value string) error
}

// OrderStore persists orders.
type OrderStore interface {
	// Create stores a new order and returns its invoice id. The id is
	// allocated by the store so that concurrent checkouts never
	// collide; any inv_id on the passed order is ignored.
	Create(ctx context.Context, o order.Order) (int64, error)

	// Get retrieves an order by ID.
	Get(ctx context.Context, id string) (order.Order, error)

	// GetByInvID retrieves an order by its numeric invoice id.
	GetByInvID(ctx context.Context, invID int64) (order.Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error

	// List returns recent orders, newest first.
	List(ctx context.Context, limit, offset int) ([]order.Order, error)
}

// ProfileStore persists eSIM provisioning records.
type ProfileStore interface {
	// Create stores a provisioning record.
	Create(ctx context.Context, p order.Profile) error

	// GetByOrder retrieves the record for an order.
	GetByOrder(ctx context.Context, orderID string) (order.Profile, error)
}

// BrandStore reads the brands table.
type BrandStore interface {
	// All returns every brand.
	All(ctx context.Context) ([]brand.Brand, error)
}

// BrandResolver resolves the brand for a request host, possibly
// through a cache.
type BrandResolver interface {
	Resolve(ctx context.Context, host string) (brand.Brand, error)
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// PaymentProvider builds the redirect URL that sends a customer to an
// external gateway. Amounts on the order are already discounted.
type PaymentProvider interface {
	// Name returns the provider name ("robokassa", "stripe").
	Name() string

	// CheckoutURL creates the payment redirect for an order.
	CheckoutURL(ctx context.Context, o order.Order) (string, error)
}

// Notifier delivers fire-and-forget push notifications. Errors are
// logged by callers, never surfaced to customers.
type Notifier interface {
	Notify(ctx context.Context, event string, payload map[string]any) error
}
