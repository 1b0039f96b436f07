// Package memory provides in-memory caching adapters.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/roamsim/storefront/domain/brand"
	"github.com/roamsim/storefront/ports"
)

// BrandCache is a read-through cache over a BrandStore. The brand table
// changes rarely, so every request resolving a storefront by Host header
// should not hit the database.
type BrandCache struct {
	store ports.BrandStore
	clock ports.Clock
	ttl   time.Duration

	mu      sync.RWMutex
	brands  []brand.Brand
	loaded  time.Time
	hasData bool
}

// NewBrandCache creates a brand cache with the given TTL.
func NewBrandCache(store ports.BrandStore, clock ports.Clock, ttl time.Duration) *BrandCache {
	return &BrandCache{
		store: store,
		clock: clock,
		ttl:   ttl,
	}
}

// Resolve returns the brand for a request host, reloading the brand list
// when the cached copy is stale.
func (c *BrandCache) Resolve(ctx context.Context, host string) (brand.Brand, error) {
	brands, err := c.all(ctx)
	if err != nil {
		return brand.Brand{}, err
	}

	b, ok := brand.Match(brands, host)
	if !ok {
		return brand.Brand{}, ports.ErrNotFound
	}
	return b, nil
}

// Invalidate drops the cached list, forcing a reload on the next Resolve.
func (c *BrandCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasData = false
	c.brands = nil
}

func (c *BrandCache) all(ctx context.Context) ([]brand.Brand, error) {
	c.mu.RLock()
	if c.hasData && c.clock.Now().Sub(c.loaded) < c.ttl {
		brands := c.brands
		c.mu.RUnlock()
		return brands, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if c.hasData && c.clock.Now().Sub(c.loaded) < c.ttl {
		return c.brands, nil
	}

	brands, err := c.store.All(ctx)
	if err != nil {
		// Serve the stale copy rather than failing the request.
		if c.hasData {
			return c.brands, nil
		}
		return nil, err
	}

	c.brands = brands
	c.loaded = c.clock.Now()
	c.hasData = true
	return c.brands, nil
}

// Ensure interface compliance.
var _ ports.BrandResolver = (*BrandCache)(nil)
