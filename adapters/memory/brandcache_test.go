package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roamsim/storefront/domain/brand"
	"github.com/roamsim/storefront/ports"
)

type fakeBrandStore struct {
	brands []brand.Brand
	err    error
	calls  int
}

func (s *fakeBrandStore) All(ctx context.Context) ([]brand.Brand, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.brands, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testBrands() []brand.Brand {
	return []brand.Brand{
		{ID: "b1", Name: "RoamSim", Domain: "roamsim.com", IsDefault: true},
		{ID: "b2", Name: "TravelSim", Domain: "travelsim.example"},
	}
}

func TestBrandCacheResolve(t *testing.T) {
	store := &fakeBrandStore{brands: testBrands()}
	clock := &fakeClock{now: time.Now()}
	cache := NewBrandCache(store, clock, 5*time.Minute)

	b, err := cache.Resolve(context.Background(), "www.travelsim.example:443")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.ID != "b2" {
		t.Errorf("brand = %s, want b2", b.ID)
	}

	// Unknown host falls back to the default brand.
	b, err = cache.Resolve(context.Background(), "other.example")
	if err != nil {
		t.Fatalf("Resolve default: %v", err)
	}
	if b.ID != "b1" {
		t.Errorf("brand = %s, want default b1", b.ID)
	}

	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1 (second resolve cached)", store.calls)
	}
}

func TestBrandCacheExpiry(t *testing.T) {
	store := &fakeBrandStore{brands: testBrands()}
	clock := &fakeClock{now: time.Now()}
	cache := NewBrandCache(store, clock, time.Minute)

	if _, err := cache.Resolve(context.Background(), "roamsim.com"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	clock.Advance(2 * time.Minute)
	if _, err := cache.Resolve(context.Background(), "roamsim.com"); err != nil {
		t.Fatalf("Resolve after expiry: %v", err)
	}

	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 after TTL expiry", store.calls)
	}
}

func TestBrandCacheServesStaleOnError(t *testing.T) {
	store := &fakeBrandStore{brands: testBrands()}
	clock := &fakeClock{now: time.Now()}
	cache := NewBrandCache(store, clock, time.Minute)

	if _, err := cache.Resolve(context.Background(), "roamsim.com"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	store.err = errors.New("db locked")
	clock.Advance(2 * time.Minute)

	b, err := cache.Resolve(context.Background(), "roamsim.com")
	if err != nil {
		t.Fatalf("Resolve should serve stale copy: %v", err)
	}
	if b.ID != "b1" {
		t.Errorf("brand = %s, want b1", b.ID)
	}
}

func TestBrandCacheNoMatch(t *testing.T) {
	store := &fakeBrandStore{brands: []brand.Brand{{ID: "b2", Domain: "travelsim.example"}}}
	cache := NewBrandCache(store, &fakeClock{now: time.Now()}, time.Minute)

	if _, err := cache.Resolve(context.Background(), "other.example"); err != ports.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBrandCacheInvalidate(t *testing.T) {
	store := &fakeBrandStore{brands: testBrands()}
	cache := NewBrandCache(store, &fakeClock{now: time.Now()}, time.Hour)

	cache.Resolve(context.Background(), "roamsim.com")
	cache.Invalidate()
	cache.Resolve(context.Background(), "roamsim.com")

	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 after Invalidate", store.calls)
	}
}
