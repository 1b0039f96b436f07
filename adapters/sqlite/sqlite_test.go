package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/domain/pricing"
	"github.com/roamsim/storefront/ports"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestPackageStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPackageStore(testDB(t))

	p := catalog.Package{
		ID:           "pkg1",
		Slug:         "france-5gb-30d",
		Title:        "France 5GB",
		CountryCode:  "FR",
		Type:         catalog.TypeLocal,
		DataMB:       5120,
		ValidityDays: 30,
		Active:       true,
		Prices:       pricing.Amounts{USD: pricing.Ptr(12.5), EUR: pricing.Ptr(11)},
	}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "pkg1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Slug != p.Slug || got.CountryCode != "FR" || got.DataMB != 5120 {
		t.Errorf("got %+v", got)
	}
	if got.Prices.USD == nil || *got.Prices.USD != 12.5 {
		t.Errorf("USD = %v, want 12.5", got.Prices.USD)
	}
	if got.Prices.RUB != nil {
		t.Errorf("RUB = %v, want nil", got.Prices.RUB)
	}

	bySlug, err := store.GetBySlug(ctx, "france-5gb-30d")
	if err != nil || bySlug.ID != "pkg1" {
		t.Errorf("GetBySlug = %+v, %v", bySlug, err)
	}

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("missing row error = %v, want ErrNotFound", err)
	}
}

func TestPackageStore_ListActive(t *testing.T) {
	ctx := context.Background()
	store := NewPackageStore(testDB(t))

	active := catalog.Package{ID: "a", Slug: "a", CountryCode: "FR", Active: true}
	inactive := catalog.Package{ID: "b", Slug: "b", CountryCode: "FR", Active: false}
	for _, p := range []catalog.Package{active, inactive} {
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("ListActive = %+v, want only row a", got)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List = %d rows, want 2", len(all))
	}
}

func TestConfigStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store := NewConfigStore(testDB(t))

	if _, err := store.Get(ctx, ports.ConfigDiscountPercentage); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("empty get error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, ports.ConfigDiscountPercentage, "20"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, ports.ConfigDiscountPercentage, "25"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get(ctx, ports.ConfigDiscountPercentage)
	if err != nil || got != "25" {
		t.Errorf("Get = %q, %v, want 25", got, err)
	}
}

func TestOrderStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore(testDB(t))

	o := order.Order{
		ID:        "ord1",
		PackageID: "pkg1",
		Email:     "buyer@example.com",
		Currency:  pricing.USD,
		Amount:    6.4,
		Provider:  "robokassa",
		Status:    order.StatusPending,
	}
	inv, err := store.Create(ctx, o)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv != 1 {
		t.Fatalf("first invoice id = %d, want 1", inv)
	}

	if err := store.UpdateStatus(ctx, "ord1", order.StatusPaid, time.Now()); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := store.GetByInvID(ctx, 1)
	if err != nil {
		t.Fatalf("get by inv: %v", err)
	}
	if got.Status != order.StatusPaid || got.Amount != 6.4 {
		t.Errorf("got %+v", got)
	}

	o.ID = "ord2"
	if inv, err = store.Create(ctx, o); err != nil || inv != 2 {
		t.Errorf("second create = %d, %v, want 2", inv, err)
	}
}

func TestOrderStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore(testDB(t))

	const n = 10
	invs := make(chan int64, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inv, err := store.Create(ctx, order.Order{
				ID:        fmt.Sprintf("ord-%d", i),
				PackageID: "pkg1",
				Currency:  pricing.USD,
				Status:    order.StatusPending,
			})
			if err != nil {
				errs <- err
				return
			}
			invs <- inv
		}(i)
	}
	wg.Wait()
	close(invs)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}

	seen := map[int64]bool{}
	for inv := range invs {
		if seen[inv] {
			t.Fatalf("invoice id %d handed out twice", inv)
		}
		seen[inv] = true
	}
	if len(seen) != n {
		t.Errorf("got %d invoice ids, want %d", len(seen), n)
	}
}

func TestLabelStore(t *testing.T) {
	ctx := context.Background()
	store := NewLabelStore(testDB(t))

	if err := store.Set(ctx, "global", "Worldwide"); err != nil {
		t.Fatalf("set: %v", err)
	}
	labels, err := store.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if labels.Get("global") != "Worldwide" {
		t.Errorf("labels = %v", labels)
	}
	if labels.Get("missing") != "" {
		t.Errorf("missing label = %q, want empty", labels.Get("missing"))
	}
}
