package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roamsim/storefront/domain/catalog"
)

func newAdminService(pkgs *mockPackageStore, cfg *mockConfigStore, labels *mockLabelStore, orders *mockOrderStore) *AdminService {
	return NewAdminService(
		pkgs,
		labels,
		cfg,
		orders,
		fakeHasher{},
		mockTokens{},
		&seqIDs{},
		fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		"admin@roamsim.com",
		[]byte("s3cret"),
		testLogger(),
	)
}

func TestLogin(t *testing.T) {
	svc := newAdminService(newMockPackageStore(), &mockConfigStore{}, &mockLabelStore{}, newMockOrderStore())

	sess, err := svc.Login(context.Background(), "Admin@RoamSim.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token != "token-admin@roamsim.com" {
		t.Errorf("Token = %q", sess.Token)
	}

	if _, err := svc.Login(context.Background(), "admin@roamsim.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(context.Background(), "other@roamsim.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong email: err = %v", err)
	}
}

func TestDiscountRoundTrip(t *testing.T) {
	cfg := &mockConfigStore{}
	svc := newAdminService(newMockPackageStore(), cfg, &mockLabelStore{}, newMockOrderStore())

	pct, err := svc.Discount(context.Background())
	if err != nil || pct != 0 {
		t.Fatalf("unset discount = %v, %v, want 0", pct, err)
	}

	got, err := svc.SetDiscount(context.Background(), 20)
	if err != nil || got != 20 {
		t.Fatalf("SetDiscount = %v, %v", got, err)
	}
	pct, err = svc.Discount(context.Background())
	if err != nil || pct != 20 {
		t.Errorf("Discount = %v, %v, want 20", pct, err)
	}

	// Clamped at both ends.
	if got, _ := svc.SetDiscount(context.Background(), -5); got != 0 {
		t.Errorf("SetDiscount(-5) = %v, want 0", got)
	}
	if got, _ := svc.SetDiscount(context.Background(), 150); got != 100 {
		t.Errorf("SetDiscount(150) = %v, want 100", got)
	}
}

func TestPackageCRUD(t *testing.T) {
	pkgs := newMockPackageStore()
	svc := newAdminService(pkgs, &mockConfigStore{}, &mockLabelStore{}, newMockOrderStore())
	ctx := context.Background()

	created, err := svc.CreatePackage(ctx, catalog.Package{Slug: "fr-5gb", CountryCode: "FR", DataMB: 5120, Active: true})
	if err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	if created.ID == "" {
		t.Error("id should be assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}

	if _, err := svc.CreatePackage(ctx, catalog.Package{}); err == nil {
		t.Error("missing slug should fail")
	}

	created.Title = "France 5GB"
	updated, err := svc.UpdatePackage(ctx, created)
	if err != nil {
		t.Fatalf("UpdatePackage: %v", err)
	}
	if updated.Title != "France 5GB" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.UpdatePackage(ctx, catalog.Package{ID: "missing"}); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("update missing: err = %v", err)
	}

	all, err := svc.Packages(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("Packages = %+v, %v", all, err)
	}

	if err := svc.DeletePackage(ctx, created.ID); err != nil {
		t.Fatalf("DeletePackage: %v", err)
	}
	if err := svc.DeletePackage(ctx, created.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("double delete: err = %v", err)
	}
}

func TestLabels(t *testing.T) {
	labels := &mockLabelStore{}
	svc := newAdminService(newMockPackageStore(), &mockConfigStore{}, labels, newMockOrderStore())
	ctx := context.Background()

	err := svc.SetLabels(ctx, map[string]string{
		"global":        "All countries",
		"region_Europe": "Europe",
		"  ":            "ignored",
	})
	if err != nil {
		t.Fatalf("SetLabels: %v", err)
	}

	got, err := svc.Labels(ctx)
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	if got.Get("global") != "All countries" || got.Region("Europe") != "Europe" {
		t.Errorf("labels = %v", got)
	}
	if len(got) != 2 {
		t.Errorf("blank key should be skipped, labels = %v", got)
	}
}

func TestOrders_LimitDefaults(t *testing.T) {
	orders := newMockOrderStore()
	svc := newAdminService(newMockPackageStore(), &mockConfigStore{}, &mockLabelStore{}, orders)

	if _, err := svc.Orders(context.Background(), -1, -1); err != nil {
		t.Fatalf("Orders: %v", err)
	}
}
