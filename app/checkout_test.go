package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/ports"
)

func newCheckoutService(pkgs *mockPackageStore, orders *mockOrderStore, profiles *mockProfileStore, notifier *mockNotifier, cfg *mockConfigStore) *CheckoutService {
	return NewCheckoutService(
		orders,
		profiles,
		pkgs,
		cfg,
		&mockRegistry{provider: &mockProvider{name: "robokassa", url: "https://pay.example/1"}},
		notifier,
		&seqIDs{},
		fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		"smdp.example.com",
		testLogger(),
	)
}

func TestCheckoutCreate(t *testing.T) {
	pkgs := newMockPackageStore(activePkg("p1", "fr-5gb", "FR", 5120, 8))
	orders := newMockOrderStore()
	cfg := &mockConfigStore{values: map[string]string{ports.ConfigDiscountPercentage: "20"}}
	svc := newCheckoutService(pkgs, orders, newMockProfileStore(), &mockNotifier{}, cfg)

	res, err := svc.Create(context.Background(), CheckoutRequest{
		Package:  "fr-5gb",
		Email:    "buyer@example.com",
		Currency: "usd",
		Provider: "robokassa",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if res.RedirectURL != "https://pay.example/1" {
		t.Errorf("RedirectURL = %q", res.RedirectURL)
	}
	o := res.Order
	if o.InvID != 1 {
		t.Errorf("InvID = %d, want 1", o.InvID)
	}
	if o.Amount != 6.4 {
		t.Errorf("Amount = %v, want discounted 6.4", o.Amount)
	}
	if o.Status != order.StatusPending {
		t.Errorf("Status = %s, want pending", o.Status)
	}

	stored, err := orders.Get(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("stored order: %v", err)
	}
	if stored.PackageID != "p1" || stored.Provider != "robokassa" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCheckoutCreate_Validation(t *testing.T) {
	pkgs := newMockPackageStore(activePkg("p1", "fr-5gb", "FR", 5120, 8))
	svc := newCheckoutService(pkgs, newMockOrderStore(), newMockProfileStore(), &mockNotifier{}, &mockConfigStore{})

	if _, err := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb"}); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("missing email: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), CheckoutRequest{Package: "nope", Email: "a@b.c"}); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("unknown package: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c", Currency: "gbp"}); !errors.Is(err, ErrBadCurrency) {
		t.Errorf("unsupported currency: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c", Currency: "rub"}); !errors.Is(err, ErrNoPrice) {
		t.Errorf("unpriced currency: err = %v", err)
	}
}

func TestCheckoutCreate_InactivePackage(t *testing.T) {
	p := activePkg("p1", "fr-5gb", "FR", 5120, 8)
	p.Active = false
	svc := newCheckoutService(newMockPackageStore(p), newMockOrderStore(), newMockProfileStore(), &mockNotifier{}, &mockConfigStore{})

	if _, err := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c"}); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestCheckoutCreate_GatewayFailureCancelsOrder(t *testing.T) {
	pkgs := newMockPackageStore(activePkg("p1", "fr-5gb", "FR", 5120, 8))
	orders := newMockOrderStore()
	svc := newCheckoutService(pkgs, orders, newMockProfileStore(), &mockNotifier{}, &mockConfigStore{})
	svc.providers = &mockRegistry{provider: &mockProvider{name: "robokassa", err: errors.New("gateway down")}}

	if _, err := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c"}); !errors.Is(err, ErrGatewayFailed) {
		t.Fatalf("err = %v, want ErrGatewayFailed", err)
	}

	list, _ := orders.List(context.Background(), 10, 0)
	if len(list) != 1 || list[0].Status != order.StatusCancelled {
		t.Errorf("orders = %+v, want one cancelled", list)
	}
}

func TestConfirmByInvID(t *testing.T) {
	pkgs := newMockPackageStore(activePkg("p1", "fr-5gb", "FR", 5120, 8))
	orders := newMockOrderStore()
	profiles := newMockProfileStore()
	notifier := &mockNotifier{}
	svc := newCheckoutService(pkgs, orders, profiles, notifier, &mockConfigStore{})

	res, err := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	o, err := svc.ConfirmByInvID(context.Background(), res.Order.InvID, res.Order.Amount)
	if err != nil {
		t.Fatalf("ConfirmByInvID: %v", err)
	}
	if o.Status != order.StatusProvisioned {
		t.Errorf("Status = %s, want provisioned", o.Status)
	}

	profile, err := profiles.GetByOrder(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.SMDPAddress != "smdp.example.com" {
		t.Errorf("SMDPAddress = %q", profile.SMDPAddress)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "order.paid" {
		t.Errorf("events = %v", notifier.events)
	}
}

func TestConfirmByInvID_ReplayIsIdempotent(t *testing.T) {
	pkgs := newMockPackageStore(activePkg("p1", "fr-5gb", "FR", 5120, 8))
	orders := newMockOrderStore()
	profiles := newMockProfileStore()
	notifier := &mockNotifier{}
	svc := newCheckoutService(pkgs, orders, profiles, notifier, &mockConfigStore{})

	res, _ := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c"})
	if _, err := svc.ConfirmByInvID(context.Background(), res.Order.InvID, res.Order.Amount); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if _, err := svc.ConfirmByInvID(context.Background(), res.Order.InvID, res.Order.Amount); err != nil {
		t.Fatalf("replay should succeed: %v", err)
	}

	if len(notifier.events) != 1 {
		t.Errorf("events = %v, replay must not notify again", notifier.events)
	}
}

func TestConfirmByInvID_Errors(t *testing.T) {
	pkgs := newMockPackageStore(activePkg("p1", "fr-5gb", "FR", 5120, 8))
	svc := newCheckoutService(pkgs, newMockOrderStore(), newMockProfileStore(), &mockNotifier{}, &mockConfigStore{})

	if _, err := svc.ConfirmByInvID(context.Background(), 99, 8); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown inv: err = %v", err)
	}

	res, _ := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c"})
	if _, err := svc.ConfirmByInvID(context.Background(), res.Order.InvID, res.Order.Amount+5); !errors.Is(err, ErrAmountMismatch) {
		t.Errorf("wrong amount: err = %v", err)
	}
}

func TestStatus(t *testing.T) {
	pkgs := newMockPackageStore(activePkg("p1", "fr-5gb", "FR", 5120, 8))
	orders := newMockOrderStore()
	profiles := newMockProfileStore()
	svc := newCheckoutService(pkgs, orders, profiles, &mockNotifier{}, &mockConfigStore{})

	res, _ := svc.Create(context.Background(), CheckoutRequest{Package: "fr-5gb", Email: "a@b.c"})

	st, err := svc.Status(context.Background(), res.Order.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Profile != nil {
		t.Error("pending order should have no profile")
	}

	svc.ConfirmByOrderID(context.Background(), res.Order.ID)

	st, err = svc.Status(context.Background(), res.Order.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Order.Status != order.StatusProvisioned || st.Profile == nil {
		t.Errorf("status = %+v", st)
	}

	if _, err := svc.Status(context.Background(), "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}
