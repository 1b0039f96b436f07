package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/country"
	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/ports"
)

// mockPackageStore is an in-memory ports.PackageStore.
type mockPackageStore struct {
	rows map[string]catalog.Package
}

func newMockPackageStore(rows ...catalog.Package) *mockPackageStore {
	s := &mockPackageStore{rows: make(map[string]catalog.Package)}
	for _, p := range rows {
		s.rows[p.ID] = p
	}
	return s
}

func (s *mockPackageStore) ListActive(ctx context.Context) ([]catalog.Package, error) {
	out := make([]catalog.Package, 0, len(s.rows))
	for _, p := range s.rows {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *mockPackageStore) List(ctx context.Context) ([]catalog.Package, error) {
	out := make([]catalog.Package, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *mockPackageStore) Get(ctx context.Context, id string) (catalog.Package, error) {
	p, ok := s.rows[id]
	if !ok {
		return catalog.Package{}, ports.ErrNotFound
	}
	return p, nil
}

func (s *mockPackageStore) GetBySlug(ctx context.Context, slug string) (catalog.Package, error) {
	for _, p := range s.rows {
		if p.Slug == slug {
			return p, nil
		}
	}
	return catalog.Package{}, ports.ErrNotFound
}

func (s *mockPackageStore) Create(ctx context.Context, p catalog.Package) error {
	s.rows[p.ID] = p
	return nil
}

func (s *mockPackageStore) Update(ctx context.Context, p catalog.Package) error {
	if _, ok := s.rows[p.ID]; !ok {
		return ports.ErrNotFound
	}
	s.rows[p.ID] = p
	return nil
}

func (s *mockPackageStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.rows[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// mockCountryStore is an in-memory ports.CountryStore.
type mockCountryStore struct {
	names map[string]country.Names
}

func (s *mockCountryStore) All(ctx context.Context) (map[string]country.Names, error) {
	if s.names == nil {
		return map[string]country.Names{}, nil
	}
	return s.names, nil
}

func (s *mockCountryStore) Get(ctx context.Context, code string) (country.Names, error) {
	n, ok := s.names[code]
	if !ok {
		return country.Names{}, ports.ErrNotFound
	}
	return n, nil
}

// mockConfigStore is an in-memory ports.ConfigStore.
type mockConfigStore struct {
	values map[string]string
}

func (s *mockConfigStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return v, nil
}

func (s *mockConfigStore) Set(ctx context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

// mockLabelStore is an in-memory ports.LabelStore.
type mockLabelStore struct {
	labels country.Labels
}

func (s *mockLabelStore) All(ctx context.Context) (country.Labels, error) {
	if s.labels == nil {
		return country.Labels{}, nil
	}
	return s.labels, nil
}

func (s *mockLabelStore) Set(ctx context.Context, key, value string) error {
	if s.labels == nil {
		s.labels = country.Labels{}
	}
	s.labels[key] = value
	return nil
}

// mockOrderStore is an in-memory ports.OrderStore.
type mockOrderStore struct {
	mu        sync.Mutex
	orders    map[string]order.Order
	nextInv   int64
	createErr error
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: make(map[string]order.Order)}
}

func (s *mockOrderStore) Create(ctx context.Context, o order.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextInv++
	o.InvID = s.nextInv
	s.orders[o.ID] = o
	return o.InvID, nil
}

func (s *mockOrderStore) Get(ctx context.Context, id string) (order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, ports.ErrNotFound
	}
	return o, nil
}

func (s *mockOrderStore) GetByInvID(ctx context.Context, invID int64) (order.Order, error) {
	for _, o := range s.orders {
		if o.InvID == invID {
			return o, nil
		}
	}
	return order.Order{}, ports.ErrNotFound
}

func (s *mockOrderStore) UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error {
	o, ok := s.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	s.orders[id] = o
	return nil
}

func (s *mockOrderStore) List(ctx context.Context, limit, offset int) ([]order.Order, error) {
	all := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// mockProfileStore is an in-memory ports.ProfileStore.
type mockProfileStore struct {
	profiles map[string]order.Profile // by order id
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]order.Profile)}
}

func (s *mockProfileStore) Create(ctx context.Context, p order.Profile) error {
	s.profiles[p.OrderID] = p
	return nil
}

func (s *mockProfileStore) GetByOrder(ctx context.Context, orderID string) (order.Profile, error) {
	p, ok := s.profiles[orderID]
	if !ok {
		return order.Profile{}, ports.ErrNotFound
	}
	return p, nil
}

// mockProvider is a recording ports.PaymentProvider.
type mockProvider struct {
	name string
	url  string
	err  error
}

func (p *mockProvider) Name() string { return p.name }

func (p *mockProvider) CheckoutURL(ctx context.Context, o order.Order) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.url, nil
}

// mockRegistry resolves every name to one provider.
type mockRegistry struct {
	provider ports.PaymentProvider
	err      error
}

func (r *mockRegistry) ForName(name string) (ports.PaymentProvider, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.provider, nil
}

// mockNotifier records notifications.
type mockNotifier struct {
	events []string
}

func (n *mockNotifier) Notify(ctx context.Context, event string, payload map[string]any) error {
	n.events = append(n.events, event)
	return nil
}

// mockTokens mints predictable tokens.
type mockTokens struct{}

func (mockTokens) GenerateToken(email string) (string, time.Time, error) {
	return "token-" + email, time.Now().Add(time.Hour), nil
}

// fakeHasher compares plaintext.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) ([]byte, error) { return []byte(plaintext), nil }

func (fakeHasher) Compare(hash []byte, plaintext string) bool { return string(hash) == plaintext }

// seqIDs generates sequential ids.
type seqIDs struct {
	n int
}

func (g *seqIDs) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// fixedClock returns one instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func testLogger() zerolog.Logger { return zerolog.Nop() }

// Interface compliance for the mocks themselves.
var (
	_ ports.PackageStore = (*mockPackageStore)(nil)
	_ ports.CountryStore = (*mockCountryStore)(nil)
	_ ports.ConfigStore  = (*mockConfigStore)(nil)
	_ ports.LabelStore   = (*mockLabelStore)(nil)
	_ ports.OrderStore   = (*mockOrderStore)(nil)
	_ ports.ProfileStore = (*mockProfileStore)(nil)
	_ ports.Notifier     = (*mockNotifier)(nil)
	_ ports.Hasher       = fakeHasher{}
	_ ports.IDGenerator  = (*seqIDs)(nil)
	_ ports.Clock        = fixedClock{}
)
