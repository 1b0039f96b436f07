package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/domain/pricing"
	"github.com/roamsim/storefront/ports"
)

// OrderStore implements ports.OrderStore with SQLite.
type OrderStore struct {
	db *DB
}

// NewOrderStore creates a new SQLite order store.
func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, inv_id, package_id, package_slug, email,
	currency, amount, provider, status, brand_id, created_at, updated_at`

// Create stores a new order. The invoice id is computed inside the
// INSERT itself, so two concurrent checkouts can never reserve the
// same number.
func (s *OrderStore) Create(ctx context.Context, o order.Order) (int64, error) {
	row := s.db.DB.QueryRowContext(ctx, `
		INSERT INTO orders (id, inv_id, package_id, package_slug, email,
			currency, amount, provider, status, brand_id)
		VALUES (?, (SELECT COALESCE(MAX(inv_id), 0) + 1 FROM orders),
			?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING inv_id
	`, o.ID, o.PackageID, o.PackageSlug, o.Email,
		string(o.Currency), o.Amount, o.Provider, string(o.Status), o.BrandID)

	var invID int64
	if err := row.Scan(&invID); err != nil {
		return 0, err
	}
	return invID, nil
}

// Get retrieves an order by ID.
func (s *OrderStore) Get(ctx context.Context, id string) (order.Order, error) {
	row := s.db.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	return getOrder(row)
}

// GetByInvID retrieves an order by its numeric invoice id.
func (s *OrderStore) GetByInvID(ctx context.Context, invID int64) (order.Order, error) {
	row := s.db.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE inv_id = ?", invID)
	return getOrder(row)
}

// UpdateStatus moves an order to a new status.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error {
	res, err := s.db.DB.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		string(status), at.UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns recent orders, newest first.
func (s *OrderStore) List(ctx context.Context, limit, offset int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(r rowScanner) (order.Order, error) {
	var o order.Order
	var currency, status string
	err := r.Scan(&o.ID, &o.InvID, &o.PackageID, &o.PackageSlug, &o.Email,
		&currency, &o.Amount, &o.Provider, &status, &o.BrandID,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.Currency = pricing.Currency(currency)
	o.Status = order.Status(status)
	return o, nil
}

func getOrder(row *sql.Row) (order.Order, error) {
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return order.Order{}, ports.ErrNotFound
	}
	return o, err
}

// Ensure interface compliance.
var _ ports.OrderStore = (*OrderStore)(nil)
