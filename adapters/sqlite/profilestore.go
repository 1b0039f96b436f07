package sqlite

import (
	"context"
	"database/sql"

	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/ports"
)

// ProfileStore implements ports.ProfileStore with SQLite.
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new SQLite profile store.
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Create stores a provisioning record.
func (s *ProfileStore) Create(ctx context.Context, p order.Profile) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO esim_profiles (id, order_id, iccid, smdp_address, activation_code)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.OrderID, p.ICCID, p.SMDPAddress, p.ActivationCode)
	return err
}

// GetByOrder retrieves the record for an order.
func (s *ProfileStore) GetByOrder(ctx context.Context, orderID string) (order.Profile, error) {
	var p order.Profile
	err := s.db.DB.QueryRowContext(ctx, `
		SELECT id, order_id, iccid, smdp_address, activation_code, created_at
		FROM esim_profiles WHERE order_id = ?
	`, orderID).Scan(&p.ID, &p.OrderID, &p.ICCID, &p.SMDPAddress, &p.ActivationCode, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return order.Profile{}, ports.ErrNotFound
	}
	return p, err
}

// Ensure interface compliance.
var _ ports.ProfileStore = (*ProfileStore)(nil)
