package sqlite

import (
	"context"

	"github.com/roamsim/storefront/domain/country"
	"github.com/roamsim/storefront/ports"
)

// LabelStore implements ports.LabelStore with SQLite.
type LabelStore struct {
	db *DB
}

// NewLabelStore creates a new SQLite label store.
func NewLabelStore(db *DB) *LabelStore {
	return &LabelStore{db: db}
}

// All returns every ui_labels row.
func (s *LabelStore) All(ctx context.Context) (country.Labels, error) {
	rows, err := s.db.DB.QueryContext(ctx, "SELECT key, value FROM ui_labels")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make(country.Labels)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		labels[k] = v
	}
	return labels, rows.Err()
}

// Set writes a label (upsert).
func (s *LabelStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO ui_labels (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Ensure interface compliance.
var _ ports.LabelStore = (*LabelStore)(nil)
