package sqlite

import (
	"context"
	"database/sql"

	"github.com/roamsim/storefront/ports"
)

// ConfigStore implements ports.ConfigStore with SQLite.
type ConfigStore struct {
	db *DB
}

// NewConfigStore creates a new SQLite config store.
func NewConfigStore(db *DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Get retrieves a config value.
func (s *ConfigStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.DB.QueryRowContext(ctx,
		"SELECT value FROM admin_config WHERE key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ports.ErrNotFound
	}
	return value, err
}

// Set writes a config value (upsert).
func (s *ConfigStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO admin_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Ensure interface compliance.
var _ ports.ConfigStore = (*ConfigStore)(nil)
