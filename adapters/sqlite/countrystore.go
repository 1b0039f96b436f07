package sqlite

import (
	"context"
	"database/sql"

	"github.com/roamsim/storefront/domain/country"
	"github.com/roamsim/storefront/ports"
)

// CountryStore implements ports.CountryStore with SQLite.
type CountryStore struct {
	db *DB
}

// NewCountryStore creates a new SQLite country store.
func NewCountryStore(db *DB) *CountryStore {
	return &CountryStore{db: db}
}

// All returns every country-name row keyed by 2-letter code.
func (s *CountryStore) All(ctx context.Context) (map[string]country.Names, error) {
	rows, err := s.db.DB.QueryContext(ctx, "SELECT code, name, name_ru FROM esim_countries")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]country.Names)
	for rows.Next() {
		var n country.Names
		if err := rows.Scan(&n.Code, &n.Name, &n.NameRU); err != nil {
			return nil, err
		}
		names[n.Code] = n
	}
	return names, rows.Err()
}

// Get retrieves one country's names.
func (s *CountryStore) Get(ctx context.Context, code string) (country.Names, error) {
	var n country.Names
	err := s.db.DB.QueryRowContext(ctx,
		"SELECT code, name, name_ru FROM esim_countries WHERE code = ?", code,
	).Scan(&n.Code, &n.Name, &n.NameRU)
	if err == sql.ErrNoRows {
		return country.Names{}, ports.ErrNotFound
	}
	return n, err
}

// Upsert writes a country-name row (used by the admin surface).
func (s *CountryStore) Upsert(ctx context.Context, n country.Names) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO esim_countries (code, name, name_ru) VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET name = excluded.name, name_ru = excluded.name_ru
	`, n.Code, n.Name, n.NameRU)
	return err
}

// Ensure interface compliance.
var _ ports.CountryStore = (*CountryStore)(nil)
