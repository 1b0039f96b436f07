package sqlite

import (
	"context"

	"github.com/roamsim/storefront/domain/brand"
	"github.com/roamsim/storefront/ports"
)

// BrandStore implements ports.BrandStore with SQLite.
type BrandStore struct {
	db *DB
}

// NewBrandStore creates a new SQLite brand store.
func NewBrandStore(db *DB) *BrandStore {
	return &BrandStore{db: db}
}

// All returns every brand.
func (s *BrandStore) All(ctx context.Context) ([]brand.Brand, error) {
	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT id, name, domain, logo_url, primary_color, accent_color,
			   support_email, is_default, created_at, updated_at
		FROM brands ORDER BY domain
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []brand.Brand
	for rows.Next() {
		var b brand.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Domain, &b.LogoURL,
			&b.PrimaryColor, &b.AccentColor, &b.SupportEmail, &b.IsDefault,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// Upsert writes a brand row (used by the admin surface).
func (s *BrandStore) Upsert(ctx context.Context, b brand.Brand) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO brands (id, name, domain, logo_url, primary_color,
			accent_color, support_email, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			domain = excluded.domain, logo_url = excluded.logo_url,
			primary_color = excluded.primary_color,
			accent_color = excluded.accent_color,
			support_email = excluded.support_email,
			is_default = excluded.is_default,
			updated_at = CURRENT_TIMESTAMP
	`, b.ID, b.Name, b.Domain, b.LogoURL, b.PrimaryColor, b.AccentColor,
		b.SupportEmail, b.IsDefault)
	return err
}

// Ensure interface compliance.
var _ ports.BrandStore = (*BrandStore)(nil)
