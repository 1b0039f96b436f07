package sqlite

import (
	"context"
	"database/sql"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/pricing"
	"github.com/roamsim/storefront/ports"
)

// PackageStore implements ports.PackageStore with SQLite.
type PackageStore struct {
	db *DB
}

// NewPackageStore creates a new SQLite package store.
func NewPackageStore(db *DB) *PackageStore {
	return &PackageStore{db: db}
}

const packageColumns = `id, slug, title, title_ru, description,
	COALESCE(country_code, ''), package_type,
	COALESCE(data_amount_mb, 0), data_amount, validity_days,
	is_unlimited, voice_included, sms_included, operator, is_active,
	price_usd, price_rub, price_ils, price_eur, price_aud, price_cad,
	created_at, updated_at`

// ListActive returns every active package row.
func (s *PackageStore) ListActive(ctx context.Context) ([]catalog.Package, error) {
	return s.list(ctx, `
		SELECT `+packageColumns+`
		FROM esim_packages WHERE is_active = 1
		ORDER BY country_code, data_amount_mb, validity_days
	`)
}

// List returns all rows, including inactive, for the admin view.
func (s *PackageStore) List(ctx context.Context) ([]catalog.Package, error) {
	return s.list(ctx, `
		SELECT `+packageColumns+`
		FROM esim_packages
		ORDER BY country_code, data_amount_mb, validity_days
	`)
}

func (s *PackageStore) list(ctx context.Context, query string) ([]catalog.Package, error) {
	rows, err := s.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []catalog.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, rows.Err()
}

// Get retrieves a package by ID.
func (s *PackageStore) Get(ctx context.Context, id string) (catalog.Package, error) {
	row := s.db.DB.QueryRowContext(ctx, `
		SELECT `+packageColumns+`
		FROM esim_packages WHERE id = ?
	`, id)
	return getPackage(row)
}

// GetBySlug retrieves a package by slug.
func (s *PackageStore) GetBySlug(ctx context.Context, slug string) (catalog.Package, error) {
	row := s.db.DB.QueryRowContext(ctx, `
		SELECT `+packageColumns+`
		FROM esim_packages WHERE slug = ?
	`, slug)
	return getPackage(row)
}

// Create stores a new package.
func (s *PackageStore) Create(ctx context.Context, p catalog.Package) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO esim_packages (id, slug, title, title_ru, description,
			country_code, package_type, data_amount_mb, data_amount,
			validity_days, is_unlimited, voice_included, sms_included,
			operator, is_active, price_usd, price_rub, price_ils,
			price_eur, price_aud, price_cad)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Slug, p.Title, p.TitleRU, p.Description,
		nullString(p.CountryCode), string(p.Type), nullInt(p.DataMB), p.DataText,
		p.ValidityDays, p.Unlimited, p.Voice, p.SMS,
		p.Operator, p.Active, p.Prices.USD, p.Prices.RUB, p.Prices.ILS,
		p.Prices.EUR, p.Prices.AUD, p.Prices.CAD)
	return err
}

// Update modifies a package.
func (s *PackageStore) Update(ctx context.Context, p catalog.Package) error {
	res, err := s.db.DB.ExecContext(ctx, `
		UPDATE esim_packages SET slug = ?, title = ?, title_ru = ?,
			description = ?, country_code = ?, package_type = ?,
			data_amount_mb = ?, data_amount = ?, validity_days = ?,
			is_unlimited = ?, voice_included = ?, sms_included = ?,
			operator = ?, is_active = ?, price_usd = ?, price_rub = ?,
			price_ils = ?, price_eur = ?, price_aud = ?, price_cad = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Slug, p.Title, p.TitleRU, p.Description,
		nullString(p.CountryCode), string(p.Type), nullInt(p.DataMB), p.DataText,
		p.ValidityDays, p.Unlimited, p.Voice, p.SMS, p.Operator, p.Active,
		p.Prices.USD, p.Prices.RUB, p.Prices.ILS, p.Prices.EUR,
		p.Prices.AUD, p.Prices.CAD, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Delete removes a package.
func (s *PackageStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.DB.ExecContext(ctx, "DELETE FROM esim_packages WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(r rowScanner) (catalog.Package, error) {
	var p catalog.Package
	var pkgType string
	var usd, rub, ils, eur, aud, cad sql.NullFloat64
	err := r.Scan(
		&p.ID, &p.Slug, &p.Title, &p.TitleRU, &p.Description,
		&p.CountryCode, &pkgType, &p.DataMB, &p.DataText, &p.ValidityDays,
		&p.Unlimited, &p.Voice, &p.SMS, &p.Operator, &p.Active,
		&usd, &rub, &ils, &eur, &aud, &cad,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	p.Type = catalog.PackageType(pkgType)
	p.Prices = pricing.Amounts{
		USD: nullToPtr(usd),
		RUB: nullToPtr(rub),
		ILS: nullToPtr(ils),
		EUR: nullToPtr(eur),
		AUD: nullToPtr(aud),
		CAD: nullToPtr(cad),
	}
	return p, nil
}

func getPackage(row *sql.Row) (catalog.Package, error) {
	p, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return catalog.Package{}, ports.ErrNotFound
	}
	return p, err
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

// Ensure interface compliance.
var _ ports.PackageStore = (*PackageStore)(nil)
