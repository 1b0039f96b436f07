package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/country"
	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/ports"
)

// ErrInvalidCredentials is returned on a failed admin login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenIssuer mints admin session tokens.
type TokenIssuer interface {
	GenerateToken(email string) (string, time.Time, error)
}

// Session is a minted admin token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AdminService serves the admin surface: login, the discount knob,
// package CRUD, label editing and the order list.
type AdminService struct {
	packages ports.PackageStore
	labels   ports.LabelStore
	config   ports.ConfigStore
	orders   ports.OrderStore
	hasher   ports.Hasher
	tokens   TokenIssuer
	idGen    ports.IDGenerator
	clock    ports.Clock

	adminEmail   string
	passwordHash []byte

	logger zerolog.Logger
}

// NewAdminService creates an admin service. The admin account is a
// single configured email and bcrypt password hash.
func NewAdminService(
	packages ports.PackageStore,
	labels ports.LabelStore,
	config ports.ConfigStore,
	orders ports.OrderStore,
	hasher ports.Hasher,
	tokens TokenIssuer,
	idGen ports.IDGenerator,
	clock ports.Clock,
	adminEmail string,
	passwordHash []byte,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		packages:     packages,
		labels:       labels,
		config:       config,
		orders:       orders,
		hasher:       hasher,
		tokens:       tokens,
		idGen:        idGen,
		clock:        clock,
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: passwordHash,
		logger:       logger,
	}
}

// Login verifies the admin credentials and mints a session token.
func (s *AdminService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.adminEmail == "" || email != s.adminEmail || !s.hasher.Compare(s.passwordHash, password) {
		s.logger.Warn().Str("email", email).Msg("admin login rejected")
		return Session{}, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.GenerateToken(email)
	if err != nil {
		return Session{}, fmt.Errorf("mint token: %w", err)
	}
	s.logger.Info().Str("email", email).Msg("admin login")
	return Session{Token: token, ExpiresAt: expires}, nil
}

// Discount reads the stored discount percentage (0 when unset).
func (s *AdminService) Discount(ctx context.Context) (float64, error) {
	raw, err := s.config.Get(ctx, ports.ConfigDiscountPercentage)
	if errors.Is(err, ports.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read discount: %w", err)
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, nil
	}
	return clampPercent(pct), nil
}

// SetDiscount stores a new discount percentage, clamped to [0,100].
func (s *AdminService) SetDiscount(ctx context.Context, pct float64) (float64, error) {
	pct = clampPercent(pct)
	value := strconv.FormatFloat(pct, 'f', -1, 64)
	if err := s.config.Set(ctx, ports.ConfigDiscountPercentage, value); err != nil {
		return 0, fmt.Errorf("store discount: %w", err)
	}
	s.logger.Info().Float64("percentage", pct).Msg("discount updated")
	return pct, nil
}

// Packages returns every package row, inactive included.
func (s *AdminService) Packages(ctx context.Context) ([]catalog.Package, error) {
	return s.packages.List(ctx)
}

// CreatePackage stores a new package row, assigning an id when absent.
func (s *AdminService) CreatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error) {
	if strings.TrimSpace(p.Slug) == "" {
		return catalog.Package{}, errors.New("slug is required")
	}
	if p.ID == "" {
		p.ID = s.idGen.New()
	}
	now := s.clock.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.packages.Create(ctx, p); err != nil {
		return catalog.Package{}, fmt.Errorf("create package: %w", err)
	}
	return p, nil
}

// UpdatePackage modifies an existing package row.
func (s *AdminService) UpdatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error) {
	existing, err := s.packages.Get(ctx, p.ID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return catalog.Package{}, ErrPlanNotFound
		}
		return catalog.Package{}, fmt.Errorf("get package: %w", err)
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.clock.Now().UTC()
	if err := s.packages.Update(ctx, p); err != nil {
		return catalog.Package{}, fmt.Errorf("update package: %w", err)
	}
	return p, nil
}

// DeletePackage removes a package row.
func (s *AdminService) DeletePackage(ctx context.Context, id string) error {
	err := s.packages.Delete(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// Labels returns the ui_labels table.
func (s *AdminService) Labels(ctx context.Context) (country.Labels, error) {
	return s.labels.All(ctx)
}

// SetLabels upserts a batch of labels.
func (s *AdminService) SetLabels(ctx context.Context, labels map[string]string) error {
	for key, value := range labels {
		if strings.TrimSpace(key) == "" {
			continue
		}
		if err := s.labels.Set(ctx, key, value); err != nil {
			return fmt.Errorf("set label %s: %w", key, err)
		}
	}
	return nil
}

// Orders returns recent orders, newest first.
func (s *AdminService) Orders(ctx context.Context, limit, offset int) ([]order.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(ctx, limit, offset)
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
