// Package app contains the services orchestrating stores and domain
// logic per request. All business rules live in domain/; I/O happens at
// the edges via injected ports.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/country"
	"github.com/roamsim/storefront/domain/pricing"
	"github.com/roamsim/storefront/ports"
)

// ErrPlanNotFound is returned when no package matches a requested id or
// slug.
var ErrPlanNotFound = errors.New("plan not found")

// PlanQuery narrows the public plan list.
type PlanQuery struct {
	Country string
	Type    string
	Limit   int
}

// TopupQuery narrows the public top-up list.
type TopupQuery struct {
	Country    string
	Category   string // matches the plan variant: "data", "unlim" or "sms"
	SlugPrefix string
}

// CountriesResult is the full payload of the country listing.
type CountriesResult struct {
	Countries          []country.Aggregate
	Labels             country.Labels
	DiscountPercentage float64
	Count              int
	Breakdown          country.Breakdown
}

// TopupsResult is the full payload of the top-up listing.
type TopupsResult struct {
	Plans              []catalog.PlanView
	DiscountPercentage float64
}

// CatalogService serves the public catalog: plan lists, plan detail,
// the country index and top-ups. Each call re-runs the normalization
// pipeline over the active package rows under the current discount.
type CatalogService struct {
	packages ports.PackageStore
	names    ports.CountryStore
	labels   ports.LabelStore
	config   ports.ConfigStore
	logger   zerolog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(
	packages ports.PackageStore,
	names ports.CountryStore,
	labels ports.LabelStore,
	config ports.ConfigStore,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		packages: packages,
		names:    names,
		labels:   labels,
		config:   config,
		logger:   logger,
	}
}

// Discount reads the active discount percentage. An absent or
// malformed config row means no discount.
func (s *CatalogService) Discount(ctx context.Context) pricing.Discount {
	raw, err := s.config.Get(ctx, ports.ConfigDiscountPercentage)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("reading discount config")
		}
		return pricing.Discount{}
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		s.logger.Warn().Str("value", raw).Msg("discount config is not a number")
		return pricing.Discount{}
	}
	return pricing.NewDiscount(pct)
}

// Plans returns the filtered, deduplicated plan list.
func (s *CatalogService) Plans(ctx context.Context, q PlanQuery) ([]catalog.PlanView, error) {
	rows, err := s.packages.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	d := s.Discount(ctx)
	plans := catalog.Deduplicate(catalog.Filter(rows))

	names, err := s.names.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	out := make([]catalog.PlanView, 0, len(plans))
	for _, p := range plans {
		if q.Country != "" && !hasCountry(p, q.Country) {
			continue
		}
		if q.Type != "" && string(p.Type) != q.Type {
			continue
		}
		v := catalog.NewPlanView(p, d)
		v.CountryName = names[v.Country].Name
		out = append(out, v)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// Plan returns the detail view for one package, addressed by id or
// slug. When nothing matches and the requested slug carries a "-topup"
// suffix whose base slug exists, the base slug is returned as a
// redirect hint alongside ErrPlanNotFound.
func (s *CatalogService) Plan(ctx context.Context, idOrSlug string) (catalog.PlanView, string, error) {
	p, err := s.lookup(ctx, idOrSlug)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			return catalog.PlanView{}, "", fmt.Errorf("get package: %w", err)
		}
		if base, ok := strings.CutSuffix(idOrSlug, "-topup"); ok {
			if _, baseErr := s.packages.GetBySlug(ctx, base); baseErr == nil {
				return catalog.PlanView{}, base, ErrPlanNotFound
			}
		}
		return catalog.PlanView{}, "", ErrPlanNotFound
	}

	v := catalog.NewPlanView(p, s.Discount(ctx))
	if n, err := s.names.Get(ctx, v.Country); err == nil {
		v.CountryName = n.Name
	}
	return v, "", nil
}

// Countries returns the aggregated country index.
func (s *CatalogService) Countries(ctx context.Context) (CountriesResult, error) {
	rows, err := s.packages.ListActive(ctx)
	if err != nil {
		return CountriesResult{}, fmt.Errorf("list packages: %w", err)
	}
	names, err := s.names.All(ctx)
	if err != nil {
		return CountriesResult{}, fmt.Errorf("list countries: %w", err)
	}
	labels, err := s.labels.All(ctx)
	if err != nil {
		return CountriesResult{}, fmt.Errorf("list labels: %w", err)
	}

	d := s.Discount(ctx)
	aggs, breakdown := country.Build(catalog.Filter(rows), names, labels, d)

	return CountriesResult{
		Countries:          aggs,
		Labels:             labels,
		DiscountPercentage: d.Percentage,
		Count:              len(aggs),
		Breakdown:          breakdown,
	}, nil
}

// Topups returns the top-up rows, discounted like plans but exempt
// from the 1GB floor and deduplication.
func (s *CatalogService) Topups(ctx context.Context, q TopupQuery) (TopupsResult, error) {
	rows, err := s.packages.ListActive(ctx)
	if err != nil {
		return TopupsResult{}, fmt.Errorf("list packages: %w", err)
	}

	d := s.Discount(ctx)
	out := make([]catalog.PlanView, 0)
	for _, p := range catalog.Topups(rows) {
		if q.Country != "" && !hasCountry(p, q.Country) {
			continue
		}
		if q.Category != "" && catalog.Variant(p) != q.Category {
			continue
		}
		if q.SlugPrefix != "" && !strings.HasPrefix(p.Slug, q.SlugPrefix) {
			continue
		}
		out = append(out, catalog.NewPlanView(p, d))
	}
	return TopupsResult{Plans: out, DiscountPercentage: d.Percentage}, nil
}

// lookup resolves a package by id first, then slug.
func (s *CatalogService) lookup(ctx context.Context, idOrSlug string) (catalog.Package, error) {
	p, err := s.packages.Get(ctx, idOrSlug)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return catalog.Package{}, err
	}
	return s.packages.GetBySlug(ctx, idOrSlug)
}

func hasCountry(p catalog.Package, code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range p.CountryCodes() {
		if c == code {
			return true
		}
	}
	return false
}
