// Package catalog provides package row value types and the pure
// filter/dedup/view pipeline applied before any catalog response.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/roamsim/storefront/domain/pricing"
)

// PackageType classifies a sellable SKU by geographic scope.
type PackageType string

const (
	TypeLocal    PackageType = "local"
	TypeRegional PackageType = "regional"
	TypeGlobal   PackageType = "global"
	TypeTopup    PackageType = "topup"
)

// Scope pseudo-codes used for non-local groupings.
const (
	ScopeGlobal   = "GL"
	ScopeRegional = "RG"
)

// Package is one sellable data-plan SKU as imported upstream.
// Rows are read-only from the pipeline's perspective.
type Package struct {
	ID          string
	Slug        string
	Title       string
	TitleRU     string
	Description string
	CountryCode string // "", one ISO code, or a comma-separated list
	Type        PackageType
	DataMB      int64  // 0 when unknown; see DataText
	DataText    string // free-text amount, parsed when DataMB is unset
	ValidityDays int
	Unlimited   bool
	Voice       bool
	SMS         bool
	Operator    string
	Active      bool
	Prices      pricing.Amounts
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectiveMB returns the data amount in MB, falling back to parsing
// the free-text field when the numeric column is unset.
func (p Package) EffectiveMB() int64 {
	if p.DataMB > 0 {
		return p.DataMB
	}
	return parseMB(p.DataText)
}

// CountryCodes expands a possibly comma-separated country_code value
// into individual upper-cased 2-letter codes.
func (p Package) CountryCodes() []string {
	if strings.TrimSpace(p.CountryCode) == "" {
		return nil
	}
	parts := strings.Split(p.CountryCode, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// Scope returns the grouping key used during deduplication: GL for
// global rows, RG (qualified by operator) for regional bundles, the
// raw country code otherwise.
func (p Package) Scope() string {
	switch p.Type {
	case TypeGlobal:
		return ScopeGlobal
	case TypeRegional:
		if p.Operator != "" {
			return ScopeRegional + ":" + p.Operator
		}
		return ScopeRegional
	}
	return strings.ToUpper(strings.TrimSpace(p.CountryCode))
}

// parseMB pulls a leading integer out of a free-text data amount
// ("1024", "1024 MB", "3GB" yields 3).
func parseMB(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
