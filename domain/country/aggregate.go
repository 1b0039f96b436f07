// Package country aggregates filtered catalog rows into per-country
// minimum prices for the storefront country list.
package country

import (
	"sort"

	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/pricing"
)

// Names holds the display names for one country code, sourced from the
// country-names table. Missing rows leave names empty on purpose; the
// code is never used as a fallback name.
type Names struct {
	Code   string
	Name   string
	NameRU string
}

// Labels is the ui_labels key-value table. Absent keys yield empty
// strings, never hardcoded fallback text.
type Labels map[string]string

// Get returns the label for a key, or empty.
func (l Labels) Get(key string) string {
	return l[key]
}

// Region returns the locale label for a named region
// (key "region_<Name>").
func (l Labels) Region(name string) string {
	return l["region_"+name]
}

// Aggregate is one entry of the country list: a 2-letter code (or the
// synthetic GL/RG pseudo-codes) with its minimum price per currency.
type Aggregate struct {
	Code      string
	Name      string
	NameRU    string
	PlanCount int
	MinPrices pricing.Amounts
	// OriginalPrices holds pre-discount minimums, only while a
	// discount is active.
	OriginalPrices *pricing.Amounts
}

// Breakdown counts filtered rows per package scope.
type Breakdown struct {
	Local    int
	Regional int
	Global   int
}

// oneGBClass reports whether a row belongs to the headline 1GB bucket.
func oneGBClass(p catalog.Package) bool {
	mb := p.EffectiveMB()
	return mb >= 1024 && mb < 2048
}

// Build groups filtered (not deduplicated) rows into aggregates: one
// per distinct expanded country code, plus synthetic GL and RG entries
// when global/regional rows exist. Countries without a positive USD
// price are dropped. Output: local codes sorted alphabetically, then
// GL, then RG.
func Build(rows []catalog.Package, names map[string]Names, labels Labels, d pricing.Discount) ([]Aggregate, Breakdown) {
	buckets := make(map[string][]catalog.Package)
	var breakdown Breakdown

	for _, p := range rows {
		switch p.Type {
		case catalog.TypeGlobal:
			breakdown.Global++
			buckets[catalog.ScopeGlobal] = append(buckets[catalog.ScopeGlobal], p)
		case catalog.TypeRegional:
			breakdown.Regional++
			buckets[catalog.ScopeRegional] = append(buckets[catalog.ScopeRegional], p)
		default:
			breakdown.Local++
		}
		// Regional bundles with explicit codes also count toward each
		// listed country.
		for _, code := range p.CountryCodes() {
			buckets[code] = append(buckets[code], p)
		}
	}

	out := make([]Aggregate, 0, len(buckets))
	for code, bucket := range buckets {
		agg, ok := build(code, bucket, d)
		if !ok {
			continue
		}
		switch code {
		case catalog.ScopeGlobal:
			agg.Name = labels.Get("global")
		case catalog.ScopeRegional:
			agg.Name = regionLabel(bucket, labels)
		default:
			n := names[code]
			agg.Name = n.Name
			agg.NameRU = n.NameRU
		}
		out = append(out, agg)
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := sortRank(out[i].Code), sortRank(out[j].Code)
		if ri != rj {
			return ri < rj
		}
		return out[i].Code < out[j].Code
	})
	return out, breakdown
}

// regionLabel names the RG aggregate. When every regional row carries
// the same region tag in its operator column, the region-specific
// label (key "region_<Name>") wins over the generic one.
func regionLabel(bucket []catalog.Package, labels Labels) string {
	tag := ""
	for _, p := range bucket {
		switch {
		case p.Operator == "":
			continue
		case tag == "":
			tag = p.Operator
		case tag != p.Operator:
			return labels.Get("regional")
		}
	}
	if tag != "" {
		if name := labels.Region(tag); name != "" {
			return name
		}
	}
	return labels.Get("regional")
}

// sortRank pins GL then RG after the alphabetical local codes.
func sortRank(code string) int {
	switch code {
	case catalog.ScopeGlobal:
		return 1
	case catalog.ScopeRegional:
		return 2
	}
	return 0
}

// build computes one aggregate from its bucket. The headline price
// uses the 1GB-class subset when one exists, else every row in the
// bucket; ok is false when no positive USD price exists at all.
func build(code string, bucket []catalog.Package, d pricing.Discount) (Aggregate, bool) {
	subset := make([]catalog.Package, 0, len(bucket))
	for _, p := range bucket {
		if oneGBClass(p) {
			subset = append(subset, p)
		}
	}
	if len(subset) == 0 {
		subset = bucket
	}

	var raw pricing.Amounts
	for _, c := range pricing.Currencies {
		if min, ok := minPositive(subset, c); ok {
			raw.Set(c, &min)
		}
	}
	if raw.USD == nil {
		return Aggregate{}, false
	}

	display, original := d.ApplyAmounts(raw)
	return Aggregate{
		Code:           code,
		PlanCount:      len(bucket),
		MinPrices:      display,
		OriginalPrices: original,
	}, true
}

func minPositive(rows []catalog.Package, c pricing.Currency) (float64, bool) {
	var min float64
	found := false
	for _, p := range rows {
		v := p.Prices.Get(c)
		if v == nil || *v <= 0 {
			continue
		}
		if !found || *v < min {
			min = *v
			found = true
		}
	}
	return min, found
}
