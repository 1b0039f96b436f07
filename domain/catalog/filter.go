package catalog

import "strings"

// MinPlanMB is the smallest data plan shown to customers. Smaller
// plans are top-up territory and hidden from the catalog.
const MinPlanMB = 1024

// topupMarkers are matched case-insensitively against slug, titles and
// description. Upstream data does not reliably flag top-ups, so any
// match in any field rejects the row.
var topupMarkers = []string{
	"topup",
	"top-up",
	"top up",
	"пополнение",
	"топ-ап",
	"топап",
}

// IsTopup reports whether a row is a top-up SKU, by type or by
// marker heuristics over its text fields.
func IsTopup(p Package) bool {
	if p.Type == TypeTopup {
		return true
	}
	for _, field := range []string{p.Slug, p.Title, p.TitleRU, p.Description} {
		if field == "" {
			continue
		}
		lower := strings.ToLower(field)
		for _, marker := range topupMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// Eligible reports whether a row may appear in customer-facing plan
// lists. The is_unlimited flag is the canonical unlimited signal;
// a zero data amount on its own does not make a row unlimited.
func Eligible(p Package) bool {
	if IsTopup(p) {
		return false
	}
	if p.Unlimited {
		return true
	}
	return p.EffectiveMB() >= MinPlanMB
}

// Filter returns the display-eligible subset of rows, preserving
// input order. Nothing beyond top-up and sub-1GB rows is removed.
func Filter(rows []Package) []Package {
	out := make([]Package, 0, len(rows))
	for _, p := range rows {
		if Eligible(p) {
			out = append(out, p)
		}
	}
	return out
}

// Topups returns the rows classified as top-ups, for the top-up
// storefront view.
func Topups(rows []Package) []Package {
	out := make([]Package, 0, len(rows))
	for _, p := range rows {
		if IsTopup(p) {
			out = append(out, p)
		}
	}
	return out
}
