package catalog

import (
	"sort"
	"strconv"
)

// allowedTiers are the canonical data buckets SKUs snap to during
// deduplication, in MB.
var allowedTiers = []int64{1024, 2048, 3072, 5120, 10240, 20480, 51200, 102400}

// tierTolerance is how far (in MB) a row may sit from a canonical
// tier and still count as that tier.
const tierTolerance = 100

// TierUnlimited is the tier label for unlimited rows.
const TierUnlimited = "unlimited"

// missingPriceUSD stands in for an absent price_usd during cheapest
// selection, so unpriced rows only survive when nothing else competes.
const missingPriceUSD = 999

// TierLabel buckets a row's data amount: the nearest allowed tier
// within tolerance, else the literal MB value, else "unlimited".
func TierLabel(p Package) string {
	if p.Unlimited {
		return TierUnlimited
	}
	mb := p.EffectiveMB()
	for _, tier := range allowedTiers {
		if mb >= tier-tierTolerance && mb <= tier+tierTolerance {
			return strconv.FormatInt(tier, 10)
		}
	}
	return strconv.FormatInt(mb, 10)
}

// Variant separates bundle kinds sharing a tier, so a voice/SMS
// bundle never shadows a pure-data bundle (or vice versa).
func Variant(p Package) string {
	if p.SMS || p.Voice {
		return "sms"
	}
	if p.Unlimited {
		return "unlim"
	}
	return "data"
}

func dedupKey(p Package) string {
	return p.Scope() + "|" + TierLabel(p) + "|" + strconv.Itoa(p.ValidityDays) + "|" + Variant(p)
}

func priceUSD(p Package) float64 {
	if p.Prices.USD == nil || *p.Prices.USD <= 0 {
		return missingPriceUSD
	}
	return *p.Prices.USD
}

// Deduplicate keeps the cheapest row (by price_usd) per
// (scope, tier, validity, variant) key. Price ties fall to the row
// with the smaller ID, which keeps the result independent of input
// order. Output is sorted by scope, tier, validity and ID.
func Deduplicate(rows []Package) []Package {
	cheapest := make(map[string]Package, len(rows))
	for _, p := range rows {
		key := dedupKey(p)
		current, ok := cheapest[key]
		if !ok {
			cheapest[key] = p
			continue
		}
		switch {
		case priceUSD(p) < priceUSD(current):
			cheapest[key] = p
		case priceUSD(p) == priceUSD(current) && p.ID < current.ID:
			cheapest[key] = p
		}
	}

	out := make([]Package, 0, len(cheapest))
	for _, p := range cheapest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope() != out[j].Scope() {
			return out[i].Scope() < out[j].Scope()
		}
		if out[i].EffectiveMB() != out[j].EffectiveMB() {
			return out[i].EffectiveMB() < out[j].EffectiveMB()
		}
		if out[i].ValidityDays != out[j].ValidityDays {
			return out[i].ValidityDays < out[j].ValidityDays
		}
		return out[i].ID < out[j].ID
	})
	return out
}
