// Package pricing provides currency value types and the discount engine.
// All functions are pure; prices never cross currency boundaries.
package pricing

import "math"

// Currency identifies a settlement currency for a price field.
type Currency string

const (
	USD Currency = "usd"
	RUB Currency = "rub"
	ILS Currency = "ils"
	EUR Currency = "eur"
	AUD Currency = "aud"
	CAD Currency = "cad"
)

// Currencies lists every currency a package row can carry a price in.
var Currencies = []Currency{USD, RUB, ILS, EUR, AUD, CAD}

// Amounts holds one optional price per currency. A nil entry means the
// row carries no price in that currency.
type Amounts struct {
	USD *float64
	RUB *float64
	ILS *float64
	EUR *float64
	AUD *float64
	CAD *float64
}

// Get returns the price for a currency, or nil.
func (a Amounts) Get(c Currency) *float64 {
	switch c {
	case USD:
		return a.USD
	case RUB:
		return a.RUB
	case ILS:
		return a.ILS
	case EUR:
		return a.EUR
	case AUD:
		return a.AUD
	case CAD:
		return a.CAD
	}
	return nil
}

// Set stores the price for a currency.
func (a *Amounts) Set(c Currency, v *float64) {
	switch c {
	case USD:
		a.USD = v
	case RUB:
		a.RUB = v
	case ILS:
		a.ILS = v
	case EUR:
		a.EUR = v
	case AUD:
		a.AUD = v
	case CAD:
		a.CAD = v
	}
}

// IsZero reports whether no currency carries a price.
func (a Amounts) IsZero() bool {
	for _, c := range Currencies {
		if a.Get(c) != nil {
			return false
		}
	}
	return true
}

// PriceFloor is the minimum displayed price after a discount, in the
// raw value's own currency unit. Applying the same floor to every
// currency is a known simplification kept on purpose.
const PriceFloor = 0.5

// Discount is a global percentage discount (immutable value type).
type Discount struct {
	Percentage float64
}

// NewDiscount clamps a raw percentage into [0,100].
func NewDiscount(pct float64) Discount {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return Discount{Percentage: pct}
}

// Active reports whether the discount changes displayed prices.
func (d Discount) Active() bool {
	return d.Percentage > 0
}

// Apply computes the displayed price for a positive raw price.
// The result never goes below PriceFloor.
func (d Discount) Apply(raw float64) float64 {
	display := round2(raw * (100 - d.Percentage) / 100)
	if display < PriceFloor {
		return PriceFloor
	}
	return display
}

// ApplyAmounts discounts every currency independently.
// Non-positive or absent raw values pass through unchanged. The second
// return value holds the pre-discount prices and is nil unless the
// discount is active.
func (d Discount) ApplyAmounts(raw Amounts) (Amounts, *Amounts) {
	var display Amounts
	var original Amounts
	for _, c := range Currencies {
		p := raw.Get(c)
		if p == nil {
			continue
		}
		if *p <= 0 {
			v := *p
			display.Set(c, &v)
			continue
		}
		dv := d.Apply(*p)
		display.Set(c, &dv)
		if d.Active() {
			ov := *p
			original.Set(c, &ov)
		}
	}
	if !d.Active() {
		return display, nil
	}
	return display, &original
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Ptr is a convenience for building optional prices.
func Ptr(v float64) *float64 {
	return &v
}
