package catalog

import (
	"strconv"
	"strings"

	"github.com/roamsim/storefront/domain/pricing"
)

// PlanView is the canonical display record computed per request from
// one Package row. Every consumer-facing JSON shape projects from it;
// it is never persisted.
type PlanView struct {
	ID           string
	Slug         string
	Title        string
	Type         PackageType
	Country      string
	CountryName  string // filled by the caller from the country-names table
	Data         string // "5GB", "Unlimited", "1.5GB"
	DataMB       int64
	Validity     string // "30 days"
	ValidityDays int
	Unlimited    bool
	Voice        bool
	SMS          bool
	Operator     string
	Prices       pricing.Amounts
	// OriginalPrices is set only while a discount is active.
	OriginalPrices *pricing.Amounts
}

// NewPlanView derives the display record for one row under the given
// discount.
func NewPlanView(p Package, d pricing.Discount) PlanView {
	display, original := d.ApplyAmounts(p.Prices)
	mb := p.EffectiveMB()
	return PlanView{
		ID:             p.ID,
		Slug:           p.Slug,
		Title:          p.Title,
		Type:           p.Type,
		Country:        strings.ToUpper(strings.TrimSpace(p.CountryCode)),
		Data:           FormatData(mb, p.Unlimited),
		DataMB:         mb,
		Validity:       FormatValidity(p.ValidityDays),
		ValidityDays:   p.ValidityDays,
		Unlimited:      p.Unlimited,
		Voice:          p.Voice,
		SMS:            p.SMS,
		Operator:       p.Operator,
		Prices:         display,
		OriginalPrices: original,
	}
}

// DisplayTitle returns the row title, composing one from country name,
// data amount and validity when the import left it empty.
func (v PlanView) DisplayTitle() string {
	if v.Title != "" {
		return v.Title
	}
	parts := make([]string, 0, 3)
	if v.CountryName != "" {
		parts = append(parts, v.CountryName)
	}
	if v.Data != "" {
		parts = append(parts, v.Data)
	}
	if v.Validity != "" {
		parts = append(parts, v.Validity)
	}
	return strings.Join(parts, " ")
}

// FormatData renders a data amount for display. Whole gigabytes drop
// the fraction ("5GB"), sub-GB fractions keep one decimal ("1.5GB"),
// amounts under 1GB stay in MB.
func FormatData(mb int64, unlimited bool) string {
	if unlimited {
		return "Unlimited"
	}
	if mb <= 0 {
		return ""
	}
	if mb < 1024 {
		return strconv.FormatInt(mb, 10) + "MB"
	}
	if mb%1024 == 0 {
		return strconv.FormatInt(mb/1024, 10) + "GB"
	}
	gb := float64(mb) / 1024
	return strconv.FormatFloat(gb, 'f', 1, 64) + "GB"
}

// FormatValidity renders validity in days.
func FormatValidity(days int) string {
	if days <= 0 {
		return ""
	}
	if days == 1 {
		return "1 day"
	}
	return strconv.Itoa(days) + " days"
}
