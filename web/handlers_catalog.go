package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roamsim/storefront/app"
	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/country"
	"github.com/roamsim/storefront/domain/pricing"
)

// planJSON is the wire shape of one plan.
type planJSON struct {
	ID           string             `json:"id"`
	Slug         string             `json:"slug"`
	Title        string             `json:"title"`
	Type         string             `json:"type"`
	Country      string             `json:"country,omitempty"`
	CountryName  string             `json:"countryName,omitempty"`
	Data         string             `json:"data"`
	DataMB       int64              `json:"dataMb"`
	Validity     string             `json:"validity"`
	ValidityDays int                `json:"validityDays"`
	IsUnlimited  bool               `json:"isUnlimited"`
	Voice        bool               `json:"voice,omitempty"`
	SMS          bool               `json:"sms,omitempty"`
	Operator     string             `json:"operator,omitempty"`
	Prices       map[string]float64 `json:"prices"`
	// OriginalPrices appears only while a discount is active.
	OriginalPrices map[string]float64 `json:"originalPrices,omitempty"`
}

// countryJSON is the wire shape of one country aggregate.
type countryJSON struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	NameRU         string             `json:"nameRu,omitempty"`
	PlanCount      int                `json:"planCount"`
	MinPrices      map[string]float64 `json:"minPrices"`
	OriginalPrices map[string]float64 `json:"originalPrices,omitempty"`
}

func pricesJSON(a pricing.Amounts) map[string]float64 {
	out := make(map[string]float64)
	for _, c := range pricing.Currencies {
		if v := a.Get(c); v != nil {
			out[string(c)] = *v
		}
	}
	return out
}

func toPlanJSON(v catalog.PlanView) planJSON {
	p := planJSON{
		ID:           v.ID,
		Slug:         v.Slug,
		Title:        v.DisplayTitle(),
		Type:         string(v.Type),
		CountryName:  v.CountryName,
		Data:         v.Data,
		DataMB:       v.DataMB,
		Validity:     v.Validity,
		ValidityDays: v.ValidityDays,
		IsUnlimited:  v.Unlimited,
		Voice:        v.Voice,
		SMS:          v.SMS,
		Operator:     v.Operator,
		Prices:       pricesJSON(v.Prices),
	}
	// Regional and global bundles have no single country.
	if v.Type == catalog.TypeLocal || v.Type == catalog.TypeTopup {
		p.Country = v.Country
	}
	if v.OriginalPrices != nil {
		p.OriginalPrices = pricesJSON(*v.OriginalPrices)
	}
	return p
}

func toCountryJSON(a country.Aggregate) countryJSON {
	c := countryJSON{
		Code:      a.Code,
		Name:      a.Name,
		NameRU:    a.NameRU,
		PlanCount: a.PlanCount,
		MinPrices: pricesJSON(a.MinPrices),
	}
	if a.OriginalPrices != nil {
		c.OriginalPrices = pricesJSON(*a.OriginalPrices)
	}
	return c
}

// Plans serves GET /api/public/plans.
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	q := app.PlanQuery{
		Country: r.URL.Query().Get("country"),
		Type:    r.URL.Query().Get("type"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = n
	}

	start := time.Now()
	plans, err := h.catalog.Plans(r.Context(), q)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing plans")
		h.respondError(w, http.StatusInternalServerError, "failed to load plans")
		return
	}
	h.catalogObserved("plans", start, len(plans))

	out := make([]planJSON, 0, len(plans))
	for _, v := range plans {
		out = append(out, toPlanJSON(v))
	}
	h.respond(w, http.StatusOK, map[string]any{
		"plans": out,
		"count": len(out),
	})
}

// Plan serves GET /api/public/plans/{packageId}.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "packageId")

	v, redirect, err := h.catalog.Plan(r.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrPlanNotFound) {
			if redirect != "" {
				h.respondRedirect(w, http.StatusNotFound, "plan not found", "/api/public/plans/"+redirect)
				return
			}
			h.respondError(w, http.StatusNotFound, "plan not found")
			return
		}
		h.logger.Error().Err(err).Str("package", id).Msg("loading plan")
		h.respondError(w, http.StatusInternalServerError, "failed to load plan")
		return
	}

	h.respond(w, http.StatusOK, toPlanJSON(v))
}

// Countries serves GET /api/public/countries.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := h.catalog.Countries(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing countries")
		h.respondError(w, http.StatusInternalServerError, "failed to load countries")
		return
	}
	h.catalogObserved("countries", start, len(res.Countries))

	out := make([]countryJSON, 0, len(res.Countries))
	for _, a := range res.Countries {
		out = append(out, toCountryJSON(a))
	}
	h.respond(w, http.StatusOK, map[string]any{
		"countries":          out,
		"labels":             res.Labels,
		"discountPercentage": res.DiscountPercentage,
		"count":              res.Count,
		"breakdown": map[string]int{
			"local":    res.Breakdown.Local,
			"regional": res.Breakdown.Regional,
			"global":   res.Breakdown.Global,
		},
	})
}

// Topups serves GET /api/public/topups.
func (h *Handler) Topups(w http.ResponseWriter, r *http.Request) {
	q := app.TopupQuery{
		Country:    r.URL.Query().Get("country"),
		Category:   r.URL.Query().Get("category"),
		SlugPrefix: r.URL.Query().Get("slugPrefix"),
	}

	start := time.Now()
	res, err := h.catalog.Topups(r.Context(), q)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing topups")
		h.respondError(w, http.StatusInternalServerError, "failed to load topups")
		return
	}
	h.catalogObserved("topups", start, len(res.Plans))

	out := make([]planJSON, 0, len(res.Plans))
	for _, v := range res.Plans {
		out = append(out, toPlanJSON(v))
	}
	h.respond(w, http.StatusOK, map[string]any{
		"plans":              out,
		"count":              len(out),
		"discountPercentage": res.DiscountPercentage,
	})
}
