package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roamsim/storefront/app"
	"github.com/roamsim/storefront/domain/catalog"
	"github.com/roamsim/storefront/domain/pricing"
)

// requireAdmin validates the Bearer token on admin routes.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.authFailure("missing_token")
			h.respondError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if _, err := h.tokens.ValidateToken(token); err != nil {
			h.authFailure("invalid_token")
			h.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) authFailure(reason string) {
	if h.metrics != nil {
		h.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

// AdminLogin serves POST /api/admin/login.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.admin.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			h.authFailure("bad_credentials")
			h.respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error().Err(err).Msg("admin login")
		h.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// GetDiscount serves GET /api/admin/config/discount.
func (h *Handler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	pct, err := h.admin.Discount(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("reading discount")
		h.respondError(w, http.StatusInternalServerError, "failed to read discount")
		return
	}
	h.respond(w, http.StatusOK, map[string]float64{"discountPercentage": pct})
}

// PutDiscount serves PUT /api/admin/config/discount.
func (h *Handler) PutDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DiscountPercentage float64 `json:"discountPercentage"`
	}
	if err := decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pct, err := h.admin.SetDiscount(r.Context(), req.DiscountPercentage)
	if err != nil {
		h.logger.Error().Err(err).Msg("storing discount")
		h.respondError(w, http.StatusInternalServerError, "failed to store discount")
		return
	}
	h.respond(w, http.StatusOK, map[string]float64{"discountPercentage": pct})
}

// adminPackageJSON is the admin wire shape of one raw package row.
type adminPackageJSON struct {
	ID           string             `json:"id"`
	Slug         string             `json:"slug"`
	Title        string             `json:"title"`
	TitleRU      string             `json:"titleRu,omitempty"`
	Description  string             `json:"description,omitempty"`
	Country      string             `json:"country,omitempty"`
	Type         string             `json:"type"`
	DataMB       int64              `json:"dataMb"`
	DataText     string             `json:"dataText,omitempty"`
	ValidityDays int                `json:"validityDays"`
	IsUnlimited  bool               `json:"isUnlimited"`
	Voice        bool               `json:"voice"`
	SMS          bool               `json:"sms"`
	Operator     string             `json:"operator,omitempty"`
	Active       bool               `json:"active"`
	Prices       map[string]float64 `json:"prices"`
}

func toAdminPackageJSON(p catalog.Package) adminPackageJSON {
	return adminPackageJSON{
		ID:           p.ID,
		Slug:         p.Slug,
		Title:        p.Title,
		TitleRU:      p.TitleRU,
		Description:  p.Description,
		Country:      p.CountryCode,
		Type:         string(p.Type),
		DataMB:       p.DataMB,
		DataText:     p.DataText,
		ValidityDays: p.ValidityDays,
		IsUnlimited:  p.Unlimited,
		Voice:        p.Voice,
		SMS:          p.SMS,
		Operator:     p.Operator,
		Active:       p.Active,
		Prices:       pricesJSON(p.Prices),
	}
}

func fromAdminPackageJSON(in adminPackageJSON) catalog.Package {
	var prices pricing.Amounts
	for _, c := range pricing.Currencies {
		if v, ok := in.Prices[string(c)]; ok {
			prices.Set(c, pricing.Ptr(v))
		}
	}
	return catalog.Package{
		ID:           in.ID,
		Slug:         in.Slug,
		Title:        in.Title,
		TitleRU:      in.TitleRU,
		Description:  in.Description,
		CountryCode:  in.Country,
		Type:         catalog.PackageType(in.Type),
		DataMB:       in.DataMB,
		DataText:     in.DataText,
		ValidityDays: in.ValidityDays,
		Unlimited:    in.IsUnlimited,
		Voice:        in.Voice,
		SMS:          in.SMS,
		Operator:     in.Operator,
		Active:       in.Active,
		Prices:       prices,
	}
}

// AdminPackages serves GET /api/admin/packages.
func (h *Handler) AdminPackages(w http.ResponseWriter, r *http.Request) {
	rows, err := h.admin.Packages(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing packages")
		h.respondError(w, http.StatusInternalServerError, "failed to load packages")
		return
	}

	out := make([]adminPackageJSON, 0, len(rows))
	for _, p := range rows {
		out = append(out, toAdminPackageJSON(p))
	}
	h.respond(w, http.StatusOK, map[string]any{
		"packages": out,
		"count":    len(out),
	})
}

// AdminCreatePackage serves POST /api/admin/packages.
func (h *Handler) AdminCreatePackage(w http.ResponseWriter, r *http.Request) {
	var req adminPackageJSON
	if err := decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.admin.CreatePackage(r.Context(), fromAdminPackageJSON(req))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, http.StatusCreated, toAdminPackageJSON(created))
}

// AdminUpdatePackage serves PUT /api/admin/packages/{id}.
func (h *Handler) AdminUpdatePackage(w http.ResponseWriter, r *http.Request) {
	var req adminPackageJSON
	if err := decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.admin.UpdatePackage(r.Context(), fromAdminPackageJSON(req))
	if err != nil {
		if errors.Is(err, app.ErrPlanNotFound) {
			h.respondError(w, http.StatusNotFound, "package not found")
			return
		}
		h.logger.Error().Err(err).Msg("updating package")
		h.respondError(w, http.StatusInternalServerError, "failed to update package")
		return
	}
	h.respond(w, http.StatusOK, toAdminPackageJSON(updated))
}

// AdminDeletePackage serves DELETE /api/admin/packages/{id}.
func (h *Handler) AdminDeletePackage(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeletePackage(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, app.ErrPlanNotFound) {
			h.respondError(w, http.StatusNotFound, "package not found")
			return
		}
		h.logger.Error().Err(err).Msg("deleting package")
		h.respondError(w, http.StatusInternalServerError, "failed to delete package")
		return
	}
	h.respond(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AdminLabels serves GET /api/admin/labels.
func (h *Handler) AdminLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.admin.Labels(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing labels")
		h.respondError(w, http.StatusInternalServerError, "failed to load labels")
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"labels": labels})
}

// AdminPutLabels serves PUT /api/admin/labels.
func (h *Handler) AdminPutLabels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Labels map[string]string `json:"labels"`
	}
	if err := decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.admin.SetLabels(r.Context(), req.Labels); err != nil {
		h.logger.Error().Err(err).Msg("storing labels")
		h.respondError(w, http.StatusInternalServerError, "failed to store labels")
		return
	}
	h.respond(w, http.StatusOK, map[string]bool{"updated": true})
}

// AdminOrders serves GET /api/admin/orders.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.admin.Orders(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing orders")
		h.respondError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	h.respond(w, http.StatusOK, map[string]any{
		"orders": out,
		"count":  len(out),
	})
}
