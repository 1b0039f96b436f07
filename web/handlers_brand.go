package web

import (
	"errors"
	"net/http"

	"github.com/roamsim/storefront/domain/brand"
	"github.com/roamsim/storefront/ports"
)

// brandJSON is the wire shape of the storefront theming payload.
type brandJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Domain       string `json:"domain"`
	LogoURL      string `json:"logoUrl,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
	AccentColor  string `json:"accentColor,omitempty"`
	SupportEmail string `json:"supportEmail,omitempty"`
	IsDefault    bool   `json:"isDefault"`
}

func toBrandJSON(b brand.Brand) brandJSON {
	return brandJSON{
		ID:           b.ID,
		Name:         b.Name,
		Domain:       b.Domain,
		LogoURL:      b.LogoURL,
		PrimaryColor: b.PrimaryColor,
		AccentColor:  b.AccentColor,
		SupportEmail: b.SupportEmail,
		IsDefault:    b.IsDefault,
	}
}

// Brand serves GET /api/public/brand. The brand is resolved from the
// request Host header; an explicit ?domain= overrides it.
func (h *Handler) Brand(w http.ResponseWriter, r *http.Request) {
	if h.brands == nil {
		h.respondError(w, http.StatusNotFound, "brands are not configured")
		return
	}

	host := r.Host
	if domain := r.URL.Query().Get("domain"); domain != "" {
		host = domain
	}

	b, err := h.brands.Resolve(r.Context(), host)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "no brand for this domain")
			return
		}
		h.logger.Error().Err(err).Str("host", host).Msg("resolving brand")
		h.respondError(w, http.StatusInternalServerError, "failed to resolve brand")
		return
	}

	h.respond(w, http.StatusOK, toBrandJSON(b))
}
