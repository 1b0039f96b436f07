package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roamsim/storefront/app"
	"github.com/roamsim/storefront/domain/order"
)

// checkoutRequest is the wire shape of POST /api/public/checkout.
type checkoutRequest struct {
	PackageID string `json:"packageId"`
	Email     string `json:"email"`
	Currency  string `json:"currency"`
	Provider  string `json:"provider"`
}

// orderJSON is the wire shape of one order.
type orderJSON struct {
	ID        string  `json:"id"`
	InvID     int64   `json:"invId"`
	PackageID string  `json:"packageId"`
	Package   string  `json:"package"`
	Email     string  `json:"email"`
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
	Provider  string  `json:"provider"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// profileJSON is the wire shape of an eSIM provisioning record.
type profileJSON struct {
	ICCID          string `json:"iccid,omitempty"`
	SMDPAddress    string `json:"smdpAddress"`
	ActivationCode string `json:"activationCode"`
}

func toOrderJSON(o order.Order) orderJSON {
	return orderJSON{
		ID:        o.ID,
		InvID:     o.InvID,
		PackageID: o.PackageID,
		Package:   o.PackageSlug,
		Email:     o.Email,
		Currency:  string(o.Currency),
		Amount:    o.Amount,
		Provider:  o.Provider,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Checkout serves POST /api/public/checkout.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	brandID := ""
	if h.brands != nil {
		if b, err := h.brands.Resolve(r.Context(), r.Host); err == nil {
			brandID = b.ID
		}
	}

	res, err := h.checkout.Create(r.Context(), app.CheckoutRequest{
		Package:  req.PackageID,
		Email:    req.Email,
		Currency: req.Currency,
		Provider: req.Provider,
		BrandID:  brandID,
	})
	if err != nil {
		h.checkoutOutcome(req.Provider, "error")
		switch {
		case errors.Is(err, app.ErrPlanNotFound):
			h.respondError(w, http.StatusNotFound, "plan not found")
		case errors.Is(err, app.ErrNoPrice):
			h.respondError(w, http.StatusUnprocessableEntity, "plan has no price in the requested currency")
		case errors.Is(err, app.ErrEmailRequired),
			errors.Is(err, app.ErrBadCurrency),
			errors.Is(err, app.ErrBadProvider):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrGatewayFailed):
			h.logger.Error().Err(err).Str("package", req.PackageID).Msg("checkout gateway failed")
			h.respondError(w, http.StatusServiceUnavailable, "payment gateway unavailable")
		default:
			// Store and other internal failures never reach the caller
			// verbatim.
			h.logger.Error().Err(err).Str("package", req.PackageID).Msg("checkout failed")
			h.respondError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	h.checkoutOutcome(res.Order.Provider, "ok")
	h.respond(w, http.StatusCreated, map[string]any{
		"order":       toOrderJSON(res.Order),
		"redirectUrl": res.RedirectURL,
	})
}

// OrderStatus serves GET /api/public/orders/{orderId}.
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	st, err := h.checkout.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrOrderNotFound) {
			h.respondError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error().Err(err).Str("order_id", id).Msg("loading order")
		h.respondError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	data := map[string]any{"order": toOrderJSON(st.Order)}
	if st.Profile != nil {
		data["profile"] = profileJSON{
			ICCID:          st.Profile.ICCID,
			SMDPAddress:    st.Profile.SMDPAddress,
			ActivationCode: st.Profile.ActivationCode,
		}
	}
	h.respond(w, http.StatusOK, data)
}
