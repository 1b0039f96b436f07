package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/roamsim/storefront/adapters/payment"
	"github.com/roamsim/storefront/app"
)

// RobokassaResult serves POST /api/webhooks/robokassa/result. The
// response body is the bare "OK<InvId>" acknowledgement the gateway
// expects, not the JSON envelope.
func (h *Handler) RobokassaResult(w http.ResponseWriter, r *http.Request) {
	if h.robokassa == nil {
		h.webhookOutcome("robokassa", "not_configured")
		http.Error(w, "robokassa is not configured", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.webhookOutcome("robokassa", "bad_request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	invID, amount, err := h.robokassa.VerifyResult(r.Form)
	if err != nil {
		h.webhookOutcome("robokassa", "bad_signature")
		h.logger.Warn().Err(err).Msg("robokassa result rejected")
		http.Error(w, "bad sign", http.StatusBadRequest)
		return
	}

	if _, err := h.checkout.ConfirmByInvID(r.Context(), invID, amount); err != nil {
		h.webhookOutcome("robokassa", "error")
		h.logger.Error().Err(err).Int64("inv_id", invID).Msg("robokassa confirmation failed")
		switch {
		case errors.Is(err, app.ErrOrderNotFound):
			http.Error(w, "unknown order", http.StatusNotFound)
		case errors.Is(err, app.ErrAmountMismatch), errors.Is(err, app.ErrBadTransition):
			http.Error(w, "rejected", http.StatusConflict)
		default:
			http.Error(w, "error", http.StatusInternalServerError)
		}
		return
	}

	h.webhookOutcome("robokassa", "ok")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(payment.ResultAck(invID)))
}

// StripeWebhook serves POST /api/webhooks/stripe.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.stripe == nil {
		h.webhookOutcome("stripe", "not_configured")
		h.respondError(w, http.StatusNotFound, "stripe is not configured")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		h.webhookOutcome("stripe", "bad_request")
		h.respondError(w, http.StatusBadRequest, "bad request")
		return
	}

	eventType, data, err := h.stripe.ParseEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.webhookOutcome("stripe", "bad_signature")
		h.logger.Warn().Err(err).Msg("stripe webhook rejected")
		h.respondError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	if eventType == "checkout.session.completed" {
		orderID := metadataOrderID(data)
		if orderID == "" {
			h.webhookOutcome("stripe", "no_order")
			h.logger.Warn().Msg("stripe event without order_id metadata")
			h.respond(w, http.StatusOK, map[string]bool{"received": true})
			return
		}
		if _, err := h.checkout.ConfirmByOrderID(r.Context(), orderID); err != nil {
			h.webhookOutcome("stripe", "error")
			h.logger.Error().Err(err).Str("order_id", orderID).Msg("stripe confirmation failed")
			if errors.Is(err, app.ErrOrderNotFound) || errors.Is(err, app.ErrBadTransition) {
				// Acknowledge so the gateway stops retrying a dead event.
				h.respond(w, http.StatusOK, map[string]bool{"received": true})
				return
			}
			h.respondError(w, http.StatusInternalServerError, "error")
			return
		}
	}

	h.webhookOutcome("stripe", "ok")
	h.respond(w, http.StatusOK, map[string]bool{"received": true})
}

func metadataOrderID(data map[string]any) string {
	meta, ok := data["metadata"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := meta["order_id"].(string)
	return id
}

func (h *Handler) webhookOutcome(provider, outcome string) {
	if h.metrics != nil {
		h.metrics.WebhooksTotal.WithLabelValues(provider, outcome).Inc()
	}
}
