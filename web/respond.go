package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// envelope is the uniform response shape: {"success": true, "data": …}
// on success, {"success": false, "error": …, "redirect": …} on failure.
type envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// noStore marks every storefront response uncacheable: prices change
// with the discount knob and must never be served stale.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, max-age=0, must-revalidate")
}

func (h *Handler) respond(w http.ResponseWriter, status int, data any) {
	noStore(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		h.logger.Error().Err(err).Msg("encoding response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondRedirect(w, status, msg, "")
}

func (h *Handler) respondRedirect(w http.ResponseWriter, status int, msg, redirect string) {
	noStore(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: msg, Redirect: redirect}); err != nil {
		h.logger.Error().Err(err).Msg("encoding error response")
	}
}

// decode reads a JSON request body with a size cap.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}

// instrument records request count and duration per route pattern.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		h.metrics.RequestsInFlight.Inc()
		defer h.metrics.RequestsInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := statusClass(ww.Status())
		// The matched chi pattern keeps label cardinality bounded.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		h.metrics.RequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		h.metrics.RequestDuration.WithLabelValues(r.Method, path, status).
			Observe(time.Since(start).Seconds())
	})
}

// catalogObserved records catalog pipeline size and build time.
func (h *Handler) catalogObserved(kind string, start time.Time, served int) {
	if h.metrics == nil {
		return
	}
	h.metrics.CatalogBuildSeconds.Observe(time.Since(start).Seconds())
	h.metrics.CatalogPlansServed.WithLabelValues(kind).Set(float64(served))
}

// checkoutOutcome counts checkout attempts per provider.
func (h *Handler) checkoutOutcome(provider, outcome string) {
	if h.metrics == nil {
		return
	}
	if provider == "" {
		provider = "default"
	}
	h.metrics.CheckoutsTotal.WithLabelValues(provider, outcome).Inc()
}

func statusClass(code int) string {
	if code == 0 {
		code = http.StatusOK
	}
	return strconv.Itoa(code/100) + "xx"
}
