// Package web provides the storefront JSON API: the public catalog,
// checkout and order polling, payment webhooks and the admin surface.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/roamsim/storefront/adapters/auth"
	"github.com/roamsim/storefront/adapters/metrics"
	"github.com/roamsim/storefront/adapters/payment"
	"github.com/roamsim/storefront/app"
	"github.com/roamsim/storefront/ports"
)

// Handler serves the storefront API.
type Handler struct {
	catalog   *app.CatalogService
	checkout  *app.CheckoutService
	admin     *app.AdminService
	brands    ports.BrandResolver
	robokassa *payment.RobokassaProvider
	stripe    *payment.StripeProvider
	tokens    *auth.TokenService
	metrics   *metrics.Collector
	healthy   func(ctx context.Context) error
	logger    zerolog.Logger
}

// Deps contains dependencies for the API handler.
type Deps struct {
	Catalog   *app.CatalogService
	Checkout  *app.CheckoutService
	Admin     *app.AdminService
	Brands    ports.BrandResolver
	Robokassa *payment.RobokassaProvider // nil when not configured
	Stripe    *payment.StripeProvider    // nil when not configured
	Tokens    *auth.TokenService
	Metrics   *metrics.Collector
	Healthy   func(ctx context.Context) error // readiness probe, usually a DB ping
	Logger    zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		catalog:   deps.Catalog,
		checkout:  deps.Checkout,
		admin:     deps.Admin,
		brands:    deps.Brands,
		robokassa: deps.Robokassa,
		stripe:    deps.Stripe,
		tokens:    deps.Tokens,
		metrics:   deps.Metrics,
		healthy:   deps.Healthy,
		logger:    deps.Logger,
	}
}

// Router builds the full route tree.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/plans", h.Plans)
		r.Get("/plans/{packageId}", h.Plan)
		r.Get("/countries", h.Countries)
		r.Get("/topups", h.Topups)
		r.Get("/brand", h.Brand)
		r.Post("/checkout", h.Checkout)
		r.Get("/orders/{orderId}", h.OrderStatus)
	})

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Post("/robokassa/result", h.RobokassaResult)
		r.Post("/stripe", h.StripeWebhook)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", h.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/config/discount", h.GetDiscount)
			r.Put("/config/discount", h.PutDiscount)
			r.Get("/packages", h.AdminPackages)
			r.Post("/packages", h.AdminCreatePackage)
			r.Put("/packages/{id}", h.AdminUpdatePackage)
			r.Delete("/packages/{id}", h.AdminDeletePackage)
			r.Get("/labels", h.AdminLabels)
			r.Put("/labels", h.AdminPutLabels)
			r.Get("/orders", h.AdminOrders)
		})
	})

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Healthz reports liveness and, when a probe is wired, readiness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.healthy != nil {
		if err := h.healthy(r.Context()); err != nil {
			h.respondError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	h.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
