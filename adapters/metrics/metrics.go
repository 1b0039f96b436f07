// Package metrics provides Prometheus metrics collection for the storefront.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the storefront.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Catalog pipeline metrics
	CatalogPlansServed  *prometheus.GaugeVec
	CatalogBuildSeconds prometheus.Histogram

	// Checkout metrics
	CheckoutsTotal *prometheus.CounterVec
	WebhooksTotal  *prometheus.CounterVec

	// Auth metrics
	AuthFailures *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a new metrics collector registered on the default registry.
func New() *Collector {
	return newWith(promauto.With(prometheus.DefaultRegisterer))
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	return newWith(promauto.With(reg))
}

func newWith(factory promauto.Factory) *Collector {
	return &Collector{
		// Request metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "storefront",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),

		// Catalog pipeline metrics
		CatalogPlansServed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "storefront",
				Name:      "catalog_plans_served",
				Help:      "Plans remaining after filtering and deduplication",
			},
			[]string{"kind"},
		),
		CatalogBuildSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Name:      "catalog_build_seconds",
				Help:      "Catalog pipeline build duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),

		// Checkout metrics
		CheckoutsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "checkouts_total",
				Help:      "Total checkout attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		WebhooksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "webhooks_total",
				Help:      "Total payment webhook deliveries by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		// Auth metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "auth_failures_total",
				Help:      "Total number of authentication failures",
			},
			[]string{"reason"},
		),

		// Config metrics
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "storefront",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}
