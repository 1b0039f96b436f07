// Package bootstrap wires all dependencies and runs the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamsim/storefront/adapters/auth"
	"github.com/roamsim/storefront/adapters/clock"
	"github.com/roamsim/storefront/adapters/hasher"
	"github.com/roamsim/storefront/adapters/idgen"
	"github.com/roamsim/storefront/adapters/memory"
	"github.com/roamsim/storefront/adapters/metrics"
	"github.com/roamsim/storefront/adapters/notify"
	"github.com/roamsim/storefront/adapters/payment"
	"github.com/roamsim/storefront/adapters/sqlite"
	"github.com/roamsim/storefront/app"
	"github.com/roamsim/storefront/config"
	"github.com/roamsim/storefront/ports"
	"github.com/roamsim/storefront/web"
)

// App represents the running application.
type App struct {
	Config     *config.Holder
	Logger     zerolog.Logger
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	brandCache *memory.BrandCache
}

// New creates and initializes the application from a config file path.
// An empty path falls back to environment-only configuration.
func New(configPath string) (*App, error) {
	holder, err := newHolder(configPath)
	if err != nil {
		return nil, err
	}
	cfg := holder.Get()

	logger := newLogger(cfg.Logging)
	logger.Info().Msg("initializing storefront")

	a := &App{
		Config: holder,
		Logger: logger,
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	a.DB = db
	logger.Info().Str("dsn", cfg.Database.DSN).Msg("database ready")

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	// Stores
	packages := sqlite.NewPackageStore(db)
	countries := sqlite.NewCountryStore(db)
	configStore := sqlite.NewConfigStore(db)
	labels := sqlite.NewLabelStore(db)
	orders := sqlite.NewOrderStore(db)
	profiles := sqlite.NewProfileStore(db)
	brands := sqlite.NewBrandStore(db)

	// Infrastructure adapters
	clk := clock.Real{}
	ids := idgen.UUID{}
	passwords := hasher.NewBcrypt(0)
	tokens := auth.NewTokenService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	a.brandCache = memory.NewBrandCache(brands, clk, cfg.Brands.CacheTTL)
	notifier := notify.New(notify.Config{
		URL:     cfg.Push.URL,
		Token:   cfg.Push.Token,
		Timeout: cfg.Push.Timeout,
	})

	providers := payment.NewProviders(payment.Config{
		Robokassa: payment.RobokassaConfig(cfg.Payments.Robokassa),
		Stripe:    payment.StripeConfig(cfg.Payments.Stripe),
	})

	// Services
	catalogSvc := app.NewCatalogService(packages, countries, labels, configStore, logger)
	checkoutSvc := app.NewCheckoutService(
		orders, profiles, packages, configStore,
		defaultingRegistry{providers: providers, fallback: cfg.Payments.Default},
		notifier, ids, clk, cfg.Provisioning.SMDPAddress, logger,
	)
	adminSvc := app.NewAdminService(
		packages, labels, configStore, orders,
		passwords, tokens, ids, clk,
		cfg.Admin.Email, []byte(cfg.Admin.PasswordHash), logger,
	)

	handler := web.NewHandler(web.Deps{
		Catalog:   catalogSvc,
		Checkout:  checkoutSvc,
		Admin:     adminSvc,
		Brands:    a.brandCache,
		Robokassa: providers.Robokassa,
		Stripe:    providers.Stripe,
		Tokens:    tokens,
		Metrics:   a.Metrics,
		Healthy:   db.PingContext,
		Logger:    logger,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	holder.OnChange(a.onConfigChange)
	holder.OnError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})

	return a, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM.
func (a *App) Run() error {
	if err := a.Config.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	a.Config.WatchSignals()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("storefront listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	a.Config.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("http shutdown")
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("closing database")
		return err
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func (a *App) onConfigChange(cfg *config.Config) {
	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
		a.Metrics.ConfigLastReload.SetToCurrentTime()
	}
	// Brand rows may have been edited alongside the config.
	a.brandCache.Invalidate()
}

// defaultingRegistry falls back to the configured default provider when
// a checkout request names none.
type defaultingRegistry struct {
	providers payment.Providers
	fallback  string
}

func (r defaultingRegistry) ForName(name string) (ports.PaymentProvider, error) {
	if name == "" {
		name = r.fallback
	}
	return r.providers.ForName(name)
}

func newHolder(path string) (*config.Holder, error) {
	bootLogger := newLogger(config.LoggingConfig{Level: "info", Format: "json"})
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}
	return config.NewHolder(path, bootLogger)
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
