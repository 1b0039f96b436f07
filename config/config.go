// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Payments     PaymentsConfig     `yaml:"payments"`
	Admin        AdminConfig        `yaml:"admin"`
	Push         PushConfig         `yaml:"push"`
	Brands       BrandsConfig       `yaml:"brands"`
	Provisioning ProvisioningConfig `yaml:"provisioning"`
	Logging      LoggingConfig      `yaml:"logging"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig configures the sqlite database.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// PaymentsConfig configures the payment gateways. A gateway with no
// credentials is disabled.
type PaymentsConfig struct {
	Default   string          `yaml:"default"` // provider used when the request names none
	Robokassa RobokassaConfig `yaml:"robokassa"`
	Stripe    StripeConfig    `yaml:"stripe"`
}

// RobokassaConfig configures the Robokassa gateway.
type RobokassaConfig struct {
	Login     string `yaml:"login"`
	Password1 string `yaml:"password1"`
	Password2 string `yaml:"password2"`
	Test      bool   `yaml:"test"`
}

// StripeConfig configures the Stripe gateway.
type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
}

// AdminConfig configures the single admin account and its sessions.
type AdminConfig struct {
	Email        string        `yaml:"email"`
	PasswordHash string        `yaml:"password_hash"` // bcrypt
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// PushConfig configures the order event webhook.
type PushConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// BrandsConfig configures multi-brand resolution.
type BrandsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ProvisioningConfig configures eSIM profile generation.
type ProvisioningConfig struct {
	SMDPAddress string `yaml:"smdp_address"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment
// variables, for container deployments without a config file.
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falling back to environment
// variables when the file does not exist.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies STOREFRONT_* environment variables.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOREFRONT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STOREFRONT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STOREFRONT_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	if v := os.Getenv("STOREFRONT_PAYMENTS_DEFAULT"); v != "" {
		cfg.Payments.Default = v
	}
	if v := os.Getenv("STOREFRONT_ROBOKASSA_LOGIN"); v != "" {
		cfg.Payments.Robokassa.Login = v
	}
	if v := os.Getenv("STOREFRONT_ROBOKASSA_PASSWORD1"); v != "" {
		cfg.Payments.Robokassa.Password1 = v
	}
	if v := os.Getenv("STOREFRONT_ROBOKASSA_PASSWORD2"); v != "" {
		cfg.Payments.Robokassa.Password2 = v
	}
	if v := os.Getenv("STOREFRONT_ROBOKASSA_TEST"); v != "" {
		cfg.Payments.Robokassa.Test = parseBool(v)
	}
	if v := os.Getenv("STOREFRONT_STRIPE_SECRET_KEY"); v != "" {
		cfg.Payments.Stripe.SecretKey = v
	}
	if v := os.Getenv("STOREFRONT_STRIPE_WEBHOOK_SECRET"); v != "" {
		cfg.Payments.Stripe.WebhookSecret = v
	}
	if v := os.Getenv("STOREFRONT_STRIPE_SUCCESS_URL"); v != "" {
		cfg.Payments.Stripe.SuccessURL = v
	}
	if v := os.Getenv("STOREFRONT_STRIPE_CANCEL_URL"); v != "" {
		cfg.Payments.Stripe.CancelURL = v
	}

	if v := os.Getenv("STOREFRONT_ADMIN_EMAIL"); v != "" {
		cfg.Admin.Email = v
	}
	if v := os.Getenv("STOREFRONT_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}
	if v := os.Getenv("STOREFRONT_ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}

	if v := os.Getenv("STOREFRONT_PUSH_URL"); v != "" {
		cfg.Push.URL = v
	}
	if v := os.Getenv("STOREFRONT_PUSH_TOKEN"); v != "" {
		cfg.Push.Token = v
	}

	if v := os.Getenv("STOREFRONT_SMDP_ADDRESS"); v != "" {
		cfg.Provisioning.SMDPAddress = v
	}

	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STOREFRONT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("STOREFRONT_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "storefront.db"
	}

	if cfg.Payments.Default == "" {
		switch {
		case cfg.Payments.Robokassa.Login != "":
			cfg.Payments.Default = "robokassa"
		case cfg.Payments.Stripe.SecretKey != "":
			cfg.Payments.Default = "stripe"
		default:
			cfg.Payments.Default = "none"
		}
	}

	if cfg.Admin.TokenTTL == 0 {
		cfg.Admin.TokenTTL = 24 * time.Hour
	}

	if cfg.Push.Timeout == 0 {
		cfg.Push.Timeout = 10 * time.Second
	}

	if cfg.Brands.CacheTTL == 0 {
		cfg.Brands.CacheTTL = 5 * time.Minute
	}

	if cfg.Provisioning.SMDPAddress == "" {
		cfg.Provisioning.SMDPAddress = "smdp.roamsim.com"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	switch cfg.Payments.Default {
	case "none", "robokassa", "stripe":
	default:
		return fmt.Errorf("payments.default must be one of: none, robokassa, stripe, got %q", cfg.Payments.Default)
	}
	if cfg.Payments.Default == "robokassa" && cfg.Payments.Robokassa.Login == "" {
		return fmt.Errorf("payments.robokassa.login is required when payments.default is 'robokassa'")
	}
	if cfg.Payments.Default == "stripe" && cfg.Payments.Stripe.SecretKey == "" {
		return fmt.Errorf("payments.stripe.secret_key is required when payments.default is 'stripe'")
	}

	if cfg.Payments.Robokassa.Login != "" {
		if cfg.Payments.Robokassa.Password1 == "" || cfg.Payments.Robokassa.Password2 == "" {
			return fmt.Errorf("payments.robokassa requires both password1 and password2")
		}
	}

	if cfg.Admin.Email != "" {
		if cfg.Admin.PasswordHash == "" {
			return fmt.Errorf("admin.password_hash is required when admin.email is set")
		}
		if cfg.Admin.JWTSecret == "" {
			return fmt.Errorf("admin.jwt_secret is required when admin.email is set")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	return nil
}
