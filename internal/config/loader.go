package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "vitrine.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "VITRINE_PORT")
	setString(&cfg.Server.CORSOrigin, "VITRINE_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "VITRINE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "VITRINE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "VITRINE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "VITRINE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "VITRINE_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Auth.JWTSecret, "VITRINE_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenExpiry, "VITRINE_ACCESS_TOKEN_EXPIRY")
	setDuration(&cfg.Auth.RefreshTokenExpiry, "VITRINE_REFRESH_TOKEN_EXPIRY")
	setInt(&cfg.Auth.BcryptCost, "VITRINE_BCRYPT_COST")
	setString(&cfg.Logging.Level, "VITRINE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "VITRINE_LOG_SERVICE")
	setFloat64(&cfg.Rate.RequestsPerSecond, "VITRINE_RATE_RPS")
	setInt(&cfg.Rate.Burst, "VITRINE_RATE_BURST")
	setInt64(&cfg.Cache.MaxSizeMB, "VITRINE_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.StorefrontTTL, "VITRINE_CACHE_STOREFRONT_TTL")
	setInt64(&cfg.Storefront.QuoteWeight, "VITRINE_STOREFRONT_QUOTE_WEIGHT")
	setInt(&cfg.Storefront.BestSellerLimit, "VITRINE_STOREFRONT_BEST_SELLER_LIMIT")
	setStrings(&cfg.Themes.ProPlans, "VITRINE_THEMES_PRO_PLANS")
	setString(&cfg.Mail.BaseURL, "VITRINE_MAIL_BASE_URL")
	setString(&cfg.Mail.APIKey, "VITRINE_MAIL_API_KEY")
	setString(&cfg.Mail.From, "VITRINE_MAIL_FROM")
	setString(&cfg.Billing.SuccessURL, "VITRINE_BILLING_SUCCESS_URL")
	setString(&cfg.Billing.CancelURL, "VITRINE_BILLING_CANCEL_URL")
	setString(&cfg.Billing.Stripe.BaseURL, "VITRINE_STRIPE_BASE_URL")
	setString(&cfg.Billing.Stripe.APIKey, "VITRINE_STRIPE_API_KEY")
	setString(&cfg.Billing.Stripe.WebhookSecret, "VITRINE_STRIPE_WEBHOOK_SECRET")
	setString(&cfg.Billing.MercadoPago.BaseURL, "VITRINE_MERCADOPAGO_BASE_URL")
	setString(&cfg.Billing.MercadoPago.APIKey, "VITRINE_MERCADOPAGO_API_KEY")
	setString(&cfg.Billing.MercadoPago.WebhookSecret, "VITRINE_MERCADOPAGO_WEBHOOK_SECRET")
	setString(&cfg.Copywriter.BaseURL, "VITRINE_COPYWRITER_BASE_URL")
	setString(&cfg.Copywriter.APIKey, "VITRINE_COPYWRITER_API_KEY")
	setString(&cfg.Copywriter.Model, "VITRINE_COPYWRITER_MODEL")
	setBool(&cfg.Telemetry.Enabled, "VITRINE_TELEMETRY_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "VITRINE_TELEMETRY_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Storefront.QuoteWeight < 0 {
		return errors.New("storefront.quote_weight must be >= 0")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setStrings(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		*dst = parts
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
