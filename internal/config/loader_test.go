package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected max_conns 15, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Storefront.QuoteWeight != 3 {
		t.Errorf("expected quote_weight 3, got %d", cfg.Storefront.QuoteWeight)
	}
	if cfg.Auth.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("expected access token expiry 15m, got %v", cfg.Auth.AccessTokenExpiry)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
postgres:
  max_conns: 20
storefront:
  quote_weight: 5
themes:
  pro_plans: ["pro"]
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://example.com" {
		t.Errorf("expected cors http://example.com, got %s", cfg.Server.CORSOrigin)
	}
	if cfg.Postgres.MaxConns != 20 {
		t.Errorf("expected max_conns 20, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Storefront.QuoteWeight != 5 {
		t.Errorf("expected quote_weight 5, got %d", cfg.Storefront.QuoteWeight)
	}
	if len(cfg.Themes.ProPlans) != 1 || cfg.Themes.ProPlans[0] != "pro" {
		t.Errorf("expected pro_plans [pro], got %v", cfg.Themes.ProPlans)
	}
	// Unchanged fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("VITRINE_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("VITRINE_PG_MAX_CONNS", "25")
	t.Setenv("VITRINE_LOG_LEVEL", "warn")
	t.Setenv("VITRINE_STOREFRONT_QUOTE_WEIGHT", "2")
	t.Setenv("VITRINE_THEMES_PRO_PLANS", "pro, business, enterprise")
	t.Setenv("VITRINE_ACCESS_TOKEN_EXPIRY", "1h")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.Postgres.MaxConns != 25 {
		t.Errorf("expected max_conns 25, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Storefront.QuoteWeight != 2 {
		t.Errorf("expected quote_weight 2, got %d", cfg.Storefront.QuoteWeight)
	}
	want := []string{"pro", "business", "enterprise"}
	if len(cfg.Themes.ProPlans) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Themes.ProPlans)
	}
	for i := range want {
		if cfg.Themes.ProPlans[i] != want[i] {
			t.Errorf("pro_plans[%d] = %s, want %s", i, cfg.Themes.ProPlans[i], want[i])
		}
	}
	if cfg.Auth.AccessTokenExpiry != time.Hour {
		t.Errorf("expected access token expiry 1h, got %v", cfg.Auth.AccessTokenExpiry)
	}
}

func TestValidateRequired(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.DSN = ""
	if err := validate(&cfg); err == nil {
		t.Error("expected error for missing DSN")
	}

	cfg = Defaults()
	cfg.Auth.JWTSecret = ""
	if err := validate(&cfg); err == nil {
		t.Error("expected error for missing JWT secret")
	}

	cfg = Defaults()
	cfg.Storefront.QuoteWeight = -1
	if err := validate(&cfg); err == nil {
		t.Error("expected error for negative quote weight")
	}
}
