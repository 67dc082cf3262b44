package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "ENV", "LISTEN_ADDR", "DATABASE_URL", "TOKEN_SECRET",
		"TOKEN_TTL_HOURS", "RATE_LIMIT", "ALLOWED_ORIGINS", "SEED_DEMO_DATA",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig() error: %v", err)
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected %q, got %q", EnvDevelopment, cfg.Environment)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.TokenTTLHours != 24 {
		t.Errorf("expected token TTL 24h, got %d", cfg.TokenTTLHours)
	}
	if cfg.RateLimit != "100-M" {
		t.Errorf("expected rate limit 100-M, got %q", cfg.RateLimit)
	}
	if !cfg.SeedDemoData {
		t.Error("expected seed_demo_data to default to true")
	}
}

func TestLoadServerConfig_InvalidEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENV", "invalid")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig() error: %v", err)
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected %q for invalid ENV, got %q", EnvDevelopment, cfg.Environment)
	}
}

func TestLoadServerConfig_ValidEnvironments(t *testing.T) {
	tests := []struct {
		env  string
		want Environment
	}{
		{"development", EnvDevelopment},
		{"staging", EnvStaging},
		{"production", EnvProduction},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv("ENV", tt.env)
			cfg, err := LoadServerConfig()
			if err != nil {
				t.Fatalf("LoadServerConfig() error: %v", err)
			}
			if cfg.Environment != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cfg.Environment)
			}
		})
	}
}

func TestLoadServerConfig_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/taskboard")
	t.Setenv("TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SEED_DEMO_DATA", "false")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig() error: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseURL != "postgres://localhost/taskboard" {
		t.Errorf("unexpected database URL %q", cfg.DatabaseURL)
	}
	if cfg.TokenTTL() != 2*time.Hour {
		t.Errorf("expected TTL 2h, got %v", cfg.TokenTTL())
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example.com" {
		t.Errorf("unexpected allowed origins %v", cfg.AllowedOrigins)
	}
	if cfg.SeedDemoData {
		t.Error("expected seed_demo_data false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadServerConfig_FileWithEnvPrecedence(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte(`
environment: production
listen_addr: ":7000"
database_url: postgres://file-host/taskboard
token_secret: file-secret-file-secret-file-sec
seed_demo_data: false
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LISTEN_ADDR", ":7001")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig() error: %v", err)
	}
	if cfg.Environment != EnvProduction {
		t.Errorf("expected production from file, got %q", cfg.Environment)
	}
	if cfg.ListenAddr != ":7001" {
		t.Errorf("expected env var to override file, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseURL != "postgres://file-host/taskboard" {
		t.Errorf("unexpected database URL %q", cfg.DatabaseURL)
	}
	if cfg.SeedDemoData {
		t.Error("expected seed_demo_data false from file")
	}
}

func TestLoadServerConfig_MissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yml"))

	if _, err := LoadServerConfig(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := ServerConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty config")
	}

	cfg.DatabaseURL = "postgres://localhost/taskboard"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing token secret")
	}

	cfg.TokenSecret = "0123456789abcdef0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}
