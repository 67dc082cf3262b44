// Package config provides configuration management for Taskboard.
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

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// ServerConfig holds server-level configuration. Values come from an
// optional YAML file, with environment variables taking precedence.
type ServerConfig struct {
	Environment    Environment `yaml:"environment,omitempty"`
	ListenAddr     string      `yaml:"listen_addr,omitempty"`
	DatabaseURL    string      `yaml:"database_url,omitempty"`
	TokenSecret    string      `yaml:"token_secret,omitempty"`
	TokenTTLHours  int         `yaml:"token_ttl_hours,omitempty"`
	RateLimit      string      `yaml:"rate_limit,omitempty"` // limiter format, e.g. "100-M"
	AllowedOrigins []string    `yaml:"allowed_origins,omitempty"`
	SeedDemoData   bool        `yaml:"seed_demo_data,omitempty"`
}

// TokenTTL returns the access token lifetime as a duration.
func (c ServerConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Validate checks that the configuration has required fields for operation.
func (c ServerConfig) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database_url is required")
	}
	if c.TokenSecret == "" {
		return errors.New("token_secret is required")
	}
	return nil
}

// LoadServerConfig loads server configuration. When CONFIG_FILE points at a
// YAML file it is read first; environment variables override file values,
// and anything still unset falls back to defaults.
func LoadServerConfig() (ServerConfig, error) {
	cfg := ServerConfig{
		Environment:   EnvDevelopment,
		ListenAddr:    ":8080",
		TokenTTLHours: 24,
		RateLimit:     "100-M",
		SeedDemoData:  true,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return ServerConfig{}, err
		}
	}
	cfg.loadEnv()

	switch cfg.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		cfg.Environment = EnvDevelopment
	}
	if cfg.TokenTTLHours <= 0 {
		cfg.TokenTTLHours = 24
	}

	return cfg, nil
}

func (c *ServerConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file struct {
		Environment    string   `yaml:"environment"`
		ListenAddr     string   `yaml:"listen_addr"`
		DatabaseURL    string   `yaml:"database_url"`
		TokenSecret    string   `yaml:"token_secret"`
		TokenTTLHours  int      `yaml:"token_ttl_hours"`
		RateLimit      string   `yaml:"rate_limit"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		SeedDemoData   *bool    `yaml:"seed_demo_data"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if file.Environment != "" {
		c.Environment = Environment(file.Environment)
	}
	if file.ListenAddr != "" {
		c.ListenAddr = file.ListenAddr
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
	}
	if file.TokenSecret != "" {
		c.TokenSecret = file.TokenSecret
	}
	if file.TokenTTLHours != 0 {
		c.TokenTTLHours = file.TokenTTLHours
	}
	if file.RateLimit != "" {
		c.RateLimit = file.RateLimit
	}
	if len(file.AllowedOrigins) != 0 {
		c.AllowedOrigins = file.AllowedOrigins
	}
	if file.SeedDemoData != nil {
		c.SeedDemoData = *file.SeedDemoData
	}
	return nil
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv("ENV"); v != "" {
		c.Environment = Environment(v)
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		c.TokenSecret = v
	}
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TokenTTLHours = n
		}
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		c.RateLimit = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		c.AllowedOrigins = c.AllowedOrigins[:0]
		for _, o := range origins {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	c.SeedDemoData = getEnvBool("SEED_DEMO_DATA", c.SeedDemoData)
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}
