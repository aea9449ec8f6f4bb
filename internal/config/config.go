package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds the Postgres connection settings used when the catalog
// is served from the database instead of the embedded seeds.
type DatabaseConfig struct {
	URL      string `envconfig:"DB_URL"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"bazaar"`
}

// DSN returns DB_URL when set, otherwise a DSN built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	URL          string `envconfig:"REDIS_URL"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
}

// Enabled reports whether a Redis URL was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// CatalogConfig controls where vendors are loaded from (Source is "seed" or
// "postgres") and how the periodic shuffle runs (ShuffleBackend is "ticker"
// or "asynq").
type CatalogConfig struct {
	Source          string        `envconfig:"CATALOG_SOURCE" default:"seed"`
	ShuffleInterval time.Duration `envconfig:"SHUFFLE_INTERVAL" default:"10m"`
	ShuffleBackend  string        `envconfig:"SHUFFLE_BACKEND" default:"ticker"`
	DefaultLimit    int           `envconfig:"CATALOG_DEFAULT_LIMIT" default:"12"`
	MaxLimit        int           `envconfig:"CATALOG_MAX_LIMIT" default:"100"`
}

type AuthConfig struct {
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"72h"`
}

// AppConfig defines every configurable parameter of the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Env         string   `envconfig:"APP_ENV" default:"development"`
	Port        string   `envconfig:"PORT" default:"8080"`
	RateLimit   int      `envconfig:"RATE_LIMIT" default:"20"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Auth     AuthConfig
}

// Environment returns the parsed APP_ENV.
func (c AppConfig) Environment() Environment {
	return ParseEnvironment(c.Env)
}

// Load reads .env (when present) and processes the environment into an AppConfig.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	if cfg.Catalog.Source != "seed" && cfg.Catalog.Source != "postgres" {
		return AppConfig{}, fmt.Errorf("invalid CATALOG_SOURCE %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.ShuffleBackend != "ticker" && cfg.Catalog.ShuffleBackend != "asynq" {
		return AppConfig{}, fmt.Errorf("invalid SHUFFLE_BACKEND %q", cfg.Catalog.ShuffleBackend)
	}
	if cfg.Catalog.ShuffleBackend == "asynq" && !cfg.Redis.Enabled() {
		return AppConfig{}, fmt.Errorf("SHUFFLE_BACKEND=asynq requires REDIS_URL")
	}
	return cfg, nil
}
