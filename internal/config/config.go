// Package config loads CragMatch configuration from defaults, an optional
// YAML file and CRAGMATCH_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Auth       AuthConfig       `koanf:"auth"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	PubSub     PubSubConfig     `koanf:"pubsub"`
	Resilience ResilienceConfig `koanf:"resilience"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Environment     string        `koanf:"environment" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// RequireTLS rejects requests whose X-Forwarded-Proto is not https.
	RequireTLS bool `koanf:"require_tls"`
}

// DatabaseConfig selects and configures the catalog store.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"oneof=postgres sqlite memory"`
	Host            string        `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int           `koanf:"port" validate:"min=0,max=65535"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxConns        int           `koanf:"max_conns" validate:"min=1"`
	MinConns        int           `koanf:"min_conns" validate:"min=0,ltefield=MaxConns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	SQLitePath      string        `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// RecommendConfig tunes the recommender.
type RecommendConfig struct {
	// Count is the default number of routes per recommendation.
	Count int `koanf:"count" validate:"min=1,max=50"`

	// Seed seeds the supplementation random source. Zero means time-based.
	Seed int64 `koanf:"seed"`

	// MinStyleCount is the bucket threshold for the style chart.
	MinStyleCount int `koanf:"min_style_count" validate:"min=0"`
}

// AuthConfig configures admin token validation.
type AuthConfig struct {
	SigningKey string        `koanf:"signing_key"`
	Issuer     string        `koanf:"issuer" validate:"required"`
	Audience   string        `koanf:"audience" validate:"required"`
	TokenTTL   time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	OTLPEndpoint string `koanf:"otlp_endpoint" validate:"required_if=Enabled true"`

	// SampleRatio is the fraction of root traces kept.
	SampleRatio float64 `koanf:"sample_ratio" validate:"min=0,max=1"`
}

// PubSubConfig configures catalog change notifications.
type PubSubConfig struct {
	Enabled      bool   `koanf:"enabled"`
	ProjectID    string `koanf:"project_id" validate:"required_if=Enabled true"`
	Topic        string `koanf:"topic" validate:"required_if=Enabled true"`
	Subscription string `koanf:"subscription"`
}

// ResilienceConfig tunes retries and the circuit breaker around the store.
type ResilienceConfig struct {
	MaxRetries      uint64        `koanf:"max_retries"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"gt=0"`
	MaxInterval     time.Duration `koanf:"max_interval" validate:"gtefield=InitialInterval"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Host:            "localhost",
			Port:            5432,
			User:            "cragmatch",
			Password:        "localdev",
			Name:            "cragmatch",
			SSLMode:         "disable",
			MaxConns:        10,
			MinConns:        2,
			ConnMaxLifetime: 5 * time.Minute,
			SQLitePath:      "climbing_routes.db",
		},
		Recommend: RecommendConfig{
			Count:         5,
			MinStyleCount: 5,
		},
		Auth: AuthConfig{
			Issuer:   "cragmatch",
			Audience: "cragmatch-admin",
			TokenTTL: time.Hour,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: "localhost:4317",
			SampleRatio:  1,
		},
		PubSub: PubSubConfig{
			Topic:        "catalog-changed",
			Subscription: "catalog-changed-api",
		},
		Resilience: ResilienceConfig{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			BreakerTimeout:  30 * time.Second,
		},
	}
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
