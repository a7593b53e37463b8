// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Sessions and login throttling (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Accounts
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	SessionCookieName  string        `env:"SESSION_COOKIE_NAME" envDefault:"contacts_session"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	LoginBurst         int           `env:"LOGIN_BURST" envDefault:"5"`

	// Change events (NATS JetStream); disabled when NATS_URL is empty
	NATSURL    string `env:"NATS_URL" envDefault:""`
	NATSStream string `env:"NATS_STREAM" envDefault:"CONTACTS"`

	// Archive of uploads and exports (MinIO); disabled when MINIO_ENDPOINT is empty
	MinIOEndpoint  string `env:"MINIO_ENDPOINT" envDefault:""`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:""`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY" envDefault:""`
	MinIOBucket    string `env:"MINIO_BUCKET" envDefault:"contacts-archive"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// Seed fixtures; SEED_DIR overrides the embedded countries/persons files
	SeedOnStart bool   `env:"SEED_ON_START" envDefault:"false"`
	SeedDir     string `env:"SEED_DIR" envDefault:""`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limits in bytes (JSON forms 1MB, spreadsheet uploads 10MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
	MaxUploadSize      int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// NATSEnabled reports whether change events should be published.
func (c *Config) NATSEnabled() bool {
	return c.NATSURL != ""
}

// MinIOEnabled reports whether files should be archived to object storage.
func (c *Config) MinIOEnabled() bool {
	return c.MinIOEndpoint != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.MinIOEnabled() && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	return cfg, nil
}
