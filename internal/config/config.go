// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Session registry (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Session token signing
	JWTSecret       string        `env:"JWT_SECRET,required"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"10h"`

	// Session cookie. The cookie lifetime is intentionally independent
	// of the signed token lifetime; both are preserved as distinct knobs.
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"signet_session"`
	SessionCookieTTL  time.Duration `env:"SESSION_COOKIE_TTL" envDefault:"24h"`

	// Password hashing work factor (bcrypt cost)
	PasswordHashCost int `env:"PASSWORD_HASH_COST" envDefault:"12"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com").
	// The session cookie is SameSite=None, so cross-origin callers need
	// credentialed CORS and must be listed explicitly.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 64KB; registration bodies are tiny)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
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
// Returns an error if required variables are missing or out of range.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.PasswordHashCost < bcrypt.MinCost || cfg.PasswordHashCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("PASSWORD_HASH_COST must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, cfg.PasswordHashCost)
	}

	if cfg.SessionTokenTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TOKEN_TTL must be positive, got %s", cfg.SessionTokenTTL)
	}
	if cfg.SessionCookieTTL <= 0 {
		return nil, fmt.Errorf("SESSION_COOKIE_TTL must be positive, got %s", cfg.SessionCookieTTL)
	}

	return cfg, nil
}
