// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"

	"github.com/kohrong/pronosticos-mma/internal/domain/gating"
	"github.com/kohrong/pronosticos-mma/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir points at the static corpus directory holding
	// pronosticos.json, peleadores.json and participantes.json.
	DataDir string `koanf:"data_dir"`

	// DatabaseURL is the Postgres connection string for the prediction
	// store. Empty selects the in-memory store (dev mode).
	DatabaseURL string `koanf:"database_url"`

	// AuthSecret is the HMAC secret shared with the auth layer that
	// mints user tokens. Empty disables authenticated endpoints.
	AuthSecret string `koanf:"auth_secret"`

	// DefaultTimezone applies to events that declare a start time but
	// no timezone of their own.
	DefaultTimezone string `koanf:"default_timezone"`

	// Confidence is the two-sided confidence level for the Wilson
	// score, in (0,1).
	Confidence float64 `koanf:"confidence"`

	// AllowedOrigins configures CORS for the API.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// New creates a Config with defaults. Context is accepted first per the
// project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		DataDir:         "datos",
		DefaultTimezone: gating.DefaultZone,
		Confidence:      scoring.DefaultConfidence,
		AllowedOrigins:  []string{"*"},
	}
}
