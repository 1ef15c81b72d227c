// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// HistoryPath is the sqlite file backing the betting history store.
	// An empty value selects the in-memory store (no persistence).
	HistoryPath string `koanf:"history_path"`

	// PriceToleranceDays bounds the nearest-time price match, in calendar days.
	PriceToleranceDays int `koanf:"price_tolerance_days"`

	// MaxUploadBytes caps the total size of a multipart analysis upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxHistoryLimit caps GET /history?limit.
	MaxHistoryLimit int `koanf:"max_history_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:           "info",
		Addr:               ":8090",
		HistoryPath:        "betting_history.db",
		PriceToleranceDays: 1,
		MaxUploadBytes:     64 << 20,
		MaxHistoryLimit:    10_000,
	}
	return c
}
