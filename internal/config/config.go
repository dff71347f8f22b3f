// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file named
// by ATTRITION_CONFIG, then ATTRITION_* environment variables.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath is the dataset opened when a session is created without an upload.
	DataPath string `koanf:"data_path"`

	// MaxUploadBytes caps uploaded CSV bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CacheSize bounds the number of parsed datasets kept in memory.
	CacheSize int `koanf:"cache_size"`

	// MaxSessions bounds the number of open sessions; the oldest is evicted.
	MaxSessions int `koanf:"max_sessions"`

	// Model settings for the attrition predictor.
	ModelC            float64 `koanf:"model_c"`
	ModelMaxIter      int     `koanf:"model_max_iter"`
	ModelTol          float64 `koanf:"model_tol"`
	ModelSeed         int64   `koanf:"model_seed"`
	ModelTestFraction float64 `koanf:"model_test_fraction"`
	ModelMinSplitRows int     `koanf:"model_min_split_rows"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DataPath:          "data/employees.csv",
		MaxUploadBytes:    32 << 20,
		CacheSize:         16,
		MaxSessions:       256,
		ModelC:            1.0,
		ModelMaxIter:      500,
		ModelTol:          1e-6,
		ModelSeed:         42,
		ModelTestFraction: 0.2,
		ModelMinSplitRows: 10,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.CacheSize < 0:
		return fmt.Errorf("%w: cache_size must not be negative", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.ModelC <= 0:
		return fmt.Errorf("%w: model_c must be positive", ErrInvalidConfig)
	case c.ModelMaxIter <= 0:
		return fmt.Errorf("%w: model_max_iter must be positive", ErrInvalidConfig)
	case c.ModelTol <= 0:
		return fmt.Errorf("%w: model_tol must be positive", ErrInvalidConfig)
	case c.ModelTestFraction <= 0 || c.ModelTestFraction >= 1:
		return fmt.Errorf("%w: model_test_fraction must be in (0,1)", ErrInvalidConfig)
	case c.ModelMinSplitRows < 2:
		return fmt.Errorf("%w: model_min_split_rows must be at least 2", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}
