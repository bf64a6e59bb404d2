// Package config manages the subtype CLI's batch-check configuration using
// koanf/v2.
//
// Supports defaults, YAML files, and environment variables, layered in that
// order: each later layer overrides the ones before it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete subtype CLI configuration for `subtype check
// --config FILE` batch mode.
type Config struct {
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
	Checks  []CheckConfig `koanf:"checks"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// CheckConfig describes one asynchronous-subtyping decision to run as part
// of a batch. Each entry loads two DOT files and calls subtype.IsSubtype.
type CheckConfig struct {
	// Name identifies this check in batch output; must be unique.
	Name string `koanf:"name"`

	// Left is the path to the candidate-subtype FSM's DOT file.
	Left string `koanf:"left"`

	// Right is the path to the candidate-supertype FSM's DOT file.
	Right string `koanf:"right"`

	// Visits bounds how many times the visitor may revisit any one state
	// pair (spec.md §4.3). Must be >= 1.
	Visits int `koanf:"visits"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults. Checks is
// left empty: a config file with no `checks:` entries is invalid (there is
// nothing to decide), which Validate reports.
func DefaultConfig() *Config {
	return &Config{
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for subtype configuration.
// Variables are named SUBTYPE_<section>_<key>, e.g., SUBTYPE_METRICS_ADDR.
const envPrefix = "SUBTYPE_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (SUBTYPE_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms SUBTYPE_METRICS_ADDR -> metrics.addr.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"metrics.addr": defaults.Metrics.Addr,
		"metrics.path": defaults.Metrics.Path,
		"log.level":    defaults.Log.Level,
		"log.format":   defaults.Log.Format,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// ParseLogLevel maps a config log level string to an slog.Level, defaulting
// to slog.LevelInfo for anything unrecognized (including "trace", which the
// stdlib has no equivalent for).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrNoChecks indicates a batch config declared no checks at all.
	ErrNoChecks = errors.New("checks must declare at least one entry")

	// ErrEmptyCheckName indicates a check entry has no name.
	ErrEmptyCheckName = errors.New("check name must not be empty")

	// ErrEmptyCheckPath indicates a check entry is missing a left or right path.
	ErrEmptyCheckPath = errors.New("check left/right path must not be empty")

	// ErrInvalidVisits indicates a check entry's visit budget is not positive.
	ErrInvalidVisits = errors.New("check visits must be >= 1")

	// ErrDuplicateCheckName indicates two checks share the same name.
	ErrDuplicateCheckName = errors.New("duplicate check name")
)

// Validate checks the configuration for logical errors. Returns the first
// validation error encountered.
func Validate(cfg *Config) error {
	if len(cfg.Checks) == 0 {
		return ErrNoChecks
	}

	seen := make(map[string]struct{}, len(cfg.Checks))
	for i, c := range cfg.Checks {
		if c.Name == "" {
			return fmt.Errorf("checks[%d]: %w", i, ErrEmptyCheckName)
		}
		if c.Left == "" || c.Right == "" {
			return fmt.Errorf("checks[%d] %q: %w", i, c.Name, ErrEmptyCheckPath)
		}
		if c.Visits < 1 {
			return fmt.Errorf("checks[%d] %q: %w", i, c.Name, ErrInvalidVisits)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("checks[%d] %q: %w", i, c.Name, ErrDuplicateCheckName)
		}
		seen[c.Name] = struct{}{}
	}

	return nil
}
