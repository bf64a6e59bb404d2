package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dantte-lp/gosubtype/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/metrics")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}

	// Defaults declare no checks, so they must fail validation on their own.
	if err := config.Validate(cfg); !errors.Is(err, config.ErrNoChecks) {
		t.Errorf("Validate(DefaultConfig()) error = %v, want %v", err, config.ErrNoChecks)
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	yamlContent := `
metrics:
  addr: ":9200"
  path: "/custom-metrics"
log:
  level: "debug"
  format: "text"
checks:
  - name: ring-optimisation
    left: testdata/ring-left.dot
    right: testdata/ring-right.dot
    visits: 10
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Metrics.Addr != ":9200" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9200")
	}

	if cfg.Metrics.Path != "/custom-metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/custom-metrics")
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}

	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "text")
	}

	if len(cfg.Checks) != 1 {
		t.Fatalf("Checks count = %d, want 1", len(cfg.Checks))
	}

	c := cfg.Checks[0]
	if c.Name != "ring-optimisation" {
		t.Errorf("Checks[0].Name = %q, want %q", c.Name, "ring-optimisation")
	}
	if c.Left != "testdata/ring-left.dot" {
		t.Errorf("Checks[0].Left = %q, want %q", c.Left, "testdata/ring-left.dot")
	}
	if c.Right != "testdata/ring-right.dot" {
		t.Errorf("Checks[0].Right = %q, want %q", c.Right, "testdata/ring-right.dot")
	}
	if c.Visits != 10 {
		t.Errorf("Checks[0].Visits = %d, want %d", c.Visits, 10)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	t.Parallel()

	// Partial YAML: only override log.level and declare checks. Metrics
	// should inherit from defaults.
	yamlContent := `
log:
  level: "warn"
checks:
  - name: only-check
    left: a.dot
    right: b.dot
    visits: 1
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}

	// Default values should be preserved.
	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want default %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, "/metrics")
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want default %q", cfg.Log.Format, "json")
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	validCheck := config.CheckConfig{Name: "c", Left: "a.dot", Right: "b.dot", Visits: 1}

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr error
	}{
		{
			name:    "no checks",
			modify:  func(cfg *config.Config) { cfg.Checks = nil },
			wantErr: config.ErrNoChecks,
		},
		{
			name: "empty check name",
			modify: func(cfg *config.Config) {
				cfg.Checks = []config.CheckConfig{{Left: "a.dot", Right: "b.dot", Visits: 1}}
			},
			wantErr: config.ErrEmptyCheckName,
		},
		{
			name: "empty left path",
			modify: func(cfg *config.Config) {
				cfg.Checks = []config.CheckConfig{{Name: "c", Right: "b.dot", Visits: 1}}
			},
			wantErr: config.ErrEmptyCheckPath,
		},
		{
			name: "empty right path",
			modify: func(cfg *config.Config) {
				cfg.Checks = []config.CheckConfig{{Name: "c", Left: "a.dot", Visits: 1}}
			},
			wantErr: config.ErrEmptyCheckPath,
		},
		{
			name: "zero visits",
			modify: func(cfg *config.Config) {
				cfg.Checks = []config.CheckConfig{{Name: "c", Left: "a.dot", Right: "b.dot", Visits: 0}}
			},
			wantErr: config.ErrInvalidVisits,
		},
		{
			name: "negative visits",
			modify: func(cfg *config.Config) {
				cfg.Checks = []config.CheckConfig{{Name: "c", Left: "a.dot", Right: "b.dot", Visits: -1}}
			},
			wantErr: config.ErrInvalidVisits,
		},
		{
			name: "duplicate check name",
			modify: func(cfg *config.Config) {
				cfg.Checks = []config.CheckConfig{validCheck, validCheck}
			},
			wantErr: config.ErrDuplicateCheckName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Checks = []config.CheckConfig{validCheck}
			tt.modify(cfg)

			err := config.Validate(cfg)
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "WARN", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "unknown", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := config.ParseLogLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/nonexistent/path/config.yml")
	if err == nil {
		t.Fatal("Load() returned nil error for nonexistent file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	// Environment variable tests cannot be parallel because they modify
	// process-wide state (os.Setenv).

	yamlContent := `
log:
  level: "info"
checks:
  - name: c
    left: a.dot
    right: b.dot
    visits: 1
`
	path := writeTemp(t, yamlContent)

	t.Setenv("SUBTYPE_LOG_LEVEL", "debug")
	t.Setenv("SUBTYPE_METRICS_ADDR", ":9200")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q (from env)", cfg.Log.Level, "debug")
	}

	if cfg.Metrics.Addr != ":9200" {
		t.Errorf("Metrics.Addr = %q, want %q (from env)", cfg.Metrics.Addr, ":9200")
	}
}

// writeTemp creates a temporary YAML file and returns its path.
// The file is automatically cleaned up when the test finishes.
func writeTemp(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "subtype.yml")

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	return path
}
