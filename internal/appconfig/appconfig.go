// Package appconfig manages loading and interpreting application
// configuration. Values come from an optional JSON config file merged with
// command-line flags; flags win.
package appconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/iotsec-lab/pqcbench/internal/constants"
)

const (
	// DefaultConfigPath is the default path to the configuration file.
	DefaultConfigPath = "config/pqcbench.json"

	// ModeQuick runs the reduced smoke-test matrix.
	ModeQuick = "quick"
	// ModeFull runs the complete benchmark matrix.
	ModeFull = "full"

	// FormatJSON writes only the JSON report.
	FormatJSON = "json"
	// FormatLaTeX writes only the LaTeX report.
	FormatLaTeX = "latex"
	// FormatAll writes every report format.
	FormatAll = "all"
)

// Config represents the top-level application configuration.
type Config struct {
	Mode           string `json:"mode"`
	OutDir         string `json:"outDir,omitempty"`
	Seed           int64  `json:"seed,omitempty"`
	Simulate       bool   `json:"simulate"`
	TimeoutSeconds int    `json:"timeout,omitempty"`
	Workers        int    `json:"workers,omitempty"`
	Format         string `json:"format,omitempty"`
	LogLevel       string `json:"logLevel,omitempty"`
	LogFormat      string `json:"logFormat,omitempty"`
	Tracing        string `json:"tracing,omitempty"`
	ConfigPath     string `json:"-"`
}

// Validate checks the configuration for values no run could honor.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeQuick, ModeFull:
	default:
		return fmt.Errorf("invalid mode %q: must be %q or %q", c.Mode, ModeQuick, ModeFull)
	}
	switch strings.ToLower(c.Format) {
	case "", FormatJSON, FormatLaTeX, FormatAll:
	default:
		return fmt.Errorf("invalid report format %q: must be %s, %s, or %s",
			c.Format, FormatJSON, FormatLaTeX, FormatAll)
	}
	switch strings.ToLower(c.Tracing) {
	case "", "none", "simple", "otel":
	default:
		return fmt.Errorf("invalid tracing backend %q: must be none, simple, or otel", c.Tracing)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat)
	}
}

// ScenarioTimeout returns the per-scenario deadline, falling back to the
// default when unset.
func (c Config) ScenarioTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return constants.DefaultScenarioTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EffectiveSeed returns the dataset generation seed, applying the default
// when unset so runs stay reproducible without flags.
func (c Config) EffectiveSeed() int64 {
	if c.Seed == 0 {
		return constants.DefaultSeed
	}
	return c.Seed
}

// EffectiveWorkers returns the scenario concurrency, at least one.
func (c Config) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return constants.DefaultWorkers
	}
	return c.Workers
}

// OutputDir returns the report directory, defaulting to the working
// directory.
func (c Config) OutputDir() string {
	if d := strings.TrimSpace(c.OutDir); d != "" {
		return d
	}
	return "."
}

// ReportFormat returns the normalized report format selection.
func (c Config) ReportFormat() string {
	f := strings.ToLower(strings.TrimSpace(c.Format))
	if f == "" {
		return FormatAll
	}
	return f
}

// TracingBackend returns the normalized tracing backend name.
func (c Config) TracingBackend() string {
	t := strings.ToLower(strings.TrimSpace(c.Tracing))
	if t == "" {
		return "none"
	}
	return t
}
