package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jonwraymond/callwatch/cache"
	"github.com/jonwraymond/callwatch/logged"
	"github.com/jonwraymond/callwatch/observe"
)

// Config is the process-level configuration.
type Config struct {
	ServiceName string          `mapstructure:"serviceName"`
	Version     string          `mapstructure:"version"`
	KillSwitch  bool            `mapstructure:"killSwitch"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Tracing     TracingConfig   `mapstructure:"tracing"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	NullCheck   NullCheckConfig `mapstructure:"nullCheck"`
	Defaults    DefaultsConfig  `mapstructure:"defaults"`
}

// LoggingConfig selects the sink backend.
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`   // trace|debug|info|warn|error
	Backend string `mapstructure:"backend"` // json|zap
}

// TracingConfig configures spans around reported calls.
type TracingConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Exporter  string  `mapstructure:"exporter"`
	SamplePct float64 `mapstructure:"samplePct"`
}

// MetricsConfig configures call metrics and statistics export.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"`
}

// NullCheckConfig bounds the validator's plan cache.
type NullCheckConfig struct {
	CacheTTL        time.Duration `mapstructure:"cacheTTL"`
	CacheMaxEntries int           `mapstructure:"cacheMaxEntries"`
}

// DefaultsConfig seeds the per-call-site logging configuration.
type DefaultsConfig struct {
	Mode        string `mapstructure:"mode"`
	MaxLength   int    `mapstructure:"maxLength"`
	ForceValues bool   `mapstructure:"forceValues"`
	Statistics  bool   `mapstructure:"statistics"`
	StackTrace  bool   `mapstructure:"stackTrace"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServiceName: "callwatch",
		Version:     "dev",
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Backend: BackendJSON,
		},
		Tracing: TracingConfig{
			Exporter:  "none",
			SamplePct: 1.0,
		},
		Metrics: MetricsConfig{
			Exporter: "none",
		},
		Defaults: DefaultsConfig{
			Mode: logged.ModeAround.String(),
		},
	}
}

// Validate checks every section and joins the failures.
func (c Config) Validate() error {
	var errs []error
	oc := c.Observe()
	if err := oc.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Enabled && !slices.Contains(ValidBackends, c.Logging.Backend) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidBackend, c.Logging.Backend))
	}
	if c.NullCheck.CacheMaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxEntries, c.NullCheck.CacheMaxEntries))
	}
	if c.Defaults.MaxLength < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxLength, c.Defaults.MaxLength))
	}
	if _, err := logged.ParseMode(c.Defaults.Mode); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Observe maps the configuration onto observe.Config.
func (c Config) Observe() observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Tracing.Enabled,
			Exporter:  c.Tracing.Exporter,
			SamplePct: c.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Metrics.Enabled,
			Exporter: c.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Logging.Enabled,
			Level:   c.Logging.Level,
		},
	}
}

// CachePolicy returns the null-check plan cache policy.
func (c Config) CachePolicy() cache.Policy {
	return cache.Policy{
		TTL:        c.NullCheck.CacheTTL,
		MaxEntries: c.NullCheck.CacheMaxEntries,
	}
}

// LogConfig returns the per-call-site defaults.
func (c Config) LogConfig() (logged.Config, error) {
	mode, err := logged.ParseMode(c.Defaults.Mode)
	if err != nil {
		return logged.Config{}, err
	}
	lc := logged.DefaultConfig()
	lc.Mode = mode
	lc.MaxLength = c.Defaults.MaxLength
	lc.ForceValues = c.Defaults.ForceValues
	lc.Statistics = c.Defaults.Statistics
	lc.StackTrace = c.Defaults.StackTrace
	return lc, nil
}
