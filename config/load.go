package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "CALLWATCH"

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"kill-switch":  "killSwitch",
	"log-level":    "logging.level",
	"log-backend":  "logging.backend",
	"service-name": "serviceName",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("serviceName", d.ServiceName)
	v.SetDefault("version", d.Version)
	v.SetDefault("killSwitch", d.KillSwitch)
	v.SetDefault("logging.enabled", d.Logging.Enabled)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.backend", d.Logging.Backend)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.samplePct", d.Tracing.SamplePct)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.exporter", d.Metrics.Exporter)
	v.SetDefault("nullCheck.cacheTTL", d.NullCheck.CacheTTL)
	v.SetDefault("nullCheck.cacheMaxEntries", d.NullCheck.CacheMaxEntries)
	v.SetDefault("defaults.mode", d.Defaults.Mode)
	v.SetDefault("defaults.maxLength", d.Defaults.MaxLength)
	v.SetDefault("defaults.forceValues", d.Defaults.ForceValues)
	v.SetDefault("defaults.statistics", d.Defaults.Statistics)
	v.SetDefault("defaults.stackTrace", d.Defaults.StackTrace)
}

// RegisterFlags adds the flags Load binds to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Bool("kill-switch", false, "refuse guarded process exits and console access")
	fs.String("log-level", "", "log level: trace|debug|info|warn|error")
	fs.String("log-backend", "", "log backend: json|zap")
	fs.String("service-name", "", "service name reported in telemetry")
}

// Load reads the configuration. path may be empty; flags may be nil. Only
// flags that were set on the command line override other sources.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("config: bind --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
