// Package config loads process-level settings for callwatch.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// YAML file, CALLWATCH_* environment variables and bound command-line flags.
// Nested keys map to environment names with dots replaced by underscores, so
// logging.level is CALLWATCH_LOGGING_LEVEL and killSwitch is
// CALLWATCH_KILLSWITCH.
package config
