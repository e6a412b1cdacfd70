package callsite

import (
	"context"
	"strings"
)

// Level is a logging severity, ordered from most to least verbose.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// Levels lists every level from most to least verbose.
var Levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// ParseLevel parses a level name. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Sink is a leveled logging backend for a single logger name.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: writes are best-effort and must not panic.
type Sink interface {
	// Enabled reports whether records at level are written.
	Enabled(level Level) bool

	// Log writes msg at level.
	Log(ctx context.Context, level Level, msg string)

	// LogFailure writes msg at level together with the full failure detail.
	LogFailure(ctx context.Context, level Level, msg string, err error)
}

// SinkResolver returns the Sink for a logger name. Interceptors resolve one
// Sink per declaring type.
type SinkResolver interface {
	Sink(name string) Sink
}

// SinkResolverFunc adapts a function to SinkResolver.
type SinkResolverFunc func(name string) Sink

// Sink implements SinkResolver.
func (f SinkResolverFunc) Sink(name string) Sink { return f(name) }

// MostVerbose returns the most verbose level enabled on s. The second result
// is false when no level is enabled.
func MostVerbose(s Sink) (Level, bool) {
	for _, l := range Levels {
		if s.Enabled(l) {
			return l, true
		}
	}
	return LevelWarn, false
}

// NopSink discards everything.
type NopSink struct{}

// Enabled always returns false.
func (NopSink) Enabled(Level) bool { return false }

// Log does nothing.
func (NopSink) Log(context.Context, Level, string) {}

// LogFailure does nothing.
func (NopSink) LogFailure(context.Context, Level, string, error) {}

// NopResolver resolves every name to NopSink.
var NopResolver SinkResolver = SinkResolverFunc(func(string) Sink { return NopSink{} })
