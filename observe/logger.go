package observe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
)

// Logger is a JSON line logger. It resolves one named callsite.Sink per
// declaring type; all sinks share the writer and its lock.
type Logger struct {
	level  callsite.Level
	writer io.Writer
	mu     *sync.Mutex
	name   string
}

// NewLogger creates a new structured logger with the given level writing to stderr.
func NewLogger(level string) *Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a new structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) *Logger {
	return &Logger{
		level:  callsite.ParseLevel(level),
		writer: w,
		mu:     &sync.Mutex{},
	}
}

// Sink returns a sink that tags every record with the logger name.
func (l *Logger) Sink(name string) callsite.Sink {
	return &Logger{
		level:  l.level,
		writer: l.writer,
		mu:     l.mu,
		name:   name,
	}
}

// Enabled reports whether level passes the configured threshold.
func (l *Logger) Enabled(level callsite.Level) bool {
	return level >= l.level
}

// Log writes msg when level passes the threshold.
func (l *Logger) Log(ctx context.Context, level callsite.Level, msg string) {
	l.log(ctx, level, msg, nil)
}

// LogFailure writes msg with the failure rendered in the "error" field.
func (l *Logger) LogFailure(ctx context.Context, level callsite.Level, msg string, err error) {
	l.log(ctx, level, msg, err)
}

func (l *Logger) log(_ context.Context, level callsite.Level, msg string, failure error) {
	if !l.Enabled(level) {
		return
	}

	entry := make(map[string]any, 5)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.name != "" {
		entry["logger"] = l.name
	}
	if failure != nil {
		entry["error"] = fmt.Sprintf("%+v", failure)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return // Silently drop malformed log entries
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(data)
}

var (
	_ callsite.Sink         = (*Logger)(nil)
	_ callsite.SinkResolver = (*Logger)(nil)
)
