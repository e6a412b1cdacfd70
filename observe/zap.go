package observe

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jonwraymond/callwatch/callsite"
)

// ZapTraceLevel is the zap level trace records are written at. zap has no
// trace level of its own.
const ZapTraceLevel = zapcore.DebugLevel - 1

// ZapLevel maps a callsite level onto zap.
func ZapLevel(l callsite.Level) zapcore.Level {
	switch l {
	case callsite.LevelTrace:
		return ZapTraceLevel
	case callsite.LevelDebug:
		return zapcore.DebugLevel
	case callsite.LevelWarn:
		return zapcore.WarnLevel
	case callsite.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ZapSinks resolves sinks backed by named children of a zap logger.
type ZapSinks struct {
	logger *zap.Logger
}

// NewZapSinks wraps logger. A nil logger is replaced by zap.NewNop.
func NewZapSinks(logger *zap.Logger) *ZapSinks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSinks{logger: logger}
}

// Sink returns a sink writing through logger.Named(name).
func (z *ZapSinks) Sink(name string) callsite.Sink {
	l := z.logger
	if name != "" {
		l = l.Named(name)
	}
	return &zapSink{logger: l}
}

type zapSink struct {
	logger *zap.Logger
}

func (s *zapSink) Enabled(level callsite.Level) bool {
	return s.logger.Core().Enabled(ZapLevel(level))
}

func (s *zapSink) Log(_ context.Context, level callsite.Level, msg string) {
	if ce := s.logger.Check(ZapLevel(level), msg); ce != nil {
		ce.Write()
	}
}

func (s *zapSink) LogFailure(_ context.Context, level callsite.Level, msg string, err error) {
	if ce := s.logger.Check(ZapLevel(level), msg); ce != nil {
		ce.Write(zap.Error(err))
	}
}

var _ callsite.SinkResolver = (*ZapSinks)(nil)
