package observe

import (
	"context"
	"io"
	"testing"

	"github.com/jonwraymond/callwatch/callsite"
)

// BenchmarkLogger_Log measures logging throughput.
func BenchmarkLogger_Log(b *testing.B) {
	sink := NewLoggerWithWriter("info", io.Discard).Sink("bench.Type")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sink.Log(ctx, callsite.LevelInfo, ">>Find(42)>>")
	}
}

// BenchmarkLogger_LevelFiltering measures overhead of level filtering.
func BenchmarkLogger_LevelFiltering(b *testing.B) {
	sink := NewLoggerWithWriter("error", io.Discard).Sink("bench.Type")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sink.Log(ctx, callsite.LevelDebug, "filtered debug")
		sink.Log(ctx, callsite.LevelInfo, "filtered info")
	}
}

// BenchmarkMiddleware_Noop measures the wrapper overhead with telemetry disabled.
func BenchmarkMiddleware_Noop(b *testing.B) {
	mw := NewMiddleware(nil, nil)
	sig := callsite.NewMethod("bench.Type", "Call", "int")
	wrapped := mw.Wrap(sig, func(ctx context.Context, args []any) (any, error) {
		return 1, nil
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = wrapped(ctx, nil)
	}
}
