package logged

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/observe"
)

func TestRegisterStatsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	reg := NewStatsRegistry()
	reg.For(findSig).RecordSuccess(time.Now(), 10*time.Millisecond)
	reg.For(findSig).RecordSuccess(time.Now(), 20*time.Millisecond)
	reg.For(findSig).RecordException(time.Now(), time.Millisecond)

	registration, err := RegisterStatsMetrics(mp.Meter("test"), reg)
	if err != nil {
		t.Fatalf("RegisterStatsMetrics() error = %v", err)
	}
	defer func() { _ = registration.Unregister() }()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := map[string]float64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					got[m.Name] += float64(dp.Value)
				}
			case metricdata.Gauge[float64]:
				for _, dp := range data.DataPoints {
					if v, ok := dp.Attributes.Value("call.signature"); !ok || v.AsString() != findSig.String() {
						t.Errorf("call.signature = %v", v.AsString())
					}
					got[m.Name] = dp.Value
				}
			}
		}
	}

	want := map[string]float64{
		"call.stats.successes":      2,
		"call.stats.exceptions":     1,
		"call.stats.avg_latency_ms": 15,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %v, want %v", name, got[name], v)
		}
	}
}

func TestReporter_WithTelemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	mw := observe.NewMiddleware(observe.NewTracer(tp.Tracer("test")), nil)

	r := NewReporter(newMemSinks(callsite.LevelInfo), WithTelemetry(mw))
	_, _ = r.Wrap(findSig, DefaultConfig(), returning("v"))(context.Background(), []any{1, "x"})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != observe.SpanName(findSig) {
		t.Errorf("span name = %q, want %q", spans[0].Name(), observe.SpanName(findSig))
	}
}
