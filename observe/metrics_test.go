package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jonwraymond/callwatch/callsite"
)

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordExecution(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	sig := callsite.NewMethod("example.Repo", "Find", "string", "int")
	ctx := context.Background()
	m.RecordExecution(ctx, sig, 100*time.Millisecond, nil)
	m.RecordExecution(ctx, sig, 50*time.Millisecond, errors.New("boom"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	if got := sumValue(t, rm, "call.exec.total"); got != 2 {
		t.Errorf("call.exec.total = %d, want 2", got)
	}
	if got := sumValue(t, rm, "call.exec.errors"); got != 1 {
		t.Errorf("call.exec.errors = %d, want 1", got)
	}

	hist := findMetric(rm, "call.exec.duration_ms")
	if hist == nil {
		t.Fatal("call.exec.duration_ms not found")
	}
	h, ok := hist.Data.(metricdata.Histogram[float64])
	if !ok || len(h.DataPoints) == 0 {
		t.Fatalf("unexpected histogram data %T", hist.Data)
	}
	if h.DataPoints[0].Sum != 150 {
		t.Errorf("duration sum = %v, want 150", h.DataPoints[0].Sum)
	}
}

func TestNoopMetrics_NoPanic(t *testing.T) {
	NewNoopMetrics().RecordExecution(context.Background(), callsite.NewMethod("x", "y", ""), time.Millisecond, nil)
}
