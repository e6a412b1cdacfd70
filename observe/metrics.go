package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/callwatch/callsite"
)

// Metrics records execution metrics for call sites.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one invocation with its duration and error status.
	RecordExecution(ctx context.Context, sig callsite.Signature, duration time.Duration, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates Metrics backed by meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"call.exec.total",
		metric.WithDescription("Total number of intercepted call executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"call.exec.errors",
		metric.WithDescription("Total number of intercepted calls that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"call.exec.duration_ms",
		metric.WithDescription("Intercepted call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordExecution(ctx context.Context, sig callsite.Signature, duration time.Duration, err error) {
	opt := metric.WithAttributes(callAttributes(sig)...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

type noopMetrics struct{}

// NewNoopMetrics returns Metrics that record nothing.
func NewNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordExecution(context.Context, callsite.Signature, time.Duration, error) {}
