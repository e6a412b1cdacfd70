package logged

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/callwatch/callsite"
)

// RegisterStatsMetrics publishes the registry as observable instruments on
// meter: call.stats.successes, call.stats.exceptions and
// call.stats.avg_latency_ms, one series per signature. Unregister the
// returned registration to stop publishing.
func RegisterStatsMetrics(meter metric.Meter, reg *StatsRegistry) (metric.Registration, error) {
	successes, err := meter.Int64ObservableCounter(
		"call.stats.successes",
		metric.WithDescription("Completed invocations per signature"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	exceptions, err := meter.Int64ObservableCounter(
		"call.stats.exceptions",
		metric.WithDescription("Failed invocations per signature"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	average, err := meter.Float64ObservableGauge(
		"call.stats.avg_latency_ms",
		metric.WithDescription("Running average latency of completed invocations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		reg.Range(func(sig callsite.Signature, snap StatsSnapshot) bool {
			opt := metric.WithAttributes(
				attribute.String("call.signature", sig.String()),
				attribute.String("code.function", sig.Name()),
			)
			o.ObserveInt64(successes, snap.Successes, opt)
			o.ObserveInt64(exceptions, snap.Exceptions, opt)
			o.ObserveFloat64(average, snap.AverageMillis, opt)
			return true
		})
		return nil
	}, successes, exceptions, average)
}
