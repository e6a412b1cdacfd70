package observe

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/observe/exporters"
)

// Config holds all configuration for the Observer.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled   bool
	Exporter  string  // otlp|jaeger|stdout|none
	SamplePct float64 // 0.0-1.0
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // otlp|prometheus|stdout|none
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Enabled bool
	Level   string // trace|debug|info|warn|error
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}

	if c.Tracing.Enabled {
		if !slices.Contains(ValidTracingExporters, c.Tracing.Exporter) {
			return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter)
		}
		if c.Tracing.SamplePct < MinSamplePct || c.Tracing.SamplePct > MaxSamplePct {
			return fmt.Errorf("%w, got: %f", ErrInvalidSamplePct, c.Tracing.SamplePct)
		}
	}

	if c.Metrics.Enabled {
		if !slices.Contains(ValidMetricsExporters, c.Metrics.Exporter) {
			return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
		}
	}

	if c.Logging.Enabled {
		if !slices.Contains(ValidLogLevels, c.Logging.Level) {
			return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
		}
	}

	return nil
}

// Observer exposes the tracer, meter and log sinks of reported calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Shutdown must honor cancellation/deadlines.
// - Errors: Shutdown stops every provider and joins their errors.
type Observer interface {
	Tracer() trace.Tracer
	Meter() metric.Meter
	Sinks() callsite.SinkResolver
	Shutdown(ctx context.Context) error
}

type observer struct {
	tracer trace.Tracer
	meter  metric.Meter
	sinks  callsite.SinkResolver
	stops  []func(context.Context) error // in start order
}

// NewObserver starts the subsystems enabled in cfg and installs their
// providers globally. Disabled subsystems are no-ops.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("observe: resource: %w", err)
	}

	obs := &observer{
		tracer: tracenoop.NewTracerProvider().Tracer("noop"),
		meter:  noop.NewMeterProvider().Meter("noop"),
		sinks:  callsite.NopResolver,
	}

	if cfg.Tracing.Enabled {
		tp, err := newTracerProvider(ctx, cfg.Tracing, res)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		obs.tracer = tp.Tracer(cfg.ServiceName)
		obs.stops = append(obs.stops, tp.Shutdown)
	}

	if cfg.Metrics.Enabled {
		mp, err := newMeterProvider(ctx, cfg.Metrics, res)
		if err != nil {
			return nil, errors.Join(err, obs.Shutdown(ctx))
		}
		otel.SetMeterProvider(mp)
		obs.meter = mp.Meter(cfg.ServiceName)
		obs.stops = append(obs.stops, mp.Shutdown)
	}

	if cfg.Logging.Enabled {
		obs.sinks = NewLogger(cfg.Logging.Level)
	}
	return obs, nil
}

func newTracerProvider(ctx context.Context, cfg TracingConfig, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exp, err := exporters.NewTracingExporter(ctx, cfg.Exporter)
	if err != nil {
		return nil, fmt.Errorf("observe: tracing: %w", err)
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplePct)),
	}
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

// sampler maps a sampling share onto an SDK sampler.
func sampler(pct float64) sdktrace.Sampler {
	switch {
	case pct >= MaxSamplePct:
		return sdktrace.AlwaysSample()
	case pct <= MinSamplePct:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(pct)
	}
}

func newMeterProvider(ctx context.Context, cfg MetricsConfig, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	reader, err := exporters.NewMetricsReader(ctx, cfg.Exporter)
	if err != nil {
		return nil, fmt.Errorf("observe: metrics: %w", err)
	}
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if reader != nil {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	return sdkmetric.NewMeterProvider(opts...), nil
}

func (o *observer) Tracer() trace.Tracer         { return o.tracer }
func (o *observer) Meter() metric.Meter          { return o.meter }
func (o *observer) Sinks() callsite.SinkResolver { return o.sinks }

// Shutdown stops providers in reverse start order.
func (o *observer) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(o.stops) - 1; i >= 0; i-- {
		if err := o.stops[i](ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
