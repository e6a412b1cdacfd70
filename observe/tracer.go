package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/callwatch/callsite"
)

// SpanName returns the deterministic span name for a call site.
// Format: call.exec.<type>.<name> or call.exec.<name>
func SpanName(sig callsite.Signature) string {
	return "call.exec." + sig.ShortName()
}

// callAttributes returns the attributes shared by spans and metrics.
func callAttributes(sig callsite.Signature) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("code.function", sig.Name()),
		attribute.String("call.kind", sig.Kind().String()),
	}
	if sig.DeclaringType() != "" {
		attrs = append(attrs, attribute.String("code.namespace", sig.DeclaringType()))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with call-site span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for one invocation of sig.
	StartSpan(ctx context.Context, sig callsite.Signature) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with call-site attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, sig callsite.Signature) (context.Context, trace.Span) {
	attrs := append(callAttributes(sig),
		attribute.String("call.signature", sig.String()),
		attribute.Bool("call.error", false),
	)

	return t.tracer.Start(ctx, SpanName(sig),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("call.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a tracer whose spans are never recorded.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, sig callsite.Signature) (context.Context, trace.Span) {
	return t.noop.Start(ctx, SpanName(sig))
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
