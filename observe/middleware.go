package observe

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/callwatch/callsite"
)

// Middleware wraps a call with tracing and metrics.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ProceedFunc.
//   - Context: the span context is passed to the wrapped call.
//   - Errors: errors from the wrapped call are recorded and returned unchanged.
//   - Ownership: arguments and results are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
}

// NewMiddleware creates a new Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics) *Middleware {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
	}
}

// Wrap wraps fn with a span and execution metrics for sig.
func (m *Middleware) Wrap(sig callsite.Signature, fn callsite.ProceedFunc) callsite.ProceedFunc {
	return func(ctx context.Context, args []any) (result any, err error) {
		ctx, span := m.tracer.StartSpan(ctx, sig)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				m.finish(ctx, sig, span, start, fmt.Errorf("panic: %v", r))
				panic(r)
			}
			m.finish(ctx, sig, span, start, err)
		}()

		return fn(ctx, args)
	}
}

func (m *Middleware) finish(ctx context.Context, sig callsite.Signature, span trace.Span, start time.Time, err error) {
	m.tracer.EndSpan(span, err)
	m.metrics.RecordExecution(ctx, sig, time.Since(start), err)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics), nil
}
