package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/callwatch/callsite"
)

func TestSpanName(t *testing.T) {
	tests := []struct {
		sig  callsite.Signature
		want string
	}{
		{callsite.NewMethod("example.Repo", "Find", "string", "int"), "call.exec.example.Repo.Find"},
		{callsite.NewMethod("", "main", ""), "call.exec.main"},
	}
	for _, tt := range tests {
		if got := SpanName(tt.sig); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	sig := callsite.NewMethod("example.Repo", "Find", "string", "int")
	_, span := tr.StartSpan(context.Background(), sig)
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	want := map[string]string{
		"code.function":  "Find",
		"code.namespace": "example.Repo",
		"call.kind":      "method",
		"call.signature": "string example.Repo.Find(int)",
		"call.error":     "false",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attribute %s = %q, want %q", k, attrs[k], v)
		}
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", spans[0].Status().Code)
	}
}

func TestTracer_EndSpanWithError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	_, span := tr.StartSpan(context.Background(), callsite.NewMethod("x", "Fail", ""))
	tr.EndSpan(span, errors.New("boom"))

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error || s.Status().Description != "boom" {
		t.Errorf("status = %+v, want Error(boom)", s.Status())
	}
	if len(s.Events()) == 0 {
		t.Error("expected recorded error event")
	}
}

func TestNoopTracer_NoPanic(t *testing.T) {
	tr := NewNoopTracer()
	_, span := tr.StartSpan(context.Background(), callsite.NewMethod("x", "y", ""))
	tr.EndSpan(span, errors.New("ignored"))
}
