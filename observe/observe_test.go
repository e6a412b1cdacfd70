package observe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonwraymond/callwatch/callsite"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg: Config{
				ServiceName: "test-service",
				Version:     "1.0.0",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
				Logging:     LoggingConfig{Enabled: true, Level: "trace"},
			},
		},
		{
			name:    "missing service name",
			cfg:     Config{Version: "1.0.0"},
			wantErr: ErrMissingServiceName,
		},
		{
			name:    "unknown tracing exporter",
			cfg:     Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, Exporter: "unknown"}},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name:    "unknown metrics exporter",
			cfg:     Config{ServiceName: "svc", Metrics: MetricsConfig{Enabled: true, Exporter: "badvalue"}},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name:    "sample pct above range",
			cfg:     Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5}},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "sample pct negative",
			cfg:     Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: -0.1}},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "unknown log level",
			cfg:     Config{ServiceName: "svc", Logging: LoggingConfig{Enabled: true, Level: "badlevel"}},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled subsystems are not validated",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Exporter: "unknown"},
				Logging:     LoggingConfig{Level: "badlevel"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_DisabledNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if obs.Tracer() == nil {
		t.Error("expected non-nil tracer (noop)")
	}
	if obs.Meter() == nil {
		t.Error("expected non-nil meter (noop)")
	}
	if obs.Sinks() == nil {
		t.Fatal("expected non-nil sinks (noop)")
	}
	if obs.Sinks().Sink("any").Enabled(callsite.LevelError) {
		t.Error("disabled logging should resolve sinks with every level off")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_Enabled(t *testing.T) {
	cfg := Config{
		ServiceName: "test-service",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if _, ok := obs.Sinks().(*Logger); !ok {
		t.Errorf("Sinks() = %T, want *Logger", obs.Sinks())
	}
	if _, err := MiddlewareFromObserver(obs); err != nil {
		t.Errorf("MiddlewareFromObserver() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	if _, err := NewObserver(context.Background(), Config{}); !errors.Is(err, ErrMissingServiceName) {
		t.Fatalf("NewObserver() error = %v, want %v", err, ErrMissingServiceName)
	}
}

func TestMiddlewareFromObserver_Nil(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Fatalf("MiddlewareFromObserver(nil) error = %v, want %v", err, ErrNilObserver)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.pct).Description(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("sampler(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
