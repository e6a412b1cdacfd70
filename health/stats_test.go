package health

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/logged"
)

var (
	findSig = callsite.NewMethod("example.Repo", "Find", "string", "int")
	saveSig = callsite.NewMethod("example.Repo", "Save", callsite.Void, "string")
)

func record(reg *logged.StatsRegistry, sig callsite.Signature, ok, failed int) {
	s := reg.For(sig)
	now := time.Now()
	for i := 0; i < ok; i++ {
		s.RecordSuccess(now, time.Millisecond)
	}
	for i := 0; i < failed; i++ {
		s.RecordException(now, time.Millisecond)
	}
}

func TestStatsChecker(t *testing.T) {
	tests := []struct {
		name       string
		ok, failed int
		want       Status
	}{
		{"no failures", 20, 0, StatusHealthy},
		{"below degraded", 19, 1, StatusHealthy},
		{"degraded", 16, 4, StatusDegraded},
		{"unhealthy", 10, 10, StatusUnhealthy},
		{"too few calls to judge", 1, 5, StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := logged.NewStatsRegistry()
			record(reg, findSig, tt.ok, tt.failed)

			r := NewStatsChecker(reg, DefaultThresholds()).Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", r.Status, tt.want, r.Message)
			}
		})
	}
}

func TestStatsChecker_ReportsWorstSignature(t *testing.T) {
	reg := logged.NewStatsRegistry()
	record(reg, findSig, 18, 2)
	record(reg, saveSig, 5, 15)

	r := NewStatsChecker(reg, DefaultThresholds()).Check(context.Background())
	if r.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy", r.Status)
	}
	if !strings.Contains(r.Message, "Save") || !strings.Contains(r.Message, "75%") {
		t.Errorf("Message = %q, want Save at 75%%", r.Message)
	}
	if got := r.Details[findSig.String()]; got != 0.1 {
		t.Errorf("Details[find] = %v, want 0.1", got)
	}
}

func TestStatsChecker_ZeroThresholdsNeverTrip(t *testing.T) {
	reg := logged.NewStatsRegistry()
	record(reg, findSig, 0, 50)

	r := NewStatsChecker(reg, Thresholds{}).Check(context.Background())
	if r.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", r.Status)
	}
}

func TestStatsChecker_Name(t *testing.T) {
	if got := NewStatsChecker(logged.NewStatsRegistry(), DefaultThresholds()).Name(); got != "calls" {
		t.Errorf("Name() = %q, want calls", got)
	}
}
