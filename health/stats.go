package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/logged"
)

// Thresholds bound the failure ratio of a signature.
type Thresholds struct {
	// Degraded is the exception ratio at or above which a signature degrades.
	Degraded float64
	// Unhealthy is the exception ratio at or above which a signature fails.
	Unhealthy float64
	// MinCalls is the number of calls a signature needs before it is judged.
	MinCalls int64
}

// DefaultThresholds returns the default thresholds.
// Degraded: 10%, Unhealthy: 50%, MinCalls: 10
func DefaultThresholds() Thresholds {
	return Thresholds{Degraded: 0.10, Unhealthy: 0.50, MinCalls: 10}
}

// StatsChecker judges every signature in a statistics registry.
type StatsChecker struct {
	stats      *logged.StatsRegistry
	thresholds Thresholds
}

// NewStatsChecker creates a checker over stats.
func NewStatsChecker(stats *logged.StatsRegistry, t Thresholds) *StatsChecker {
	return &StatsChecker{stats: stats, thresholds: t}
}

// Name returns "calls".
func (c *StatsChecker) Name() string {
	return "calls"
}

// Check reports the worst signature. Details map each judged signature to
// its exception ratio.
func (c *StatsChecker) Check(_ context.Context) Result {
	status := StatusHealthy
	var worst callsite.Signature
	var worstRatio float64
	details := make(map[string]any)

	c.stats.Range(func(sig callsite.Signature, snap logged.StatsSnapshot) bool {
		calls := snap.Successes + snap.Exceptions
		if calls == 0 || calls < c.thresholds.MinCalls {
			return true
		}
		ratio := float64(snap.Exceptions) / float64(calls)
		details[sig.String()] = ratio

		s := c.judge(ratio)
		if s > status || (s == status && ratio > worstRatio) {
			status, worst, worstRatio = s, sig, ratio
		}
		return true
	})

	r := Result{Status: status, Details: details, Timestamp: time.Now()}
	switch status {
	case StatusHealthy:
		r.Message = "all calls within thresholds"
	default:
		r.Message = fmt.Sprintf("%s fails %.0f%% of calls", worst.ShortName(), worstRatio*100)
	}
	return r
}

func (c *StatsChecker) judge(ratio float64) Status {
	switch {
	case c.thresholds.Unhealthy > 0 && ratio >= c.thresholds.Unhealthy:
		return StatusUnhealthy
	case c.thresholds.Degraded > 0 && ratio >= c.thresholds.Degraded:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}
