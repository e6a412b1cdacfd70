package logged

import (
	"sync"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
)

// Stats aggregates completed invocations of one signature.
//
// Contract:
// - Concurrency: safe for concurrent use; each update is atomic.
// - Counts only increase.
type Stats struct {
	mu                   sync.Mutex
	successes            int64
	exceptions           int64
	averageMillis        float64
	lastSuccess          time.Time
	lastSuccessLatency   time.Duration
	lastException        time.Time
	lastExceptionLatency time.Duration
}

// StatsSnapshot is a consistent copy of Stats.
type StatsSnapshot struct {
	Successes            int64
	Exceptions           int64
	AverageMillis        float64
	LastSuccess          time.Time
	LastSuccessLatency   time.Duration
	LastException        time.Time
	LastExceptionLatency time.Duration
}

// RecordSuccess records a completed invocation that started at start and
// took elapsed. The average is updated incrementally.
func (s *Stats) RecordSuccess(start time.Time, elapsed time.Duration) {
	ms := float64(elapsed) / float64(time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes++
	s.averageMillis += (ms - s.averageMillis) / float64(s.successes)
	s.lastSuccess = start
	s.lastSuccessLatency = elapsed
}

// RecordException records a failed invocation. Failures never feed the
// success average.
func (s *Stats) RecordException(start time.Time, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exceptions++
	s.lastException = start
	s.lastExceptionLatency = elapsed
}

// Snapshot returns a consistent copy of the current values.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Successes:            s.successes,
		Exceptions:           s.exceptions,
		AverageMillis:        s.averageMillis,
		LastSuccess:          s.lastSuccess,
		LastSuccessLatency:   s.lastSuccessLatency,
		LastException:        s.lastException,
		LastExceptionLatency: s.lastExceptionLatency,
	}
}

// StatsRegistry holds one Stats per signature for the lifetime of the
// registry. Unrelated signatures never contend on a shared lock.
type StatsRegistry struct {
	stats sync.Map // callsite.Signature -> *Stats
}

// NewStatsRegistry creates an empty registry.
func NewStatsRegistry() *StatsRegistry {
	return &StatsRegistry{}
}

// For returns the Stats of sig, creating it on first use. Concurrent first
// calls agree on a single instance.
func (r *StatsRegistry) For(sig callsite.Signature) *Stats {
	if s, ok := r.stats.Load(sig); ok {
		return s.(*Stats)
	}
	s, _ := r.stats.LoadOrStore(sig, &Stats{})
	return s.(*Stats)
}

// Lookup returns a snapshot of the stats of sig, if any were recorded.
func (r *StatsRegistry) Lookup(sig callsite.Signature) (StatsSnapshot, bool) {
	s, ok := r.stats.Load(sig)
	if !ok {
		return StatsSnapshot{}, false
	}
	return s.(*Stats).Snapshot(), true
}

// Range calls fn for every signature until fn returns false.
func (r *StatsRegistry) Range(fn func(sig callsite.Signature, snap StatsSnapshot) bool) {
	r.stats.Range(func(k, v any) bool {
		return fn(k.(callsite.Signature), v.(*Stats).Snapshot())
	})
}

// All returns snapshots of every signature.
func (r *StatsRegistry) All() map[callsite.Signature]StatsSnapshot {
	out := make(map[callsite.Signature]StatsSnapshot)
	r.Range(func(sig callsite.Signature, snap StatsSnapshot) bool {
		out[sig] = snap
		return true
	})
	return out
}
