package logged

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
)

func TestStats_RunningMeanMatchesArithmeticMean(t *testing.T) {
	latencies := []time.Duration{10, 3, 250, 7, 7, 1000, 42}
	var s Stats
	var sum float64
	for _, l := range latencies {
		s.RecordSuccess(time.Now(), l*time.Millisecond)
		sum += float64(l)
	}

	snap := s.Snapshot()
	want := sum / float64(len(latencies))
	if math.Abs(snap.AverageMillis-want) > 1e-9 {
		t.Errorf("AverageMillis = %v, want %v", snap.AverageMillis, want)
	}
	if snap.Successes != int64(len(latencies)) {
		t.Errorf("Successes = %d, want %d", snap.Successes, len(latencies))
	}
	if snap.LastSuccessLatency != 42*time.Millisecond {
		t.Errorf("LastSuccessLatency = %v", snap.LastSuccessLatency)
	}
}

func TestStats_ExceptionsDoNotAffectMean(t *testing.T) {
	var s Stats
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.RecordSuccess(start, 10*time.Millisecond)
	s.RecordException(start.Add(time.Second), 5*time.Millisecond)

	snap := s.Snapshot()
	if snap.Successes != 1 || snap.Exceptions != 1 {
		t.Errorf("counts = %d/%d, want 1/1", snap.Successes, snap.Exceptions)
	}
	if snap.AverageMillis != 10 {
		t.Errorf("AverageMillis = %v, want 10", snap.AverageMillis)
	}
	if !snap.LastException.Equal(start.Add(time.Second)) || snap.LastExceptionLatency != 5*time.Millisecond {
		t.Errorf("last exception = %v %v", snap.LastException, snap.LastExceptionLatency)
	}
}

func TestStatsRegistry_ConcurrentUpdates(t *testing.T) {
	reg := NewStatsRegistry()
	sig := callsite.NewMethod("example.Repo", "Find", "string", "int")

	const workers, perWorker = 16, 250
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				reg.For(sig).RecordSuccess(time.Now(), 4*time.Millisecond)
				if i%5 == 0 {
					reg.For(sig).RecordException(time.Now(), time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()

	snap, ok := reg.Lookup(sig)
	if !ok {
		t.Fatal("expected stats for signature")
	}
	if snap.Successes != workers*perWorker {
		t.Errorf("Successes = %d, want %d", snap.Successes, workers*perWorker)
	}
	if snap.Exceptions != workers*perWorker/5 {
		t.Errorf("Exceptions = %d, want %d", snap.Exceptions, workers*perWorker/5)
	}
	if math.Abs(snap.AverageMillis-4) > 1e-9 {
		t.Errorf("AverageMillis = %v, want 4", snap.AverageMillis)
	}
}

func TestStatsRegistry_SignatureIdentity(t *testing.T) {
	reg := NewStatsRegistry()
	a := callsite.NewMethod("example.Repo", "Find", "string", "int")
	b := callsite.NewMethod("example.Repo", "Find", "string", "int")
	c := callsite.NewMethod("example.Repo", "Find", "string", "string")

	if reg.For(a) != reg.For(b) {
		t.Error("equal signatures must share stats")
	}
	if reg.For(a) == reg.For(c) {
		t.Error("overloads must not share stats")
	}
	if got := len(reg.All()); got != 2 {
		t.Errorf("All() has %d entries, want 2", got)
	}
	if _, ok := reg.Lookup(callsite.NewMethod("x", "y", "")); ok {
		t.Error("Lookup must not create entries")
	}
}
