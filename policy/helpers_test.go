package policy

import (
	"context"
	"sync"

	"github.com/jonwraymond/callwatch/callsite"
)

type entry struct {
	level callsite.Level
	msg   string
}

type recordingSink struct {
	mu      sync.Mutex
	entries []entry
}

func (s *recordingSink) Enabled(callsite.Level) bool { return true }

func (s *recordingSink) Log(_ context.Context, level callsite.Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{level: level, msg: msg})
}

func (s *recordingSink) LogFailure(ctx context.Context, level callsite.Level, msg string, _ error) {
	s.Log(ctx, level, msg)
}

func (s *recordingSink) all() []entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entry(nil), s.entries...)
}

// exitRecorder stands in for os.Exit.
type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (r *exitRecorder) exit(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

func (r *exitRecorder) calls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.codes...)
}

// shutdowner exercises type and method overrides.
type shutdowner struct {
	g *Guard
}

func (s *shutdowner) stop(ctx context.Context) error {
	return s.g.Exit(ctx, 3)
}

func (s *shutdowner) stopLater(ctx context.Context) error {
	run := func() error { return s.g.Exit(ctx, 4) }
	return run()
}
