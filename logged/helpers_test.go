package logged

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
)

type record struct {
	logger string
	level  callsite.Level
	msg    string
	err    error
}

// memSinks records every write. min is the least severe enabled level;
// disabled turns every level off.
type memSinks struct {
	mu       sync.Mutex
	min      callsite.Level
	disabled bool
	records  []record
}

func newMemSinks(min callsite.Level) *memSinks {
	return &memSinks{min: min}
}

func (m *memSinks) Sink(name string) callsite.Sink {
	return &memSink{parent: m, name: name}
}

func (m *memSinks) all() []record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]record(nil), m.records...)
}

type memSink struct {
	parent *memSinks
	name   string
}

func (s *memSink) Enabled(level callsite.Level) bool {
	return !s.parent.disabled && level >= s.parent.min
}

func (s *memSink) Log(_ context.Context, level callsite.Level, msg string) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.records = append(s.parent.records, record{logger: s.name, level: level, msg: msg})
}

func (s *memSink) LogFailure(_ context.Context, level callsite.Level, msg string, err error) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.records = append(s.parent.records, record{logger: s.name, level: level, msg: msg, err: err})
}

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
