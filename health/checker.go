package health

import (
	"context"
	"time"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one check.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Timestamp time.Time
}

// Checker reports the health of one component.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Check should return promptly when ctx is done.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

type checkerFunc struct {
	name string
	fn   func(context.Context) Result
}

// CheckerFunc adapts fn to a named Checker.
func CheckerFunc(name string, fn func(context.Context) Result) Checker {
	return &checkerFunc{name: name, fn: fn}
}

func (c *checkerFunc) Name() string                     { return c.name }
func (c *checkerFunc) Check(ctx context.Context) Result { return c.fn(ctx) }

// Evaluate runs checkers in order and returns the worst status with every
// result by name.
func Evaluate(ctx context.Context, checkers ...Checker) (Status, map[string]Result) {
	overall := StatusHealthy
	results := make(map[string]Result, len(checkers))
	for _, c := range checkers {
		r := c.Check(ctx)
		if r.Timestamp.IsZero() {
			r.Timestamp = time.Now()
		}
		results[c.Name()] = r
		if r.Status > overall {
			overall = r.Status
		}
	}
	return overall, results
}
