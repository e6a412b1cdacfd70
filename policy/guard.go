package policy

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"
	"syscall"

	"github.com/jonwraymond/callwatch/callsite"
)

// Guarded targets.
const (
	TargetExit       = "os.Exit"
	TargetHalt       = "syscall.Exit"
	TargetStdout     = "os.Stdout"
	TargetStderr     = "os.Stderr"
	TargetPrintStack = "debug.PrintStack"
)

// Guard audits and optionally refuses guarded uses.
//
// Contract:
// - Concurrency: safe for concurrent use; the kill switch is last writer wins.
// - Ordering: the audit warning is written before the kill switch is read.
// - Errors: refusals are *DeniedError wrapping ErrAccessDenied.
type Guard struct {
	killSwitch atomic.Bool
	sink       callsite.Sink
	overrides  *Overrides

	exit   func(int)
	halt   func(int)
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Guard.
type Option func(*Guard)

// WithKillSwitch sets the initial kill switch.
func WithKillSwitch(on bool) Option {
	return func(g *Guard) {
		g.killSwitch.Store(on)
	}
}

// WithOverrides sets the exempt functions and types.
func WithOverrides(o *Overrides) Option {
	return func(g *Guard) {
		g.overrides = o
	}
}

// WithExitFuncs replaces os.Exit and syscall.Exit.
func WithExitFuncs(exit, halt func(int)) Option {
	return func(g *Guard) {
		if exit != nil {
			g.exit = exit
		}
		if halt != nil {
			g.halt = halt
		}
	}
}

// WithConsole replaces os.Stdout and os.Stderr.
func WithConsole(stdout, stderr io.Writer) Option {
	return func(g *Guard) {
		if stdout != nil {
			g.stdout = stdout
		}
		if stderr != nil {
			g.stderr = stderr
		}
	}
}

// NewGuard creates a Guard auditing to sink. A nil sink discards the audit.
func NewGuard(sink callsite.Sink, opts ...Option) *Guard {
	if sink == nil {
		sink = callsite.NopSink{}
	}
	g := &Guard{
		sink:      sink,
		overrides: NewOverrides(),
		exit:      os.Exit,
		halt:      syscall.Exit,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetKillSwitch turns refusal on or off.
func (g *Guard) SetKillSwitch(on bool) {
	g.killSwitch.Store(on)
}

// KillSwitch reports whether guarded uses are refused.
func (g *Guard) KillSwitch() bool {
	return g.killSwitch.Load()
}

// Overrides returns the exempt set.
func (g *Guard) Overrides() *Overrides {
	return g.overrides
}

// Check audits site and returns a *DeniedError when the kill switch is on.
// Exempt sites are neither audited nor refused.
func (g *Guard) Check(ctx context.Context, site Site) error {
	if g.overrides.Covers(site) {
		return nil
	}
	g.sink.Log(ctx, callsite.LevelWarn, site.String())
	if g.killSwitch.Load() {
		return &DeniedError{Site: site}
	}
	return nil
}

// check resolves the site of the caller of the exported helper.
func (g *Guard) check(ctx context.Context, category Category, target string) error {
	return g.Check(ctx, Caller(category, target, 2))
}

// Exit terminates the process with code unless refused.
func (g *Guard) Exit(ctx context.Context, code int) error {
	if err := g.check(ctx, CategoryExit, TargetExit); err != nil {
		return err
	}
	g.exit(code)
	return nil
}

// Halt terminates the process immediately, without flushing, unless refused.
func (g *Guard) Halt(ctx context.Context, code int) error {
	if err := g.check(ctx, CategoryHalt, TargetHalt); err != nil {
		return err
	}
	g.halt(code)
	return nil
}

// Stdout returns the process standard output unless refused.
func (g *Guard) Stdout(ctx context.Context) (io.Writer, error) {
	if err := g.check(ctx, CategoryConsole, TargetStdout); err != nil {
		return nil, err
	}
	return g.stdout, nil
}

// Stderr returns the process standard error unless refused.
func (g *Guard) Stderr(ctx context.Context) (io.Writer, error) {
	if err := g.check(ctx, CategoryConsole, TargetStderr); err != nil {
		return nil, err
	}
	return g.stderr, nil
}

// PrintStack writes the current goroutine's stack to standard error unless
// refused.
func (g *Guard) PrintStack(ctx context.Context) error {
	if err := g.check(ctx, CategoryStackTrace, TargetPrintStack); err != nil {
		return err
	}
	_, err := g.stderr.Write(debug.Stack())
	return err
}
