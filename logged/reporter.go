package logged

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/format"
	"github.com/jonwraymond/callwatch/observe"
)

// Message markers.
const (
	EnterMarker = ">>"
	ExitMarker  = "<<"
	ErrorMarker = "<!"
)

// UnknownLevelPrefix is prepended when a sink has no level enabled.
const UnknownLevelPrefix = "unknown log level: "

// Reporter writes enter, exit and error messages around intercepted calls and
// keeps their execution statistics.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: passed unchanged to the wrapped call and to the sinks.
//   - Errors: errors from the wrapped call are returned unchanged; panics are
//     reported and re-raised with the original value.
type Reporter struct {
	sinks     callsite.SinkResolver
	formatter *format.Formatter
	stats     *StatsRegistry
	telemetry *observe.Middleware
	typeName  func(string) string
	now       func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithFormatter sets the value formatter, e.g. one with a de-proxy hook.
func WithFormatter(f *format.Formatter) Option {
	return func(r *Reporter) {
		r.formatter = f
	}
}

// WithStats shares a statistics registry.
func WithStats(s *StatsRegistry) Option {
	return func(r *Reporter) {
		r.stats = s
	}
}

// WithTelemetry adds spans and execution metrics around the wrapped call.
func WithTelemetry(m *observe.Middleware) Option {
	return func(r *Reporter) {
		r.telemetry = m
	}
}

// WithTypeNameResolver maps a declaring-type name to the logger name, e.g.
// to strip a generated proxy suffix.
func WithTypeNameResolver(fn func(string) string) Option {
	return func(r *Reporter) {
		r.typeName = fn
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// StripProxySuffix returns a resolver cutting a type name at the first of
// markers, so "Repo$$Proxy$$1" logs as "Repo".
func StripProxySuffix(markers ...string) func(string) string {
	return func(name string) string {
		for _, m := range markers {
			if i := strings.Index(name, m); i > 0 {
				name = name[:i]
			}
		}
		return name
	}
}

// NewReporter creates a Reporter writing to sinks. A nil sinks discards
// every message.
func NewReporter(sinks callsite.SinkResolver, opts ...Option) *Reporter {
	if sinks == nil {
		sinks = callsite.NopResolver
	}
	r := &Reporter{
		sinks:     sinks,
		formatter: format.Default,
		stats:     NewStatsRegistry(),
		typeName:  func(s string) string { return s },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats returns the statistics registry.
func (r *Reporter) Stats() *StatsRegistry {
	return r.stats
}

// Wrap returns fn reported under sig with cfg.
func (r *Reporter) Wrap(sig callsite.Signature, cfg Config, fn callsite.ProceedFunc) callsite.ProceedFunc {
	return func(ctx context.Context, args []any) (any, error) {
		return r.Invoke(ctx, callsite.Call{Signature: sig, Args: args, Proceed: fn}, cfg)
	}
}

// Invoke reports and performs one call.
func (r *Reporter) Invoke(ctx context.Context, call callsite.Call, cfg Config) (result any, err error) {
	inv := r.Before(ctx, call, cfg)

	proceed := call.Proceed
	if r.telemetry != nil {
		proceed = r.telemetry.Wrap(call.Signature, proceed)
	}

	defer func() {
		if rec := recover(); rec != nil {
			inv.Fail(ctx, &PanicError{Value: rec, Stack: debug.Stack()})
			panic(rec)
		}
	}()

	result, err = proceed(ctx, call.Args)
	if err != nil {
		inv.Fail(ctx, err)
		return result, err
	}
	inv.Complete(ctx, result)
	return result, nil
}

// State is the lifecycle state of an Invocation.
type State int

const (
	StateEntered State = iota
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "entered"
	}
}

// Invocation is one reported call between Before and Complete or Fail. Both
// terminal states are final; later transitions are ignored.
type Invocation struct {
	r         *Reporter
	call      callsite.Call
	cfg       Config
	sink      callsite.Sink
	logValues bool
	start     time.Time

	mu    sync.Mutex
	state State
}

// Before starts an invocation and writes the enter message when the mode
// asks for it.
func (r *Reporter) Before(ctx context.Context, call callsite.Call, cfg Config) *Invocation {
	sink := r.sinks.Sink(r.typeName(call.Signature.DeclaringType()))
	inv := &Invocation{
		r:         r,
		call:      call,
		cfg:       cfg,
		sink:      sink,
		logValues: sink.Enabled(callsite.LevelDebug) || sink.Enabled(callsite.LevelTrace),
		start:     r.now(),
	}
	if cfg.Mode.logsEnter() {
		inv.print(ctx, inv.enterMessage())
	}
	return inv
}

// State returns the current state.
func (inv *Invocation) State() State {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.state
}

func (inv *Invocation) finish(to State) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.state != StateEntered {
		return false
	}
	inv.state = to
	return true
}

// Complete records a normal return of result.
func (inv *Invocation) Complete(ctx context.Context, result any) {
	if !inv.finish(StateCompleted) {
		return
	}
	elapsed := inv.r.now().Sub(inv.start)
	if inv.cfg.Mode.logsExit() {
		inv.print(ctx, inv.exitMessage(result, elapsed))
	}
	if inv.cfg.Statistics {
		inv.r.stats.For(inv.call.Signature).RecordSuccess(inv.start, elapsed)
	}
}

// Fail records a failure. The error message is written at error level in
// every mode.
func (inv *Invocation) Fail(ctx context.Context, err error) {
	if !inv.finish(StateFailed) {
		return
	}
	elapsed := inv.r.now().Sub(inv.start)
	msg := inv.errorMessage(err, elapsed)
	if inv.cfg.StackTrace {
		inv.sink.LogFailure(ctx, callsite.LevelError, msg, err)
	} else {
		inv.sink.Log(ctx, callsite.LevelError, msg)
	}
	if inv.cfg.Statistics {
		inv.r.stats.For(inv.call.Signature).RecordException(inv.start, elapsed)
	}
}

// print writes msg at the most verbose level the sink has enabled.
func (inv *Invocation) print(ctx context.Context, msg string) {
	level, ok := callsite.MostVerbose(inv.sink)
	if !ok {
		inv.sink.Log(ctx, callsite.LevelWarn, UnknownLevelPrefix+msg)
		return
	}
	inv.sink.Log(ctx, level, msg)
}

func (inv *Invocation) render(position int, v any) string {
	if format.IsNil(v) {
		return format.Null
	}
	if inv.cfg.ShouldRenderValue(position, v, inv.logValues) {
		return inv.r.formatter.Format(v, inv.cfg.MaxLength)
	}
	return inv.r.formatter.TypeName(v)
}

func (inv *Invocation) enterMessage() string {
	var b strings.Builder
	b.WriteString(EnterMarker)
	b.WriteString(inv.call.Signature.Name())
	b.WriteByte('(')
	for i, arg := range inv.call.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(inv.render(i, arg))
	}
	b.WriteByte(')')
	b.WriteString(EnterMarker)
	return b.String()
}

func (inv *Invocation) exitMessage(result any, elapsed time.Duration) string {
	sig := inv.call.Signature

	var b strings.Builder
	b.WriteString(ExitMarker)
	b.WriteString(sig.Name())
	if !sig.IsVoid() {
		switch {
		case format.IsNil(result):
			b.WriteString(": ")
			b.WriteString(format.Null)
		case inv.cfg.LogReturnValue:
			b.WriteString(": ")
			b.WriteString(inv.render(ReturnValue, result))
		}
	}
	b.WriteString(ExitMarker)
	inv.appendElapsed(&b, elapsed)
	return b.String()
}

func (inv *Invocation) errorMessage(err error, elapsed time.Duration) string {
	var b strings.Builder
	b.WriteString(ErrorMarker)
	b.WriteString(inv.call.Signature.Name())
	b.WriteByte(' ')
	b.WriteString(err.Error())
	b.WriteString(ErrorMarker)
	inv.appendElapsed(&b, elapsed)
	return b.String()
}

func (inv *Invocation) appendElapsed(b *strings.Builder, elapsed time.Duration) {
	if !inv.cfg.LogElapsedTime {
		return
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(elapsed.Milliseconds(), 10))
	b.WriteString("ms")
}

// PanicError carries a panic raised by a wrapped call to the error message.
// The original value is re-panicked, not this error.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Format renders the stack with %+v.
func (e *PanicError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "%s\n%s", e.Error(), e.Stack)
	default:
		fmt.Fprint(s, e.Error())
	}
}
