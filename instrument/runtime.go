package instrument

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/config"
	"github.com/jonwraymond/callwatch/health"
	"github.com/jonwraymond/callwatch/logged"
	"github.com/jonwraymond/callwatch/nullcheck"
	"github.com/jonwraymond/callwatch/observe"
	"github.com/jonwraymond/callwatch/policy"
)

// GuardLogger is the sink name of the guard's audit warnings.
const GuardLogger = "callwatch.policy"

// Runtime is the shared state of every instrumented call site.
//
// Contract:
// - Concurrency: safe for concurrent use after New returns.
// - Lifecycle: Shutdown flushes telemetry; wrapped calls keep working after
//   it but their telemetry is dropped.
type Runtime struct {
	observer  observe.Observer
	sinks     callsite.SinkResolver
	zapLogger *zap.Logger
	defaults  logged.Config
	reporter  *logged.Reporter
	validator *nullcheck.Validator
	guard     *policy.Guard
	statsReg  metric.Registration
	health    health.Thresholds
}

// Option configures a Runtime.
type Option func(*options)

type options struct {
	rules       nullcheck.RuleSource
	overrides   *policy.Overrides
	sinks       callsite.SinkResolver
	zapLogger   *zap.Logger
	reporterOpt []logged.Option
	guardOpt    []policy.Option
	thresholds  *health.Thresholds
}

// WithRules sets the null-check rules.
func WithRules(r nullcheck.RuleSource) Option {
	return func(o *options) {
		o.rules = r
	}
}

// WithOverrides sets the functions and types exempt from the guard.
func WithOverrides(ov *policy.Overrides) Option {
	return func(o *options) {
		o.overrides = ov
	}
}

// WithSinks replaces the configured log backend.
func WithSinks(s callsite.SinkResolver) Option {
	return func(o *options) {
		o.sinks = s
	}
}

// WithZapLogger supplies the logger for the zap backend.
func WithZapLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.zapLogger = l
	}
}

// WithReporterOptions passes options to the reporter.
func WithReporterOptions(opts ...logged.Option) Option {
	return func(o *options) {
		o.reporterOpt = append(o.reporterOpt, opts...)
	}
}

// WithGuardOptions passes options to the guard. They apply after the
// configured kill switch.
func WithGuardOptions(opts ...policy.Option) Option {
	return func(o *options) {
		o.guardOpt = append(o.guardOpt, opts...)
	}
}

// WithHealthThresholds sets the failure ratios used by Checkers.
func WithHealthThresholds(t health.Thresholds) Option {
	return func(o *options) {
		o.thresholds = &t
	}
}

// New builds a Runtime from cfg.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	obs, err := observe.NewObserver(ctx, cfg.Observe())
	if err != nil {
		return nil, err
	}
	rt := &Runtime{observer: obs, health: health.DefaultThresholds()}
	if o.thresholds != nil {
		rt.health = *o.thresholds
	}

	rt.defaults, err = cfg.LogConfig()
	if err != nil {
		return nil, rt.abort(ctx, err)
	}

	if err := rt.setupSinks(cfg, o); err != nil {
		return nil, rt.abort(ctx, err)
	}

	stats := logged.NewStatsRegistry()
	reporterOpts := []logged.Option{logged.WithStats(stats)}
	if cfg.Tracing.Enabled || cfg.Metrics.Enabled {
		mw, err := observe.MiddlewareFromObserver(obs)
		if err != nil {
			return nil, rt.abort(ctx, err)
		}
		reporterOpts = append(reporterOpts, logged.WithTelemetry(mw))
	}
	if cfg.Metrics.Enabled {
		rt.statsReg, err = logged.RegisterStatsMetrics(obs.Meter(), stats)
		if err != nil {
			return nil, rt.abort(ctx, fmt.Errorf("register stats metrics: %w", err))
		}
	}
	rt.reporter = logged.NewReporter(rt.sinks, append(reporterOpts, o.reporterOpt...)...)

	rt.validator = nullcheck.NewValidator(o.rules, nullcheck.WithCachePolicy(cfg.CachePolicy()))

	overrides := o.overrides
	if overrides == nil {
		overrides = policy.NewOverrides()
	}
	guardOpts := append([]policy.Option{
		policy.WithKillSwitch(cfg.KillSwitch),
		policy.WithOverrides(overrides),
	}, o.guardOpt...)
	rt.guard = policy.NewGuard(rt.sinks.Sink(GuardLogger), guardOpts...)

	return rt, nil
}

func (rt *Runtime) setupSinks(cfg config.Config, o options) error {
	switch {
	case o.sinks != nil:
		rt.sinks = o.sinks
	case !cfg.Logging.Enabled:
		rt.sinks = callsite.NopResolver
	case cfg.Logging.Backend == config.BackendZap:
		logger := o.zapLogger
		if logger == nil {
			built, err := ZapConfig(cfg.Logging.Level).Build()
			if err != nil {
				return fmt.Errorf("build zap logger: %w", err)
			}
			logger = built
			rt.zapLogger = built
		}
		rt.sinks = observe.NewZapSinks(logger)
	default:
		rt.sinks = rt.observer.Sinks()
	}
	return nil
}

// ZapConfig is the production zap configuration used by the zap backend at
// level. Sampling is off: every audit and error line must be written.
func ZapConfig(level string) zap.Config {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(observe.ZapLevel(callsite.ParseLevel(level)))
	zc.Sampling = nil
	return zc
}

// abort releases what New built so far.
func (rt *Runtime) abort(ctx context.Context, err error) error {
	return errors.Join(err, rt.Shutdown(ctx))
}

// Wrap returns fn checked against the null-check rules for sig and reported
// with the configured defaults. Null-check failures are reported as errors.
func (rt *Runtime) Wrap(sig callsite.Signature, fn callsite.ProceedFunc) callsite.ProceedFunc {
	return rt.WrapWith(sig, rt.defaults, fn)
}

// WrapWith is Wrap with an explicit reporting configuration.
func (rt *Runtime) WrapWith(sig callsite.Signature, cfg logged.Config, fn callsite.ProceedFunc) callsite.ProceedFunc {
	return rt.reporter.Wrap(sig, cfg, rt.validator.Wrap(sig, fn))
}

// Defaults returns the configured per-call-site defaults.
func (rt *Runtime) Defaults() logged.Config { return rt.defaults }

// Reporter returns the call reporter.
func (rt *Runtime) Reporter() *logged.Reporter { return rt.reporter }

// Validator returns the null-check validator.
func (rt *Runtime) Validator() *nullcheck.Validator { return rt.validator }

// Guard returns the exit guard.
func (rt *Runtime) Guard() *policy.Guard { return rt.guard }

// Sinks returns the log backend.
func (rt *Runtime) Sinks() callsite.SinkResolver { return rt.sinks }

// SetKillSwitch turns guard refusals on or off at runtime.
func (rt *Runtime) SetKillSwitch(on bool) { rt.guard.SetKillSwitch(on) }

// Stats returns a snapshot of every signature's statistics.
func (rt *Runtime) Stats() map[callsite.Signature]logged.StatsSnapshot {
	return rt.reporter.Stats().All()
}

// Checkers returns the health checks of the runtime: call failure ratios
// and the guard state.
func (rt *Runtime) Checkers() []health.Checker {
	return []health.Checker{
		health.NewStatsChecker(rt.reporter.Stats(), rt.health),
		health.CheckerFunc("policy", func(context.Context) health.Result {
			return health.Result{
				Status:  health.StatusHealthy,
				Message: "guard active",
				Details: map[string]any{"killSwitch": rt.guard.KillSwitch()},
			}
		}),
	}
}

// Shutdown stops statistics export, flushes the zap logger it built and
// shuts the observer down.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	if rt.statsReg != nil {
		if err := rt.statsReg.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("unregister stats metrics: %w", err))
		}
		rt.statsReg = nil
	}
	if rt.zapLogger != nil {
		// Sync on stderr fails with EINVAL/ENOTTY on some platforms.
		_ = rt.zapLogger.Sync()
	}
	if rt.observer != nil {
		if err := rt.observer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
