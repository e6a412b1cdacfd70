package nullcheck

import (
	"context"

	"github.com/jonwraymond/callwatch/cache"
	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/format"
)

// Validator checks arguments and return values against rules.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: violations are *ValidationError; rule source errors are
//   returned unchanged and nothing is cached for that signature.
type Validator struct {
	rules RuleSource
	plans cache.Cache[callsite.Signature, Plan]
}

// Option configures a Validator.
type Option func(*Validator)

// WithCache sets the plan cache.
func WithCache(c cache.Cache[callsite.Signature, Plan]) Option {
	return func(v *Validator) {
		if c != nil {
			v.plans = c
		}
	}
}

// WithCachePolicy sets the eviction policy of the default plan cache.
func WithCachePolicy(p cache.Policy) Option {
	return func(v *Validator) {
		v.plans = newPlanCache(p)
	}
}

func newPlanCache(p cache.Policy) *cache.Memory[callsite.Signature, Plan] {
	return cache.NewMemory[callsite.Signature, Plan](p,
		cache.WithKeyName(callsite.Signature.Key))
}

// NewValidator creates a Validator. Plans are cached without eviction unless
// configured otherwise; signature cardinality is bounded by the program.
func NewValidator(rules RuleSource, opts ...Option) *Validator {
	if rules == nil {
		rules = StaticRules(nil)
	}
	v := &Validator{
		rules: rules,
		plans: newPlanCache(cache.UnboundedPolicy()),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Plan returns the cached plan for sig, compiling it on a miss.
func (v *Validator) Plan(ctx context.Context, sig callsite.Signature) (Plan, error) {
	return v.plans.GetOrLoad(ctx, sig, func(ctx context.Context) (Plan, error) {
		r, err := v.rules.Rule(ctx, sig)
		if err != nil {
			return Plan{}, err
		}
		return Compile(sig, r), nil
	})
}

// CheckArgs fails on the first checked argument that is nil.
func (v *Validator) CheckArgs(ctx context.Context, sig callsite.Signature, args []any) error {
	p, err := v.Plan(ctx, sig)
	if err != nil {
		return err
	}
	return p.checkArgs(sig, args)
}

// CheckReturn fails when a checked return value is nil. Void calls are never
// checked.
func (v *Validator) CheckReturn(ctx context.Context, sig callsite.Signature, result any) error {
	p, err := v.Plan(ctx, sig)
	if err != nil {
		return err
	}
	return p.checkReturn(sig, result)
}

// Wrap returns fn guarded by the rules for sig. The wrapped call is not made
// when an argument check fails.
func (v *Validator) Wrap(sig callsite.Signature, fn callsite.ProceedFunc) callsite.ProceedFunc {
	return func(ctx context.Context, args []any) (any, error) {
		p, err := v.Plan(ctx, sig)
		if err != nil {
			return nil, err
		}
		if p.Empty() {
			return fn(ctx, args)
		}
		if err := p.checkArgs(sig, args); err != nil {
			return nil, err
		}
		result, err := fn(ctx, args)
		if err != nil {
			return result, err
		}
		if err := p.checkReturn(sig, result); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func (p Plan) checkArgs(sig callsite.Signature, args []any) error {
	for _, pos := range p.Positions {
		if pos >= len(args) {
			break
		}
		if format.IsNil(args[pos]) {
			return &ValidationError{Signature: sig, Position: pos + 1, Type: sig.ParamType(pos)}
		}
	}
	return nil
}

func (p Plan) checkReturn(sig callsite.Signature, result any) error {
	if p.Return && format.IsNil(result) {
		return &ValidationError{Signature: sig, Position: ReturnPosition, Type: sig.ReturnType()}
	}
	return nil
}
