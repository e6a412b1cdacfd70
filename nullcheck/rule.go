package nullcheck

import (
	"context"
	"slices"

	"github.com/jonwraymond/callwatch/callsite"
)

// Rule marks what must not be nil at a call site.
type Rule struct {
	// NotNull lists zero-based parameter positions that must not be nil.
	NotNull []int
	// AllParams checks every argument.
	AllParams bool
	// NotNullReturn checks the return value of non-void calls.
	NotNullReturn bool
}

// IsZero reports whether the rule checks nothing.
func (r Rule) IsZero() bool {
	return len(r.NotNull) == 0 && !r.AllParams && !r.NotNullReturn
}

// CallRule is the rule for a marker placed on the call itself: constructors
// check every argument, methods check their return value.
func CallRule(sig callsite.Signature) Rule {
	if sig.Kind() == callsite.KindConstructor {
		return Rule{AllParams: true}
	}
	return Rule{NotNullReturn: true}
}

// Params returns a rule checking the given zero-based positions.
func Params(positions ...int) Rule {
	return Rule{NotNull: positions}
}

// RuleSource resolves the rule for a signature.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Determinism: the same signature must resolve to the same rule.
// - Errors: an unknown signature resolves to the zero Rule, not an error.
type RuleSource interface {
	Rule(ctx context.Context, sig callsite.Signature) (Rule, error)
}

// RuleSourceFunc adapts a function to RuleSource.
type RuleSourceFunc func(ctx context.Context, sig callsite.Signature) (Rule, error)

// Rule calls f.
func (f RuleSourceFunc) Rule(ctx context.Context, sig callsite.Signature) (Rule, error) {
	return f(ctx, sig)
}

// StaticRules is a fixed rule table built when call sites are registered.
type StaticRules map[callsite.Signature]Rule

// Rule returns the registered rule or the zero Rule.
func (s StaticRules) Rule(_ context.Context, sig callsite.Signature) (Rule, error) {
	return s[sig], nil
}

var (
	_ RuleSource = StaticRules(nil)
	_ RuleSource = RuleSourceFunc(nil)
)

// Plan is a rule resolved against a signature.
type Plan struct {
	// Positions are the zero-based positions to check, ascending.
	Positions []int
	// Return reports whether the return value is checked.
	Return bool
}

// Empty reports whether the plan checks nothing.
func (p Plan) Empty() bool {
	return len(p.Positions) == 0 && !p.Return
}

// Compile resolves r against sig. Positions outside the signature's arity
// and duplicates are dropped; the return check is dropped for void calls.
func Compile(sig callsite.Signature, r Rule) Plan {
	var p Plan
	if r.AllParams {
		p.Positions = make([]int, sig.Arity())
		for i := range p.Positions {
			p.Positions[i] = i
		}
	} else {
		for _, pos := range r.NotNull {
			if pos >= 0 && pos < sig.Arity() {
				p.Positions = append(p.Positions, pos)
			}
		}
		slices.Sort(p.Positions)
		p.Positions = slices.Compact(p.Positions)
	}
	p.Return = r.NotNullReturn && !sig.IsVoid()
	return p
}
