// Package nullcheck rejects nil arguments and nil return values at
// intercepted call sites.
//
// Rules say which parameter positions must not be nil and whether a non-void
// return must not be nil. A Validator resolves the rule for a signature once,
// keeps the resulting plan in a bounded cache, and fails fast on the first
// offending argument with a *ValidationError.
//
//	v := nullcheck.NewValidator(nullcheck.StaticRules{
//		sig: {NotNull: []int{1}},
//	})
//	find = v.Wrap(sig, find)
package nullcheck
