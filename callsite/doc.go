// Package callsite defines the shared vocabulary of an intercepted call.
//
// A Signature identifies a call site, a Call carries one invocation of it, and
// a Sink is the leveled logging backend the interceptors report to. The
// packages logged, nullcheck and policy all build on these types.
package callsite
