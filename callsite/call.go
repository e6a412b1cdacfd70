package callsite

import "context"

// ProceedFunc performs the real call with the given arguments.
type ProceedFunc func(ctx context.Context, args []any) (any, error)

// Call is one invocation of a call site. It is created by the caller for a
// single invocation and must not be reused.
type Call struct {
	Signature Signature
	Args      []any
	Proceed   ProceedFunc
}

// Arg returns the zero-based argument i, or nil when i is out of range.
func (c Call) Arg(i int) any {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}
