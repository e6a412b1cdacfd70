package nullcheck

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/callwatch/callsite"
)

// Sentinel errors.
var (
	ErrNullArgument = errors.New("nullcheck: null argument")
	ErrNullReturn   = errors.New("nullcheck: null return value")
)

// ReturnPosition is the Position of a ValidationError raised for a return
// value.
const ReturnPosition = 0

// ValidationError reports a forbidden nil. It unwraps to ErrNullArgument or
// ErrNullReturn.
type ValidationError struct {
	Signature callsite.Signature
	// Position is the 1-based parameter position, or ReturnPosition.
	Position int
	// Type is the declared type of the offending parameter or return value.
	Type string
}

func (e *ValidationError) Error() string {
	if e.Position == ReturnPosition {
		return fmt.Sprintf("Null return value of %s %s", e.Signature.Kind(), e.Signature)
	}
	return fmt.Sprintf("Null %s argument on position %d of %s %s",
		e.Type, e.Position, e.Signature.Kind(), e.Signature)
}

func (e *ValidationError) Unwrap() error {
	if e.Position == ReturnPosition {
		return ErrNullReturn
	}
	return ErrNullArgument
}
