package logged

import "errors"

// Configuration errors.
var (
	// ErrInvalidMode indicates an unknown reporting mode.
	ErrInvalidMode = errors.New("logged: invalid mode")

	// ErrInvalidPosition indicates an excluded position below ReturnValue.
	ErrInvalidPosition = errors.New("logged: invalid excluded position")

	// ErrNilType indicates a nil entry in ExcludedTypes.
	ErrNilType = errors.New("logged: excluded type is nil")
)
