package policy

import "errors"

// ErrAccessDenied is wrapped by every *DeniedError.
var ErrAccessDenied = errors.New("policy: access denied")

// DeniedError is returned when the kill switch refuses a guarded use.
type DeniedError struct {
	Site Site
}

func (e *DeniedError) Error() string {
	return e.Site.String()
}

func (e *DeniedError) Unwrap() error {
	return ErrAccessDenied
}
