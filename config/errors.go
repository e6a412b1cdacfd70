package config

import "errors"

// Sentinel errors.
var (
	ErrInvalidBackend    = errors.New("config: invalid logging backend")
	ErrInvalidMaxEntries = errors.New("config: cache max entries must not be negative")
	ErrInvalidMaxLength  = errors.New("config: max length must not be negative")
)

// Logging backends.
const (
	BackendJSON = "json"
	BackendZap  = "zap"
)

// ValidBackends lists the accepted logging.backend values.
var ValidBackends = []string{BackendJSON, BackendZap}
