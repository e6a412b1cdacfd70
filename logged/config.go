package logged

import (
	"fmt"
	"reflect"
	"strings"
)

// ReturnValue is the excluded position that stands for the return value.
const ReturnValue = -1

// Mode selects which messages are written for a call.
type Mode int

const (
	// ModeAround writes enter and exit messages.
	ModeAround Mode = iota
	// ModeEnter writes the enter message only.
	ModeEnter
	// ModeExit writes the exit message only.
	ModeExit
)

// ParseMode parses "around", "enter" or "exit", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "around", "":
		return ModeAround, nil
	case "enter":
		return ModeEnter, nil
	case "exit":
		return ModeExit, nil
	default:
		return ModeAround, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeEnter:
		return "enter"
	case ModeExit:
		return "exit"
	default:
		return "around"
	}
}

func (m Mode) logsEnter() bool { return m == ModeAround || m == ModeEnter }
func (m Mode) logsExit() bool  { return m == ModeAround || m == ModeExit }

// Config controls how one call site is reported. It is resolved once per
// call site and must not be mutated while in use.
type Config struct {
	// Mode selects enter, exit or both messages. Errors are always reported.
	Mode Mode

	// ExcludedTypes are never rendered as values, only by type name. A value
	// matches when its type (or the type it points to) is assignable to one
	// of them, so interface types exclude every implementation.
	ExcludedTypes []reflect.Type

	// ExcludedPositions are zero-based argument positions never rendered as
	// values. ReturnValue excludes the return value.
	ExcludedPositions []int

	// MaxLength bounds rendered display strings in runes. Zero means unbounded.
	MaxLength int

	// LogReturnValue adds the return value to the exit message.
	LogReturnValue bool

	// LogElapsedTime appends the elapsed milliseconds to exit and error messages.
	LogElapsedTime bool

	// ForceValues renders values regardless of the sink level.
	ForceValues bool

	// ForceTypes renders type names only, overriding ForceValues and the sink level.
	ForceTypes bool

	// Statistics records per-signature execution statistics.
	Statistics bool

	// StackTrace writes the full failure detail with error messages.
	StackTrace bool
}

// DefaultConfig returns the default configuration.
// Mode: around, LogReturnValue: true, LogElapsedTime: true, everything else off.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeAround,
		LogReturnValue: true,
		LogElapsedTime: true,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Mode < ModeAround || c.Mode > ModeExit {
		return fmt.Errorf("%w: %d", ErrInvalidMode, c.Mode)
	}
	for _, p := range c.ExcludedPositions {
		if p < ReturnValue {
			return fmt.Errorf("%w: %d", ErrInvalidPosition, p)
		}
	}
	for _, t := range c.ExcludedTypes {
		if t == nil {
			return ErrNilType
		}
	}
	return nil
}

// Exclude returns the reflect.Type of T for use in ExcludedTypes.
func Exclude[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
