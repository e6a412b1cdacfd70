package logged

import "reflect"

// ShouldRenderValue reports whether the non-nil value at position may be
// rendered as a value rather than by its type name. verbose reports whether
// the sink allows value detail. Nil values are handled by the caller.
func (c Config) ShouldRenderValue(position int, value any, verbose bool) bool {
	if c.ForceTypes {
		return false
	}
	if !verbose && !c.ForceValues {
		return false
	}
	return !c.excludesType(value) && !c.excludesPosition(position)
}

func (c Config) excludesType(value any) bool {
	if len(c.ExcludedTypes) == 0 {
		return false
	}
	t := reflect.TypeOf(value)
	if t == nil {
		return false
	}
	for _, ex := range c.ExcludedTypes {
		if ex == nil {
			continue
		}
		if t.AssignableTo(ex) {
			return true
		}
		if t.Kind() == reflect.Pointer && t.Elem().AssignableTo(ex) {
			return true
		}
	}
	return false
}

func (c Config) excludesPosition(position int) bool {
	for _, p := range c.ExcludedPositions {
		if p == position {
			return true
		}
	}
	return false
}
