package format

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// Null is rendered for nil values.
	Null = "null"

	// Continue marks a truncated display string.
	Continue = "..."
)

// UnwrapFunc returns the real value behind a proxy, or v unchanged.
type UnwrapFunc func(v any) any

// Identity is the default UnwrapFunc.
func Identity(v any) any { return v }

// Lener is implemented by containers that report their size.
type Lener interface {
	Len() int
}

// Formatter renders values for diagnostic messages.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: Format never panics; failures fall back to the type name.
type Formatter struct {
	unwrap UnwrapFunc
}

// New returns a Formatter applying unwrap before rendering plain values.
// A nil unwrap is replaced by Identity.
func New(unwrap UnwrapFunc) *Formatter {
	if unwrap == nil {
		unwrap = Identity
	}
	return &Formatter{unwrap: unwrap}
}

// Default renders without unwrapping.
var Default = New(nil)

// Format renders v, truncating display strings longer than maxLength runes.
// A maxLength of zero or less means unbounded.
func (f *Formatter) Format(v any, maxLength int) (out string) {
	if IsNil(v) {
		return Null
	}
	defer func() {
		if r := recover(); r != nil {
			out = TypeName(v)
		}
	}()

	v = f.unwrap(v)
	if IsNil(v) {
		return Null
	}

	if s, ok := sized(v); ok {
		return s
	}

	str, ok := display(v)
	if !ok {
		return TypeName(v)
	}
	return Truncate(str, maxLength)
}

// TypeName returns the simple type name of the unwrapped value, so proxies
// are reported under the type they stand for.
func (f *Formatter) TypeName(v any) (out string) {
	if IsNil(v) {
		return Null
	}
	defer func() {
		if r := recover(); r != nil {
			out = TypeName(v)
		}
	}()
	if u := f.unwrap(v); !IsNil(u) {
		v = u
	}
	return TypeName(v)
}

// Truncate shortens s to maxLength runes, appending Continue and the
// original rune count. A maxLength of zero or less leaves s unchanged.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return s
	}
	n := utf8.RuneCountInString(s)
	if n <= maxLength {
		return s
	}
	var b strings.Builder
	i := 0
	for _, r := range s {
		if i == maxLength {
			break
		}
		b.WriteRune(r)
		i++
	}
	b.WriteString(Continue)
	b.WriteString(strconv.Itoa(n))
	return b.String()
}

// sized renders containers as <TypeName>[size].
func sized(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	t := rv.Type()
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return containerName(t) + "[" + strconv.Itoa(rv.Len()) + "]", true
	case reflect.Map:
		return containerName(t) + "[" + strconv.Itoa(rv.Len()) + "]", true
	}
	if l, ok := v.(Lener); ok {
		return TypeName(v) + "[" + strconv.Itoa(l.Len()) + "]", true
	}
	return "", false
}

func containerName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return typeName(t.Elem())
	case reflect.Map:
		return "map"
	}
	return typeName(t)
}

func display(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case error:
		return x.Error(), true
	case fmt.Stringer:
		return x.String(), true
	}
	s := fmt.Sprint(v)
	if strings.Contains(s, "%!v(PANIC=") {
		return "", false
	}
	return s, true
}

// TypeName returns the simple type name of v: pointers are dereferenced and
// package qualifiers dropped. A nil v yields Null.
func TypeName(v any) string {
	if v == nil {
		return Null
	}
	return typeName(reflect.TypeOf(v))
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return unqualify(t.String())
}

// unqualify drops package qualifiers from a composite type string, so
// "map[string]*pkg.Item" becomes "map[string]*Item".
func unqualify(s string) string {
	var b strings.Builder
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && isIdent(s[i]) {
			continue
		}
		word := s[start:i]
		if j := strings.LastIndexByte(word, '.'); j >= 0 {
			word = word[j+1:]
		}
		b.WriteString(word)
		if i < len(s) {
			b.WriteByte(s[i])
		}
		start = i + 1
	}
	return b.String()
}

func isIdent(c byte) bool {
	return c == '.' || c == '/' || c == '_' || c == '-' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// IsNil reports whether v is nil or a nil pointer, interface, map, slice,
// func or channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
