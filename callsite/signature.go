package callsite

import (
	"strings"
)

// Void is the return type of a call that returns no value.
const Void = "void"

// paramSep cannot occur in a Go type expression, so ParamTypes splits back
// exactly what was joined.
const paramSep = "\x00"

// Kind distinguishes methods from constructors.
type Kind int

const (
	KindMethod Kind = iota
	KindConstructor
)

// String returns "method" or "constructor".
func (k Kind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	default:
		return "method"
	}
}

// Signature is the immutable identity of a call site.
//
// Signatures built from the same parts compare equal with == and produce the
// same Key, so they can be used directly as map keys.
type Signature struct {
	declaringType string
	name          string
	params        string // parameter types joined by paramSep
	arity         int
	returnType    string
	kind          Kind
}

// NewMethod returns the signature of a method or function. An empty
// returnType is treated as Void.
func NewMethod(declaringType, name, returnType string, params ...string) Signature {
	if returnType == "" {
		returnType = Void
	}
	return Signature{
		declaringType: declaringType,
		name:          name,
		params:        strings.Join(params, paramSep),
		arity:         len(params),
		returnType:    returnType,
		kind:          KindMethod,
	}
}

// NewConstructor returns the signature of a constructor of declaringType.
// Constructors return the constructed type.
func NewConstructor(declaringType, name string, params ...string) Signature {
	return Signature{
		declaringType: declaringType,
		name:          name,
		params:        strings.Join(params, paramSep),
		arity:         len(params),
		returnType:    declaringType,
		kind:          KindConstructor,
	}
}

// DeclaringType returns the name of the type (or package) declaring the call.
func (s Signature) DeclaringType() string { return s.declaringType }

// Name returns the member name.
func (s Signature) Name() string { return s.name }

// ReturnType returns the declared return type, or Void.
func (s Signature) ReturnType() string { return s.returnType }

// Kind returns whether the call is a method or a constructor.
func (s Signature) Kind() Kind { return s.kind }

// Arity returns the number of declared parameters.
func (s Signature) Arity() int { return s.arity }

// IsVoid reports whether the call declares no return value.
func (s Signature) IsVoid() bool { return s.returnType == Void }

// ParamTypes returns a copy of the ordered parameter types.
func (s Signature) ParamTypes() []string {
	if s.arity == 0 {
		return nil
	}
	return strings.Split(s.params, paramSep)
}

// ParamType returns the declared type of the zero-based parameter i, or an
// empty string when i is out of range.
func (s Signature) ParamType(i int) string {
	if i < 0 || i >= s.arity {
		return ""
	}
	return s.ParamTypes()[i]
}

// String returns the long form used in messages and as the cache key:
//
//	string example.Repo.Find(int, string)
func (s Signature) String() string {
	var b strings.Builder
	if s.kind == KindMethod {
		b.WriteString(s.returnType)
		b.WriteByte(' ')
	}
	if s.declaringType != "" {
		b.WriteString(s.declaringType)
		b.WriteByte('.')
	}
	b.WriteString(s.name)
	b.WriteByte('(')
	b.WriteString(strings.ReplaceAll(s.params, paramSep, ", "))
	b.WriteByte(')')
	return b.String()
}

// Key returns a stable string key for the signature.
func (s Signature) Key() string {
	return s.kind.String() + ":" + s.String()
}

// ShortName returns DeclaringType.Name, or just Name for free functions.
func (s Signature) ShortName() string {
	if s.declaringType == "" {
		return s.name
	}
	return s.declaringType + "." + s.name
}
