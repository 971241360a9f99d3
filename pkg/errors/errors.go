// Package errors provides structured error handling for the Affix framework.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindBinding indicates a named-binding registry violation.
	KindBinding
	// KindAttribute indicates an operation on an attribute that was never set.
	KindAttribute
	// KindMember indicates a failed member lookup on a component.
	KindMember
	// KindManifest indicates a scene manifest parsing failure.
	KindManifest
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindBinding:
		return "binding"
	case KindAttribute:
		return "attribute"
	case KindMember:
		return "member"
	case KindManifest:
		return "manifest"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the Affix framework.
//
// Errors of this type are programmer errors: a misused name, a binding
// registered twice, an attribute observed before it was seeded. They are
// returned to the caller immediately and never retried.
type Error struct {
	// Op is the operation that failed (e.g., "component.Update").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Name is the offending binding, attribute, or member name, if applicable.
	Name string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s [%s] name=%s: %v", e.Op, e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error for op with the given kind, offending name, and
// a formatted message.
func New(op string, kind Kind, name, format string, args ...any) *Error {
	return &Error{
		Op:        op,
		Kind:      kind,
		Name:      name,
		Err:       fmt.Errorf(format, args...),
		Timestamp: time.Now(),
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "dispatch.Flush").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the Affix framework.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
