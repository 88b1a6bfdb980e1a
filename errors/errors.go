package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseGuard    Phase = "guard"    // single-value guard operations
	PhaseRegistry Phase = "registry" // handle table operations
	PhaseRuntime  Phase = "runtime"  // ambient runtime interaction
)

// Kind categorizes the error
type Kind string

const (
	KindClosed        Kind = "closed"
	KindNotFound      Kind = "not_found"
	KindBorrowed      Kind = "borrowed"
	KindInvalidHandle Kind = "invalid_handle"
	KindLeak          Kind = "leak"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Handle uint32
	TypeID uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " handle=%d", e.Handle)
	}
	if e.TypeID != 0 {
		fmt.Fprintf(&b, " type=%d", e.TypeID)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Handle sets the offending handle
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	return b
}

// TypeID sets the resource type ID
func (b *Builder) TypeID(id uint32) *Builder {
	b.err.TypeID = id
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Closed creates an error for an operation on a closed table or backend
func Closed(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s on closed backend", op),
	}
}

// NotFound creates an error for a handle with no live entry
func NotFound(phase Phase, handle uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Handle: handle,
		Detail: "no live entry for handle",
	}
}

// Borrowed creates an error for dropping a handle with outstanding borrows
func Borrowed(phase Phase, handle uint32, count uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBorrowed,
		Handle: handle,
		Detail: fmt.Sprintf("%d outstanding borrows", count),
	}
}

// InvalidHandle creates an error for the reserved or out-of-range handle
func InvalidHandle(phase Phase, handle uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Handle: handle,
		Detail: "handle is reserved or out of range",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
