package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the class lifecycle the error occurred
type Phase string

const (
	PhaseLoad    Phase = "load"    // class definition loading
	PhaseLink    Phase = "link"    // layout and table linking
	PhaseResolve Phase = "resolve" // symbolic reference resolution
	PhaseVerify  Phase = "verify"  // bytecode verification
	PhaseInit    Phase = "init"    // static initialization
	PhaseAlloc   Phase = "alloc"   // heap allocation
	PhaseRuntime Phase = "runtime" // runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindAllocation   Kind = "allocation"
	KindVerification Kind = "verification"
	KindResolution   Kind = "resolution"
	KindInvalidInput Kind = "invalid_input"
	KindNilPointer   Kind = "nil_pointer"
	KindClassFormat  Kind = "class_format"
	KindIncompatible Kind = "incompatible_change"
	KindNoSuchField  Kind = "no_such_field"
	KindNoSuchMethod Kind = "no_such_method"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string // binary descriptor of the affected class, if known
	Member string // member name for field/method errors
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" {
		b.WriteString(" in ")
		b.WriteString(e.Class)
		if e.Member != "" {
			b.WriteByte('.')
			b.WriteString(e.Member)
		}
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

// IsOutOfMemory reports whether this error is an allocation failure
func (e *Error) IsOutOfMemory() bool {
	return e.Kind == KindAllocation
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

// Class sets the affected class descriptor
func (b *Builder) Class(descriptor string) *Builder {
	b.err.Class = descriptor
	return b
}

// Member sets the affected member name
func (b *Builder) Member(name string) *Builder {
	b.err.Member = name
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

// OutOfMemory creates an allocation failure error
func OutOfMemory(phase Phase, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// Verification creates a verification failure error
func Verification(descriptor, detail string) *Error {
	return &Error{
		Phase:  PhaseVerify,
		Kind:   KindVerification,
		Class:  descriptor,
		Detail: detail,
	}
}

// Resolution creates a resolution failure error
func Resolution(descriptor string, cause error) *Error {
	return &Error{
		Phase: PhaseResolve,
		Kind:  KindResolution,
		Class: descriptor,
		Cause: cause,
	}
}

// NoSuchField creates a field lookup failure error
func NoSuchField(descriptor, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNoSuchField,
		Class:  descriptor,
		Member: name,
	}
}

// NoSuchMethod creates a method lookup failure error
func NoSuchMethod(descriptor, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNoSuchMethod,
		Class:  descriptor,
		Member: name,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ClassFormat creates a malformed class definition error
func ClassFormat(descriptor, detail string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindClassFormat,
		Class:  descriptor,
		Detail: detail,
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
