package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in the binding layer the error occurred
type Phase string

const (
	PhaseValidate  Phase = "validate"  // input validation before any engine call
	PhaseConstruct Phase = "construct" // handle construction
	PhaseAccess    Phase = "access"    // typed reads from values and handles
	PhaseLifecycle Phase = "lifecycle" // close/release bookkeeping
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch Kind = "type_mismatch"
	KindNulByte      Kind = "nul_byte"
	KindInvalidEnum  Kind = "invalid_enum"
	KindStaleHandle  Kind = "stale_handle"
	KindConsumed     Kind = "consumed"
	KindConstruction Kind = "construction_failed"
	KindOutOfBounds  Kind = "out_of_bounds"
)

// ErrClosed is returned by Close on a handle that was already released.
// The second Close is a detectable no-op, never a double free.
var ErrClosed = errors.New("handle already closed")

// Error is the structured error type used throughout the binding.
// Recoverable problems are returned as *Error; contract violations
// (type-mismatched access, use after close, builder reuse) are raised
// by panicking with a *Error so misuse fails fast instead of corrupting
// engine state.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Handle string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Handle != "" {
		b.WriteString(": ")
		b.WriteString(e.Handle)
	}

	if e.Detail != "" {
		if e.Handle != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Convenience constructors for the error patterns the binding raises

// TypeMismatch creates a type mismatch error for a typed accessor
// applied to a value holding a different tag.
func TypeMismatch(want, got string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("value holds %s, accessed as %s", got, want),
	}
}

// NulByte creates an input-validation error for a string carrying an
// embedded NUL, rejected before it can cross into the engine.
func NulByte(path ...string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindNulByte,
		Path:   path,
		Detail: "string contains embedded NUL byte",
	}
}

// InvalidEnum creates an error for an enum value that cannot be encoded
// as engine input (the Unknown fallback, or an out-of-range value).
func InvalidEnum(enumType string, value any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidEnum,
		Detail: fmt.Sprintf("%v is not an encodable %s", value, enumType),
		Value:  value,
	}
}

// StaleHandle creates an error for access through a handle or borrowed
// view whose backing storage is gone.
func StaleHandle(handle string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindStaleHandle,
		Handle: handle,
		Detail: "backing storage released",
	}
}

// Consumed creates an error for reuse of a builder after it was finished
// or its contents were moved out.
func Consumed(builder string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindConsumed,
		Handle: builder,
		Detail: "already finished or moved",
	}
}

// Construction creates a fatal construction-failure error: the engine
// returned a zero handle and the cause is not distinguishable at this
// layer.
func Construction(handle string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstruction,
		Handle: handle,
		Cause:  cause,
		Detail: "engine returned no handle",
	}
}

// OutOfBounds creates an out of bounds error for container access.
func OutOfBounds(index, length int) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Violate panics with err so call sites read as the contract check they
// enforce. It never returns.
func Violate(err *Error) {
	panic(err)
}
