package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // handle allocation
	PhaseResolve  Phase = "resolve"  // handle lookup
	PhaseRelease  Phase = "release"  // token release / handle invalidation
	PhaseDispatch Phase = "dispatch" // host operation forwarding
	PhaseEngine   Phase = "engine"   // engine reported failure
	PhaseHost     Phase = "host"     // WASM host boundary
	PhaseScenario Phase = "scenario" // scripted host calls
	PhaseTable    Phase = "table"    // table internals
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidHandle   Kind = "invalid_handle"
	KindStaleHandle     Kind = "stale_handle"
	KindTypeMismatch    Kind = "type_mismatch"
	KindAlreadyParented Kind = "already_parented"
	KindDoubleRelease   Kind = "double_release"
	KindInvalidInput    Kind = "invalid_input"
	KindEngine          Kind = "engine"
	KindClosed          Kind = "closed"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindBufferTooSmall  Kind = "buffer_too_small"
	KindCorrupt         Kind = "corrupt"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Type    string // dynamic schema type of the resolved object
	Want    string // type the operation required
	Outcome string // engine outcome name
	Detail  string
	Handle  uint64
}

// Sentinels for errors.Is matching on kind alone.
var (
	ErrInvalidHandle   = &Error{Kind: KindInvalidHandle}
	ErrStaleHandle     = &Error{Kind: KindStaleHandle}
	ErrTypeMismatch    = &Error{Kind: KindTypeMismatch}
	ErrAlreadyParented = &Error{Kind: KindAlreadyParented}
	ErrDoubleRelease   = &Error{Kind: KindDoubleRelease}
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrEngine          = &Error{Kind: KindEngine}
	ErrClosed          = &Error{Kind: KindClosed}
)

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		b.WriteString(" handle ")
		b.WriteString(strconv.FormatUint(e.Handle, 10))
	}

	if e.Type != "" || e.Want != "" {
		b.WriteString(": ")
		if e.Type != "" && e.Want != "" {
			b.WriteString("got ")
			b.WriteString(e.Type)
			b.WriteString(", want ")
			b.WriteString(e.Want)
		} else if e.Type != "" {
			b.WriteString("type ")
			b.WriteString(e.Type)
		} else {
			b.WriteString("want ")
			b.WriteString(e.Want)
		}
	}

	if e.Outcome != "" {
		b.WriteString(" (")
		b.WriteString(e.Outcome)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		if e.Type != "" || e.Want != "" {
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

// Is reports whether target matches this error.
// A target without a phase matches on kind only. A stale handle is also
// an invalid handle, and a double release is also a stale handle.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	for k := e.Kind; k != ""; k = kindParent[k] {
		if k == t.Kind {
			return true
		}
	}
	return false
}

var kindParent = map[Kind]Kind{
	KindDoubleRelease: KindStaleHandle,
	KindStaleHandle:   KindInvalidHandle,
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
func (b *Builder) Handle(h uint64) *Builder {
	b.err.Handle = h
	return b
}

// Type sets the dynamic type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Want sets the required type name
func (b *Builder) Want(t string) *Builder {
	b.err.Want = t
	return b
}

// Outcome sets the engine outcome name
func (b *Builder) Outcome(o string) *Builder {
	b.err.Outcome = o
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

// Convenience constructors for the bridge taxonomy

// InvalidHandle creates an error for the sentinel or a never-issued handle
func InvalidHandle(phase Phase, h uint64) *Error {
	detail := "unknown handle"
	if h == 0 {
		detail = "null handle"
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Handle: h,
		Detail: detail,
	}
}

// StaleHandle creates an error for a handle whose object was released
func StaleHandle(phase Phase, h uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStaleHandle,
		Handle: h,
		Detail: "object already released",
	}
}

// TypeMismatch creates a dynamic type check failure
func TypeMismatch(phase Phase, h uint64, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Handle: h,
		Type:   got,
		Want:   want,
	}
}

// AlreadyParented creates a structural invariant violation
func AlreadyParented(phase Phase, child uint64, parentName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyParented,
		Handle: child,
		Detail: fmt.Sprintf("child already belongs to %q", parentName),
	}
}

// DoubleRelease creates an error for a handle released twice
func DoubleRelease(phase Phase, h uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDoubleRelease,
		Handle: h,
		Detail: "handle already released",
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

// Engine wraps an engine status descriptor
func Engine(outcome, details string) *Error {
	return &Error{
		Phase:   PhaseEngine,
		Kind:    KindEngine,
		Outcome: outcome,
		Detail:  details,
	}
}

// Closed creates an error for use after teardown
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) outside memory", offset, uint64(offset)+uint64(length)),
	}
}

// BufferTooSmall creates an error for an output buffer shorter than the value
func BufferTooSmall(phase Phase, need, capacity uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferTooSmall,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, capacity),
	}
}

// Corrupt creates an internal consistency error. Callers panic with it.
func Corrupt(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseTable,
		Kind:   KindCorrupt,
		Detail: fmt.Sprintf(detail, args...),
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
