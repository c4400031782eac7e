// Package apperr implements the closed error-kind catalog described for
// the editor's propagation policy: every fallible operation surfaces one
// of a small set of kinds, and the workspace is the only place that maps
// a kind to UI behavior (a Dialog, or a fatal exit).
package apperr

import "fmt"

// Kind is one of the four error categories the editor distinguishes.
type Kind string

const (
	// User errors: bad command, out-of-range address. Dialog, mode
	// returns to Navigate, state unchanged.
	User Kind = "USER"
	// Engine errors: invalid style, evaluation failure, save failure.
	// Dialog with the engine's message; state as left by the engine.
	Engine Kind = "ENGINE"
	// IO errors: load, save, or log-sidecar writes. Dialog for
	// interactive paths; fatal for startup and log-sidecar writes.
	IO Kind = "IO"
	// Internal errors indicate a bug: empty modality stack, missing
	// original_location on RangeSelect exit. Fatal.
	Internal Kind = "INTERNAL"
)

// Error pairs a Kind with a human-readable message. The message is
// never inspected structurally by callers; it is shown verbatim in a
// Dialog (or a startup failure message).
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs an Error of the given kind with a literal message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind, wrapping an underlying
// cause (typically returned by the calc engine or the filesystem).
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Userf formats a User-kind error.
func Userf(format string, args ...any) *Error {
	return New(User, fmt.Sprintf(format, args...))
}

// Enginef wraps an engine failure with a formatted message.
func Enginef(cause error, format string, args ...any) *Error {
	return Wrap(Engine, fmt.Sprintf(format, args...), cause)
}

// IOf wraps a filesystem failure with a formatted message.
func IOf(cause error, format string, args ...any) *Error {
	return Wrap(IO, fmt.Sprintf(format, args...), cause)
}

// Internalf constructs an Internal-kind error indicating a bug.
func Internalf(format string, args ...any) *Error {
	return New(Internal, fmt.Sprintf(format, args...))
}

// IsFatal reports whether a Kind should terminate the process rather
// than be shown as a recoverable Dialog (per §7: Internal always;
// IO only on the startup / log-sidecar paths, decided by the caller).
func (k Kind) IsFatal() bool {
	return k == Internal
}
