package scheduling

import (
	"errors"
	"fmt"

	"clinic-scheduling-server/internal/models"
)

// Kind classifies a scheduling error so callers can map it to a client
// response without inspecting message strings.
type Kind string

const (
	KindUnknownUser       Kind = "unknown_user"
	KindInactiveUser      Kind = "inactive_user"
	KindInvalidRange      Kind = "invalid_range"
	KindOverlap           Kind = "availability_overlap"
	KindDoctorUnavailable Kind = "doctor_unavailable"
	KindConflict          Kind = "scheduling_conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindAccessDenied      Kind = "access_denied"
	KindNotFound          Kind = "not_found"
)

// AsError wraps a plain message in an Error of this kind. Useful for
// collaborators outside this package, such as the stores.
func (k Kind) AsError(message string) *Error {
	return &Error{Kind: k, Message: message}
}

// Error is a recoverable, caller-facing scheduling error. None of the
// kinds above is fatal to the process.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// newError builds a scheduling error with a formatted message.
func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// errInvalidTransition names the current state and the attempted target.
func errInvalidTransition(from, to models.AppointmentStatus) *Error {
	return newError(KindInvalidTransition, "cannot transition appointment from %s to %s", from, to)
}

// KindOf extracts the kind of a scheduling error, or "" for foreign
// errors.
func KindOf(err error) Kind {
	var schedErr *Error
	if errors.As(err, &schedErr) {
		return schedErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
