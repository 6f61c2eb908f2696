package upload

import "fmt"

// ErrorKind distinguishes caller mistakes from filesystem failures.
type ErrorKind string

const (
	// KindRejected marks uploads refused by validation.
	KindRejected ErrorKind = "rejected"
	// KindIO marks uploads that passed validation but could not be written.
	KindIO ErrorKind = "io"
)

// Error is returned by Save. Reason is safe to show to the caller.
type Error struct {
	Reason string
	Kind   ErrorKind
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Rejected reports whether the upload was refused by validation.
func (e *Error) Rejected() bool {
	return e.Kind == KindRejected
}

func rejected(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...), Kind: KindRejected}
}
