package llm

import (
	"errors"
	"strings"
)

// AuthError reports that the provider rejected the configured credential.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string {
	return "LLM credential rejected: " + e.Cause.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// Transient marks credential failures as not worth retrying.
func (e *AuthError) Transient() bool { return false }

// IsAuthError reports whether err is, or wraps, a rejected credential.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// classify wraps provider errors that signal a bad API key.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "API_KEY_INVALID") || strings.Contains(msg, "API key not valid") {
		return &AuthError{Cause: err}
	}
	return err
}
