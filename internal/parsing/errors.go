package parsing

import "fmt"

// APICallError wraps a failed LLM call. The cause is kept so callers can
// detect rejected credentials with llm.IsAuthError.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause == nil {
		return "LLM call failed: " + e.Message
	}
	return fmt.Sprintf("LLM call failed: %s: %v", e.Message, e.Cause)
}

func (e *APICallError) Unwrap() error { return e.Cause }

// ParseError is an LLM reply that could not be turned into a record.
// Schema names the record being parsed when known. ClientFault marks replies
// that failed because of the caller's input, e.g. a job text with no
// recognisable description.
type ParseError struct {
	Schema      string
	Message     string
	Cause       error
	ClientFault bool
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Schema != "" {
		msg += " (" + e.Schema + ")"
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ValidationError is a reply that decoded as JSON but violates its schema.
// Field is the first offending JSON path.
type ValidationError struct {
	Schema  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Schema != "" && e.Field != "":
		return fmt.Sprintf("%s does not match schema at %s: %s", e.Schema, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("schema mismatch at %s: %s", e.Field, e.Message)
	default:
		return "schema mismatch: " + e.Message
	}
}
