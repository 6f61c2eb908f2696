package analysis

import (
	"errors"
	"fmt"
)

// ErrEnrichmentDisabled is returned by Enrich when no enrichment fetcher is configured.
var ErrEnrichmentDisabled = errors.New("profile enrichment is disabled")

// ValidationError is a caller mistake: missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError means no stored upload matches ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.ID)
}
