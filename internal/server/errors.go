package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/SomeshSampat2/AgentHire/internal/analysis"
	"github.com/SomeshSampat2/AgentHire/internal/extract"
	"github.com/SomeshSampat2/AgentHire/internal/llm"
	"github.com/SomeshSampat2/AgentHire/internal/parsing"
	"github.com/SomeshSampat2/AgentHire/internal/scoring"
	"github.com/SomeshSampat2/AgentHire/internal/upload"
)

// InvalidAPIKeyMessage is shown when the LLM provider rejects the configured key.
const InvalidAPIKeyMessage = "Invalid Gemini API key. Please check your API key configuration."

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

// requestError is a malformed request caught by a handler before it reaches the service.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(message string) error {
	return &requestError{status: http.StatusBadRequest, message: message}
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorMessage returns the caller-facing message for err.
func ErrorMessage(err error) string {
	_, message := classify(err)
	return message
}

func classify(err error) (int, string) {
	var (
		reqErr     *requestError
		validErr   *analysis.ValidationError
		notFound   *analysis.NotFoundError
		uploadErr  *upload.Error
		extractErr *extract.ExtractionError
		parseErr   *parsing.ParseError
		analysErr  *scoring.AnalysisError
	)

	switch {
	case errors.As(err, &reqErr):
		return reqErr.status, reqErr.message
	case errors.As(err, &validErr):
		return http.StatusBadRequest, validErr.Message
	case errors.As(err, &uploadErr):
		if uploadErr.Rejected() {
			return http.StatusBadRequest, uploadErr.Reason
		}
		return http.StatusInternalServerError, uploadErr.Reason
	case errors.As(err, &extractErr):
		return http.StatusBadRequest, extractErr.Message
	case llm.IsAuthError(err):
		return http.StatusBadRequest, InvalidAPIKeyMessage
	case errors.As(err, &notFound):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Upstream service timed out"
	case errors.As(err, &parseErr):
		if parseErr.ClientFault {
			return http.StatusBadRequest, parseErr.Message
		}
		return http.StatusInternalServerError, "Failed to parse LLM response: " + parseErr.Message
	case errors.As(err, &analysErr):
		return http.StatusInternalServerError, "Analysis failed: " + analysErr.Message
	case errors.Is(err, analysis.ErrEnrichmentDisabled):
		return http.StatusServiceUnavailable, "Profile enrichment is disabled"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
