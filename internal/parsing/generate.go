package parsing

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/llm"
	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/schemas"
)

// GenerateObject sends prompt, strips code fences from the reply and decodes it
// as a JSON object.
//
// LLM failures come back as *APICallError and undecodable replies as
// *ParseError. When schemaName is set and the object violates that schema, the
// decoded object is returned together with a *ValidationError so callers can
// decide whether the violation matters.
func GenerateObject(ctx context.Context, client llm.Client, prompt string, opts llm.GenerateOptions, schemaName string, log *zap.Logger) (map[string]any, error) {
	log = logger.OrNop(log)

	raw, err := client.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate content from LLM", Cause: err}
	}

	cleaned := llm.CleanJSONBlock(raw)
	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		log.Warn("LLM returned invalid JSON",
			zap.String("schema", schemaName),
			zap.String("response", logger.Truncate(raw, 500)),
			zap.Error(err),
		)
		return nil, &ParseError{Schema: schemaName, Message: "LLM response is not valid JSON", Cause: err}
	}
	if obj == nil {
		return nil, &ParseError{Schema: schemaName, Message: "LLM response is not a JSON object"}
	}

	if schemaName == "" {
		return obj, nil
	}
	if err := schemas.Validate(schemaName, cleaned); err != nil {
		var verr *schemas.ValidationError
		if !errors.As(err, &verr) || len(verr.Errors) == 0 {
			return nil, err
		}
		first := verr.Errors[0]
		log.Debug("LLM response violates schema",
			zap.String("schema", schemaName),
			zap.Strings("fields", verr.Fields()),
		)
		return obj, &ValidationError{Schema: schemaName, Field: first.Field, Message: first.Message}
	}
	return obj, nil
}
