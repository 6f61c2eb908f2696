package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/retry"
)

// Client is the only surface the rest of the service uses to talk to a model.
type Client interface {
	// Generate sends prompt and returns the model's text. With opts.JSON set the
	// text has already been passed through CleanJSONBlock.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	// Model returns the model name used for generation.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
	logger *zap.Logger
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		logger: logger.OrNop(log).Named("gemini"),
	}, nil
}

// Generate implements Client.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ctx, cancel := callContext(ctx, c.config.Timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(opts.Temperature)
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}
	model.SafetySettings = safetySettings()

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(fmt.Errorf("failed to generate content: %w", err))
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	c.logger.Info("LLM response received",
		zap.String("model", c.config.Model),
		zap.Int("chars", len(text)),
		zap.Duration("took", time.Since(start)),
	)
	c.logger.Debug("LLM response preview", zap.String("preview", logger.Truncate(text, 200)))

	if opts.JSON {
		return CleanJSONBlock(text), nil
	}
	return text, nil
}

// callContext bounds a single model call by timeout. A caller deadline that
// expires sooner still wins.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// Model implements Client.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockMediumAndAbove,
		})
	}
	return settings
}

// extractTextFromResponse joins the text parts of the first candidate.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response (finish reason %s)", candidate.FinishReason)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// retryingClient retries transient generation failures.
type retryingClient struct {
	Client
	policy retry.Policy
	logger *zap.Logger
}

// WithRetry decorates c so transient failures are retried up to maxRetries times.
// Credential and response-shape errors are returned immediately.
func WithRetry(c Client, maxRetries int, log *zap.Logger) Client {
	if maxRetries <= 0 {
		return c
	}
	return &retryingClient{Client: c, policy: retry.DefaultPolicy(maxRetries), logger: logger.OrNop(log)}
}

func (r *retryingClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	var text string
	err := retry.Do(ctx, r.policy, r.logger, "llm.generate", func() error {
		var genErr error
		text, genErr = r.Client.Generate(ctx, prompt, opts)
		return genErr
	})
	return text, err
}
