// Package llm wraps the language model behind a narrow prompt-in, text-out interface.
package llm

import "time"

// Config holds the model defaults used when a call does not override them.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	// Timeout bounds each model call. Zero leaves calls bounded only by the caller.
	Timeout time.Duration
}

// DefaultConfig mirrors the service defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:           "gemini-2.0-flash",
		Temperature:     0.1,
		MaxOutputTokens: 2048,
		Timeout:         60 * time.Second,
	}
}

// GenerateOptions tune a single generation call.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int32
	// JSON asks the model for an application/json response.
	JSON bool
}

// Options returns the configured defaults as JSON-mode call options.
func (c *Config) Options() GenerateOptions {
	return JSONOptions(c.Temperature, c.MaxOutputTokens)
}

// JSONOptions returns JSON-mode options with the given sampling temperature and token budget.
func JSONOptions(temperature float32, maxTokens int32) GenerateOptions {
	return GenerateOptions{Temperature: temperature, MaxOutputTokens: maxTokens, JSON: true}
}
