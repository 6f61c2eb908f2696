// Package llmtest provides an llm.Client test double.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/SomeshSampat2/AgentHire/internal/llm"
)

// MockClient implements llm.Client with overridable behaviour and call recording.
type MockClient struct {
	GenerateFunc func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
	ModelName    string

	mu      sync.Mutex
	prompts []string
	options []llm.GenerateOptions
}

// Generate implements llm.Client.
func (m *MockClient) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	return "{}", nil
}

// Model implements llm.Client.
func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Close implements llm.Client.
func (m *MockClient) Close() error { return nil }

// Calls returns how many times Generate ran.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns every prompt received, in order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Options returns the options of every call, in order.
func (m *MockClient) Options() []llm.GenerateOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.GenerateOptions(nil), m.options...)
}

// Router answers by the first marker found in the prompt; unmatched prompts get "{}".
// It lets one mock serve resume parsing, job parsing and scoring in a single flow.
func Router(routes map[string]string) func(context.Context, string, llm.GenerateOptions) (string, error) {
	return func(_ context.Context, prompt string, _ llm.GenerateOptions) (string, error) {
		for marker, response := range routes {
			if strings.Contains(prompt, marker) {
				return response, nil
			}
		}
		return "{}", nil
	}
}
