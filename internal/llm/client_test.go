package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/SomeshSampat2/AgentHire/internal/retry"
)

type scriptedClient struct {
	errs  []error
	calls int
}

func (s *scriptedClient) Generate(_ context.Context, _ string, _ GenerateOptions) (string, error) {
	s.calls++
	if s.calls <= len(s.errs) {
		return "", s.errs[s.calls-1]
	}
	return `{"ok": true}`, nil
}

func (s *scriptedClient) Model() string { return "test-model" }
func (s *scriptedClient) Close() error  { return nil }

func fastRetry(c Client, n int) Client {
	rc := WithRetry(c, n, nil).(*retryingClient)
	rc.policy = retry.Policy{MaxRetries: n, InitialInterval: 1, MaxInterval: 2}
	return rc
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	inner := &scriptedClient{errs: []error{&googleapi.Error{Code: 503}, &googleapi.Error{Code: 429}}}
	client := fastRetry(inner, 3)

	text, err := client.Generate(context.Background(), "p", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)
	assert.Equal(t, 3, inner.calls)
}

func TestWithRetry_DoesNotRetryAuthErrors(t *testing.T) {
	inner := &scriptedClient{errs: []error{classify(errors.New("400 API key not valid. Please pass a valid API key."))}}
	client := fastRetry(inner, 3)

	_, err := client.Generate(context.Background(), "p", GenerateOptions{})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, 1, inner.calls)
}

func TestWithRetry_ZeroRetriesReturnsClient(t *testing.T) {
	inner := &scriptedClient{}
	assert.Same(t, Client(inner), WithRetry(inner, 0, nil))
	assert.Equal(t, "test-model", WithRetry(inner, 2, nil).Model())
}

func TestCallContext(t *testing.T) {
	ctx, cancel := callContext(context.Background(), 50*time.Millisecond)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("call context never expired")
	}

	unbounded, cancel2 := callContext(context.Background(), 0)
	defer cancel2()
	_, ok = unbounded.Deadline()
	assert.False(t, ok)

	parent, cancelParent := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelParent()
	parentDeadline, _ := parent.Deadline()
	child, cancel3 := callContext(parent, time.Hour)
	defer cancel3()
	childDeadline, _ := child.Deadline()
	assert.Equal(t, parentDeadline, childDeadline)
}

func TestWithRetry_StopsWhenDeadlinePasses(t *testing.T) {
	inner := &scriptedClient{errs: []error{
		context.DeadlineExceeded, context.DeadlineExceeded, context.DeadlineExceeded,
		context.DeadlineExceeded, context.DeadlineExceeded,
	}}
	client := fastRetry(inner, 3)

	_, err := client.Generate(context.Background(), "p", GenerateOptions{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 4, inner.calls)
}

func TestClassify(t *testing.T) {
	assert.True(t, IsAuthError(classify(errors.New("googleapi: Error 400: API_KEY_INVALID"))))
	assert.False(t, IsAuthError(classify(errors.New("deadline exceeded"))))
	assert.Nil(t, classify(nil))
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(` 1}`)}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.Error(t, err)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), nil, "", nil)
	assert.Error(t, err)
}
