package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SomeshSampat2/AgentHire/internal/retry"
)

func fastPolicy(n int) retry.Policy {
	return retry.Policy{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestURL_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
	assert.False(t, fetchErr.Transient())
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.False(t, fetchErr.Transient())
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	result, err := NewFetcher(nil, fastPolicy(3), nil).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "ok")
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewFetcher(nil, fastPolicy(3), nil).Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExtractMainText(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<div class="sidebar">Sidebar junk</div>
			<div class="job-description">
				<h2>Requirements</h2>
				<p>5 years experience in Go</p>
			</div>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Requirements\n5 years experience in Go", text)
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><div>Some content here.</div><form>Apply</form></body></html>`, nil, "form")
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestPageText(t *testing.T) {
	html := `<html><head><title>Backend Engineer</title><style>.x{}</style></head>
	<body>
		<script>var tracking = 1;</script>
		<h1>Backend   Engineer</h1>
		<p>Acme    Corp</p>
		<form>Apply now</form>
	</body></html>`

	text, err := PageText(html, "form")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer Backend Engineer Acme Corp", text)
	assert.NotContains(t, text, "tracking")
	assert.False(t, strings.Contains(text, "  "))
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
