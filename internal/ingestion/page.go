// Package ingestion turns job postings, pasted or fetched from a URL, into
// clean text ready for the structured-record extractor.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/fetch"
)

// MaxPageChars bounds the page text handed to the LLM.
const MaxPageChars = 8000

var (
	// ErrHTTPRequestFailed is returned when the page could not be fetched.
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when the page has no readable text.
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// Page is the readable text of a job posting.
type Page struct {
	Text     string
	Metadata *Metadata
}

// Renderer renders a JavaScript-heavy page and returns its HTML.
type Renderer func(ctx context.Context, url string) (string, error)

// Ingester fetches job posting pages.
type Ingester struct {
	getter fetch.Getter
	render Renderer
	logger *zap.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithBrowser enables headless rendering for pages whose main content is
// shorter than fetch.MinContentLength.
func WithBrowser(timeout time.Duration) Option {
	return func(i *Ingester) {
		i.render = func(ctx context.Context, url string) (string, error) {
			return fetch.WithBrowser(ctx, url, timeout, i.logger)
		}
	}
}

// WithRenderer installs a custom renderer in place of the headless browser.
func WithRenderer(r Renderer) Option {
	return func(i *Ingester) {
		i.render = r
	}
}

// NewIngester returns an Ingester reading pages through getter.
func NewIngester(getter fetch.Getter, logger *zap.Logger, opts ...Option) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	i := &Ingester{getter: getter, logger: logger.Named("ingestion")}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IngestJobPage fetches urlStr and returns its visible text, with board
// chrome removed, truncated to MaxPageChars.
func (i *Ingester) IngestJobPage(ctx context.Context, urlStr string) (*Page, error) {
	platform := fetch.DetectPlatform(urlStr)
	noise := fetch.PlatformNoiseSelectors(platform)

	result, err := i.getter.Get(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	html := result.HTML
	rendered := false

	if i.render != nil {
		main, _ := fetch.ExtractMainText(html, fetch.PlatformContentSelectors(platform), noise...)
		if fetch.ShouldUseBrowser(main) {
			i.logger.Debug("content too short, rendering in browser",
				zap.String("url", urlStr), zap.Int("chars", len(main)))
			if browserHTML, err := i.render(ctx, urlStr); err != nil {
				i.logger.Warn("browser rendering failed, using HTTP content", zap.String("url", urlStr), zap.Error(err))
			} else {
				html = browserHTML
				rendered = true
			}
		}
	}

	text, err := fetch.PageText(html, noise...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: page %s has no text", ErrContentExtractionFailed, urlStr)
	}

	runes := []rune(text)
	truncated := len(runes) > MaxPageChars
	if truncated {
		text = string(runes[:MaxPageChars])
	}

	meta := NewMetadata(text, urlStr)
	meta.Platform = string(platform)
	meta.Rendered = rendered
	meta.Truncated = truncated

	i.logger.Info("job page ingested",
		zap.String("url", urlStr),
		zap.String("platform", meta.Platform),
		zap.Int("chars", len([]rune(text))),
		zap.Bool("rendered", rendered),
	)
	return &Page{Text: text, Metadata: meta}, nil
}
