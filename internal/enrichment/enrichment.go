// Package enrichment gathers best-effort public profile data for a candidate
// from LinkedIn, GitHub and a personal portfolio site.
package enrichment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SomeshSampat2/AgentHire/internal/fetch"
	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/retry"
	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// DefaultGitHubAPIBase is the public GitHub REST endpoint.
const DefaultGitHubAPIBase = "https://api.github.com"

// reasonNotRequested marks a source whose URL was not supplied.
const reasonNotRequested = "not requested"

// Request names the profiles to look up. Empty URLs are skipped.
type Request struct {
	LinkedInURL  string `json:"linkedin_url,omitempty"`
	GitHubURL    string `json:"github_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
}

// Empty reports whether no profile URL was given.
func (r Request) Empty() bool {
	return r.LinkedInURL == "" && r.GitHubURL == "" && r.PortfolioURL == ""
}

// RequestFromResume picks the profile URLs found on a parsed resume.
func RequestFromResume(r *types.ResumeRecord) Request {
	if r == nil {
		return Request{}
	}
	return Request{LinkedInURL: r.LinkedInURL, GitHubURL: r.GitHubURL, PortfolioURL: r.PortfolioURL}
}

// Outcome is the result of one source: either a snapshot or the reason there is none.
type Outcome[T any] struct {
	Value  *T
	Reason string
}

// Ok wraps a fetched snapshot.
func Ok[T any](v *T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Unavailable records why a source produced nothing.
func Unavailable[T any](reason string) Outcome[T] {
	return Outcome[T]{Reason: reason}
}

// Available reports whether the outcome carries a snapshot.
func (o Outcome[T]) Available() bool {
	return o.Value != nil
}

// Outcomes reports what happened to each source of a Fetch call.
type Outcomes struct {
	LinkedIn  Outcome[types.LinkedInSnapshot]
	GitHub    Outcome[types.GitHubSnapshot]
	Portfolio Outcome[types.PortfolioSnapshot]
}

// Config tunes the Fetcher.
type Config struct {
	// Timeout bounds each source independently.
	Timeout       time.Duration
	MaxRetries    int
	GitHubAPIBase string
}

// Fetcher looks up profile sources concurrently.
type Fetcher struct {
	pages      fetch.Getter
	api        fetch.Getter
	githubBase string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewFetcher returns a Fetcher. pages serves LinkedIn and portfolio HTML; when
// nil a retrying fetch.Fetcher is built from cfg.
func NewFetcher(cfg Config, pages fetch.Getter, log *zap.Logger) *Fetcher {
	log = logger.OrNop(log).Named("enrichment")
	if cfg.Timeout <= 0 {
		cfg.Timeout = fetch.DefaultTimeout
	}
	if cfg.GitHubAPIBase == "" {
		cfg.GitHubAPIBase = DefaultGitHubAPIBase
	}
	policy := retry.DefaultPolicy(cfg.MaxRetries)

	if pages == nil {
		opts := fetch.DefaultOptions()
		opts.Timeout = cfg.Timeout
		pages = fetch.NewFetcher(opts, policy, log)
	}

	apiOpts := &fetch.Options{
		Timeout:   cfg.Timeout,
		UserAgent: fetch.DefaultUserAgent,
		Headers:   map[string]string{"Accept": "application/vnd.github+json"},
	}

	return &Fetcher{
		pages:      pages,
		api:        fetch.NewFetcher(apiOpts, policy, log),
		githubBase: cfg.GitHubAPIBase,
		timeout:    cfg.Timeout,
		logger:     log,
	}
}

// Fetch looks up every requested source at once and waits for all of them.
// A failing source is left out of the enrichment; Fetch itself never fails.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (types.ProfileEnrichment, Outcomes) {
	outcomes := Outcomes{
		LinkedIn:  Unavailable[types.LinkedInSnapshot](reasonNotRequested),
		GitHub:    Unavailable[types.GitHubSnapshot](reasonNotRequested),
		Portfolio: Unavailable[types.PortfolioSnapshot](reasonNotRequested),
	}

	// Each goroutine owns one field of outcomes, so no locking is needed.
	var g errgroup.Group
	if req.LinkedInURL != "" {
		g.Go(func() error {
			outcomes.LinkedIn = run(ctx, f, "linkedin", req.LinkedInURL, f.linkedIn)
			return nil
		})
	}
	if req.GitHubURL != "" {
		g.Go(func() error {
			outcomes.GitHub = run(ctx, f, "github", req.GitHubURL, f.gitHub)
			return nil
		})
	}
	if req.PortfolioURL != "" {
		g.Go(func() error {
			outcomes.Portfolio = run(ctx, f, "portfolio", req.PortfolioURL, f.portfolio)
			return nil
		})
	}
	_ = g.Wait()

	enrichment := types.ProfileEnrichment{
		LinkedIn:  outcomes.LinkedIn.Value,
		GitHub:    outcomes.GitHub.Value,
		Portfolio: outcomes.Portfolio.Value,
	}
	f.logger.Info("profile enrichment finished",
		zap.Bool("linkedin", outcomes.LinkedIn.Available()),
		zap.Bool("github", outcomes.GitHub.Available()),
		zap.Bool("portfolio", outcomes.Portfolio.Available()),
	)
	return enrichment, outcomes
}

func run[T any](ctx context.Context, f *Fetcher, source, url string, fn func(context.Context, string) (*T, error)) Outcome[T] {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	snapshot, err := fn(ctx, url)
	if err != nil {
		f.logger.Warn("profile source unavailable",
			zap.String("source", source),
			zap.String("url", url),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return Unavailable[T](err.Error())
	}
	f.logger.Debug("profile source fetched", zap.String("source", source), zap.Duration("elapsed", time.Since(start)))
	return Ok(snapshot)
}

// httpStatus returns the status code of a failed page fetch, or 0.
func httpStatus(err error) int {
	var ferr *fetch.Error
	if errors.As(err, &ferr) {
		return ferr.StatusCode
	}
	return 0
}
