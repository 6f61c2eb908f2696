package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/analysis"
	"github.com/SomeshSampat2/AgentHire/internal/config"
	"github.com/SomeshSampat2/AgentHire/internal/enrichment"
	"github.com/SomeshSampat2/AgentHire/internal/extract"
	"github.com/SomeshSampat2/AgentHire/internal/fetch"
	"github.com/SomeshSampat2/AgentHire/internal/ingestion"
	"github.com/SomeshSampat2/AgentHire/internal/llm"
	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/parsing"
	"github.com/SomeshSampat2/AgentHire/internal/prompts"
	"github.com/SomeshSampat2/AgentHire/internal/retry"
	"github.com/SomeshSampat2/AgentHire/internal/scoring"
	"github.com/SomeshSampat2/AgentHire/internal/upload"
)

const pageCachePrefix = "hireagent:page:"

// app holds the wired components shared by the commands.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *upload.Store
	orch    *analysis.Orchestrator
	closers []func() error
}

// loadConfig reads configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogFormat == "json", cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

// dialLLM opens the model client. Tests replace it to avoid network access.
var dialLLM = func(ctx context.Context, cfg *llm.Config, apiKey string, log *zap.Logger) (llm.Client, error) {
	return llm.NewGeminiClient(ctx, cfg, apiKey, log)
}

// newApp wires the analysis pipeline from configuration. Resources opened
// before a failure are closed before the error is returned.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *app, err error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	if err := prompts.Verify(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	llmCfg := &llm.Config{
		Model:           cfg.GeminiModel,
		Temperature:     cfg.GeminiTemperature,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
		Timeout:         cfg.LLMTimeout,
	}
	model, err := dialLLM(ctx, llmCfg, cfg.GeminiAPIKey, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	a.closers = append(a.closers, model.Close)
	client := llm.WithRetry(model, cfg.MaxRetries, log)

	store, err := upload.New(cfg.UploadDir, cfg.MaxFileSize, cfg.AllowedExtensions, log)
	if err != nil {
		return nil, err
	}
	a.store = store

	text, err := extract.New(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create text extractor: %w", err)
	}

	pages := a.pageGetter(ctx)

	var ingestOpts []ingestion.Option
	if cfg.UseBrowser {
		ingestOpts = append(ingestOpts, ingestion.WithBrowser(cfg.ScrapingTimeoutDuration()))
	}

	deps := analysis.Deps{
		Store:  store,
		Text:   text,
		Parser: parsing.NewExtractor(client, log, parsing.WithGenerateOptions(llmCfg.Options())),
		Scorer: scoring.NewEngine(client, log, scoring.WithGenerateOptions(
			llm.JSONOptions(cfg.ScoringTemperature, cfg.ScoringMaxOutputTokens))),
		Pages:       ingestion.NewIngester(pages, log, ingestOpts...),
		Logger:      log,
		StepTimeout: cfg.StepTimeout,
	}
	if cfg.EnrichmentEnabled {
		deps.Enricher = enrichment.NewFetcher(enrichment.Config{
			Timeout:    cfg.ScrapingTimeoutDuration(),
			MaxRetries: cfg.MaxRetries,
		}, pages, log)
	}
	a.orch = analysis.New(deps)
	return a, nil
}

// pageGetter returns the outbound page fetcher, cached in Redis when REDIS_URL is set.
func (a *app) pageGetter(ctx context.Context) fetch.Getter {
	opts := fetch.DefaultOptions()
	opts.Timeout = a.cfg.ScrapingTimeoutDuration()
	var getter fetch.Getter = fetch.NewFetcher(opts, retry.DefaultPolicy(a.cfg.MaxRetries), a.log)

	if a.cfg.RedisURL == "" {
		return getter
	}
	rdb, err := fetch.DialRedis(ctx, a.cfg.RedisURL)
	if err != nil {
		a.log.Warn("page cache disabled", zap.Error(err))
		return getter
	}
	a.closers = append(a.closers, rdb.Close)
	return fetch.NewCachedFetcher(getter, fetch.NewRedisPageCache(rdb, pageCachePrefix), a.cfg.PageCacheTTL, a.log)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.log.Sync()
}
