package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig is the limit for requests whose path matches Path.
// A Path ending in "/" matches every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit
}

// Config controls a Limiter.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Allowlist       map[string]bool
	Blocklist       map[string]bool
	Endpoints       []EndpointConfig
}

// NewConfig builds the service limits. prefix is the API mount point ("" or "/api").
func NewConfig(enabled bool, defaultLimit int, defaultWindow time.Duration, prefix string) *Config {
	if defaultWindow <= 0 {
		defaultWindow = time.Minute
	}
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: 5 * time.Minute,
		Allowlist:       map[string]bool{},
		Blocklist:       map[string]bool{},
		Endpoints:       DefaultEndpointConfigs(prefix),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. LLM-backed endpoints
// get the tightest budgets.
func DefaultEndpointConfigs(prefix string) []EndpointConfig {
	return []EndpointConfig{
		{Path: prefix + "/comprehensive-analysis", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: prefix + "/upload-resume", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 10},
		{Path: prefix + "/extract-job-from-url", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 10},
		{Path: prefix + "/enrich-profile", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 10},

		{Path: prefix + "/bulk-cleanup", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 2},
		{Path: prefix + "/cleanup-file/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 20},
	}
}
