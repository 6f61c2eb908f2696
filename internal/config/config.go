// Package config loads service configuration from defaults, an optional config file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the complete service configuration. Every key can be overridden by
// the upper-cased environment variable of the same name (e.g. MAX_FILE_SIZE).
type Config struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	// Uploads
	UploadDir          string   `mapstructure:"upload_dir" validate:"required"`
	MaxFileSize        int64    `mapstructure:"max_file_size" validate:"gt=0"`
	AllowedExtensions  []string `mapstructure:"allowed_extensions" validate:"min=1,dive,required"`
	CleanupSchedule    string   `mapstructure:"cleanup_schedule"`
	CleanupMaxAgeHours float64  `mapstructure:"cleanup_max_age_hours" validate:"gte=0"`

	// HTTP
	Port        int      `mapstructure:"port" validate:"gt=0,lt=65536"`
	APIPrefix   string   `mapstructure:"api_prefix"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Gemini
	GeminiModel           string  `mapstructure:"gemini_model" validate:"required"`
	GeminiTemperature     float32 `mapstructure:"gemini_temperature" validate:"gte=0,lte=2"`
	GeminiMaxOutputTokens int32   `mapstructure:"gemini_max_output_tokens" validate:"gt=0"`
	// LLMTimeout bounds a single model call; StepTimeout bounds one analysis
	// step including its retries.
	LLMTimeout             time.Duration `mapstructure:"llm_timeout" validate:"gt=0"`
	StepTimeout            time.Duration `mapstructure:"step_timeout" validate:"gt=0"`
	ScoringTemperature     float32       `mapstructure:"scoring_temperature" validate:"gte=0,lte=2"`
	ScoringMaxOutputTokens int32         `mapstructure:"scoring_max_output_tokens" validate:"gt=0"`

	// Outbound fetching
	ScrapingTimeout   int           `mapstructure:"scraping_timeout" validate:"gt=0"`
	MaxRetries        int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	UseBrowser        bool          `mapstructure:"use_browser"`
	RedisURL          string        `mapstructure:"redis_url"`
	PageCacheTTL      time.Duration `mapstructure:"page_cache_ttl"`
	EnrichmentEnabled bool          `mapstructure:"enrichment_enabled"`

	// Rate limiting
	RateLimitEnabled       bool          `mapstructure:"rate_limit_enabled"`
	RateLimitDefaultLimit  int           `mapstructure:"rate_limit_default_limit" validate:"gte=0"`
	RateLimitDefaultWindow time.Duration `mapstructure:"rate_limit_default_window"`

	// Logging
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=console json"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"gemini_api_key":            "",
		"upload_dir":                "./uploads",
		"max_file_size":             10485760,
		"allowed_extensions":        "pdf,docx,txt",
		"cleanup_schedule":          "@hourly",
		"cleanup_max_age_hours":     24,
		"port":                      8000,
		"api_prefix":                "/api",
		"cors_origins":              "http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001",
		"gemini_model":              "gemini-2.0-flash",
		"gemini_temperature":        0.1,
		"gemini_max_output_tokens":  2048,
		"llm_timeout":               "60s",
		"step_timeout":              "3m",
		"scoring_temperature":       0.2,
		"scoring_max_output_tokens": 4000,
		"scraping_timeout":          30,
		"max_retries":               3,
		"use_browser":               false,
		"redis_url":                 "",
		"page_cache_ttl":            "1h",
		"enrichment_enabled":        true,
		"rate_limit_enabled":        true,
		"rate_limit_default_limit":  300,
		"rate_limit_default_window": "1m",
		"debug":                     true,
		"log_format":                "console",
	}
}

// Load builds a Config. path may be empty; when set, the file (yaml, json or toml)
// overrides defaults and the environment overrides both.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks value ranges. A missing API key is not an error here; commands
// that call the LLM check it with RequireAPIKey.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("config error: invalid values for %s", strings.Join(fields, ", "))
}

// RequireAPIKey returns an error when no Gemini API key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// ScrapingTimeoutDuration returns the outbound fetch timeout.
func (c *Config) ScrapingTimeoutDuration() time.Duration {
	return time.Duration(c.ScrapingTimeout) * time.Second
}

func (c *Config) normalize() {
	exts := make([]string, 0, len(c.AllowedExtensions))
	for _, ext := range c.AllowedExtensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	c.AllowedExtensions = exts

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins

	c.APIPrefix = strings.TrimRight(strings.TrimSpace(c.APIPrefix), "/")
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		c.APIPrefix = "/" + c.APIPrefix
	}
}
