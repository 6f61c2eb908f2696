package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, int64(10485760), cfg.MaxFileSize)
	assert.Equal(t, []string{"pdf", "docx", "txt"}, cfg.AllowedExtensions)
	assert.Len(t, cfg.CORSOrigins, 4)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.InDelta(t, 0.1, cfg.GeminiTemperature, 1e-6)
	assert.Equal(t, int32(2048), cfg.GeminiMaxOutputTokens)
	assert.Equal(t, time.Minute, cfg.LLMTimeout)
	assert.Equal(t, 3*time.Minute, cfg.StepTimeout)
	assert.InDelta(t, 0.2, cfg.ScoringTemperature, 1e-6)
	assert.Equal(t, int32(4000), cfg.ScoringMaxOutputTokens)
	assert.Equal(t, 30*time.Second, cfg.ScrapingTimeoutDuration())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Hour, cfg.PageCacheTTL)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.True(t, cfg.Debug)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "/tmp/resumes")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("ALLOWED_EXTENSIONS", " PDF, .txt ")
	t.Setenv("GEMINI_TEMPERATURE", "0.3")
	t.Setenv("MAX_RETRIES", "0")
	t.Setenv("PAGE_CACHE_TTL", "15m")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "1024")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/resumes", cfg.UploadDir)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, []string{"pdf", "txt"}, cfg.AllowedExtensions)
	assert.InDelta(t, 0.3, cfg.GeminiTemperature, 1e-6)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 15*time.Minute, cfg.PageCacheTTL)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, int32(1024), cfg.GeminiMaxOutputTokens)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	content := `
upload_dir: ./data/uploads
allowed_extensions: [pdf, docx]
scraping_timeout: 10
log_format: json
`
	path := filepath.Join(t.TempDir(), "hireagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./data/uploads", cfg.UploadDir)
	assert.Equal(t, []string{"pdf", "docx"}, cfg.AllowedExtensions)
	assert.Equal(t, 10*time.Second, cfg.ScrapingTimeoutDuration())
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "0")
	t.Setenv("LOG_FORMAT", "xml")

	cfg, err := Load("")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "MaxFileSize")
	assert.Contains(t, err.Error(), "LogFormat")
}

func TestLoad_ZeroTimeoutRejected(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "0s")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLMTimeout")
}

func TestValidate_Concurrent(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, cfg.Validate())
		}()
	}
	wg.Wait()
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireAPIKey())
	cfg.GeminiAPIKey = "key"
	assert.NoError(t, cfg.RequireAPIKey())
}
