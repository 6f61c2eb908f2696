// Package prompts holds the LLM prompt templates, embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Prompt files and their keys.
const (
	ParsingFile = "parsing.json"
	ScoringFile = "scoring.json"

	KeyResume         = "resume"
	KeyJobDescription = "job_description"
	KeyJobPosting     = "job_posting"
	KeyAnalysis       = "analysis"
)

//go:embed *.json
var promptFiles embed.FS

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// required lists the templates the service renders.
var required = map[string][]string{
	ParsingFile: {KeyResume, KeyJobDescription, KeyJobPosting},
	ScoringFile: {KeyAnalysis},
}

// Get retrieves a prompt template by file name and key.
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// Format substitutes {{.Key}} placeholders in a single pass, so values that
// themselves contain placeholder syntax are left untouched.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render loads a template and formats it.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// List returns the sorted keys available in a prompt file.
func List(filename string) ([]string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Verify checks that every template the service renders is present.
func Verify() error {
	return verify(required)
}

func verify(want map[string][]string) error {
	var missing []string
	for filename, keys := range want {
		have, err := List(filename)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if i := sort.SearchStrings(have, key); i == len(have) || have[i] != key {
				missing = append(missing, filename+":"+key)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing prompt templates: %s", strings.Join(missing, ", "))
	}
	return nil
}
