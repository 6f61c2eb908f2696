package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	runsOfSpace = regexp.MustCompile(`\s+`)
	blankRuns   = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalises pasted job-description text: LF line endings, single
// spaces inside lines, at most one blank line between paragraphs. Headings,
// bullets and leading indentation survive.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := line[:len(line)-len(trimmed)]
	if isBulletLine(trimmed) {
		return indent + trimmed
	}
	return indent + runsOfSpace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	for _, marker := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// IngestFromFile reads a job description from disk and cleans it.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	cleaned := CleanText(string(content))
	return cleaned, NewMetadata(cleaned, ""), nil
}
