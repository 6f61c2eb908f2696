package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(context.Background(), nil)
	require.NoError(t, err)
	return e
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExtractText_UTF8(t *testing.T) {
	e := newTestExtractor(t)
	path := writeFile(t, "resume.txt", []byte("\n  John Doe\nSkills: python, react  \n"))

	text, err := e.ExtractText(context.Background(), path, "txt")
	require.NoError(t, err)
	assert.Equal(t, "John Doe\nSkills: python, react", text)
}

func TestExtractText_Latin1Fallback(t *testing.T) {
	e := newTestExtractor(t)
	// "José Müller" in ISO-8859-1.
	path := writeFile(t, "resume.txt", []byte{'J', 'o', 's', 0xe9, ' ', 'M', 0xfc, 'l', 'l', 'e', 'r'})

	text, err := e.ExtractText(context.Background(), path, ".TXT")
	require.NoError(t, err)
	assert.Equal(t, "José Müller", text)
}

func TestExtractText_EmptyFilesYieldNoText(t *testing.T) {
	e := newTestExtractor(t)

	for _, ext := range []string{"pdf", "docx", "txt"} {
		t.Run(ext, func(t *testing.T) {
			for _, content := range [][]byte{{}, []byte("  \n\t ")} {
				path := writeFile(t, "empty."+ext, content)

				text, err := e.ExtractText(context.Background(), path, ext)
				assert.Empty(t, text)
				require.ErrorIs(t, err, ErrNoText)

				var xerr *ExtractionError
				require.ErrorAs(t, err, &xerr)
				assert.Equal(t, "No text content found in file", xerr.Error())
			}
		})
	}
}

func TestExtractText_Fixtures(t *testing.T) {
	e := newTestExtractor(t)

	t.Run("docx paragraphs become lines", func(t *testing.T) {
		text, err := e.ExtractText(context.Background(), filepath.Join("testdata", "two_paragraphs.docx"), "docx")
		require.NoError(t, err)
		assert.Equal(t, "John Doe\npython, react", text)
	})

	t.Run("docx with only blank paragraphs", func(t *testing.T) {
		text, err := e.ExtractText(context.Background(), filepath.Join("testdata", "blank_paragraphs.docx"), "docx")
		assert.Empty(t, text)
		require.ErrorIs(t, err, ErrNoText)
		assert.Equal(t, "No text content found in file", err.Error())
	})

	t.Run("pdf pages joined in order", func(t *testing.T) {
		text, err := e.ExtractText(context.Background(), filepath.Join("testdata", "two_pages.pdf"), "pdf")
		require.NoError(t, err)

		first := strings.Index(text, "John Doe")
		second := strings.Index(text, "python")
		require.GreaterOrEqual(t, first, 0, text)
		require.Greater(t, second, first, text)
		assert.Contains(t, text[first:second], "\n")
		assert.Contains(t, text, "react")
		assert.Equal(t, strings.TrimSpace(text), text)
	})
}

func TestExtractText_Unsupported(t *testing.T) {
	e := newTestExtractor(t)
	path := writeFile(t, "resume.rtf", []byte("{\\rtf1 hello}"))

	_, err := e.ExtractText(context.Background(), path, "rtf")
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, "Unsupported file type: rtf", err.Error())
}

func TestExtractText_CorruptDocument(t *testing.T) {
	e := newTestExtractor(t)
	path := writeFile(t, "resume.docx", []byte("this is not a zip archive"))

	_, err := e.ExtractText(context.Background(), path, "docx")
	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Contains(t, xerr.Message, "Failed to extract text")
}

func TestExtractText_MissingFile(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.ExtractText(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), "txt")
	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "Failed to read file", xerr.Message)
}
