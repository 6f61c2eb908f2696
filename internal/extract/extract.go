// Package extract turns stored resume files into plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrNoText is returned when a file yields nothing but whitespace.
	ErrNoText = errors.New("No text content found in file")
	// ErrUnsupported is returned for extensions without an extraction strategy.
	ErrUnsupported = errors.New("unsupported file type")
)

// ExtractionError describes a file that could not be turned into text.
// Message is safe to return to the caller.
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Extractor reads PDF, DOCX and TXT files.
type Extractor struct {
	pdf    *pdf.PDFParser
	logger *zap.Logger
}

// New builds an Extractor. The PDF parser splits documents into pages so page
// text can be joined line by line.
func New(ctx context.Context, logger *zap.Logger) (*Extractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{pdf: p, logger: logger.Named("extract")}, nil
}

// ExtractText returns the trimmed text of the file at path, dispatching on ext
// (with or without the leading dot).
func (e *Extractor) ExtractText(ctx context.Context, path, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")

	var read func(context.Context, []byte) (string, error)
	switch ext {
	case "pdf":
		read = func(ctx context.Context, data []byte) (string, error) { return e.readPDF(ctx, path, data) }
	case "docx":
		read = func(_ context.Context, data []byte) (string, error) { return readDOCX(data) }
	case "txt":
		read = func(_ context.Context, data []byte) (string, error) { return readTXT(data), nil }
	default:
		return "", &ExtractionError{Path: path, Message: fmt.Sprintf("Unsupported file type: %s", ext), Cause: ErrUnsupported}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "Failed to read file", Cause: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", noText(path)
	}

	text, err := read(ctx, data)
	if err != nil {
		e.logger.Warn("text extraction failed", zap.String("path", path), zap.String("ext", ext), zap.Error(err))
		return "", &ExtractionError{Path: path, Message: fmt.Sprintf("Failed to extract text: %v", err), Cause: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", noText(path)
	}

	e.logger.Debug("text extracted", zap.String("path", path), zap.String("ext", ext), zap.Int("chars", len(text)))
	return text, nil
}

func (e *Extractor) readPDF(ctx context.Context, path string, data []byte) (string, error) {
	docs, err := e.pdf.Parse(ctx, bytes.NewReader(data), einoparser.WithURI(path))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, doc := range docs {
		if doc == nil || strings.TrimSpace(doc.Content) == "" {
			continue
		}
		sb.WriteString(doc.Content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func readDOCX(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return text, nil
}

// readTXT decodes UTF-8, falling back to Latin-1 when the bytes are not valid UTF-8.
func readTXT(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func noText(path string) *ExtractionError {
	return &ExtractionError{Path: path, Message: ErrNoText.Error(), Cause: ErrNoText}
}
