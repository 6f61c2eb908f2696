// Package upload stores uploaded resume files on local disk under random
// identifiers until they are analysed and deleted.
package upload

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var dangerousExtensions = []string{".exe", ".bat", ".cmd", ".scr", ".com", ".pif"}

// Store persists uploads in a single directory as <id>.<ext>. It keeps no
// in-memory index; the directory listing is the source of truth.
type Store struct {
	dir     string
	maxSize int64
	allowed []string
	logger  *zap.Logger
	now     func() time.Time
}

// New creates the upload directory if needed and returns a Store for it.
// allowed holds lower-case extensions without the leading dot.
func New(dir string, maxSize int64, allowed []string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	exts := make([]string, 0, len(allowed))
	for _, ext := range allowed {
		exts = append(exts, strings.TrimPrefix(strings.ToLower(ext), "."))
	}

	return &Store{
		dir:     dir,
		maxSize: maxSize,
		allowed: exts,
		logger:  logger.Named("upload"),
		now:     time.Now,
	}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes content, returning the new file identifier.
// Validation failures come back as *Error with KindRejected.
func (s *Store) Save(filename string, content []byte) (string, error) {
	if err := s.validate(filename, int64(len(content))); err != nil {
		s.logger.Info("upload rejected", zap.String("filename", filename), zap.String("reason", err.Reason))
		return "", err
	}

	id := uuid.NewString()
	name := id + "." + extension(filename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, content, 0o600); err != nil {
		s.logger.Error("failed to save upload", zap.String("file_id", id), zap.Error(err))
		return "", &Error{Reason: "Failed to save file", Kind: KindIO, Cause: err}
	}

	s.logger.Info("file saved", zap.String("file_id", id), zap.Int("bytes", len(content)))
	return id, nil
}

func (s *Store) validate(filename string, size int64) *Error {
	if s.maxSize > 0 && size > s.maxSize {
		return rejected("File size exceeds maximum limit of %d bytes", s.maxSize)
	}
	if strings.TrimSpace(filename) == "" {
		return rejected("No filename provided")
	}
	if !s.allowedExtension(filename) {
		return rejected("File type not allowed. Supported types: %s", strings.Join(s.allowed, ", "))
	}

	lower := strings.ToLower(filename)
	for _, ext := range dangerousExtensions {
		if strings.HasSuffix(lower, ext) {
			return rejected("Potentially dangerous file type detected")
		}
	}
	if strings.Contains(lower, "..") || strings.ContainsAny(lower, `/\`) {
		return rejected("Invalid filename characters detected")
	}
	return nil
}

func (s *Store) allowedExtension(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	ext := extension(filename)
	for _, a := range s.allowed {
		if a == ext {
			return true
		}
	}
	return false
}

// Resolve returns the path stored for id.
func (s *Store) Resolve(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("failed to list upload directory", zap.Error(err))
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), id+".") {
			return filepath.Join(s.dir, e.Name()), true
		}
	}
	return "", false
}

// Delete removes the file stored for id and reports whether one was removed.
func (s *Store) Delete(id string) bool {
	path, ok := s.Resolve(id)
	if !ok {
		return false
	}
	if err := os.Remove(path); err != nil {
		s.logger.Error("failed to delete upload", zap.String("file_id", id), zap.Error(err))
		return false
	}
	s.logger.Info("file cleaned up", zap.String("file_id", id))
	return true
}

// DeleteOlderThan removes every file at least maxAgeHours old and returns how
// many were removed. Zero removes everything; +Inf removes nothing. The file
// modification time stands in for its creation time.
func (s *Store) DeleteOlderThan(maxAgeHours float64) int {
	if math.IsInf(maxAgeHours, 1) || math.IsNaN(maxAgeHours) {
		return 0
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("failed to list upload directory", zap.Error(err))
		return 0
	}

	now := s.now()
	deleted := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		age := now.Sub(info.ModTime()).Hours()
		if maxAgeHours > 0 && age < maxAgeHours {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			s.logger.Error("failed to delete old file", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		deleted++
		s.logger.Info("cleaned up old file", zap.String("file", e.Name()), zap.Float64("age_hours", age))
	}
	return deleted
}

func extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}
