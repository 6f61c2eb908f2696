package upload

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), 1024, []string{"pdf", "docx", "txt"}, nil)
	require.NoError(t, err)
	return s
}

func TestSave_WritesUnderRandomID(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Save("Resume.TXT", []byte("John Doe"))
	require.NoError(t, err)

	path, ok := s.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(s.Dir(), id+".txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", string(data))
}

func TestSave_IdentifiersNeverRepeat(t *testing.T) {
	s := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := s.Save("same.txt", []byte("identical content"))
		require.NoError(t, err)
		assert.False(t, seen[id], "identifier %s reused", id)
		seen[id] = true
	}
}

func TestSave_Rejections(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name     string
		filename string
		size     int
		reason   string
	}{
		{"too large", "resume.pdf", 2048, "File size exceeds maximum limit of 1024 bytes"},
		{"no filename", "", 10, "No filename provided"},
		{"no extension", "resume", 10, "File type not allowed. Supported types: pdf, docx, txt"},
		{"disallowed extension", "resume.png", 10, "File type not allowed. Supported types: pdf, docx, txt"},
		{"traversal", "../resume.txt", 10, "Invalid filename characters detected"},
		{"slash", "a/b.txt", 10, "Invalid filename characters detected"},
		{"backslash", `a\b.txt`, 10, "Invalid filename characters detected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := s.Save(tt.filename, make([]byte, tt.size))
			assert.Empty(t, id)

			var uerr *Error
			require.ErrorAs(t, err, &uerr)
			assert.True(t, uerr.Rejected())
			assert.Equal(t, tt.reason, uerr.Reason)
		})
	}

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_DangerousExtension(t *testing.T) {
	s, err := New(t.TempDir(), 1024, []string{"txt", "exe"}, nil)
	require.NoError(t, err)

	_, err = s.Save("setup.exe", []byte("MZ"))
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Potentially dangerous file type detected", uerr.Reason)
}

func TestResolve_Unknown(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Resolve("4f1c2b8e-0000-4000-8000-000000000000")
	assert.False(t, ok)

	_, ok = s.Resolve("../etc/passwd")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Save("resume.txt", []byte("text"))
	require.NoError(t, err)

	assert.True(t, s.Delete(id))
	_, ok := s.Resolve(id)
	assert.False(t, ok)
	assert.False(t, s.Delete(id))
}

func TestDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)

	oldID, err := s.Save("old.txt", []byte("old"))
	require.NoError(t, err)
	newID, err := s.Save("new.txt", []byte("new"))
	require.NoError(t, err)

	oldPath, _ := s.Resolve(oldID)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	assert.Equal(t, 0, s.DeleteOlderThan(math.Inf(1)))
	assert.Equal(t, 1, s.DeleteOlderThan(24))

	_, ok := s.Resolve(oldID)
	assert.False(t, ok)
	_, ok = s.Resolve(newID)
	assert.True(t, ok)

	assert.Equal(t, 1, s.DeleteOlderThan(0))
	_, ok = s.Resolve(newID)
	assert.False(t, ok)
}

func TestSweeper(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Save("old.txt", []byte("old"))
	require.NoError(t, err)
	path, _ := s.Resolve(id)
	past := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	sw, err := NewSweeper(s, "@hourly", 2, nil)
	require.NoError(t, err)
	sw.Sweep()

	_, ok := s.Resolve(id)
	assert.False(t, ok)

	_, err = NewSweeper(s, "not a schedule", 2, nil)
	assert.Error(t, err)
}
