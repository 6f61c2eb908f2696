package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name  string
		json  bool
		debug bool
	}{
		{"console info", false, false},
		{"json debug", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.json, tc.debug)
			require.NoError(t, err)
			assert.Equal(t, tc.debug, l.Core().Enabled(-1))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("  abc  ", 10))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "héé...", Truncate("héééé", 3))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
