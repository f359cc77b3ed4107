package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"api_key", "sk-123", "input_tokens", 42, "unit", "html", "dangling"})
	assert.Equal(t, []interface{}{"api_key", "[REDACTED]", "input_tokens", 42, "unit", "html", "dangling"}, got)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "synapse.log")
	l, err := New(path, "debug")
	require.NoError(t, err)

	l.With("component", "test").Info("hello", "token", "abc")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `"msg":"hello"`), out)
	assert.True(t, strings.Contains(out, `"component":"test"`), out)
	assert.False(t, strings.Contains(out, "abc"), out)
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synapse.log")
	l, err := New(path, "chatty")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("shown")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
