package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(LevelWarn))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewWithWriter_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, Config{Level: LevelInfo, Format: "json"}).Info("opened", "rows", 3)
	assert.Contains(t, buf.String(), `"msg":"opened"`)
	assert.Contains(t, buf.String(), `"rows":3`)

	buf.Reset()
	l := NewWithWriter(&buf, Config{Level: LevelWarn})
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dbf.log")
	l, closeFn, err := New(Config{Level: LevelDebug, OutputPath: path})
	require.NoError(t, err)
	l.Debug("written")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("dropped") })
}
