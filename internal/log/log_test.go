package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/modal/internal/pubsub"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := format(ts, LevelError, CatFile, "save failed", []any{"path", "/tmp/a.txt", "bytes", 12})
	require.Equal(t, "2025-12-06T10:45:00.000 [ERROR] [file] save failed path=/tmp/a.txt bytes=12", got)

	got = format(ts, LevelInfo, CatEditor, "odd", []any{"orphan"})
	require.Equal(t, "2025-12-06T10:45:00.000 [INFO] [editor] odd orphan=<missing>", got)
}

func TestWriteRespectsLevelAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetMinLevel(LevelWarn)
	Info(CatUI, "hidden")
	Warn(CatUI, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [ui] shown")

	SetEnabled(false)
	Error(CatUI, "muted")
	require.NotContains(t, buf.String(), "muted")
}

func TestErrorErr(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	ErrorErr(CatFile, "write", errors.New("disk full"), "path", "x")
	ErrorErr(CatFile, "nil error", nil)

	require.Contains(t, buf.String(), "write path=x error=disk full")
	require.Contains(t, buf.String(), "nil error error=<nil>")
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modal.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Debug(CatConfig, "loaded", "file", "config.yaml")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[DEBUG] [config] loaded file=config.yaml")

	// Logging after cleanup is a no-op.
	Debug(CatConfig, "after")
}

func TestInitFileError(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "missing", "modal.log"))
	require.Error(t, err)
}

func TestNewListener(t *testing.T) {
	require.Nil(t, NewListener(context.Background()))

	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewListener(ctx)
	require.NotNil(t, l)

	Info(CatRegister, "restored", "count", 3)

	ev, ok := l.Listen()().(pubsub.Event[string])
	require.True(t, ok)
	require.Equal(t, pubsub.LogLine, ev.Type)
	require.Contains(t, ev.Payload, "[INFO] [register] restored count=3")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel("error"))
	require.Equal(t, LevelInfo, ParseLevel("whatever"))
}
