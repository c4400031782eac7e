package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestHooks() (*Hooks, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewHooks(zerolog.New(&buf)), &buf
}

func decodeLast(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestOnStartupLogsPath(t *testing.T) {
	h, buf := newTestHooks()
	h.OnStartup("/tmp/book.xlsx")
	got := decodeLast(t, buf)
	require.Equal(t, "/tmp/book.xlsx", got["path"])
}

func TestOnCommandLogsFailureSeparately(t *testing.T) {
	h, buf := newTestHooks()
	h.OnCommand("write", time.Millisecond, errors.New("disk full"))
	got := decodeLast(t, buf)
	require.Equal(t, "warn", got["level"])
	require.Equal(t, "write", got["command"])
}

func TestOnSaveSuccess(t *testing.T) {
	h, buf := newTestHooks()
	h.OnSave("/tmp/book.xlsx", nil)
	got := decodeLast(t, buf)
	require.Equal(t, "info", got["level"])
}
