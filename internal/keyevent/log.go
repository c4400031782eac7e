package keyevent

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"

	"github.com/sheetui/sheetui/internal/apperr"
)

// Logger appends one JSON object per Key event, followed by a newline,
// to a sidecar file. Per spec §5 this is write-only and best-effort —
// but any write failure is fatal, not silently dropped.
type Logger struct {
	f         *os.File
	enc       *json.Encoder
	sessionID string
}

// logLine wraps Key to additionally stamp every record with the
// session that produced it; Key's fields are flattened into the same
// JSON object since it is embedded anonymously.
type logLine struct {
	Key
	SessionID string `json:"session_id"`
}

// OpenLogger creates (or truncates) path as a new input-log sidecar. A
// fresh session id is generated once per logger and stamped on every
// line, so a replay tool can separate interleaved sessions in a
// concatenated log file.
func OpenLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, apperr.IOf(err, "cannot open input log %s", path)
	}
	return &Logger{f: f, enc: json.NewEncoder(f), sessionID: uuid.NewString()}, nil
}

// Write appends one Key as a JSON line. A failure here is fatal per
// spec §5; the caller is expected to propagate it as such.
func (l *Logger) Write(k Key) error {
	if l == nil {
		return nil
	}
	if err := l.enc.Encode(logLine{Key: k, SessionID: l.sessionID}); err != nil {
		return apperr.IOf(err, "input log write failed")
	}
	return nil
}

// Close releases the sidecar file handle.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return l.f.Close()
}
