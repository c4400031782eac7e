// Package applog builds the process-wide zerolog.Logger. Because the
// display surface owns the terminal in raw mode, nothing during the
// interactive run loop may write to stdout/stderr — doing so would
// corrupt the screen — so the logger's sink is a file, or nothing at all
// when no path is given.
package applog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// New opens path (creating parent directories as needed) and returns a
// logger writing structured JSON lines to it. An empty path discards
// all output, matching the teacher's pattern of a always-present but
// optionally inert logger rather than a nil-checked one.
func New(path string) (zerolog.Logger, func() error, error) {
	var w io.Writer = io.Discard
	closer := func() error { return nil }

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Logger{}, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		w = f
		closer = f.Close
	}

	logger := zerolog.New(w).With().Timestamp().Str("service", "sheetui").Logger()
	return logger, closer, nil
}

// Startup returns a human-readable console logger for the narrow window
// before the display surface takes over the terminal (flag parsing,
// workbook load failures) — the only place stderr output is safe.
func Startup() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
