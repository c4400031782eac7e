package keyevent

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigit(t *testing.T) {
	n, ok := Key{Rune: '7'}.Digit()
	require.True(t, ok)
	require.Equal(t, 7, n)

	_, ok = Key{Rune: 'g'}.Digit()
	require.False(t, ok)

	_, ok = Key{Rune: '5', Ctrl: true}.Digit()
	require.False(t, ok)
}

func TestIsRune(t *testing.T) {
	require.True(t, Key{Rune: 'a'}.IsRune())
	require.False(t, Key{Special: Enter}.IsRune())
	require.False(t, Key{Rune: 's', Ctrl: true}.IsRune())
}

func TestLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.log")
	logger, err := OpenLogger(path)
	require.NoError(t, err)

	require.NoError(t, logger.Write(Key{Rune: 'g'}))
	require.NoError(t, logger.Write(Key{Special: Enter}))
	require.NoError(t, logger.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first Key
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, 'g', first.Rune)

	var firstRaw, secondRaw map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &firstRaw))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &secondRaw))
	require.NotEmpty(t, firstRaw["session_id"])
	require.Equal(t, firstRaw["session_id"], secondRaw["session_id"])
}
