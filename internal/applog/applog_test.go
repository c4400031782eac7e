package applog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "sheetui.log")
	logger, closer, err := New(path)
	require.NoError(t, err)
	defer closer()

	logger.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
}

func TestNewDiscardsWhenPathEmpty(t *testing.T) {
	logger, closer, err := New("")
	require.NoError(t, err)
	defer closer()
	logger.Info().Msg("discarded")
}
