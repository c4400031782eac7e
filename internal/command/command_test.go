package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWrite(t *testing.T) {
	cmd, err := Parse("w")
	require.NoError(t, err)
	require.Equal(t, Write, cmd.Kind)
	require.False(t, cmd.HasPath)

	cmd, err = Parse("write out.xlsx")
	require.NoError(t, err)
	require.Equal(t, Write, cmd.Kind)
	require.True(t, cmd.HasPath)
	require.Equal(t, "out.xlsx", cmd.Path)
}

func TestParseWriteMissingWhitespace(t *testing.T) {
	_, err := Parse("write-data")
	require.Error(t, err)
}

func TestParseExportRequiresPath(t *testing.T) {
	_, err := Parse("export")
	require.Error(t, err)

	cmd, err := Parse("ex out.csv")
	require.NoError(t, err)
	require.Equal(t, Export, cmd.Kind)
	require.Equal(t, "out.csv", cmd.Path)
}

func TestParseEditRequiresPath(t *testing.T) {
	_, err := Parse("edit")
	require.Error(t, err)

	cmd, err := Parse("e book.xlsx")
	require.NoError(t, err)
	require.Equal(t, Edit, cmd.Kind)
	require.Equal(t, "book.xlsx", cmd.Path)
}

func TestParseInsertRows(t *testing.T) {
	cmd, err := Parse("ir")
	require.NoError(t, err)
	require.Equal(t, 1, cmd.Count)

	cmd, err = Parse("insert-rows 4")
	require.NoError(t, err)
	require.Equal(t, InsertRows, cmd.Kind)
	require.Equal(t, 4, cmd.Count)

	_, err = Parse("insert-rows -1")
	require.Error(t, err)

	_, err = Parse("insert-rows nope")
	require.Error(t, err)
}

func TestParseInsertCols(t *testing.T) {
	cmd, err := Parse("ic 2")
	require.NoError(t, err)
	require.Equal(t, InsertCols, cmd.Kind)
	require.Equal(t, 2, cmd.Count)
}

func TestParseHelp(t *testing.T) {
	cmd, err := Parse("?")
	require.NoError(t, err)
	require.Equal(t, Help, cmd.Kind)
	require.False(t, cmd.HasTopic)

	cmd, err = Parse("help ranges")
	require.NoError(t, err)
	require.True(t, cmd.HasTopic)
	require.Equal(t, "ranges", cmd.Topic)
}

func TestParseQuit(t *testing.T) {
	cmd, err := Parse("q")
	require.NoError(t, err)
	require.Equal(t, Quit, cmd.Kind)

	_, err = Parse("quit now")
	require.Error(t, err)
}

func TestParseNewSheet(t *testing.T) {
	cmd, err := Parse("new-sheet")
	require.NoError(t, err)
	require.False(t, cmd.HasName)

	cmd, err = Parse("new-sheet Totals")
	require.NoError(t, err)
	require.True(t, cmd.HasName)
	require.Equal(t, "Totals", cmd.Name)
}

func TestParseSelectSheetRequiresName(t *testing.T) {
	_, err := Parse("select-sheet")
	require.Error(t, err)

	cmd, err := Parse("select-sheet Sheet2")
	require.NoError(t, err)
	require.Equal(t, "Sheet2", cmd.Name)
}

func TestParseRenameSheet(t *testing.T) {
	cmd, err := Parse("rename-sheet 2 Totals")
	require.NoError(t, err)
	require.True(t, cmd.HasIndex)
	require.Equal(t, 2, cmd.Index)
	require.Equal(t, "Totals", cmd.Name)

	cmd, err = Parse("rename-sheet Totals")
	require.NoError(t, err)
	require.False(t, cmd.HasIndex)
	require.Equal(t, "Totals", cmd.Name)

	_, err = Parse("rename-sheet")
	require.Error(t, err)
}

func TestParseColorRows(t *testing.T) {
	cmd, err := Parse("color-rows red")
	require.NoError(t, err)
	require.Equal(t, ColorRows, cmd.Kind)
	require.False(t, cmd.HasCount)
	require.Equal(t, "#800000", cmd.Color)

	cmd, err = Parse("color-rows 3 #112233")
	require.NoError(t, err)
	require.True(t, cmd.HasCount)
	require.Equal(t, 3, cmd.Count)
	require.Equal(t, "#112233", cmd.Color)

	_, err = Parse("color-rows notacolor")
	require.Error(t, err)
}

func TestParseColorColumns(t *testing.T) {
	cmd, err := Parse("color-columns rgb(10,20,30)")
	require.NoError(t, err)
	require.Equal(t, "#0a141e", cmd.Color)
}

func TestParseColorCell(t *testing.T) {
	cmd, err := Parse("cc blue")
	require.NoError(t, err)
	require.Equal(t, ColorCell, cmd.Kind)
	require.Equal(t, "#000080", cmd.Color)
}

func TestParseUnrecognized(t *testing.T) {
	cmd, err := Parse("frobnicate")
	require.NoError(t, err)
	require.Nil(t, cmd)
}

// Command parser totality: for any input, Parse must return (cmd, nil),
// (nil, nil), or (nil, err) — never panic.
func TestParseTotalityFuzzSample(t *testing.T) {
	inputs := []string{
		"", " ", ":", "write", "w ", "   q", "color-rows", "rename-sheet 99",
		"insert-rows 99999999999999999999999", "select-sheet ", "ex",
		"help ?", "new-sheet ", "\t\t", "cc", "color-columns   ",
	}
	for _, in := range inputs {
		require.NotPanics(t, func() {
			_, _ = Parse(in)
		}, "input=%q", in)
	}
}

func TestSuggestVerb(t *testing.T) {
	require.Equal(t, "write", SuggestVerb("wrte"))
	require.Equal(t, "", SuggestVerb("zzzzzzzzzz"))
}
