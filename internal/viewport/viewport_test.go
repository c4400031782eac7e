package viewport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheetui/sheetui/internal/address"
)

type fixedSizes struct{ width int }

func (f fixedSizes) GetColSize(col int) (int, error) { return f.width, nil }

type variableSizes map[int]int

func (v variableSizes) GetColSize(col int) (int, error) {
	if w, ok := v[col]; ok {
		return w, nil
	}
	return 9, nil
}

func TestProjectWithinWindowDoesNotSlide(t *testing.T) {
	vp := New()
	proj, err := vp.Project(address.New(0, 1, 1), Rect{Width: 50, Height: 10}, fixedSizes{width: 9})
	require.NoError(t, err)
	require.Equal(t, 1, proj.Columns[0].Index)
	require.Equal(t, 1, vp.Corner.Col)
}

func TestProjectSlidesRightPastEdge(t *testing.T) {
	vp := New()
	sizes := fixedSizes{width: 10}
	// Gutter is 5, so available width 15 fits at most one 10-wide column
	// plus a sliver; force a cursor far to the right.
	_, err := vp.Project(address.New(0, 1, 50), Rect{Width: 20, Height: 10}, sizes)
	require.NoError(t, err)
	require.LessOrEqual(t, vp.Corner.Col, 50)
	require.Greater(t, vp.Corner.Col, 1)
}

func TestProjectSlidesLeftWhenCursorBeforeCorner(t *testing.T) {
	vp := New()
	vp.Corner.Col = 20
	proj, err := vp.Project(address.New(0, 1, 5), Rect{Width: 50, Height: 10}, fixedSizes{width: 9})
	require.NoError(t, err)
	require.Equal(t, 5, vp.Corner.Col)
	require.True(t, containsCol(proj.Columns, 5))
}

func TestProjectSingleWideColumnAlwaysVisible(t *testing.T) {
	vp := New()
	sizes := variableSizes{1: 100}
	proj, err := vp.Project(address.New(0, 1, 1), Rect{Width: 20, Height: 10}, sizes)
	require.NoError(t, err)
	require.Len(t, proj.Columns, 1)
	require.Equal(t, 1, proj.Columns[0].Index)
}

func TestProjectRowsSlideWithHysteresis(t *testing.T) {
	vp := New()
	proj, err := vp.Project(address.New(0, 1, 1), Rect{Width: 50, Height: 5}, fixedSizes{width: 9})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, proj.Rows)

	proj, err = vp.Project(address.New(0, 10, 1), Rect{Width: 50, Height: 5}, fixedSizes{width: 9})
	require.NoError(t, err)
	require.Contains(t, proj.Rows, 10)
	require.Equal(t, 10, proj.Rows[len(proj.Rows)-1])
}

func TestProjectSheetSwitchResetsCorner(t *testing.T) {
	vp := New()
	vp.Corner = address.New(0, 40, 40)
	_, err := vp.Project(address.New(1, 1, 1), Rect{Width: 50, Height: 10}, fixedSizes{width: 9})
	require.NoError(t, err)
	require.Equal(t, address.New(1, 1, 1), vp.Corner)
}

func TestPadCell(t *testing.T) {
	require.Equal(t, "ab   ", PadCell("ab", 5))
	require.Equal(t, "ab…", PadCell("abcdef", 3))
}
