package address

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnLabel(t *testing.T) {
	cases := map[int]string{
		1:  "A",
		2:  "B",
		26: "Z",
		27: "AA",
		28: "AB",
		52: "AZ",
		53: "BA",
	}
	for col, want := range cases {
		require.Equal(t, want, ColumnLabel(col), "col=%d", col)
	}
}

func TestLabel(t *testing.T) {
	require.Equal(t, "AA3", New(0, 3, 27).Label())
	require.Equal(t, "A1", Default().Label())
}

// A1 notation round-trip: for columns up to 702 (ZZ), parsing the label
// back must recover the original (row, col).
func TestColumnLabelRoundTrip(t *testing.T) {
	parse := func(label string) int {
		col := 0
		for _, r := range label {
			col = col*26 + int(r-'A'+1)
		}
		return col
	}
	for col := 1; col <= 702; col++ {
		label := ColumnLabel(col)
		require.Equal(t, col, parse(label), "col=%d label=%s", col, label)
	}
}

func TestBoundingRectangle(t *testing.T) {
	a := New(0, 5, 10)
	b := New(0, 2, 20)
	minR, minC, maxR, maxC := BoundingRectangle(a, b)
	require.Equal(t, 2, minR)
	require.Equal(t, 10, minC)
	require.Equal(t, 5, maxR)
	require.Equal(t, 20, maxC)
}

func TestLess(t *testing.T) {
	require.True(t, New(0, 1, 1).Less(New(0, 1, 2)))
	require.True(t, New(0, 1, 2).Less(New(0, 2, 1)))
	require.False(t, New(0, 2, 1).Less(New(0, 1, 1)))
}
