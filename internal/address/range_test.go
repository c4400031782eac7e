package address

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeForwardIteration(t *testing.T) {
	r := NewRange(New(0, 1, 1), New(0, 2, 3))
	require.Equal(t, []int{1, 2}, r.Rows())
	require.Equal(t, []int{1, 2, 3}, r.Cols())

	flat := r.Flat()
	require.Len(t, flat, 6)
	require.Equal(t, New(0, 1, 1), flat[0])
	require.Equal(t, New(0, 1, 3), flat[2])
	require.Equal(t, New(0, 2, 1), flat[3])
	require.Equal(t, New(0, 2, 3), flat[5])
}

func TestRangeReversedCorners(t *testing.T) {
	r := NewRange(New(0, 3, 3), New(0, 1, 1))
	require.Equal(t, []int{3, 2, 1}, r.Rows())
	require.Equal(t, []int{3, 2, 1}, r.Cols())

	flat := r.Flat()
	require.Equal(t, New(0, 3, 3), flat[0])
	require.Equal(t, New(0, 1, 1), flat[len(flat)-1])
}

func TestRangeDegenerate(t *testing.T) {
	r := NewRange(New(0, 5, 5), New(0, 5, 5))
	require.Equal(t, []Address{New(0, 5, 5)}, r.Flat())
}

func TestRangeBoundingRectangleIgnoresDirection(t *testing.T) {
	r := NewRange(New(0, 5, 5), New(0, 1, 1))
	minRow, minCol, maxRow, maxCol := r.BoundingRectangle()
	require.Equal(t, 1, minRow)
	require.Equal(t, 1, minCol)
	require.Equal(t, 5, maxRow)
	require.Equal(t, 5, maxCol)
}
