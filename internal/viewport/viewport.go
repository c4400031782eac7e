// Package viewport projects an unbounded sheet onto a bounded terminal
// rectangle: given the cursor and a remembered top-left corner, it
// computes the set of visible columns and rows with hysteresis (the
// window only slides when the cursor would otherwise fall outside it).
package viewport

import (
	"github.com/mattn/go-runewidth"

	"github.com/sheetui/sheetui/config"
	"github.com/sheetui/sheetui/internal/address"
)

// SizeSource supplies a column's display-cell width. internal/workbook
// implements this directly.
type SizeSource interface {
	GetColSize(col int) (int, error)
}

// Column is one visible column and its display-cell width.
type Column struct {
	Index int
	Width int
}

// Rect is the terminal rectangle available to the viewport, including
// the row-label gutter on its left edge and no header row of its own.
type Rect struct {
	Width  int
	Height int
}

// Projection is the computed visible window.
type Projection struct {
	Columns []Column
	Rows    []int
}

// Viewport remembers the top-left corner of the visible window across
// calls to Project, so the window only moves when the cursor forces it.
type Viewport struct {
	Corner address.Address
}

// New returns a Viewport anchored at A1 of sheet 0.
func New() *Viewport {
	return &Viewport{Corner: address.Default()}
}

// Project computes the visible columns and rows for cursor inside rect,
// sliding Corner as little as possible. Switching sheets resets the
// corner to that sheet's A1.
func (v *Viewport) Project(cursor address.Address, rect Rect, sizes SizeSource) (Projection, error) {
	if cursor.Sheet != v.Corner.Sheet {
		v.Corner = address.New(cursor.Sheet, 1, 1)
	}

	available := rect.Width - config.RowLabelGutterWidth
	if available < 1 {
		available = 1
	}
	cols, err := v.slideCols(cursor.Col, available, sizes)
	if err != nil {
		return Projection{}, err
	}
	rows := v.slideRows(cursor.Row, rect.Height)
	return Projection{Columns: cols, Rows: rows}, nil
}

// slideCols moves Corner.Col left to meet the cursor immediately if the
// cursor is left of it, then drops leftmost columns one at a time until
// the cursor column is included in the visible set.
func (v *Viewport) slideCols(cursorCol, width int, sizes SizeSource) ([]Column, error) {
	if cursorCol < v.Corner.Col {
		v.Corner.Col = cursorCol
	}
	for {
		cols, err := visibleCols(v.Corner.Col, width, sizes)
		if err != nil {
			return nil, err
		}
		if containsCol(cols, cursorCol) {
			return cols, nil
		}
		v.Corner.Col++
	}
}

// visibleCols accumulates columns from corner rightward while they fit
// within width. The first column is always included even if its own
// width exceeds the available space, so a single very wide column never
// hides the cursor entirely.
func visibleCols(corner, width int, sizes SizeSource) ([]Column, error) {
	var cols []Column
	length := 0
	for col := corner; col <= config.LastColumn; col++ {
		w, err := sizes.GetColSize(col)
		if err != nil {
			return nil, err
		}
		if length > 0 && length+w > width {
			break
		}
		cols = append(cols, Column{Index: col, Width: w})
		length += w
	}
	return cols, nil
}

func containsCol(cols []Column, col int) bool {
	for _, c := range cols {
		if c.Index == col {
			return true
		}
	}
	return false
}

// slideRows applies the same hysteresis on the row axis; every row has
// the same fixed height (config.RowHeight display lines).
func (v *Viewport) slideRows(cursorRow, height int) []int {
	if height < 1 {
		height = 1
	}
	if cursorRow < v.Corner.Row {
		v.Corner.Row = cursorRow
	}
	for cursorRow >= v.Corner.Row+height {
		v.Corner.Row++
	}
	rows := make([]int, 0, height)
	for r := v.Corner.Row; r < v.Corner.Row+height && r <= config.LastRow; r++ {
		rows = append(rows, r)
	}
	return rows
}

// PadCell renders s into exactly width display cells: truncated with an
// ellipsis if too wide, space-padded on the right if too narrow. Uses
// go-runewidth so double-width runes are measured correctly.
func PadCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := runewidth.StringWidth(s)
	if w > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
