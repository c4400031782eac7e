// Package address implements cell addressing: a (sheet, row, column)
// triple, A1-style notation, and ordered rectangular ranges over it.
package address

import (
	"fmt"
)

// Address identifies a single cell within a sheet. Row and column are
// 1-based; Sheet is a 0-based index into the workbook's sheet list.
type Address struct {
	Sheet int
	Row   int
	Col   int
}

// New constructs an Address.
func New(sheet, row, col int) Address {
	return Address{Sheet: sheet, Row: row, Col: col}
}

// Default returns the address a fresh workbook opens on: sheet 0, A1.
func Default() Address {
	return Address{Sheet: 0, Row: 1, Col: 1}
}

// Equal reports whether two addresses refer to the same cell.
func (a Address) Equal(o Address) bool {
	return a.Sheet == o.Sheet && a.Row == o.Row && a.Col == o.Col
}

// Less orders addresses row-major within a sheet: by sheet, then row,
// then column.
func (a Address) Less(o Address) bool {
	if a.Sheet != o.Sheet {
		return a.Sheet < o.Sheet
	}
	if a.Row != o.Row {
		return a.Row < o.Row
	}
	return a.Col < o.Col
}

// ColumnLabel renders a 1-based column index as its spreadsheet letters
// using bijective base-26: 1 -> "A", 26 -> "Z", 27 -> "AA", 52 -> "AZ",
// 53 -> "BA".
func ColumnLabel(col int) string {
	if col <= 0 {
		return ""
	}
	var buf [12]byte
	i := len(buf)
	for col > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}

// Label renders the address as an A1-style string (sheet is not included).
func (a Address) Label() string {
	return fmt.Sprintf("%s%d", ColumnLabel(a.Col), a.Row)
}

// BoundingRectangle returns (minRow, minCol, maxRow, maxCol) for two
// arbitrary corners, regardless of their relative order.
func BoundingRectangle(a, b Address) (minRow, minCol, maxRow, maxCol int) {
	minRow, maxRow = a.Row, a.Row
	if b.Row < minRow {
		minRow = b.Row
	}
	if b.Row > maxRow {
		maxRow = b.Row
	}
	minCol, maxCol = a.Col, a.Col
	if b.Col < minCol {
		minCol = b.Col
	}
	if b.Col > maxCol {
		maxCol = b.Col
	}
	return
}
