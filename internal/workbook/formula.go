package workbook

import (
	"regexp"
	"strconv"

	"github.com/sheetui/sheetui/internal/address"
)

// refPattern matches an A1-style reference inside a formula body, with
// optional "$" column/row anchors that pin that axis against shifting.
var refPattern = regexp.MustCompile(`(\$?)([A-Za-z]{1,3})(\$?)(\d+)`)

// shiftFormula rewrites every unanchored reference in formula by
// (rowDelta, colDelta), the way a fill-handle drag shifts relative
// references. Anchored ("$") axes are left untouched.
func shiftFormula(formula string, rowDelta, colDelta int) string {
	return refPattern.ReplaceAllStringFunc(formula, func(ref string) string {
		m := refPattern.FindStringSubmatch(ref)
		colAnchor, colLetters, rowAnchor, rowDigits := m[1], m[2], m[3], m[4]

		col := parseColumnLetters(colLetters)
		row, err := strconv.Atoi(rowDigits)
		if err != nil {
			return ref
		}

		if colAnchor == "" {
			col += colDelta
			if col < 1 {
				col = 1
			}
		}
		if rowAnchor == "" {
			row += rowDelta
			if row < 1 {
				row = 1
			}
		}
		return colAnchor + address.ColumnLabel(col) + rowAnchor + strconv.Itoa(row)
	})
}

func parseColumnLetters(letters string) int {
	col := 0
	for _, r := range letters {
		up := r
		if up >= 'a' && up <= 'z' {
			up = up - 'a' + 'A'
		}
		col = col*26 + int(up-'A'+1)
	}
	return col
}
