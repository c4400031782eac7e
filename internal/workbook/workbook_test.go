package workbook

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sheetui/sheetui/internal/address"
)

func newTestWorkbook(t *testing.T) *Workbook {
	t.Helper()
	return New(excelize.NewFile(), "", "en", "America/New_York", nil)
}

func TestUpdateAndContents(t *testing.T) {
	wb := newTestWorkbook(t)
	a1 := address.New(0, 1, 1)
	require.NoError(t, wb.Update(a1, "hello"))
	got, err := wb.ContentsAt(a1)
	require.NoError(t, err)
	require.Equal(t, "hello", got)
	require.True(t, wb.Dirty())
}

func TestUpdateFormula(t *testing.T) {
	wb := newTestWorkbook(t)
	require.NoError(t, wb.Update(address.New(0, 1, 1), "1"))
	require.NoError(t, wb.Update(address.New(0, 1, 2), "2"))
	require.NoError(t, wb.Update(address.New(0, 1, 3), "=A1+B1"))
	require.NoError(t, wb.Evaluate())
	rendered, err := wb.RenderedAt(address.New(0, 1, 3))
	require.NoError(t, err)
	require.Equal(t, "3", rendered)

	contents, err := wb.ContentsAt(address.New(0, 1, 3))
	require.NoError(t, err)
	require.Equal(t, "=A1+B1", contents)
}

func TestInsertRowsShiftsCursor(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.MoveTo(address.New(0, 5, 1))
	require.NoError(t, wb.InsertRows(3, 2))
	require.Equal(t, 7, wb.Cursor().Row)

	wb.MoveTo(address.New(0, 1, 1))
	require.NoError(t, wb.InsertRows(3, 2))
	require.Equal(t, 1, wb.Cursor().Row)
}

func TestInsertColsShiftsCursor(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.MoveTo(address.New(0, 1, 5))
	require.NoError(t, wb.InsertCols(3, 1))
	require.Equal(t, 6, wb.Cursor().Col)
}

func TestClearCellContents(t *testing.T) {
	wb := newTestWorkbook(t)
	a1 := address.New(0, 1, 1)
	require.NoError(t, wb.Update(a1, "x"))
	rng := address.NewRange(a1, a1)
	require.NoError(t, wb.ClearCellContents(rng))
	got, err := wb.ContentsAt(a1)
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestColSizeDefaultsThenSet(t *testing.T) {
	wb := newTestWorkbook(t)
	n, err := wb.GetColSize(1)
	require.NoError(t, err)
	require.Equal(t, 9, n)

	require.NoError(t, wb.SetColSize(1, 20))
	n, err = wb.GetColSize(1)
	require.NoError(t, err)
	require.Equal(t, 20, n)
}

func TestSheetLifecycle(t *testing.T) {
	wb := newTestWorkbook(t)
	require.NoError(t, wb.NewSheet("Totals"))
	names := wb.GetSheetNames()
	require.Contains(t, names, "Totals")
	require.Equal(t, "Totals", names[wb.ActiveSheet()])

	require.NoError(t, wb.RenameSheet(wb.ActiveSheet(), "Summary"))
	require.Contains(t, wb.GetSheetNames(), "Summary")

	require.NoError(t, wb.SelectSheetByName("Sheet1"))
	require.Equal(t, 0, wb.ActiveSheet())

	wb.SelectNextSheet()
	require.Equal(t, 1, wb.ActiveSheet())
	wb.SelectPrevSheet()
	require.Equal(t, 0, wb.ActiveSheet())
}

func TestNewSheetRejectsDuplicateName(t *testing.T) {
	wb := newTestWorkbook(t)
	_, err := wb.GetSheetNameByIdx(0)
	require.NoError(t, err)
	err = wb.NewSheet("Sheet1")
	require.Error(t, err)
}

func TestSetCellStyleMergesAttributes(t *testing.T) {
	wb := newTestWorkbook(t)
	a1 := address.New(0, 1, 1)
	rng := address.NewRange(a1, a1)
	require.NoError(t, wb.SetCellStyle(rng, []StyleAttr{{Path: "font.b", Value: true}}))
	require.NoError(t, wb.SetCellStyle(rng, []StyleAttr{{Path: "font.i", Value: true}}))

	sheet, err := wb.sheetNameLocked(0)
	require.NoError(t, err)
	styleID, err := wb.file.GetCellStyle(sheet, "A1")
	require.NoError(t, err)
	style, err := wb.file.GetStyle(styleID)
	require.NoError(t, err)
	require.True(t, style.Font.Bold)
	require.True(t, style.Font.Italic)
}

func TestSetCellStyleUnknownPath(t *testing.T) {
	wb := newTestWorkbook(t)
	a1 := address.New(0, 1, 1)
	rng := address.NewRange(a1, a1)
	err := wb.SetCellStyle(rng, []StyleAttr{{Path: "bogus", Value: "x"}})
	require.Error(t, err)
}

func TestExtendToShiftsRelativeReferences(t *testing.T) {
	wb := newTestWorkbook(t)
	require.NoError(t, wb.Update(address.New(0, 1, 1), "10"))
	require.NoError(t, wb.Update(address.New(0, 2, 1), "20"))
	require.NoError(t, wb.Update(address.New(0, 1, 2), "=A1*2"))

	from := address.New(0, 1, 2)
	to := address.New(0, 2, 2)
	require.NoError(t, wb.ExtendTo(from, to))

	contents, err := wb.ContentsAt(address.New(0, 2, 2))
	require.NoError(t, err)
	require.Equal(t, "=A2*2", contents)
}

func TestSetRowStyleReachesFarColumnOnEmptySheet(t *testing.T) {
	wb := newTestWorkbook(t)
	require.NoError(t, wb.SetRowStyle(0, 1, 1, []StyleAttr{{Path: "fill.bg_color", Value: "#800000"}}))

	far := address.New(0, 1, 500)
	style, err := wb.CellStyleAt(far)
	require.NoError(t, err)
	require.Equal(t, "#800000", style.BgColor)
}

func TestSetColStyleReachesFarRowOnEmptySheet(t *testing.T) {
	wb := newTestWorkbook(t)
	require.NoError(t, wb.SetColStyle(0, 1, 1, []StyleAttr{{Path: "fill.bg_color", Value: "#800000"}}))

	far := address.New(0, 500, 1)
	style, err := wb.CellStyleAt(far)
	require.NoError(t, err)
	require.Equal(t, "#800000", style.BgColor)
}

func TestCellStyleAtZeroValueWhenUnset(t *testing.T) {
	wb := newTestWorkbook(t)
	style, err := wb.CellStyleAt(address.New(0, 1, 1))
	require.NoError(t, err)
	require.Equal(t, CellStyle{}, style)
}

func TestSaveRequiresPath(t *testing.T) {
	wb := newTestWorkbook(t)
	err := wb.Save()
	require.Error(t, err)
}
