package workbook

import (
	"github.com/xuri/excelize/v2"

	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/apperr"
)

// StyleAttr is one (path, value) pair from the fixed enumerated set of
// style attributes the editor exposes.
type StyleAttr struct {
	Path  string
	Value any
}

// CellStyle is the subset of an excelize style the display surface needs
// to render a cell: bold/italic and the two colors a terminal cell can
// show (foreground text color, background fill).
type CellStyle struct {
	Bold      bool
	Italic    bool
	FontColor string
	BgColor   string
}

// CellStyleAt reads back the resolved style of a single cell. A cell with
// no style ever applied (the common case) reports the zero CellStyle.
func (w *Workbook) CellStyleAt(addr address.Address) (CellStyle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sheet, err := w.sheetNameLocked(addr.Sheet)
	if err != nil {
		return CellStyle{}, err
	}
	cell := cellName(addr)
	id, err := w.file.GetCellStyle(sheet, cell)
	if err != nil || id <= 0 {
		return CellStyle{}, nil
	}
	st, err := w.file.GetStyle(id)
	if err != nil || st == nil {
		return CellStyle{}, nil
	}
	var cs CellStyle
	if st.Font != nil {
		cs.Bold = st.Font.Bold
		cs.Italic = st.Font.Italic
		cs.FontColor = st.Font.Color
	}
	if len(st.Fill.Color) > 0 {
		cs.BgColor = st.Fill.Color[0]
	}
	return cs, nil
}

// SetCellStyle applies attrs to every cell in area, merging onto each
// cell's existing style so unrelated attributes survive.
func (w *Workbook) SetCellStyle(area address.Range, attrs []StyleAttr) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, err := w.sheetNameLocked(area.Start.Sheet)
	if err != nil {
		return err
	}
	for _, addr := range area.Flat() {
		if err := w.applyStyleToCellLocked(sheet, cellName(addr), attrs); err != nil {
			return err
		}
	}
	w.dirty = true
	return nil
}

// SetRowStyle applies attrs as a row-level default style across the full
// row width (through LAST_COLUMN), not just populated cells — matching
// how a spreadsheet row's background stripe extends past the data.
func (w *Workbook) SetRowStyle(sheetIdx, fromRow, toRow int, attrs []StyleAttr) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, err := w.sheetNameLocked(sheetIdx)
	if err != nil {
		return err
	}
	styleID, err := w.buildStyleLocked(attrs)
	if err != nil {
		return err
	}
	if err := w.file.SetRowStyle(sheet, fromRow, toRow, styleID); err != nil {
		return apperr.Enginef(err, "cannot style rows %d-%d", fromRow, toRow)
	}
	w.dirty = true
	return nil
}

// SetColStyle applies attrs as a column-level default style across the
// full column height (through LAST_ROW), the column analogue of SetRowStyle.
func (w *Workbook) SetColStyle(sheetIdx, fromCol, toCol int, attrs []StyleAttr) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, err := w.sheetNameLocked(sheetIdx)
	if err != nil {
		return err
	}
	styleID, err := w.buildStyleLocked(attrs)
	if err != nil {
		return err
	}
	columns := address.ColumnLabel(fromCol) + ":" + address.ColumnLabel(toCol)
	if err := w.file.SetColStyle(sheet, columns, styleID); err != nil {
		return apperr.Enginef(err, "cannot style columns %s", columns)
	}
	w.dirty = true
	return nil
}

func (w *Workbook) buildStyleLocked(attrs []StyleAttr) (int, error) {
	style := &excelize.Style{}
	for _, attr := range attrs {
		if err := applyStyleAttr(style, attr); err != nil {
			return 0, err
		}
	}
	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, apperr.Enginef(err, "cannot build style")
	}
	return id, nil
}

func (w *Workbook) applyStyleToCellLocked(sheet, cell string, attrs []StyleAttr) error {
	existingID, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		existingID = 0
	}
	style := &excelize.Style{}
	if existingID > 0 {
		if existing, err := w.file.GetStyle(existingID); err == nil {
			style = existing
		}
	}
	for _, attr := range attrs {
		if err := applyStyleAttr(style, attr); err != nil {
			return err
		}
	}
	newID, err := w.file.NewStyle(style)
	if err != nil {
		return apperr.Enginef(err, "cannot build style for %s", cell)
	}
	if err := w.file.SetCellStyle(sheet, cell, cell, newID); err != nil {
		return apperr.Enginef(err, "cannot apply style to %s", cell)
	}
	return nil
}

// applyStyleAttr mutates style in place according to one (path, value)
// pair from the editor's fixed enumerated style path set.
func applyStyleAttr(style *excelize.Style, attr StyleAttr) error {
	switch attr.Path {
	case "fill.bg_color":
		hex, ok := attr.Value.(string)
		if !ok {
			return apperr.Userf("fill.bg_color requires a color string")
		}
		ensureFillColors(style)
		style.Fill.Type = "pattern"
		style.Fill.Pattern = 1
		style.Fill.Color[0] = hex

	case "fill.fg_color":
		hex, ok := attr.Value.(string)
		if !ok {
			return apperr.Userf("fill.fg_color requires a color string")
		}
		ensureFillColors(style)
		style.Fill.Type = "pattern"
		style.Fill.Pattern = 1
		style.Fill.Color[1] = hex

	case "font.b":
		b, ok := attr.Value.(bool)
		if !ok {
			return apperr.Userf("font.b requires a boolean")
		}
		ensureFont(style)
		style.Font.Bold = b

	case "font.i":
		b, ok := attr.Value.(bool)
		if !ok {
			return apperr.Userf("font.i requires a boolean")
		}
		ensureFont(style)
		style.Font.Italic = b

	case "font.strike":
		b, ok := attr.Value.(bool)
		if !ok {
			return apperr.Userf("font.strike requires a boolean")
		}
		ensureFont(style)
		style.Font.Strike = b

	case "font.color":
		hex, ok := attr.Value.(string)
		if !ok {
			return apperr.Userf("font.color requires a color string")
		}
		ensureFont(style)
		style.Font.Color = hex

	case "num_fmt":
		format, ok := attr.Value.(string)
		if !ok {
			return apperr.Userf("num_fmt requires a format string")
		}
		style.CustomNumFmt = &format

	case "alignment", "alignment.horizontal":
		h, ok := attr.Value.(string)
		if !ok {
			return apperr.Userf("%s requires a string", attr.Path)
		}
		ensureAlignment(style)
		style.Alignment.Horizontal = h

	case "alignment.vertical":
		v, ok := attr.Value.(string)
		if !ok {
			return apperr.Userf("alignment.vertical requires a string")
		}
		ensureAlignment(style)
		style.Alignment.Vertical = v

	case "alignment.wrap_text":
		b, ok := attr.Value.(bool)
		if !ok {
			return apperr.Userf("alignment.wrap_text requires a boolean")
		}
		ensureAlignment(style)
		style.Alignment.WrapText = b

	default:
		return apperr.Userf("unknown style path: %q", attr.Path)
	}
	return nil
}

func ensureFont(style *excelize.Style) {
	if style.Font == nil {
		style.Font = &excelize.Font{}
	}
}

func ensureAlignment(style *excelize.Style) {
	if style.Alignment == nil {
		style.Alignment = &excelize.Alignment{}
	}
}

func ensureFillColors(style *excelize.Style) {
	if style.Fill.Color == nil || len(style.Fill.Color) < 2 {
		colors := make([]string, 2)
		copy(colors, style.Fill.Color)
		style.Fill.Color = colors
	}
}
