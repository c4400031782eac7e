package workspace

import (
	"fmt"
	"strings"

	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/markdown"
	"github.com/sheetui/sheetui/internal/modal"
	"github.com/sheetui/sheetui/internal/viewport"
	"github.com/sheetui/sheetui/internal/workbook"
)

// Tab is one entry in the sheet tab strip.
type Tab struct {
	Name   string
	Active bool
}

// GridCell is one visible cell: its display text plus the style
// overlays the display surface composes in order — row stripe, then
// selection, then the cell's own user style, with the cursor applied
// last over all of them, per spec §4.7's "output consumers style each
// cell" note.
type GridCell struct {
	Text     string
	Cursor   bool
	Selected bool
	Stripe   bool
	Style    workbook.CellStyle
}

// GridRow is one visible row: its label gutter text plus its cells, in
// the same left-to-right order as Frame.ColLabels.
type GridRow struct {
	Label string
	Cells []GridCell
}

// Grid is the viewport panel: column headers (letters) and the visible
// rows beneath them, sized to Rect.
type Grid struct {
	ColLabels []string
	ColWidths []int
	Rows      []GridRow
}

// Dialog is the overlay shown in Dialog mode: help text or an error
// message rendered as Markdown, scrolled by DialogScroll lines.
type Dialog struct {
	Lines  []markdown.Line
	Scroll int
}

// Frame is everything the display surface needs to paint one screen,
// top to bottom per spec §4.7: tab strip, status row, viewport, command
// prompt, dialog overlay, quit overlay.
type Frame struct {
	Tabs []Tab

	StatusRef    string // current cursor's A1 label
	StatusBuffer string // CellEdit's edit buffer, else the rendered value

	SheetName string
	Grid      Grid

	CommandVisible bool
	CommandLine    string

	DialogVisible bool
	Dialog        Dialog

	QuitVisible bool
	QuitPrompt  string
}

// RenderTo computes the Frame for a terminal area of the given size (in
// display cells). It never mutates the Workbook or AppState.
func (ws *Workspace) RenderTo(width, height int) (Frame, error) {
	var f Frame

	names := ws.wb.GetSheetNames()
	active := ws.wb.ActiveSheet()
	f.Tabs = make([]Tab, len(names))
	for i, name := range names {
		f.Tabs[i] = Tab{Name: name, Active: i == active}
	}
	if active >= 0 && active < len(names) {
		f.SheetName = names[active]
	}

	cur := ws.wb.Cursor()
	f.StatusRef = cur.Label()
	if ws.state.Top() == modal.CellEdit {
		f.StatusBuffer = ws.state.EditBuffer
	} else if rendered, err := ws.wb.CurrentRendered(); err == nil {
		f.StatusBuffer = rendered
	}

	gridHeight := height - 4 // tab strip + status row + column headers + command prompt
	if gridHeight < 1 {
		gridHeight = 1
	}
	grid, err := ws.buildGrid(cur, viewport.Rect{Width: width, Height: gridHeight})
	if err != nil {
		return Frame{}, err
	}
	f.Grid = grid

	f.CommandVisible = ws.state.Top() == modal.Command
	f.CommandLine = ws.state.CommandBuffer

	if ws.state.Top() == modal.Dialog {
		f.DialogVisible = true
		f.Dialog = Dialog{Lines: markdown.Render(ws.state.Popup).Lines, Scroll: ws.state.DialogScroll}
	}

	if ws.state.Top() == modal.Quit {
		f.QuitVisible = true
		f.QuitPrompt = "Unsaved changes. Save and quit? (y/n)"
	}

	return f, nil
}

func (ws *Workspace) buildGrid(cur address.Address, rect viewport.Rect) (Grid, error) {
	proj, err := ws.vp.Project(cur, rect, ws.wb)
	if err != nil {
		return Grid{}, err
	}

	var g Grid
	g.ColLabels = make([]string, len(proj.Columns))
	g.ColWidths = make([]int, len(proj.Columns))
	for i, c := range proj.Columns {
		g.ColLabels[i] = address.ColumnLabel(c.Index)
		g.ColWidths[i] = c.Width
	}

	selecting := ws.state.Top() == modal.RangeSelect
	var selMinRow, selMinCol, selMaxRow, selMaxCol int
	if selecting {
		selMinRow, selMinCol, selMaxRow, selMaxCol = address.BoundingRectangle(ws.state.LiveAnchor(), cur)
	}

	g.Rows = make([]GridRow, len(proj.Rows))
	for ri, row := range proj.Rows {
		gr := GridRow{Label: fmt.Sprintf("%d", row), Cells: make([]GridCell, len(proj.Columns))}
		stripe := row%2 == 0
		for ci, col := range proj.Columns {
			addr := address.New(cur.Sheet, row, col.Index)
			text, terr := ws.wb.RenderedAt(addr)
			if terr != nil {
				return Grid{}, terr
			}
			if addr.Equal(cur) && ws.state.Top() == modal.CellEdit {
				text = ws.state.EditBuffer
			}
			style, serr := ws.wb.CellStyleAt(addr)
			if serr != nil {
				return Grid{}, serr
			}
			cell := GridCell{
				Text:   viewport.PadCell(text, col.Width),
				Cursor: addr.Equal(cur),
				Stripe: stripe,
				Style:  style,
			}
			if selecting && row >= selMinRow && row <= selMaxRow && col.Index >= selMinCol && col.Index <= selMaxCol {
				cell.Selected = true
			}
			gr.Cells[ci] = cell
		}
		g.Rows[ri] = gr
	}
	return g, nil
}

// PlainGrid renders a Grid as a single string, one line per row with a
// left-aligned row-label gutter — a headless fallback for environments
// without a display surface (tests, --version-style diagnostics).
func (g Grid) PlainGrid() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", 5))
	for i, label := range g.ColLabels {
		b.WriteString(viewport.PadCell(label, g.ColWidths[i]))
	}
	b.WriteByte('\n')
	for _, row := range g.Rows {
		b.WriteString(viewport.PadCell(row.Label, 5))
		for _, c := range row.Cells {
			b.WriteString(c.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
