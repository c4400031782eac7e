// Package display is the concrete tcell-backed display surface for
// cmd/sheetui. It is the only package that imports tcell directly for
// screen painting; internal/workspace produces a Frame describing what
// to draw and knows nothing about the terminal library underneath.
package display

import (
	"github.com/gdamore/tcell/v2"

	"github.com/sheetui/sheetui/internal/keyevent"
	"github.com/sheetui/sheetui/internal/workspace"
)

// Surface owns a tcell.Screen and paints workspace.Frame values onto it.
type Surface struct {
	screen tcell.Screen
}

// New initializes a tcell screen and puts it in raw/fullscreen mode.
// The caller must call Close on every exit path, including error paths,
// so the terminal is never left in raw mode.
func New() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.Clear()
	return &Surface{screen: screen}, nil
}

// Close releases the terminal back to normal (cooked) mode.
func (s *Surface) Close() {
	s.screen.Fini()
}

// Size reports the current screen size in display cells.
func (s *Surface) Size() (width, height int) {
	return s.screen.Size()
}

// NextKey blocks for the next input event and adapts it to keyevent.Key.
// Resize events are consumed internally and do not produce a Key; the
// caller's loop simply calls NextKey again and re-renders at the new
// size on its next RenderTo.
func (s *Surface) NextKey() keyevent.Key {
	for {
		switch ev := s.screen.PollEvent().(type) {
		case *tcell.EventKey:
			return keyevent.FromTcell(ev)
		case *tcell.EventResize:
			s.screen.Sync()
			continue
		}
	}
}

var (
	styleDefault  = tcell.StyleDefault
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	styleStripe   = tcell.StyleDefault.Background(tcell.ColorBlack)
)

func cellStyle(c workspace.GridCell) tcell.Style {
	st := styleDefault
	if c.Stripe {
		st = styleStripe
	}
	if c.Selected {
		st = styleSelected
	}
	if c.Style.BgColor != "" {
		st = st.Background(tcell.GetColor(c.Style.BgColor))
	}
	if c.Style.FontColor != "" {
		st = st.Foreground(tcell.GetColor(c.Style.FontColor))
	}
	if c.Style.Bold {
		st = st.Bold(true)
	}
	if c.Style.Italic {
		st = st.Italic(true)
	}
	if c.Cursor {
		st = styleCursor
	}
	return st
}

// Render paints one Frame to the screen and flips the buffer.
func (s *Surface) Render(f workspace.Frame) {
	s.screen.Clear()
	width, height := s.screen.Size()

	row := 0
	s.drawTabs(f.Tabs, width, row)
	row++

	s.drawStatus(f, width, row)
	row++

	gridTop := row
	gridBottom := height - 1 // reserve the last row for the command prompt
	s.drawGrid(f.Grid, width, gridTop, gridBottom)

	s.drawText(0, height-1, width, styleDefault, commandPromptText(f))

	if f.DialogVisible {
		s.drawDialog(f.Dialog, width, height)
	}
	if f.QuitVisible {
		s.drawCentered(f.QuitPrompt, width, height/2)
	}

	s.screen.Show()
}

func commandPromptText(f workspace.Frame) string {
	if !f.CommandVisible {
		return ""
	}
	return ":" + f.CommandLine
}

func (s *Surface) drawTabs(tabs []workspace.Tab, width, y int) {
	x := 0
	for _, t := range tabs {
		st := styleDefault
		if t.Active {
			st = st.Reverse(true)
		}
		label := " " + t.Name + " "
		x = s.drawText(x, y, width-x, st, label)
		if x >= width {
			break
		}
	}
}

func (s *Surface) drawStatus(f workspace.Frame, width, y int) {
	left := f.StatusRef + " " + f.StatusBuffer
	s.drawText(0, y, width, styleDefault, left)
}

func (s *Surface) drawGrid(g workspace.Grid, width, top, bottom int) {
	x := 0
	for i, label := range g.ColLabels {
		w := g.ColWidths[i]
		if top < bottom {
			s.drawText(x+5, top, w, styleDefault.Bold(true), padTo(label, w))
		}
		x += w
	}
	y := top + 1
	for _, row := range g.Rows {
		if y >= bottom {
			break
		}
		s.drawText(0, y, 5, styleDefault.Bold(true), padTo(row.Label, 5))
		x := 5
		for _, cell := range row.Cells {
			st := cellStyle(cell)
			s.drawText(x, y, len([]rune(cell.Text)), st, cell.Text)
			x += len([]rune(cell.Text))
		}
		y++
	}
}

func (s *Surface) drawDialog(d workspace.Dialog, width, height int) {
	w := width * 3 / 4
	h := height * 3 / 4
	x0 := (width - w) / 2
	y0 := (height - h) / 2
	for y := y0; y < y0+h && y < height; y++ {
		s.drawText(x0, y, w, styleDefault.Reverse(true), padTo("", w))
	}
	lineIdx := d.Scroll
	for y := y0 + 1; y < y0+h-1 && y < height; y++ {
		if lineIdx >= len(d.Lines) {
			break
		}
		text := d.Lines[lineIdx].PlainText()
		s.drawText(x0+2, y, w-4, styleDefault.Reverse(true), text)
		lineIdx++
	}
}

func (s *Surface) drawCentered(text string, width, y int) {
	x := (width - len([]rune(text))) / 2
	if x < 0 {
		x = 0
	}
	s.drawText(x, y, width-x, styleDefault.Reverse(true), text)
}

// drawText writes text at (x, y), clipped to maxWidth display cells,
// and returns the x position immediately after the last cell written.
func (s *Surface) drawText(x, y, maxWidth int, style tcell.Style, text string) int {
	col := x
	for _, r := range text {
		if col-x >= maxWidth {
			break
		}
		s.screen.SetContent(col, y, r, nil, style)
		col++
	}
	return col
}

func padTo(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + spaces(width-len(r))
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
