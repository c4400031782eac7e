// Package workspace is the editor's controller: it owns the Workbook,
// Clipboard, Viewport, and modal AppState/Dispatcher, and is the only
// place an input-handling error is turned into a Dialog (spec §7). The
// display surface calls HandleInput once per key event and RenderTo
// once per frame; neither touches the Workbook or AppState directly.
package workspace

import (
	"errors"
	"strings"

	"github.com/sheetui/sheetui/config"
	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/apperr"
	"github.com/sheetui/sheetui/internal/clipboard"
	"github.com/sheetui/sheetui/internal/keyevent"
	"github.com/sheetui/sheetui/internal/markdown"
	"github.com/sheetui/sheetui/internal/modal"
	"github.com/sheetui/sheetui/internal/telemetry"
	"github.com/sheetui/sheetui/internal/viewport"
	"github.com/sheetui/sheetui/internal/workbook"
)

// Workspace wires together every component the editor needs to turn a
// stream of key events into workbook mutations and rendered frames.
type Workspace struct {
	wb       *workbook.Workbook
	clip     *clipboard.Clipboard
	vp       *viewport.Viewport
	state    *modal.AppState
	dsp      *modal.Dispatcher
	hooks    *telemetry.Hooks
	inputLog *keyevent.Logger

	locale, timezone string
	validator        workbook.PathValidator

	dialogLinks []string
}

// Options configures New. Hooks and InputLog may be nil.
type Options struct {
	Locale    string
	Timezone  string
	Validator workbook.PathValidator
	Hooks     *telemetry.Hooks
	InputLog  *keyevent.Logger
}

// New constructs a Workspace already holding wb, ready to receive input.
func New(wb *workbook.Workbook, opts Options) *Workspace {
	ws := &Workspace{
		wb:        wb,
		clip:      clipboard.New(clipboard.NewSystemClipboard()),
		vp:        viewport.New(),
		state:     modal.NewAppState(),
		dsp:       modal.NewDispatcher(),
		hooks:     opts.Hooks,
		inputLog:  opts.InputLog,
		locale:    opts.Locale,
		timezone:  opts.Timezone,
		validator: opts.Validator,
	}
	if ws.hooks != nil {
		ws.hooks.OnStartup(wb.Path())
	}
	return ws
}

// HandleInput advances the editor by one key event. A non-nil exitCode
// means the process should exit with that code; err is only non-nil for
// a fatal failure the caller should log and abort on — an apperr.Internal
// error or a failed input-log write. Everything else has already been
// turned into a Dialog.
func (ws *Workspace) HandleInput(key keyevent.Key) (exitCode *int, err error) {
	if ws.inputLog != nil {
		if logErr := ws.inputLog.Write(key); logErr != nil {
			return nil, logErr
		}
	}

	before := ws.state.Top()
	action, dispErr := ws.dsp.Handle(ws.state, key)
	if dispErr != nil {
		return ws.fail(dispErr)
	}
	code, err := ws.execute(action)
	if after := ws.state.Top(); ws.hooks != nil && after != before {
		ws.hooks.OnModeChange(before.String(), after.String())
	}
	return code, err
}

// fail converts an error returned by an action into a Dialog (spec §7);
// command-line parse errors are shown by acceptCommand directly. A fatal
// (Internal) error propagates to the caller, anything else becomes a
// Dialog and execution continues.
func (ws *Workspace) fail(err error) (*int, error) {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind.IsFatal() {
		return nil, err
	}
	if ws.hooks != nil {
		ws.hooks.OnEngineError(ws.state.Top().String(), err)
	}
	ws.pushDialog(err.Error())
	return nil, nil
}

func (ws *Workspace) pushDialog(message string) {
	ws.state.Popup = message
	ws.state.DialogScroll = 0
	ws.dialogLinks = nil
	if ws.state.Top() != modal.Dialog {
		ws.state.Push(modal.Dialog)
	}
}

func (ws *Workspace) openHelp(topic string) {
	src, ok := helpTopics[topic]
	if !ok {
		src = helpTopics[""]
	}
	ws.state.Popup = src
	ws.state.DialogScroll = 0
	ws.dialogLinks = markdown.Render(src).LinksSnapshot()
	ws.state.Push(modal.Dialog)
}

func (ws *Workspace) selectLink(index int) {
	if index < 0 || index >= len(ws.dialogLinks) {
		return
	}
	topic := ws.dialogLinks[index]
	if _, ok := helpTopics[topic]; ok {
		ws.openHelp(topic)
	}
}

func (ws *Workspace) execute(a modal.Action) (*int, error) {
	switch a.Kind {
	case modal.NoAction:
		return nil, nil

	case modal.ActionMove:
		ws.move(a.DRow*a.Count, a.DCol*a.Count)
		return nil, nil

	case modal.ActionJumpTop:
		cur := ws.wb.Cursor()
		row := clamp(a.Count, 1, config.LastRow)
		ws.wb.MoveTo(address.New(cur.Sheet, row, cur.Col))
		return nil, nil

	case modal.ActionEnterCellEdit:
		text, err := ws.wb.CurrentContents()
		if err != nil {
			return ws.fail(err)
		}
		ws.state.EditBuffer = text
		ws.state.EditDirty = false
		ws.state.Push(modal.CellEdit)
		return nil, nil

	case modal.ActionClearThenEdit:
		if err := ws.wb.EditCurrent(""); err != nil {
			return ws.fail(err)
		}
		ws.state.EditBuffer = ""
		ws.state.EditDirty = true
		ws.state.Push(modal.CellEdit)
		return nil, nil

	case modal.ActionAcceptEdit:
		if err := ws.wb.EditCurrent(ws.state.EditBuffer); err != nil {
			return ws.fail(err)
		}
		if err := ws.wb.Evaluate(); err != nil {
			return ws.fail(err)
		}
		ws.state.EditBuffer = ""
		if err := ws.state.Pop(); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case modal.ActionCancelEdit:
		ws.state.EditBuffer = ""
		if err := ws.state.Pop(); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case modal.ActionInsertRune:
		ws.state.EditBuffer += string(a.Rune)
		ws.state.EditDirty = true
		return nil, nil

	case modal.ActionBackspace:
		ws.state.EditBuffer = trimLastRune(ws.state.EditBuffer)
		ws.state.EditDirty = true
		return nil, nil

	case modal.ActionInsertSelectionRef:
		ws.insertSelectionRef()
		return nil, nil

	case modal.ActionEnterCommand:
		ws.state.CommandBuffer = ""
		ws.state.Push(modal.Command)
		return nil, nil

	case modal.ActionAppendCommandRune:
		ws.state.CommandBuffer += string(a.Rune)
		return nil, nil

	case modal.ActionCommandBackspace:
		ws.state.CommandBuffer = trimLastRune(ws.state.CommandBuffer)
		return nil, nil

	case modal.ActionAcceptCommand:
		return ws.acceptCommand()

	case modal.ActionCancelCommand:
		ws.state.CommandBuffer = ""
		if err := ws.state.Pop(); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case modal.ActionEnterRangeSelect:
		ws.state.EnterRangeSelect(ws.wb.Cursor())
		return nil, nil

	case modal.ActionConfirmRangeSelect:
		return ws.confirmRangeSelect()

	case modal.ActionExitRangeSelect:
		orig, _, err := ws.state.ExitRangeSelectDiscard()
		if err != nil {
			return ws.fail(err)
		}
		ws.wb.MoveTo(orig)
		return nil, nil

	case modal.ActionClearCell:
		return ws.clearSelection(false)

	case modal.ActionClearCellAll:
		return ws.clearSelection(true)

	case modal.ActionYank:
		return ws.yank(false)

	case modal.ActionYankRendered:
		return ws.yank(true)

	case modal.ActionPaste:
		if err := ws.clip.Paste(ws.wb, ws.wb.Cursor()); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case modal.ActionSystemPaste:
		if err := ws.clip.SystemPaste(ws.wb, ws.wb.Cursor()); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case modal.ActionExtendFormula:
		return ws.extendFormula()

	case modal.ActionToggleBold:
		return ws.toggleStyle("font.b")

	case modal.ActionToggleItalic:
		return ws.toggleStyle("font.i")

	case modal.ActionResizeColumn:
		return ws.resizeColumn(a.Widen)

	case modal.ActionNextSheet:
		ws.switchSheet(ws.wb.SelectNextSheet)
		return nil, nil

	case modal.ActionPrevSheet:
		ws.switchSheet(ws.wb.SelectPrevSheet)
		return nil, nil

	case modal.ActionSave:
		err := ws.wb.Save()
		if ws.hooks != nil {
			ws.hooks.OnSave(ws.wb.Path(), err)
		}
		if err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case modal.ActionEnterHelp:
		ws.openHelp("")
		return nil, nil

	case modal.ActionExitDialog:
		ws.state.Popup = ""
		ws.state.DialogScroll = 0
		ws.dialogLinks = nil
		if err := ws.state.Pop(); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case modal.ActionScrollDialog:
		ws.state.DialogScroll += a.Count
		if ws.state.DialogScroll < 0 {
			ws.state.DialogScroll = 0
		}
		return nil, nil

	case modal.ActionSelectLink:
		ws.selectLink(a.Count)
		return nil, nil

	case modal.ActionRequestQuit:
		if ws.wb.Dirty() {
			ws.state.Push(modal.Quit)
			return nil, nil
		}
		return ws.exit(0)

	case modal.ActionQuitConfirm:
		if err := ws.wb.Save(); err != nil {
			return ws.fail(err)
		}
		return ws.exit(0)

	case modal.ActionQuitCancel:
		if err := ws.state.Pop(); err != nil {
			return ws.fail(err)
		}
		return nil, nil
	}
	return nil, nil
}

func (ws *Workspace) exit(code int) (*int, error) {
	if ws.hooks != nil {
		ws.hooks.OnShutdown(code)
	}
	c := code
	return &c, nil
}

func (ws *Workspace) move(dRow, dCol int) {
	cur := ws.wb.Cursor()
	row := clamp(cur.Row+dRow, 1, config.LastRow)
	col := clamp(cur.Col+dCol, 1, config.LastColumn)
	ws.wb.MoveTo(address.New(cur.Sheet, row, col))
}

func (ws *Workspace) switchSheet(fn func()) {
	fn()
	if ws.state.Top() == modal.RangeSelect {
		ws.state.RangeSel.HasStart = false
		ws.state.RangeSel.Start = address.Address{}
		ws.state.RangeSel.End = address.Address{}
		ws.state.RangeSel.Original = ws.wb.Cursor()
	}
}

func (ws *Workspace) insertSelectionRef() {
	if !ws.state.RangeSel.HasStart {
		return
	}
	rng := address.NewRange(ws.state.RangeSel.Start, ws.state.RangeSel.End)
	ws.state.EditBuffer += rangeLabel(rng)
	ws.state.EditDirty = true
}

// finishRangeSelectAction records the live rectangle as the confirmed
// selection before exiting, so a later Ctrl-P in CellEdit can still
// reference it.
func (ws *Workspace) finishRangeSelectAction(rng address.Range, retain bool) (address.Address, modal.Modality, error) {
	ws.state.RangeSel.Start = rng.Start
	ws.state.RangeSel.End = rng.End
	ws.state.RangeSel.HasStart = true
	return ws.state.ExitRangeSelectCompleted(retain)
}

func (ws *Workspace) confirmRangeSelect() (*int, error) {
	cur := ws.wb.Cursor()
	done := ws.state.ConfirmRangeSelectPoint(cur)
	if !done {
		return nil, nil
	}
	returnMode := ws.state.RangeSel.ReturnMode
	rng := address.NewRange(ws.state.RangeSel.Start, ws.state.RangeSel.End)
	ref := rangeLabel(rng)
	orig, _, err := ws.state.ExitRangeSelectCompleted(true)
	if err != nil {
		return ws.fail(err)
	}
	ws.wb.MoveTo(orig)
	if returnMode == modal.CellEdit {
		ws.state.EditBuffer += ref
		ws.state.EditDirty = true
	}
	return nil, nil
}

func (ws *Workspace) cellText(addr address.Address, rendered bool) (string, error) {
	if rendered {
		return ws.wb.RenderedAt(addr)
	}
	return ws.wb.ContentsAt(addr)
}

func (ws *Workspace) matrixFor(rng address.Range, rendered bool) ([][]string, error) {
	rows := rng.RowsOfAddresses()
	out := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(row))
		for j, addr := range row {
			text, err := ws.cellText(addr, rendered)
			if err != nil {
				return nil, err
			}
			line[j] = text
		}
		out[i] = line
	}
	return out, nil
}

func (ws *Workspace) yank(rendered bool) (*int, error) {
	cur := ws.wb.Cursor()
	if ws.state.Top() != modal.RangeSelect {
		text, err := ws.cellText(cur, rendered)
		if err != nil {
			return ws.fail(err)
		}
		ws.clip.CopyCell(text)
		return nil, nil
	}
	rng := address.NewRange(ws.state.LiveAnchor(), cur)
	matrix, err := ws.matrixFor(rng, rendered)
	if err != nil {
		return ws.fail(err)
	}
	if err := ws.clip.CopyRange(matrix); err != nil {
		return ws.fail(err)
	}
	orig, _, err := ws.finishRangeSelectAction(rng, true)
	if err != nil {
		return ws.fail(err)
	}
	ws.wb.MoveTo(orig)
	return nil, nil
}

func (ws *Workspace) applyClear(area address.Range, all bool) error {
	if all {
		return ws.wb.ClearCellAll(area)
	}
	return ws.wb.ClearCellContents(area)
}

func (ws *Workspace) clearSelection(all bool) (*int, error) {
	cur := ws.wb.Cursor()
	if ws.state.Top() != modal.RangeSelect {
		if err := ws.applyClear(address.NewRange(cur, cur), all); err != nil {
			return ws.fail(err)
		}
		return nil, nil
	}
	rng := address.NewRange(ws.state.LiveAnchor(), cur)
	if err := ws.applyClear(rng, all); err != nil {
		return ws.fail(err)
	}
	orig, _, err := ws.finishRangeSelectAction(rng, false)
	if err != nil {
		return ws.fail(err)
	}
	ws.wb.MoveTo(orig)
	return nil, nil
}

func (ws *Workspace) extendFormula() (*int, error) {
	if ws.state.Top() != modal.RangeSelect {
		return nil, nil
	}
	cur := ws.wb.Cursor()
	from := ws.state.LiveAnchor()
	if err := ws.wb.ExtendTo(from, cur); err != nil {
		return ws.fail(err)
	}
	ws.state.RangeSel.Start = from
	ws.state.RangeSel.End = cur
	ws.state.RangeSel.HasStart = true
	if _, err := ws.state.ExitRangeSelectAfterExtend(); err != nil {
		return ws.fail(err)
	}
	return nil, nil
}

func (ws *Workspace) toggleStyle(path string) (*int, error) {
	cur := ws.wb.Cursor()
	cs, err := ws.wb.CellStyleAt(cur)
	if err != nil {
		return ws.fail(err)
	}
	var current bool
	switch path {
	case "font.b":
		current = cs.Bold
	case "font.i":
		current = cs.Italic
	}
	area := address.NewRange(cur, cur)
	if err := ws.wb.SetCellStyle(area, []workbook.StyleAttr{{Path: path, Value: !current}}); err != nil {
		return ws.fail(err)
	}
	return nil, nil
}

func (ws *Workspace) resizeColumn(widen bool) (*int, error) {
	cur := ws.wb.Cursor()
	n, err := ws.wb.GetColSize(cur.Col)
	if err != nil {
		return ws.fail(err)
	}
	if widen {
		n++
	} else {
		n--
		if n < 1 {
			n = 1
		}
	}
	if err := ws.wb.SetColSize(cur.Col, n); err != nil {
		return ws.fail(err)
	}
	return nil, nil
}

func rangeLabel(rng address.Range) string {
	if rng.Start.Equal(rng.End) {
		return rng.Start.Label()
	}
	return rng.Start.Label() + ":" + rng.End.Label()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}
