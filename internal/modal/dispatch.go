package modal

import (
	"strconv"

	"github.com/sheetui/sheetui/internal/apperr"
	"github.com/sheetui/sheetui/internal/keyevent"
)

// ActionKind enumerates the effects a key event can request from the
// workspace controller. Dispatch never touches the Workbook, Clipboard,
// or Viewport itself — it only classifies input against AppState.
type ActionKind int

const (
	NoAction ActionKind = iota
	ActionMove
	ActionJumpTop
	ActionEnterCellEdit
	ActionClearThenEdit
	ActionAcceptEdit
	ActionCancelEdit
	ActionInsertRune
	ActionBackspace
	ActionInsertSelectionRef
	ActionEnterCommand
	ActionAppendCommandRune
	ActionCommandBackspace
	ActionAcceptCommand
	ActionCancelCommand
	ActionEnterRangeSelect
	ActionConfirmRangeSelect
	ActionExitRangeSelect
	ActionClearCell
	ActionClearCellAll
	ActionYank
	ActionYankRendered
	ActionPaste
	ActionSystemPaste
	ActionExtendFormula
	ActionToggleBold
	ActionToggleItalic
	ActionResizeColumn
	ActionNextSheet
	ActionPrevSheet
	ActionSave
	ActionEnterHelp
	ActionExitDialog
	ActionScrollDialog
	ActionSelectLink
	ActionRequestQuit
	ActionQuitConfirm
	ActionQuitCancel
)

// Action is the dispatcher's sole output: an intent plus whatever
// parameters the workspace needs to carry it out.
type Action struct {
	Kind  ActionKind
	Count int
	DRow  int
	DCol  int
	Rune  rune
	Widen bool
}

// Dispatcher translates one key event, in the context of the active
// mode, into an Action. It never panics: unrecognized keys resolve to
// NoAction rather than an error (in Dialog, to ActionExitDialog), per
// spec §4.6.5.
type Dispatcher struct{}

// NewDispatcher returns a stateless Dispatcher; all per-session state
// lives in the AppState passed to Handle.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Handle advances s (numeric prefix, leader buffer) and returns the
// Action the current mode derives from key.
func (d *Dispatcher) Handle(s *AppState, key keyevent.Key) (Action, error) {
	switch s.Top() {
	case Navigate:
		return d.handleNavigate(s, key)
	case CellEdit:
		return d.handleCellEdit(s, key)
	case Command:
		return d.handleCommand(s, key)
	case RangeSelect:
		return d.handleRangeSelect(s, key)
	case Dialog:
		return d.handleDialog(s, key)
	case Quit:
		return d.handleQuit(s, key)
	default:
		return Action{}, apperr.Internalf("unknown modality %v", s.Top())
	}
}

func (d *Dispatcher) handleNavigate(s *AppState, key keyevent.Key) (Action, error) {
	if key.Special == keyevent.Esc {
		s.NumericPrefix = ""
		s.CharQueue = ""
		return Action{Kind: NoAction}, nil
	}

	if n, ok := key.Digit(); ok {
		s.NumericPrefix += strconv.Itoa(n)
		return Action{Kind: NoAction}, nil
	}

	if key.IsRune() && key.Rune == 'g' {
		if s.CharQueue == "g" {
			s.CharQueue = ""
			return Action{Kind: ActionJumpTop, Count: s.TakeCount()}, nil
		}
		s.CharQueue = "g"
		return Action{Kind: NoAction}, nil
	}
	s.CharQueue = ""

	switch {
	case key.IsRune() && key.Rune == 'h', key.Special == keyevent.Left:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DCol: -1}, nil
	case key.IsRune() && key.Rune == 'l', key.Special == keyevent.Right:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DCol: 1}, nil
	case key.IsRune() && key.Rune == 'k', key.Special == keyevent.Up:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DRow: -1}, nil
	case key.IsRune() && key.Rune == 'j', key.Special == keyevent.Down:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DRow: 1}, nil
	case key.Special == keyevent.Tab:
		s.NumericPrefix = ""
		return Action{Kind: ActionMove, Count: 1, DCol: 1}, nil
	case key.Special == keyevent.Backtab:
		s.NumericPrefix = ""
		return Action{Kind: ActionMove, Count: 1, DCol: -1}, nil
	case key.Special == keyevent.Enter && key.Shift:
		s.NumericPrefix = ""
		return Action{Kind: ActionMove, Count: 1, DRow: -1}, nil
	case key.Special == keyevent.Enter:
		s.NumericPrefix = ""
		return Action{Kind: ActionMove, Count: 1, DRow: 1}, nil
	case key.IsRune() && (key.Rune == 'e' || key.Rune == 'i'):
		s.NumericPrefix = ""
		return Action{Kind: ActionEnterCellEdit}, nil
	case key.IsRune() && key.Rune == 's':
		s.NumericPrefix = ""
		return Action{Kind: ActionClearThenEdit}, nil
	case key.IsRune() && key.Rune == 'd':
		s.NumericPrefix = ""
		return Action{Kind: ActionClearCell}, nil
	case key.IsRune() && key.Rune == 'D':
		s.NumericPrefix = ""
		return Action{Kind: ActionClearCellAll}, nil
	case key.IsRune() && key.Rune == 'y':
		s.NumericPrefix = ""
		return Action{Kind: ActionYank}, nil
	case key.IsRune() && key.Rune == 'Y':
		s.NumericPrefix = ""
		return Action{Kind: ActionYankRendered}, nil
	case key.IsRune() && key.Rune == 'p':
		s.NumericPrefix = ""
		return Action{Kind: ActionPaste}, nil
	case key.IsRune() && key.Rune == 'v':
		s.NumericPrefix = ""
		return Action{Kind: ActionEnterRangeSelect}, nil
	case key.Ctrl && key.Rune == 'r':
		s.NumericPrefix = ""
		return Action{Kind: ActionEnterRangeSelect}, nil
	case key.Ctrl && key.Rune == 'v':
		return Action{Kind: ActionSystemPaste}, nil
	case key.IsRune() && key.Rune == ':':
		s.NumericPrefix = ""
		return Action{Kind: ActionEnterCommand}, nil
	case key.Ctrl && key.Rune == 's':
		return Action{Kind: ActionSave}, nil
	case key.Ctrl && key.Rune == 'n':
		return Action{Kind: ActionNextSheet}, nil
	case key.Ctrl && key.Rune == 'p':
		return Action{Kind: ActionPrevSheet}, nil
	case key.Ctrl && key.Rune == 'l':
		return Action{Kind: ActionResizeColumn, Widen: true}, nil
	case key.Ctrl && key.Rune == 'h':
		return Action{Kind: ActionResizeColumn, Widen: false}, nil
	case key.IsRune() && key.Rune == 'B':
		return Action{Kind: ActionToggleBold}, nil
	case key.IsRune() && key.Rune == 'I':
		return Action{Kind: ActionToggleItalic}, nil
	case key.IsRune() && key.Rune == 'q':
		return Action{Kind: ActionRequestQuit}, nil
	case key.Alt && key.Rune == 'h':
		return Action{Kind: ActionEnterHelp}, nil
	}
	return Action{Kind: NoAction}, nil
}

func (d *Dispatcher) handleCellEdit(s *AppState, key keyevent.Key) (Action, error) {
	switch {
	case key.Special == keyevent.Enter:
		return Action{Kind: ActionAcceptEdit}, nil
	case key.Special == keyevent.Esc:
		return Action{Kind: ActionCancelEdit}, nil
	case key.Special == keyevent.Backspace:
		return Action{Kind: ActionBackspace}, nil
	case key.Ctrl && key.Rune == 'r':
		return Action{Kind: ActionEnterRangeSelect}, nil
	case key.Ctrl && key.Rune == 'p':
		return Action{Kind: ActionInsertSelectionRef}, nil
	case key.Alt && key.Rune == 'h':
		return Action{Kind: ActionEnterHelp}, nil
	case key.IsRune():
		return Action{Kind: ActionInsertRune, Rune: key.Rune}, nil
	}
	return Action{Kind: NoAction}, nil
}

func (d *Dispatcher) handleCommand(s *AppState, key keyevent.Key) (Action, error) {
	switch {
	case key.Special == keyevent.Enter:
		return Action{Kind: ActionAcceptCommand}, nil
	case key.Special == keyevent.Esc:
		return Action{Kind: ActionCancelCommand}, nil
	case key.Special == keyevent.Backspace:
		return Action{Kind: ActionCommandBackspace}, nil
	case key.IsRune():
		return Action{Kind: ActionAppendCommandRune, Rune: key.Rune}, nil
	}
	return Action{Kind: NoAction}, nil
}

func (d *Dispatcher) handleRangeSelect(s *AppState, key keyevent.Key) (Action, error) {
	if key.Special == keyevent.Esc {
		if s.NumericPrefix != "" {
			s.NumericPrefix = ""
			return Action{Kind: NoAction}, nil
		}
		return Action{Kind: ActionExitRangeSelect}, nil
	}

	if n, ok := key.Digit(); ok {
		s.NumericPrefix += strconv.Itoa(n)
		return Action{Kind: NoAction}, nil
	}

	switch {
	case key.IsRune() && key.Rune == 'h', key.Special == keyevent.Left:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DCol: -1}, nil
	case key.IsRune() && key.Rune == 'l', key.Special == keyevent.Right:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DCol: 1}, nil
	case key.IsRune() && key.Rune == 'k', key.Special == keyevent.Up:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DRow: -1}, nil
	case key.IsRune() && key.Rune == 'j', key.Special == keyevent.Down:
		return Action{Kind: ActionMove, Count: s.TakeCount(), DRow: 1}, nil
	case key.Special == keyevent.Enter, key.IsRune() && key.Rune == ' ':
		s.NumericPrefix = ""
		return Action{Kind: ActionConfirmRangeSelect}, nil
	case key.IsRune() && key.Rune == 'd':
		s.NumericPrefix = ""
		return Action{Kind: ActionClearCell}, nil
	case key.IsRune() && key.Rune == 'D':
		s.NumericPrefix = ""
		return Action{Kind: ActionClearCellAll}, nil
	case key.IsRune() && key.Rune == 'y', key.Ctrl && key.Rune == 'c':
		s.NumericPrefix = ""
		return Action{Kind: ActionYank}, nil
	case key.IsRune() && key.Rune == 'Y', key.Ctrl && key.Shift && key.Rune == 'c':
		s.NumericPrefix = ""
		return Action{Kind: ActionYankRendered}, nil
	case key.IsRune() && key.Rune == 'x':
		s.NumericPrefix = ""
		return Action{Kind: ActionExtendFormula}, nil
	case key.Ctrl && key.Rune == 'n':
		return Action{Kind: ActionNextSheet}, nil
	case key.Ctrl && key.Rune == 'p':
		return Action{Kind: ActionPrevSheet}, nil
	}
	return Action{Kind: NoAction}, nil
}

func (d *Dispatcher) handleDialog(s *AppState, key keyevent.Key) (Action, error) {
	if n, ok := key.Digit(); ok {
		// Digit n selects the dialog's n-th link; the workspace opens it
		// when it names a help topic.
		return Action{Kind: ActionSelectLink, Count: n}, nil
	}
	switch {
	case key.IsRune() && key.Rune == 'j', key.Special == keyevent.Down:
		return Action{Kind: ActionScrollDialog, Count: 1}, nil
	case key.IsRune() && key.Rune == 'k', key.Special == keyevent.Up:
		return Action{Kind: ActionScrollDialog, Count: -1}, nil
	default:
		return Action{Kind: ActionExitDialog}, nil
	}
}

func (d *Dispatcher) handleQuit(s *AppState, key keyevent.Key) (Action, error) {
	switch {
	case key.IsRune() && (key.Rune == 'y' || key.Rune == 'Y'):
		return Action{Kind: ActionQuitConfirm}, nil
	case key.IsRune() && (key.Rune == 'n' || key.Rune == 'N'), key.Special == keyevent.Esc:
		return Action{Kind: ActionQuitCancel}, nil
	}
	return Action{Kind: NoAction}, nil
}
