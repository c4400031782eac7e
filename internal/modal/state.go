// Package modal implements the editor's mode stack, numeric-prefix and
// leader-sequence accumulation, and the per-mode key→Action tables. It
// never touches the Workbook directly: Handle returns an Action for the
// workspace controller to execute.
package modal

import (
	"strconv"

	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/apperr"
)

// Modality is one of the six closed modes from spec §3/§4.6.
type Modality int

const (
	Navigate Modality = iota
	CellEdit
	Command
	RangeSelect
	Dialog
	Quit
)

func (m Modality) String() string {
	switch m {
	case Navigate:
		return "Navigate"
	case CellEdit:
		return "CellEdit"
	case Command:
		return "Command"
	case RangeSelect:
		return "RangeSelect"
	case Dialog:
		return "Dialog"
	case Quit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// RangeSelection holds the state captured while in RangeSelect mode: the
// cursor's address before entry (restored on a plain exit), the mode to
// return to on exit (Navigate or CellEdit), and the tentative start/end
// corners of the selection being built.
type RangeSelection struct {
	Active     bool
	Original   address.Address
	ReturnMode Modality
	Start      address.Address
	HasStart   bool
	End        address.Address
}

// AppState is the non-persistent UI state from spec §3, minus the
// clipboard (owned directly by the workspace controller as an
// internal/clipboard.Clipboard, rather than duplicated here).
type AppState struct {
	ModalityStack []Modality
	NumericPrefix string
	CharQueue     string
	RangeSel      RangeSelection
	Popup         string
	DialogScroll  int
	CommandBuffer string
	EditBuffer    string
	EditDirty     bool
}

// NewAppState returns a fresh state with Navigate at the bottom of the
// mode stack, as spec §3 requires.
func NewAppState() *AppState {
	return &AppState{ModalityStack: []Modality{Navigate}}
}

// Top returns the active (topmost) mode.
func (s *AppState) Top() Modality {
	return s.ModalityStack[len(s.ModalityStack)-1]
}

// Push enters a new mode.
func (s *AppState) Push(m Modality) {
	s.ModalityStack = append(s.ModalityStack, m)
}

// Pop leaves the active mode. It is an internal invariant violation to
// pop the last remaining (Navigate) entry.
func (s *AppState) Pop() error {
	if len(s.ModalityStack) <= 1 {
		return apperr.Internalf("cannot pop the bottom Navigate mode")
	}
	s.ModalityStack = s.ModalityStack[:len(s.ModalityStack)-1]
	return nil
}

// TakeCount reads the accumulated numeric prefix as max(1, prefix) and
// clears it, per spec §4.6.2.
func (s *AppState) TakeCount() int {
	n := 1
	if s.NumericPrefix != "" {
		if v, err := strconv.Atoi(s.NumericPrefix); err == nil && v > 0 {
			n = v
		}
	}
	s.NumericPrefix = ""
	return n
}

// EnterRangeSelect pushes RangeSelect, remembering cursor as the
// original location to restore on exit and the current mode (Navigate
// or CellEdit) to return to when the selection is finished.
func (s *AppState) EnterRangeSelect(cursor address.Address) {
	s.RangeSel = RangeSelection{Active: true, Original: cursor, ReturnMode: s.Top()}
	s.Push(RangeSelect)
}

// LiveAnchor is the fixed corner of the selection rectangle currently in
// effect: Start once explicitly confirmed, otherwise the entry point.
func (s *AppState) LiveAnchor() address.Address {
	if s.RangeSel.HasStart {
		return s.RangeSel.Start
	}
	return s.RangeSel.Original
}

// ConfirmRangeSelectPoint records cursor as the selection's start (first
// confirm) or end (second confirm), reporting whether the selection is
// now complete.
func (s *AppState) ConfirmRangeSelectPoint(cursor address.Address) (done bool) {
	if !s.RangeSel.HasStart {
		s.RangeSel.Start = cursor
		s.RangeSel.HasStart = true
		return false
	}
	s.RangeSel.End = cursor
	return true
}

// ExitRangeSelectDiscard pops RangeSelect for the plain-Esc path: the
// selection is cleared and the cursor restored to the original location,
// per spec §8's RangeSelect-restoration law.
func (s *AppState) ExitRangeSelectDiscard() (orig address.Address, returnMode Modality, err error) {
	if s.Top() != RangeSelect {
		return address.Address{}, Navigate, apperr.Internalf("ExitRangeSelectDiscard called outside RangeSelect")
	}
	orig, returnMode = s.RangeSel.Original, s.RangeSel.ReturnMode
	s.RangeSel = RangeSelection{}
	if err := s.Pop(); err != nil {
		return address.Address{}, Navigate, err
	}
	return orig, returnMode, nil
}

// ExitRangeSelectCompleted pops RangeSelect after a copy or clear
// completes against the live selection: the cursor is restored, and the
// selection itself is retained only when retain is true (a completed
// copy, per spec's "cleared on exit unless a copy or extension is
// confirmed").
func (s *AppState) ExitRangeSelectCompleted(retain bool) (orig address.Address, returnMode Modality, err error) {
	if s.Top() != RangeSelect {
		return address.Address{}, Navigate, apperr.Internalf("ExitRangeSelectCompleted called outside RangeSelect")
	}
	orig, returnMode = s.RangeSel.Original, s.RangeSel.ReturnMode
	if !retain {
		s.RangeSel = RangeSelection{}
	}
	if err := s.Pop(); err != nil {
		return address.Address{}, Navigate, err
	}
	return orig, returnMode, nil
}

// ExitRangeSelectAfterExtend pops RangeSelect after an extend-formula
// confirm: the cursor is left where the caller put it, and the selection
// is retained (not cleared), per spec §8.
func (s *AppState) ExitRangeSelectAfterExtend() (returnMode Modality, err error) {
	if s.Top() != RangeSelect {
		return Navigate, apperr.Internalf("ExitRangeSelectAfterExtend called outside RangeSelect")
	}
	returnMode = s.RangeSel.ReturnMode
	if err := s.Pop(); err != nil {
		return Navigate, err
	}
	return returnMode, nil
}
