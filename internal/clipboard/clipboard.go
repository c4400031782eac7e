// Package clipboard implements the editor's two clipboard operations —
// copy (from a cell or a RangeSelection) and paste (at the cursor) —
// plus the OS clipboard bridge for range copies and system paste.
package clipboard

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/apperr"
)

// Kind discriminates what is currently held: nothing, a single cell, or
// a rectangular range.
type Kind int

const (
	KindNone Kind = iota
	KindCell
	KindRange
)

// Contents is the in-process clipboard payload.
type Contents struct {
	Kind     Kind
	CellText string
	Matrix   [][]string // row-major
}

// OSClipboard abstracts the system clipboard so tests can substitute a
// fake; NewSystemClipboard wraps the real atotto/clipboard package.
type OSClipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemClipboard) ReadAll() (string, error)    { return clipboard.ReadAll() }

// NewSystemClipboard returns an OSClipboard backed by the real OS
// clipboard (X11/Wayland/macOS/Windows, per atotto/clipboard).
func NewSystemClipboard() OSClipboard { return systemClipboard{} }

// Updater is the subset of internal/workbook.Workbook the clipboard
// writes through on paste.
type Updater interface {
	Update(addr address.Address, text string) error
	Evaluate() error
}

// Clipboard holds the in-process clipboard contents and bridges range
// copies to the OS clipboard.
type Clipboard struct {
	contents Contents
	os       OSClipboard
}

// New constructs a Clipboard backed by the given OS clipboard adapter.
func New(os OSClipboard) *Clipboard {
	return &Clipboard{os: os}
}

// Contents returns a copy of the currently held clipboard payload.
func (c *Clipboard) Contents() Contents { return c.contents }

// CopyCell stores a single cell's text (the raw source for yank, the
// rendered value for yank-rendered — the caller decides which to pass).
func (c *Clipboard) CopyCell(text string) {
	c.contents = Contents{Kind: KindCell, CellText: text}
}

// CopyRange stores a row-major matrix and mirrors it to the OS
// clipboard as CSV. (atotto/clipboard exposes a single plain-text slot;
// see DESIGN.md for why the HTML-table half of spec §4.5 is not
// produced.)
func (c *Clipboard) CopyRange(matrix [][]string) error {
	c.contents = Contents{Kind: KindRange, Matrix: matrix}
	csvText, err := toCSV(matrix)
	if err != nil {
		return apperr.Internalf("cannot serialize range to CSV: %v", err)
	}
	if c.os != nil {
		if err := c.os.WriteAll(csvText); err != nil {
			return apperr.IOf(err, "cannot write OS clipboard")
		}
	}
	return nil
}

// Paste writes the held contents at cursor: a cell payload writes a
// single cell, a range payload lays its matrix row-major starting at
// cursor (writes beyond the used area extend the sheet implicitly).
// Either way it calls Evaluate and clears the clipboard on success.
func (c *Clipboard) Paste(wb Updater, cursor address.Address) error {
	switch c.contents.Kind {
	case KindNone:
		return apperr.Userf("clipboard is empty")
	case KindCell:
		if err := wb.Update(cursor, c.contents.CellText); err != nil {
			return err
		}
	case KindRange:
		for rowOffset, row := range c.contents.Matrix {
			for colOffset, text := range row {
				addr := address.New(cursor.Sheet, cursor.Row+rowOffset, cursor.Col+colOffset)
				if err := wb.Update(addr, text); err != nil {
					return err
				}
			}
		}
	}
	if err := wb.Evaluate(); err != nil {
		return err
	}
	c.contents = Contents{}
	return nil
}

// SystemPaste reads the OS clipboard, requires it to parse as CSV, and
// pastes it as a Range at cursor. Non-CSV content is a User error
// surfaced as a Dialog, per the editor's closed error-kind policy.
func (c *Clipboard) SystemPaste(wb Updater, cursor address.Address) error {
	if c.os == nil {
		return apperr.Userf("no OS clipboard available")
	}
	text, err := c.os.ReadAll()
	if err != nil {
		return apperr.IOf(err, "cannot read OS clipboard")
	}
	matrix, err := fromCSV(text)
	if err != nil {
		return apperr.Userf("OS clipboard contents are not valid CSV: %v", err)
	}
	c.contents = Contents{Kind: KindRange, Matrix: matrix}
	return c.Paste(wb, cursor)
}

func toCSV(matrix [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range matrix {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fromCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
