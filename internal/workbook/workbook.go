// Package workbook is the only surface through which the rest of the
// editor touches the calc engine (excelize). Every exported method
// returns an *apperr.Error on failure; callers never reach into the
// underlying *excelize.File.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/sheetui/sheetui/config"
	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/apperr"
)

// PathValidator abstracts filesystem allow-list checks performed before a
// workbook is opened or saved.
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// Workbook wraps a single open *excelize.File and the cursor/dirty state
// the controller needs alongside it. All access goes through a single
// RWMutex, although the editor's event loop is single-threaded and no
// other goroutine reads the workbook.
type Workbook struct {
	mu sync.RWMutex

	file     *excelize.File
	path     string
	dirty    bool
	locale   string
	timezone string

	validator PathValidator

	sheetNames  []string
	activeSheet int
	cursor      address.Address

	colSizes map[string]map[int]int // sheet -> 1-based column -> display-cell width
}

// New wraps an already-open excelize file. Used by Load and by tests.
func New(file *excelize.File, path, locale, timezone string, validator PathValidator) *Workbook {
	names := file.GetSheetList()
	return &Workbook{
		file:       file,
		path:       path,
		locale:     locale,
		timezone:   timezone,
		validator:  validator,
		sheetNames: names,
		cursor:     address.Default(),
		colSizes:   make(map[string]map[int]int),
	}
}

// Load opens path as an xlsx workbook, or creates an empty one if path
// does not name an existing file. An empty path also creates an empty
// workbook (the "no file on the command line" startup case).
func Load(path, locale, timezone string, validator PathValidator) (*Workbook, error) {
	if path == "" {
		return New(excelize.NewFile(), "", locale, timezone, validator), nil
	}

	// A path that does not exist yet is not an error: it is the spelling
	// of a new workbook to be created on first save. Existence is
	// checked against the raw path, ahead of allow-list validation,
	// since the validator's job is to police *existing* files.
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return New(excelize.NewFile(), path, locale, timezone, validator), nil
		}
		return nil, apperr.IOf(err, "cannot stat %s", path)
	}

	canonical := path
	if validator != nil {
		resolved, err := validator.ValidateOpenPath(path)
		if err != nil {
			return nil, apperr.IOf(err, "cannot open %s", path)
		}
		canonical = resolved
	}

	f, err := excelize.OpenFile(canonical)
	if err != nil {
		return nil, apperr.IOf(err, "cannot open %s", path)
	}
	return New(f, path, locale, timezone, validator), nil
}

// Save writes the workbook back to its current path. It is an error to
// call Save before any path has ever been set (via Load or SaveAs).
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.path == "" {
		return apperr.Userf("no path set; use :write <path> or :export <path>")
	}
	return w.saveAsLocked(w.path)
}

// SaveAs writes the workbook to path and adopts it as the current path.
func (w *Workbook) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saveAsLocked(path)
}

func (w *Workbook) saveAsLocked(path string) error {
	canonical := path
	if w.validator != nil {
		if resolved, err := w.validator.ValidateOpenPath(path); err == nil {
			canonical = resolved
		}
		// A validation error here (typically "not found", since the
		// target need not exist yet) is not fatal to save: fall through
		// and let excelize's own SaveAs surface the real failure.
	}
	if err := os.MkdirAll(filepath.Dir(canonical), 0o755); err != nil {
		return apperr.IOf(err, "cannot create directory for %s", path)
	}
	if err := w.file.SaveAs(canonical); err != nil {
		return apperr.IOf(err, "cannot save %s", path)
	}
	w.path = path
	w.dirty = false
	return nil
}

// Evaluate forces the calc engine to recompute every formula cell.
// Idempotent: calling it twice in a row with no intervening edits is a
// no-op from the caller's perspective.
func (w *Workbook) Evaluate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.UpdateLinkedValue(); err != nil {
		return apperr.Enginef(err, "evaluation failed")
	}
	return nil
}

// Dirty reports whether the workbook has unsaved edits.
func (w *Workbook) Dirty() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirty
}

// Path returns the workbook's current path, empty if never saved.
func (w *Workbook) Path() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.path
}

// Cursor returns the current cell address.
func (w *Workbook) Cursor() address.Address {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cursor
}

// MoveTo sets the cursor address.
func (w *Workbook) MoveTo(addr address.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursor = addr
	w.dirty = true
}

func (w *Workbook) sheetNameLocked(idx int) (string, error) {
	if idx < 0 || idx >= len(w.sheetNames) {
		return "", apperr.Userf("sheet index %d out of range", idx)
	}
	return w.sheetNames[idx], nil
}

func cellName(addr address.Address) string {
	return address.ColumnLabel(addr.Col) + strconv.Itoa(addr.Row)
}

// CurrentContents returns the raw (unformatted) source of the cursor cell.
func (w *Workbook) CurrentContents() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.contentsAtLocked(w.cursor)
}

// ContentsAt returns the raw source of an arbitrary cell.
func (w *Workbook) ContentsAt(addr address.Address) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.contentsAtLocked(addr)
}

func (w *Workbook) contentsAtLocked(addr address.Address) (string, error) {
	sheet, err := w.sheetNameLocked(addr.Sheet)
	if err != nil {
		return "", err
	}
	cell := cellName(addr)
	if formula, err := w.file.GetCellFormula(sheet, cell); err == nil && formula != "" {
		return "=" + formula, nil
	}
	v, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", apperr.Enginef(err, "cannot read %s", cell)
	}
	return v, nil
}

// CurrentRendered returns the display-formatted value of the cursor cell.
func (w *Workbook) CurrentRendered() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.renderedAtLocked(w.cursor)
}

// RenderedAt returns the display-formatted value of an arbitrary cell.
func (w *Workbook) RenderedAt(addr address.Address) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.renderedAtLocked(addr)
}

func (w *Workbook) renderedAtLocked(addr address.Address) (string, error) {
	sheet, err := w.sheetNameLocked(addr.Sheet)
	if err != nil {
		return "", err
	}
	cell := cellName(addr)
	v, err := w.file.CalcCellValue(sheet, cell)
	if err != nil {
		return "", apperr.Enginef(err, "cannot evaluate %s", cell)
	}
	return v, nil
}

// EditCurrent writes text into the cursor cell.
func (w *Workbook) EditCurrent(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updateLocked(w.cursor, text)
}

// Update writes text into an arbitrary cell. It does not call Evaluate;
// the caller decides when recomputation happens.
func (w *Workbook) Update(addr address.Address, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updateLocked(addr, text)
}

func (w *Workbook) updateLocked(addr address.Address, text string) error {
	sheet, err := w.sheetNameLocked(addr.Sheet)
	if err != nil {
		return err
	}
	cell := cellName(addr)
	var setErr error
	if strings.HasPrefix(text, "=") {
		setErr = w.file.SetCellFormula(sheet, cell, text[1:])
	} else {
		setErr = w.file.SetCellStr(sheet, cell, text)
	}
	if setErr != nil {
		return apperr.Enginef(setErr, "cannot write %s", cell)
	}
	w.dirty = true
	return nil
}

// InsertRows inserts count blank rows before row "at" on the active
// sheet. The cursor shifts forward on the row axis iff it lay at or
// after the insertion point.
func (w *Workbook) InsertRows(at, count int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, err := w.sheetNameLocked(w.activeSheet)
	if err != nil {
		return err
	}
	if err := w.file.InsertRows(sheet, at, count); err != nil {
		return apperr.Enginef(err, "cannot insert %d row(s) at %d", count, at)
	}
	if w.cursor.Sheet == w.activeSheet && w.cursor.Row >= at {
		w.cursor.Row += count
	}
	w.dirty = true
	return nil
}

// InsertCols inserts count blank columns before column "at" on the
// active sheet. The cursor shifts forward on the column axis iff it lay
// at or after the insertion point.
func (w *Workbook) InsertCols(at, count int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, err := w.sheetNameLocked(w.activeSheet)
	if err != nil {
		return err
	}
	colName := address.ColumnLabel(at)
	if err := w.file.InsertCols(sheet, colName, count); err != nil {
		return apperr.Enginef(err, "cannot insert %d column(s) at %s", count, colName)
	}
	if w.cursor.Sheet == w.activeSheet && w.cursor.Col >= at {
		w.cursor.Col += count
	}
	w.dirty = true
	return nil
}

// GetSize returns the maximal (row, col) populated on the active sheet.
// Expensive: it walks every row excelize reports.
func (w *Workbook) GetSize() (row, col int, err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sheet, serr := w.sheetNameLocked(w.activeSheet)
	if serr != nil {
		return 0, 0, serr
	}
	rows, rerr := w.file.GetRows(sheet)
	if rerr != nil {
		return 0, 0, apperr.Enginef(rerr, "cannot measure sheet %s", sheet)
	}
	maxRow := len(rows)
	maxCol := 0
	for _, r := range rows {
		if len(r) > maxCol {
			maxCol = len(r)
		}
	}
	return maxRow, maxCol, nil
}

// ClearCellContents clears values (not styles) over an axis-aligned area.
func (w *Workbook) ClearCellContents(area address.Range) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clearLocked(area, false)
}

// ClearCellAll clears both values and styles over an axis-aligned area.
func (w *Workbook) ClearCellAll(area address.Range) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clearLocked(area, true)
}

func (w *Workbook) clearLocked(area address.Range, styles bool) error {
	sheet, err := w.sheetNameLocked(area.Start.Sheet)
	if err != nil {
		return err
	}
	for _, addr := range area.Flat() {
		cell := cellName(addr)
		if err := w.file.SetCellValue(sheet, cell, nil); err != nil {
			return apperr.Enginef(err, "cannot clear %s", cell)
		}
		if styles {
			if err := w.file.SetCellStyle(sheet, cell, cell, 0); err != nil {
				return apperr.Enginef(err, "cannot clear style of %s", cell)
			}
		}
	}
	w.dirty = true
	return nil
}

// GetColSize returns a column's width in display cells. Columns not
// resized through SetColSize since the workbook was opened report
// config.DefaultColumnWidth; widths stored in a loaded file are not read.
func (w *Workbook) GetColSize(col int) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sheet, err := w.sheetNameLocked(w.activeSheet)
	if err != nil {
		return 0, err
	}
	if sizes, ok := w.colSizes[sheet]; ok {
		if n, ok := sizes[col]; ok {
			return n, nil
		}
	}
	return config.DefaultColumnWidth, nil
}

// SetColSize sets a column's width in display cells; the underlying
// engine is kept in sync at a fixed ratio of config.PixelsPerDisplayCell
// engine-units per display cell.
func (w *Workbook) SetColSize(col, n int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n <= 0 {
		return apperr.Userf("column width must be positive")
	}
	sheet, err := w.sheetNameLocked(w.activeSheet)
	if err != nil {
		return err
	}
	colName := address.ColumnLabel(col)
	pixels := float64(n) * config.PixelsPerDisplayCell
	if err := w.file.SetColWidth(sheet, colName, colName, pixels); err != nil {
		return apperr.Enginef(err, "cannot resize column %s", colName)
	}
	if w.colSizes[sheet] == nil {
		w.colSizes[sheet] = make(map[int]int)
	}
	w.colSizes[sheet][col] = n
	w.dirty = true
	return nil
}

// NewSheet creates a new sheet, optionally named; an empty name gets the
// default "SheetN", N being the new sheet count. It becomes the active
// sheet, with the cursor at its A1.
func (w *Workbook) NewSheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if name == "" {
		name = fmt.Sprintf("Sheet%d", len(w.sheetNames)+1)
	}
	for _, existing := range w.sheetNames {
		if strings.EqualFold(existing, name) {
			return apperr.Userf("sheet %q already exists", name)
		}
	}
	if _, err := w.file.NewSheet(name); err != nil {
		return apperr.Enginef(err, "cannot create sheet %q", name)
	}
	w.sheetNames = w.file.GetSheetList()
	w.activeSheet = w.indexOfLocked(name)
	w.cursor = address.New(w.activeSheet, 1, 1)
	w.dirty = true
	return nil
}

// RenameSheet renames the sheet at index to name.
func (w *Workbook) RenameSheet(index int, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	old, err := w.sheetNameLocked(index)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetName(old, name); err != nil {
		return apperr.Enginef(err, "cannot rename sheet %q", old)
	}
	w.sheetNames = w.file.GetSheetList()
	w.dirty = true
	return nil
}

// SelectSheetByName makes the named sheet active.
func (w *Workbook) SelectSheetByName(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	idx := w.indexOfLocked(name)
	if idx < 0 {
		return apperr.Userf("no such sheet: %q", name)
	}
	w.activeSheet = idx
	w.cursor = address.New(idx, 1, 1)
	return nil
}

// SelectNextSheet makes the sheet after the active one active, wrapping
// around past the last sheet.
func (w *Workbook) SelectNextSheet() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activeSheet = (w.activeSheet + 1) % len(w.sheetNames)
	w.cursor = address.New(w.activeSheet, 1, 1)
}

// SelectPrevSheet makes the sheet before the active one active, wrapping
// around past the first sheet.
func (w *Workbook) SelectPrevSheet() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activeSheet = (w.activeSheet - 1 + len(w.sheetNames)) % len(w.sheetNames)
	w.cursor = address.New(w.activeSheet, 1, 1)
}

// GetSheetNames returns the workbook's sheet names in index order.
func (w *Workbook) GetSheetNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.sheetNames))
	copy(out, w.sheetNames)
	return out
}

// GetSheetNameByIdx returns the name of the sheet at index.
func (w *Workbook) GetSheetNameByIdx(index int) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sheetNameLocked(index)
}

// ActiveSheet returns the index of the currently selected sheet.
func (w *Workbook) ActiveSheet() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeSheet
}

func (w *Workbook) indexOfLocked(name string) int {
	for i, n := range w.sheetNames {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// ExtendTo fills the inclusive series of cells after "from" up through
// "to" with from's contents: formulas are shifted by the per-cell row/
// column delta, literal values are copied verbatim. It calls Evaluate
// afterwards.
func (w *Workbook) ExtendTo(from, to address.Address) error {
	w.mu.Lock()
	source, err := w.contentsAtLocked(from)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	rng := address.NewRange(from, to)
	for _, addr := range rng.Flat() {
		if addr.Equal(from) {
			continue
		}
		text := source
		if strings.HasPrefix(source, "=") {
			text = "=" + shiftFormula(source[1:], addr.Row-from.Row, addr.Col-from.Col)
		}
		if err := w.updateLocked(addr, text); err != nil {
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()
	return w.Evaluate()
}

