package workspace

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/apperr"
	"github.com/sheetui/sheetui/internal/command"
	"github.com/sheetui/sheetui/internal/modal"
	"github.com/sheetui/sheetui/internal/workbook"
)

// acceptCommand parses and runs the buffered ex-command line, then
// unconditionally returns focus to Navigate: a failure shows a Dialog
// on top of Navigate, not on top of Command (spec §4.6.5).
func (ws *Workspace) acceptCommand() (*int, error) {
	raw := ws.state.CommandBuffer
	ws.state.CommandBuffer = ""
	if err := ws.state.Pop(); err != nil {
		return ws.fail(err)
	}

	cmd, perr := command.Parse(raw)
	if perr != nil {
		ws.pushDialog(perr.Error())
		return nil, nil
	}
	if cmd == nil {
		msg := "Unrecognized command"
		if suggestion := command.SuggestVerb(firstWord(raw)); suggestion != "" {
			msg += fmt.Sprintf("\nInvalid command: did you mean `%s`?", suggestion)
		}
		ws.pushDialog(msg)
		return nil, nil
	}
	return ws.runCommand(cmd)
}

func (ws *Workspace) runCommand(cmd *command.Command) (*int, error) {
	start := time.Now()
	code, err := ws.dispatchCommand(cmd)
	if ws.hooks != nil {
		ws.hooks.OnCommand(commandVerb(cmd.Kind), time.Since(start), err)
	}
	return code, err
}

func (ws *Workspace) dispatchCommand(cmd *command.Command) (*int, error) {
	switch cmd.Kind {
	case command.Write:
		var err error
		if cmd.HasPath {
			err = ws.wb.SaveAs(cmd.Path)
		} else {
			err = ws.wb.Save()
		}
		if ws.hooks != nil {
			ws.hooks.OnSave(ws.wb.Path(), err)
		}
		if err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.Export:
		if err := ws.exportCSV(cmd.Path); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.Edit:
		return ws.reopen(cmd.Path)

	case command.Help:
		ws.openHelp(cmd.Topic)
		return nil, nil

	case command.Quit:
		if ws.wb.Dirty() {
			ws.state.Push(modal.Quit)
			return nil, nil
		}
		return ws.exit(0)

	case command.NewSheet:
		if err := ws.wb.NewSheet(cmd.Name); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.SelectSheet:
		if err := ws.wb.SelectSheetByName(cmd.Name); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.RenameSheet:
		idx := ws.wb.ActiveSheet()
		if cmd.HasIndex {
			idx = cmd.Index
		}
		if err := ws.wb.RenameSheet(idx, cmd.Name); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.ColorRows:
		count := 1
		if cmd.HasCount {
			count = cmd.Count
		}
		cur := ws.wb.Cursor()
		attrs := []workbook.StyleAttr{{Path: "fill.bg_color", Value: cmd.Color}}
		if err := ws.wb.SetRowStyle(cur.Sheet, cur.Row, cur.Row+count-1, attrs); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.ColorColumns:
		count := 1
		if cmd.HasCount {
			count = cmd.Count
		}
		cur := ws.wb.Cursor()
		attrs := []workbook.StyleAttr{{Path: "fill.bg_color", Value: cmd.Color}}
		if err := ws.wb.SetColStyle(cur.Sheet, cur.Col, cur.Col+count-1, attrs); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.ColorCell:
		cur := ws.wb.Cursor()
		area := address.NewRange(cur, cur)
		if ws.state.RangeSel.HasStart {
			area = address.NewRange(ws.state.RangeSel.Start, ws.state.RangeSel.End)
		}
		attrs := []workbook.StyleAttr{{Path: "fill.bg_color", Value: cmd.Color}}
		if err := ws.wb.SetCellStyle(area, attrs); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.InsertRows:
		cur := ws.wb.Cursor()
		if err := ws.wb.InsertRows(cur.Row, cmd.Count); err != nil {
			return ws.fail(err)
		}
		return nil, nil

	case command.InsertCols:
		cur := ws.wb.Cursor()
		if err := ws.wb.InsertCols(cur.Col, cmd.Count); err != nil {
			return ws.fail(err)
		}
		return nil, nil
	}
	return nil, nil
}

// reopen replaces the open workbook wholesale, the ":edit <path>" verb.
// The path is re-validated by the same allow-list the initial load used.
func (ws *Workspace) reopen(path string) (*int, error) {
	wb, err := workbook.Load(path, ws.locale, ws.timezone, ws.validator)
	if err != nil {
		return ws.fail(err)
	}
	ws.wb = wb
	ws.state = modal.NewAppState()
	ws.dialogLinks = nil
	if ws.hooks != nil {
		ws.hooks.OnStartup(wb.Path())
	}
	return nil, nil
}

func (ws *Workspace) exportCSV(path string) error {
	rows, cols, err := ws.wb.GetSize()
	if err != nil {
		return err
	}
	cur := ws.wb.Cursor()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for row := 1; row <= rows; row++ {
		record := make([]string, 0, cols)
		for col := 1; col <= cols; col++ {
			addr := address.New(cur.Sheet, row, col)
			text, rerr := ws.wb.RenderedAt(addr)
			if rerr != nil {
				return rerr
			}
			record = append(record, text)
		}
		if werr := w.Write(record); werr != nil {
			return apperr.IOf(werr, "cannot write CSV row %d", row)
		}
	}
	w.Flush()
	if werr := w.Error(); werr != nil {
		return apperr.IOf(werr, "cannot flush CSV")
	}
	if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
		return apperr.IOf(mkErr, "cannot create directory for %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperr.IOf(err, "cannot write %s", path)
	}
	return nil
}

func commandVerb(kind command.Kind) string {
	switch kind {
	case command.Write:
		return "write"
	case command.InsertRows:
		return "insert-rows"
	case command.InsertCols:
		return "insert-cols"
	case command.Edit:
		return "edit"
	case command.Help:
		return "help"
	case command.Quit:
		return "quit"
	case command.NewSheet:
		return "new-sheet"
	case command.SelectSheet:
		return "select-sheet"
	case command.RenameSheet:
		return "rename-sheet"
	case command.ColorRows:
		return "color-rows"
	case command.ColorColumns:
		return "color-columns"
	case command.ColorCell:
		return "color-cell"
	case command.Export:
		return "export"
	}
	return "unknown"
}
