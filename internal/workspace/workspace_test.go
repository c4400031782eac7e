package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sheetui/sheetui/config"
	"github.com/sheetui/sheetui/internal/address"
	"github.com/sheetui/sheetui/internal/keyevent"
	"github.com/sheetui/sheetui/internal/modal"
	"github.com/sheetui/sheetui/internal/workbook"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	wb := workbook.New(excelize.NewFile(), "", "en", "America/New_York", nil)
	return New(wb, Options{Locale: "en", Timezone: "America/New_York"})
}

func keyRune(r rune) keyevent.Key           { return keyevent.Key{Rune: r} }
func keySpecial(s keyevent.Special) keyevent.Key { return keyevent.Key{Special: s} }

func typeString(t *testing.T, ws *Workspace, s string) {
	t.Helper()
	for _, r := range s {
		_, err := ws.HandleInput(keyRune(r))
		require.NoError(t, err)
	}
}

func TestEditAndAcceptCell(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyRune('i'))
	require.NoError(t, err)
	require.Equal(t, modal.CellEdit, ws.state.Top())

	typeString(t, ws, "42")
	_, err = ws.HandleInput(keySpecial(keyevent.Enter))
	require.NoError(t, err)
	require.Equal(t, modal.Navigate, ws.state.Top())

	got, err := ws.wb.ContentsAt(ws.wb.Cursor())
	require.NoError(t, err)
	require.Equal(t, "42", got)
}

func TestCancelEditDiscardsBuffer(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyRune('i'))
	require.NoError(t, err)
	typeString(t, ws, "abc")
	_, err = ws.HandleInput(keySpecial(keyevent.Esc))
	require.NoError(t, err)
	require.Equal(t, modal.Navigate, ws.state.Top())

	got, err := ws.wb.ContentsAt(ws.wb.Cursor())
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestMoveClampsAtSheetEdge(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyRune('h'))
	require.NoError(t, err)
	require.Equal(t, 1, ws.wb.Cursor().Col)

	_, err = ws.HandleInput(keyRune('l'))
	require.NoError(t, err)
	require.Equal(t, 2, ws.wb.Cursor().Col)
}

func TestBadCommandShowsDialogOverNavigate(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyRune(':'))
	require.NoError(t, err)
	require.Equal(t, modal.Command, ws.state.Top())

	typeString(t, ws, "bogus-verb")
	_, err = ws.HandleInput(keySpecial(keyevent.Enter))
	require.NoError(t, err)

	require.Equal(t, []modal.Modality{modal.Navigate, modal.Dialog}, ws.state.ModalityStack)
	require.Contains(t, ws.state.Popup, "Unrecognized command")
}

func TestColorRowsCommandReachesFarColumn(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyRune(':'))
	require.NoError(t, err)
	typeString(t, ws, "color-rows red")
	_, err = ws.HandleInput(keySpecial(keyevent.Enter))
	require.NoError(t, err)
	require.Equal(t, modal.Navigate, ws.state.Top())

	style, err := ws.wb.CellStyleAt(ws.wb.Cursor())
	require.NoError(t, err)
	require.Equal(t, "#800000", style.BgColor)

	far, err := ws.wb.CellStyleAt(address.New(0, 1, config.LastColumn))
	require.NoError(t, err)
	require.Equal(t, "#800000", far.BgColor)
}

func TestYankThenPasteRoundTrips(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyRune('i'))
	require.NoError(t, err)
	typeString(t, ws, "hello")
	_, err = ws.HandleInput(keySpecial(keyevent.Enter))
	require.NoError(t, err)

	_, err = ws.HandleInput(keyRune('y'))
	require.NoError(t, err)

	_, err = ws.HandleInput(keyRune('l'))
	require.NoError(t, err)
	_, err = ws.HandleInput(keyRune('p'))
	require.NoError(t, err)

	got, err := ws.wb.ContentsAt(ws.wb.Cursor())
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

func TestHelpOpensDialogAndEscCloses(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyevent.Key{Rune: 'h', Alt: true})
	require.NoError(t, err)
	require.Equal(t, modal.Dialog, ws.state.Top())
	require.NotEmpty(t, ws.state.Popup)

	_, err = ws.HandleInput(keySpecial(keyevent.Esc))
	require.NoError(t, err)
	require.Equal(t, modal.Navigate, ws.state.Top())
}

func TestQuitPromptsWhenDirty(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.HandleInput(keyRune('i'))
	require.NoError(t, err)
	typeString(t, ws, "x")
	_, err = ws.HandleInput(keySpecial(keyevent.Enter))
	require.NoError(t, err)
	require.True(t, ws.wb.Dirty())

	_, err = ws.HandleInput(keyRune('q'))
	require.NoError(t, err)
	require.Equal(t, modal.Quit, ws.state.Top())

	_, err = ws.HandleInput(keyRune('n'))
	require.NoError(t, err)
	require.Equal(t, modal.Navigate, ws.state.Top())
}

func TestRenderToProducesGrid(t *testing.T) {
	ws := newTestWorkspace(t)
	frame, err := ws.RenderTo(80, 24)
	require.NoError(t, err)
	require.NotEmpty(t, frame.Grid.Rows)
	require.NotEmpty(t, frame.Grid.ColLabels)
	require.Equal(t, "A1", frame.StatusRef)
}
