package keyevent

import "github.com/gdamore/tcell/v2"

// FromTcell maps a *tcell.EventKey onto the engine-agnostic Key type.
func FromTcell(ev *tcell.EventKey) Key {
	mods := ev.Modifiers()
	k := Key{
		Ctrl:  mods&tcell.ModCtrl != 0,
		Alt:   mods&tcell.ModAlt != 0,
		Shift: mods&tcell.ModShift != 0,
	}

	switch ev.Key() {
	case tcell.KeyRune:
		k.Rune = ev.Rune()
		return k
	case tcell.KeyEnter:
		k.Special = Enter
	case tcell.KeyEscape:
		k.Special = Esc
	case tcell.KeyTab:
		k.Special = Tab
	case tcell.KeyBacktab:
		k.Special = Backtab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		k.Special = Backspace
	case tcell.KeyUp:
		k.Special = Up
	case tcell.KeyDown:
		k.Special = Down
	case tcell.KeyLeft:
		k.Special = Left
	case tcell.KeyRight:
		k.Special = Right
	default:
		// Ctrl-letter combinations arrive as control codes (e.g.
		// Ctrl-S is tcell.KeyCtrlS == 19); recover the letter and mark
		// Ctrl explicitly so the dispatcher's key tables only need to
		// match on rune + modifier.
		if r := ctrlRune(ev.Key()); r != 0 {
			k.Rune = r
			k.Ctrl = true
			return k
		}
	}
	return k
}

// ctrlRune recovers the base letter for tcell's named Ctrl-<letter> key
// constants (tcell.KeyCtrlA .. tcell.KeyCtrlZ), which are contiguous.
func ctrlRune(key tcell.Key) rune {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return rune('a' + (key - tcell.KeyCtrlA))
	}
	return 0
}
