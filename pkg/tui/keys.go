package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/darktalk/pkg/dialog"
)

// keyEvent translates a Bubble Tea key into the dialog's key vocabulary.
func keyEvent(msg tea.KeyMsg) dialog.KeyEvent {
	switch msg.Type {
	case tea.KeyEnter:
		return dialog.KeyEvent{Key: dialog.KeyEnter}
	case tea.KeyEsc:
		return dialog.KeyEvent{Key: dialog.KeyEscape}
	case tea.KeyTab:
		return dialog.KeyEvent{Key: dialog.KeyTab}
	case tea.KeyShiftTab:
		return dialog.KeyEvent{Key: dialog.KeyTab, Shift: true}
	case tea.KeyLeft:
		return dialog.KeyEvent{Key: dialog.KeyLeft}
	case tea.KeyRight:
		return dialog.KeyEvent{Key: dialog.KeyRight}
	case tea.KeyUp:
		return dialog.KeyEvent{Key: dialog.KeyUp}
	case tea.KeyDown:
		return dialog.KeyEvent{Key: dialog.KeyDown}
	default:
		return dialog.KeyEvent{Key: dialog.KeyOther}
	}
}

// forwardToInput reports whether a key that reached a focused input field
// should also edit it. Enter, Esc and Tab belong to the dialog; arrows only
// move the caret.
func forwardToInput(ev dialog.KeyEvent) bool {
	switch ev.Key {
	case dialog.KeyEnter, dialog.KeyEscape, dialog.KeyTab:
		return false
	default:
		return true
	}
}
