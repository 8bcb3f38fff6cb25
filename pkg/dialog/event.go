package dialog

import "strings"

// Key is a key that has meaning to a dialog. Everything else is KeyOther.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeyEscape
	KeyTab
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
)

var keyNames = map[Key]string{
	KeyOther:  "other",
	KeyEnter:  "enter",
	KeyEscape: "escape",
	KeyTab:    "tab",
	KeyLeft:   "left",
	KeyUp:     "up",
	KeyRight:  "right",
	KeyDown:   "down",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "other"
}

// ParseKey maps a key name ("enter", "esc", "tab", "left", ...) to a Key.
func ParseKey(name string) Key {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "enter", "return":
		return KeyEnter
	case "esc", "escape":
		return KeyEscape
	case "tab":
		return KeyTab
	case "left":
		return KeyLeft
	case "up":
		return KeyUp
	case "right":
		return KeyRight
	case "down":
		return KeyDown
	default:
		return KeyOther
	}
}

func (k Key) isArrow() bool {
	return k == KeyLeft || k == KeyUp || k == KeyRight || k == KeyDown
}

// KeyEvent is a keydown delivered to an open dialog.
type KeyEvent struct {
	Key   Key
	Shift bool
}

// EventResult tells the host what to do with the event after the dialog
// handled it.
type EventResult struct {
	PreventDefault  bool
	StopPropagation bool
}
