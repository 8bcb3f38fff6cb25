package dialog

// Control identifies a focusable or clickable element inside a dialog.
// Buttons use their sanitized, lower-cased key.
type Control string

const (
	ControlNone   Control = ""
	ControlOK     Control = "ok"
	ControlCancel Control = "cancel"
	ControlInput  Control = "input"
)

// ringOrder is the lookup order used to build every focus ring.
var ringOrder = []Control{ControlOK, ControlCancel, ControlInput}

func (c Control) isButton() bool {
	return c == ControlOK || c == ControlCancel
}

// FocusRing is the ordered set of controls Tab and the arrow keys move
// between. It is built once when the dialog is created.
type FocusRing struct {
	controls []Control
}

func newFocusRing(present func(Control) bool) FocusRing {
	var r FocusRing
	for _, c := range ringOrder {
		if present(c) {
			r.controls = append(r.controls, c)
		}
	}
	return r
}

// Controls returns a copy of the ring in traversal order.
func (r FocusRing) Controls() []Control {
	out := make([]Control, len(r.controls))
	copy(out, r.controls)
	return out
}

// Len returns the number of controls in the ring.
func (r FocusRing) Len() int {
	return len(r.controls)
}

// Contains reports whether c is part of the ring.
func (r FocusRing) Contains(c Control) bool {
	return r.index(c) >= 0
}

func (r FocusRing) index(c Control) int {
	for i, rc := range r.controls {
		if rc == c {
			return i
		}
	}
	return -1
}

// Next returns the control after current, wrapping from the last entry to
// the first. A current control outside the ring moves to the first entry.
func (r FocusRing) Next(current Control) Control {
	if len(r.controls) == 0 {
		return current
	}
	i := r.index(current)
	if i == len(r.controls)-1 {
		return r.controls[0]
	}
	return r.controls[i+1]
}

// Toggle switches between the OK and Cancel buttons. It leaves focus alone
// when current is not one of them or when the ring holds a single button.
func (r FocusRing) Toggle(current Control) Control {
	if !current.isButton() {
		return current
	}
	buttons := 0
	for _, c := range r.controls {
		if c.isButton() {
			buttons++
		}
	}
	if buttons < 2 {
		return current
	}
	if current == ControlCancel {
		return ControlOK
	}
	return ControlCancel
}
