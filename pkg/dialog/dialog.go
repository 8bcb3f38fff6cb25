package dialog

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// State is the lifecycle position of a dialog. Every state other than
// StateOpen is terminal.
type State int

const (
	StateOpen State = iota
	StateAccepted
	StateCancelled
	// StateSuppressed is a cancellation on a dialog created with
	// Cancelable=false: the dialog is gone but its handle never settles.
	StateSuppressed
	// StateRemoved is a detach through Remove, which never settles.
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateAccepted:
		return "accepted"
	case StateCancelled:
		return "cancelled"
	case StateSuppressed:
		return "suppressed"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ButtonControl is a button as mounted: its identifier and raw label.
// Hosts must sanitize the label for their own medium before display.
type ButtonControl struct {
	ID    Control
	Label string
}

// Input is the prompt input field. The selection is expressed in runes.
type Input struct {
	Type           InputType
	Value          string
	SelectionStart int
	SelectionEnd   int
}

// Dialog is one mounted dialog. Its methods are not safe for concurrent use:
// hosts call them from their single event loop.
type Dialog struct {
	id         string
	kind       Kind
	title      string
	message    string
	buttonSpec []Button
	buttons    []ButtonControl
	input      *Input
	percent    int
	zIndex     int
	cancelable bool

	sanitizer Sanitizer
	ring      FocusRing
	focus     Control
	state     State
	handle    *Handle
	host      Host
	closed    chan struct{}
	log       *slog.Logger
}

// ID returns the dialog's unique identifier.
func (d *Dialog) ID() string { return d.id }

// Kind returns the dialog variant.
func (d *Dialog) Kind() Kind { return d.kind }

// Title returns the raw title.
func (d *Dialog) Title() string { return d.title }

// Message returns the raw message.
func (d *Dialog) Message() string { return d.message }

// ZIndex returns the stacking index assigned at creation.
func (d *Dialog) ZIndex() int { return d.zIndex }

// Cancelable reports whether cancelling rejects the handle.
func (d *Dialog) Cancelable() bool { return d.cancelable }

// Handle returns the dialog's outcome.
func (d *Dialog) Handle() *Handle { return d.handle }

// State returns the lifecycle state.
func (d *Dialog) State() State { return d.state }

// Focused returns the control that currently has focus.
func (d *Dialog) Focused() Control { return d.focus }

// FocusRing returns the ring Tab cycles through.
func (d *Dialog) FocusRing() FocusRing { return d.ring }

// Closed is closed when the dialog is detached from its host, whatever the
// reason. Unlike Handle().Done() it also fires for suppressed cancellation.
func (d *Dialog) Closed() <-chan struct{} { return d.closed }

// Buttons returns the button strip in display order.
func (d *Dialog) Buttons() []ButtonControl {
	out := make([]ButtonControl, len(d.buttons))
	copy(out, d.buttons)
	return out
}

// Input returns the input field, if the dialog has one.
func (d *Dialog) Input() (Input, bool) {
	if d.input == nil {
		return Input{}, false
	}
	return *d.input, true
}

// Percent returns the progress of a progress dialog.
func (d *Dialog) Percent() (int, bool) {
	if d.kind != KindProgress {
		return 0, false
	}
	return d.percent, true
}

// AsProgress exposes the progress operations of a progress dialog.
func (d *Dialog) AsProgress() (*Progress, bool) {
	if d.kind != KindProgress {
		return nil, false
	}
	return &Progress{Dialog: d}, true
}

// Markup returns the dialog's sanitized inner markup, reflecting the
// current input value and progress.
func (d *Dialog) Markup() string {
	return renderPage(d.sanitizer, d.title, d.message, d.fragment(), d.buttonSpec)
}

// HTML returns Markup wrapped in the root container.
func (d *Dialog) HTML() string {
	return wrapRoot(d.zIndex, d.Markup())
}

func (d *Dialog) fragment() string {
	switch {
	case d.input != nil:
		return inputFragment(d.input.Type, d.input.Value)
	case d.kind == KindProgress:
		return progressFragment(d.percent)
	default:
		return ""
	}
}

func (d *Dialog) hasButton(c Control) bool {
	if c == ControlNone {
		return false
	}
	for _, b := range d.buttons {
		if b.ID == c {
			return true
		}
	}
	return false
}

func (d *Dialog) hasControl(c Control) bool {
	if c == ControlInput {
		return d.input != nil
	}
	return d.hasButton(c)
}

// defaultFocus is the input field when present, otherwise the OK button.
func (d *Dialog) defaultFocus() Control {
	if d.input != nil {
		return ControlInput
	}
	if d.hasButton(ControlOK) {
		return ControlOK
	}
	return ControlNone
}

func (d *Dialog) refocus() {
	if c := d.defaultFocus(); c != ControlNone {
		d.focus = c
	}
}

// Focus moves focus to c. It reports false if the dialog has no such
// control or is closed.
func (d *Dialog) Focus(c Control) bool {
	if d.state != StateOpen || !d.hasControl(c) {
		return false
	}
	d.focus = c
	return true
}

// SetInputValue replaces the input field's text, as typing does, and puts
// the caret at the end.
func (d *Dialog) SetInputValue(v string) {
	if d.state != StateOpen || d.input == nil {
		return
	}
	n := utf8.RuneCountInString(v)
	d.input.Value = v
	d.input.SelectionStart = n
	d.input.SelectionEnd = n
}

// HandleKey applies a keydown. Every keydown stops propagation, whether or
// not the dialog reacts to it.
func (d *Dialog) HandleKey(ev KeyEvent) EventResult {
	res := EventResult{StopPropagation: true}
	if d.state != StateOpen {
		return res
	}

	switch {
	case ev.Key == KeyEnter:
		d.activate(d.focus)
		res.PreventDefault = true
	case ev.Key == KeyEscape:
		d.cancel()
	case ev.Key == KeyTab:
		// Shift+Tab moves forward as well.
		d.focus = d.ring.Next(d.focus)
		res.PreventDefault = true
	case ev.Key.isArrow():
		d.focus = d.ring.Toggle(d.focus)
	}
	return res
}

// Click handles a primary click on target, or on the dialog body when
// target is ControlNone. Clicking a button activates it; afterwards focus
// returns to the input or OK button.
func (d *Dialog) Click(target Control) EventResult {
	if d.state == StateOpen {
		if d.hasButton(target) {
			d.activate(target)
		}
		if d.state == StateOpen {
			d.refocus()
		}
	}
	return EventResult{StopPropagation: true}
}

// ContextMenu handles a secondary click anywhere inside the dialog.
func (d *Dialog) ContextMenu() EventResult {
	if d.state == StateOpen {
		d.refocus()
	}
	return EventResult{StopPropagation: true}
}

// Remove detaches the dialog without settling its handle.
func (d *Dialog) Remove() {
	d.finish(StateRemoved)
}

func isCancelControl(c Control) bool {
	s := string(c)
	return strings.Contains(s, "cancel") || strings.Contains(s, "close")
}

func (d *Dialog) activate(c Control) {
	if c == ControlNone {
		return
	}
	if isCancelControl(c) {
		d.cancel()
		return
	}
	d.accept()
}

func (d *Dialog) accept() {
	if d.state != StateOpen {
		return
	}
	var res Result
	if d.input != nil {
		res = Result{Value: d.input.Value, HasValue: true}
	}
	d.finish(StateAccepted)
	d.handle.resolve(res)
}

func (d *Dialog) cancel() {
	if d.state != StateOpen {
		return
	}
	if !d.cancelable {
		d.finish(StateSuppressed)
		return
	}
	d.finish(StateCancelled)
	d.handle.reject(ErrCancelled)
}

// finish performs the single terminal transition and detaches from the host.
func (d *Dialog) finish(final State) {
	if d.state != StateOpen {
		return
	}
	d.state = final
	if d.host != nil {
		d.host.Detach(d)
	}
	close(d.closed)
	d.log.Debug("dialog closed", "id", d.id, "kind", d.kind, "state", final)
}
