package dialog

import (
	"fmt"
	"strings"
)

// Kind identifies one of the dialog variants.
type Kind string

const (
	KindAlert    Kind = "alert"
	KindConfirm  Kind = "confirm"
	KindPrompt   Kind = "prompt"
	KindProgress Kind = "progress"
)

// ParseKind converts a user-supplied name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAlert, KindConfirm, KindPrompt, KindProgress:
		return k, nil
	default:
		return "", fmt.Errorf("unknown dialog kind %q", s)
	}
}

// Button is one entry of the button strip. Key becomes the control
// identifier after sanitizing and lower-casing; Label is the visible text.
type Button struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// InputType selects how a prompt's input field echoes text.
type InputType string

const (
	InputText     InputType = "text"
	InputPassword InputType = "password"
)

// normalize maps anything other than "password" to "text".
func (t InputType) normalize() InputType {
	if t == InputPassword {
		return InputPassword
	}
	return InputText
}

// Options tweak a single dialog.
type Options struct {
	// Buttons replaces the default button strip. Nil or empty keeps the
	// defaults. Ignored by progress dialogs.
	Buttons []Button
	// Cancelable defaults to true. When false, cancelling closes the dialog
	// without settling its handle.
	Cancelable *bool
	// Type applies to prompt dialogs only.
	Type InputType
}

func (o Options) cancelable() bool {
	return o.Cancelable == nil || *o.Cancelable
}

// Bool returns a pointer to b, for Options.Cancelable.
func Bool(b bool) *bool {
	return &b
}

// Request describes a dialog to show. It is not modified by the Manager.
type Request struct {
	Kind    Kind
	Title   string
	Message string
	Value   string
	Options Options
}

// Labels are the default button labels.
type Labels struct {
	OK     string
	Cancel string
	Abort  string
}

// DefaultLabels returns the stock English labels.
func DefaultLabels() Labels {
	return Labels{OK: "OK", Cancel: "Cancel", Abort: "Abort"}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.OK == "" {
		l.OK = d.OK
	}
	if l.Cancel == "" {
		l.Cancel = d.Cancel
	}
	if l.Abort == "" {
		l.Abort = d.Abort
	}
	return l
}

func (l Labels) ok() []Button {
	return []Button{{Key: "ok", Label: l.OK}}
}

func (l Labels) okCancel() []Button {
	return []Button{{Key: "ok", Label: l.OK}, {Key: "cancel", Label: l.Cancel}}
}

func (l Labels) abort() []Button {
	return []Button{{Key: "cancel", Label: l.Abort}}
}

func buttonsOr(opts Options, fallback []Button) []Button {
	if len(opts.Buttons) == 0 {
		return fallback
	}
	out := make([]Button, len(opts.Buttons))
	copy(out, opts.Buttons)
	return out
}
