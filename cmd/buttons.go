package cmd

import (
	"fmt"
	"strings"

	"github.com/marcus/darktalk/pkg/dialog"
)

// buttonsValue is a repeatable --button key=label flag. Order is kept.
type buttonsValue struct {
	buttons *[]dialog.Button
}

func newButtonsValue(p *[]dialog.Button) *buttonsValue {
	return &buttonsValue{buttons: p}
}

func (v *buttonsValue) String() string {
	if v.buttons == nil {
		return ""
	}
	parts := make([]string, 0, len(*v.buttons))
	for _, b := range *v.buttons {
		parts = append(parts, b.Key+"="+b.Label)
	}
	return strings.Join(parts, ",")
}

// Set parses "key=label". A bare "key" uses the key as its label.
func (v *buttonsValue) Set(s string) error {
	key, label, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("invalid button %q: want key=label", s)
	}
	if !found {
		label = key
	}
	*v.buttons = append(*v.buttons, dialog.Button{Key: key, Label: label})
	return nil
}

func (v *buttonsValue) Type() string {
	return "key=label"
}
