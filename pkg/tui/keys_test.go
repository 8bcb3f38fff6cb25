package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/darktalk/pkg/dialog"
)

func TestKeyEvent(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want dialog.KeyEvent
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, dialog.KeyEvent{Key: dialog.KeyEnter}},
		{tea.KeyMsg{Type: tea.KeyEsc}, dialog.KeyEvent{Key: dialog.KeyEscape}},
		{tea.KeyMsg{Type: tea.KeyTab}, dialog.KeyEvent{Key: dialog.KeyTab}},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, dialog.KeyEvent{Key: dialog.KeyTab, Shift: true}},
		{tea.KeyMsg{Type: tea.KeyLeft}, dialog.KeyEvent{Key: dialog.KeyLeft}},
		{tea.KeyMsg{Type: tea.KeyRight}, dialog.KeyEvent{Key: dialog.KeyRight}},
		{tea.KeyMsg{Type: tea.KeyUp}, dialog.KeyEvent{Key: dialog.KeyUp}},
		{tea.KeyMsg{Type: tea.KeyDown}, dialog.KeyEvent{Key: dialog.KeyDown}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, dialog.KeyEvent{Key: dialog.KeyOther}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, dialog.KeyEvent{Key: dialog.KeyOther}},
	}
	for _, tc := range cases {
		if got := keyEvent(tc.msg); got != tc.want {
			t.Errorf("keyEvent(%q) = %+v, want %+v", tc.msg.String(), got, tc.want)
		}
	}
}

func TestTextSanitizer(t *testing.T) {
	s := NewTextSanitizer()

	cases := map[string]string{
		"plain":                          "plain",
		"<b>bold</b>":                    "bold",
		"a &amp; b":                      "a & b",
		"\x1b[31mred\x1b[0m":             "red",
		"<script>evil()</script>visible": "visible",
		"line\nbreak":                    "line\nbreak",
	}
	for in, want := range cases {
		if got := s.Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
