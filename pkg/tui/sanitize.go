package tui

import (
	"html"

	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer renders untrusted text safe for a terminal: all markup is
// removed and any escape sequences are stripped so titles and labels cannot
// move the cursor or change colors.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer returns a sanitizer built on bluemonday's strict policy.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *TextSanitizer) Sanitize(text string) string {
	return ansi.Strip(html.UnescapeString(s.policy.Sanitize(text)))
}
