package dialog

import "github.com/microcosm-cc/bluemonday"

// Sanitizer turns untrusted text into markup that is safe to mount.
// Implementations must be pure and total.
type Sanitizer interface {
	Sanitize(s string) string
}

// SanitizerFunc adapts a plain function to the Sanitizer interface.
type SanitizerFunc func(string) string

func (f SanitizerFunc) Sanitize(s string) string {
	return f(s)
}

// NewHTMLSanitizer returns the default sanitizer: bluemonday's user
// generated content policy, extended with the handful of elements the
// dialog markup itself is built from (buttons, inputs, progress bars) and
// the data-name attributes used as control identifiers.
func NewHTMLSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("button", "input", "progress", "span", "br")
	p.AllowAttrs("type", "value").OnElements("input")
	p.AllowAttrs("value", "max").OnElements("progress")
	p.AllowAttrs("class").Globally()
	p.AllowDataAttributes()
	return p
}
