package dialog

import (
	"fmt"
	"strings"
)

const pageTemplate = `<main class="page">` +
	`<header>%s</header>` +
	`<div class="content-area">%s%s</div>` +
	`<div class="action-area"><div class="button-strip">%s</div></div>` +
	`</main>`

// controlID derives the stable identifier of a button from its key.
func controlID(s Sanitizer, key string) Control {
	return Control(strings.ToLower(s.Sanitize(key)))
}

// renderPage builds the inner markup of a dialog. Every caller supplied
// string goes through the sanitizer; newlines in the message become line
// breaks only after sanitizing so they cannot smuggle markup.
func renderPage(s Sanitizer, title, message, extra string, buttons []Button) string {
	msg := strings.ReplaceAll(s.Sanitize(message), "\n", "<br>")
	return fmt.Sprintf(pageTemplate,
		s.Sanitize(title),
		msg,
		s.Sanitize(extra),
		s.Sanitize(renderButtons(s, buttons)),
	)
}

func renderButtons(s Sanitizer, buttons []Button) string {
	var sb strings.Builder
	for _, b := range buttons {
		fmt.Fprintf(&sb, `<button data-name="js-%s">%s</button>`, controlID(s, b.Key), s.Sanitize(b.Label))
	}
	return sb.String()
}

func inputFragment(t InputType, value string) string {
	v := strings.ReplaceAll(value, `"`, "&quot;")
	return fmt.Sprintf(`<input type="%s" value="%s" data-name="js-input">`, t, v)
}

func progressFragment(percent int) string {
	return fmt.Sprintf(`<progress value="%d" data-name="js-progress" class="progress" max="100"></progress>`+
		`<span data-name="js-counter">%d%%</span>`, percent, percent)
}

// wrapRoot adds the root container carrying the stacking index.
func wrapRoot(z int, inner string) string {
	return fmt.Sprintf(`<div class="darktalk" style="z-index: %d">%s</div>`, z, inner)
}
