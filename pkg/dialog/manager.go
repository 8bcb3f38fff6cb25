package dialog

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultStackStart is the stacking index before the first dialog.
const DefaultStackStart = 100

// Host mounts dialogs and takes them down again. Detach is called exactly
// once per dialog, from whichever goroutine drove the terminal transition.
type Host interface {
	Mount(d *Dialog)
	Detach(d *Dialog)
}

// Stacker hands out stacking indexes. Each call returns a value greater
// than every previous one.
type Stacker interface {
	Next() int
}

// Counter is the default Stacker: a monotonic counter that is never
// decremented.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a counter whose first Next returns start+1.
func NewCounter(start int) *Counter {
	c := &Counter{}
	c.n.Store(int64(start))
	return c
}

// Next increments the counter and returns the new value.
func (c *Counter) Next() int {
	return int(c.n.Add(1))
}

// Current returns the last value handed out.
func (c *Counter) Current() int {
	return int(c.n.Load())
}

// Manager creates dialogs and mounts them into a host.
type Manager struct {
	host      Host
	sanitizer Sanitizer
	stack     Stacker
	labels    Labels
	log       *slog.Logger
	newID     func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithSanitizer replaces the default bluemonday sanitizer.
func WithSanitizer(s Sanitizer) Option {
	return func(m *Manager) {
		if s != nil {
			m.sanitizer = s
		}
	}
}

// WithStacker replaces the default counter starting at DefaultStackStart.
func WithStacker(s Stacker) Option {
	return func(m *Manager) {
		if s != nil {
			m.stack = s
		}
	}
}

// WithLabels sets the default button labels. Empty fields keep the stock
// labels.
func WithLabels(l Labels) Option {
	return func(m *Manager) {
		m.labels = l.withDefaults()
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// withIDs overrides identifier generation in tests.
func withIDs(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager returns a Manager mounting into host.
func NewManager(host Host, opts ...Option) *Manager {
	m := &Manager{
		host:      host,
		sanitizer: NewHTMLSanitizer(),
		stack:     NewCounter(DefaultStackStart),
		labels:    DefaultLabels(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sanitizer returns the sanitizer used for markup.
func (m *Manager) Sanitizer() Sanitizer {
	return m.sanitizer
}

// Alert shows a dialog with a single OK button.
func (m *Manager) Alert(title, message string, opts Options) *Dialog {
	return m.show(KindAlert, title, message, buttonsOr(opts, m.labels.ok()), nil, opts)
}

// Confirm shows a dialog with OK and Cancel buttons.
func (m *Manager) Confirm(title, message string, opts Options) *Dialog {
	return m.show(KindConfirm, title, message, buttonsOr(opts, m.labels.okCancel()), nil, opts)
}

// Prompt shows a dialog with an input field pre-filled with value. The
// handle resolves with the submitted text.
func (m *Manager) Prompt(title, message, value string, opts Options) *Dialog {
	n := utf8.RuneCountInString(value)
	in := &Input{
		Type:         opts.Type.normalize(),
		Value:        value,
		SelectionEnd: n,
	}
	return m.show(KindPrompt, title, message, buttonsOr(opts, m.labels.okCancel()), in, opts)
}

// Progress shows a progress dialog whose only control is an Abort button.
func (m *Manager) Progress(title, message string, opts Options) *Progress {
	d := m.show(KindProgress, title, message, m.labels.abort(), nil, opts)
	return &Progress{Dialog: d}
}

// Show dispatches a Request to the matching constructor.
func (m *Manager) Show(req Request) (*Dialog, error) {
	switch req.Kind {
	case KindAlert:
		return m.Alert(req.Title, req.Message, req.Options), nil
	case KindConfirm:
		return m.Confirm(req.Title, req.Message, req.Options), nil
	case KindPrompt:
		return m.Prompt(req.Title, req.Message, req.Value, req.Options), nil
	case KindProgress:
		return m.Progress(req.Title, req.Message, req.Options).Dialog, nil
	default:
		return nil, fmt.Errorf("show: unknown dialog kind %q", req.Kind)
	}
}

func (m *Manager) show(kind Kind, title, message string, buttons []Button, in *Input, opts Options) *Dialog {
	d := &Dialog{
		id:         m.newID(),
		kind:       kind,
		title:      title,
		message:    message,
		buttonSpec: buttons,
		input:      in,
		zIndex:     m.stack.Next(),
		cancelable: opts.cancelable(),
		sanitizer:  m.sanitizer,
		handle:     newHandle(),
		host:       m.host,
		closed:     make(chan struct{}),
		log:        m.log,
	}
	for _, b := range buttons {
		d.buttons = append(d.buttons, ButtonControl{ID: controlID(m.sanitizer, b.Key), Label: b.Label})
	}
	d.ring = newFocusRing(d.hasControl)

	d.focus = d.defaultFocus()
	if d.focus == ControlNone && len(d.buttons) > 0 {
		d.focus = d.buttons[0].ID
	}

	if m.host != nil {
		m.host.Mount(d)
	}
	m.log.Debug("dialog shown", "id", d.id, "kind", kind, "z", d.zIndex, "focus", d.focus)
	return d
}
