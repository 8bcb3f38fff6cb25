// Package tui hosts dialogs in a terminal using Bubble Tea.
//
// Model implements dialog.Host: dialogs created by a dialog.Manager that
// mounts into the Model are drawn centered on screen, topmost stacking index
// first, and receive keyboard and mouse input from the Bubble Tea event
// loop. All dialog state transitions therefore happen on that loop.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/darktalk/pkg/dialog"
	"github.com/marcus/darktalk/pkg/tui/mouse"
)

const (
	defaultContentWidth = 50
	maxLabelWidth       = 20
	buttonGap           = 2
)

// entry is a mounted dialog plus the widgets that render it.
type entry struct {
	d        *dialog.Dialog
	hasInput bool
	input    textinput.Model
	bar      progress.Model
}

// Model is a Bubble Tea model that hosts a stack of dialogs.
type Model struct {
	width, height int
	contentWidth  int
	keepOpen      bool

	entries []*entry
	mouse   *mouse.Handler
	text    dialog.Sanitizer
	log     *slog.Logger
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithContentWidth sets the inner width of every dialog box.
func WithContentWidth(w int) ModelOption {
	return func(m *Model) {
		if w >= 20 {
			m.contentWidth = w
		}
	}
}

// WithLogger sets the logger used for host events.
func WithLogger(l *slog.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// KeepOpen keeps the program running after the last dialog closes.
func KeepOpen() ModelOption {
	return func(m *Model) {
		m.keepOpen = true
	}
}

// NewModel returns an empty host.
func NewModel(opts ...ModelOption) *Model {
	m := &Model{
		contentWidth: defaultContentWidth,
		mouse:        mouse.NewHandler(),
		text:         NewTextSanitizer(),
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount implements dialog.Host.
func (m *Model) Mount(d *dialog.Dialog) {
	e := &entry{d: d}
	if in, ok := d.Input(); ok {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = m.contentWidth - 3
		if in.Type == dialog.InputPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(in.Value)
		ti.CursorEnd()
		e.input = ti
		e.hasInput = true
	}
	if _, ok := d.Percent(); ok {
		e.bar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
		e.bar.Width = m.contentWidth - 6
	}

	m.entries = append(m.entries, e)
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].d.ZIndex() < m.entries[j].d.ZIndex()
	})
	m.syncFocus(e)
	m.log.Debug("tui: mount", "id", d.ID(), "z", d.ZIndex())
}

// Detach implements dialog.Host.
func (m *Model) Detach(d *dialog.Dialog) {
	for i, e := range m.entries {
		if e.d == d {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			m.log.Debug("tui: detach", "id", d.ID(), "state", d.State())
			return
		}
	}
}

// Dialogs returns the mounted dialogs, lowest stacking index first.
func (m *Model) Dialogs() []*dialog.Dialog {
	out := make([]*dialog.Dialog, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.d
	}
	return out
}

func (m *Model) top() *entry {
	if len(m.entries) == 0 {
		return nil
	}
	return m.entries[len(m.entries)-1]
}

func (m *Model) find(id string) *entry {
	for _, e := range m.entries {
		if e.d.ID() == id {
			return e
		}
	}
	return nil
}

// progressMsg and removeMsg carry progress operations from other
// goroutines onto the event loop.
type progressMsg struct {
	id      string
	percent int
}

type removeMsg struct {
	id string
}

func (m *Model) Init() tea.Cmd {
	if len(m.entries) == 0 && !m.keepOpen {
		return tea.Quit
	}
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case progressMsg:
		if e := m.find(msg.id); e != nil {
			if p, ok := e.d.AsProgress(); ok {
				p.SetProgress(msg.percent)
			}
		}

	case removeMsg:
		if e := m.find(msg.id); e != nil {
			e.d.Remove()
		}

	default:
		// cursor blink and friends
		if e := m.top(); e != nil && e.hasInput {
			e.input, cmd = e.input.Update(msg)
		}
	}

	if len(m.entries) == 0 && !m.keepOpen {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	e := m.top()
	if e == nil {
		if msg.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		return nil
	}

	ev := keyEvent(msg)
	if msg.Type == tea.KeyCtrlC {
		ev = dialog.KeyEvent{Key: dialog.KeyEscape}
	}

	d := e.d
	onInput := d.Focused() == dialog.ControlInput
	d.HandleKey(ev)
	if d.State() != dialog.StateOpen {
		return nil
	}

	var cmd tea.Cmd
	if onInput && e.hasInput && d.Focused() == dialog.ControlInput && forwardToInput(ev) {
		e.input, cmd = e.input.Update(msg)
		d.SetInputValue(e.input.Value())
	}
	return tea.Batch(cmd, m.syncFocus(e))
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	a := m.mouse.HandleMouse(msg)
	e := m.top()
	if e == nil || a.Region == nil {
		return nil
	}
	target, ok := a.Region.Data.(dialog.Control)
	if !ok {
		return nil
	}

	switch a.Type {
	case mouse.ActionClick:
		e.d.Click(target)
	case mouse.ActionRightClick:
		e.d.ContextMenu()
	default:
		return nil
	}
	if e.d.State() != dialog.StateOpen {
		return nil
	}
	return m.syncFocus(e)
}

// syncFocus mirrors the dialog's focus onto the text input widget.
func (m *Model) syncFocus(e *entry) tea.Cmd {
	if !e.hasInput {
		return nil
	}
	if e.d.Focused() == dialog.ControlInput {
		if !e.input.Focused() {
			return e.input.Focus()
		}
		return nil
	}
	e.input.Blur()
	return nil
}

func (m *Model) View() string {
	m.mouse.Clear()
	e := m.top()
	if e == nil {
		return ""
	}

	box, hits := m.renderDialog(e)
	boxW, boxH := lipgloss.Width(box), lipgloss.Height(box)
	w, h := max(m.width, boxW), max(m.height, boxH)
	// lipgloss.Place puts the odd remainder on the right and bottom.
	x, y := (w-boxW)/2, (h-boxH)/2

	m.mouse.HitMap.AddRect("body", x, y, boxW, boxH, dialog.ControlNone)
	for _, hit := range hits {
		r := hit.rect
		m.mouse.HitMap.AddRect(hit.id, x+r.X, y+r.Y, r.W, r.H, hit.ctl)
	}

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

type hit struct {
	id   string
	ctl  dialog.Control
	rect mouse.Rect
}

// renderDialog draws one dialog box and returns the clickable regions
// relative to the box's top-left corner.
func (m *Model) renderDialog(e *entry) (string, []hit) {
	d := e.d
	cw := m.contentWidth
	originX, originY := boxBorder+boxPadX, boxBorder+boxPadY

	var rows []string
	var hits []hit
	nextLine := func() int {
		return lipgloss.Height(strings.Join(rows, "\n"))
	}

	rows = append(rows,
		Title.Render(ansi.Truncate(m.text.Sanitize(d.Title()), cw, "…")),
		"",
		Body.Width(cw).Render(m.text.Sanitize(d.Message())),
	)

	if e.hasInput {
		rows = append(rows, "")
		style := InputBox
		if d.Focused() == dialog.ControlInput {
			style = InputBoxFocused
		}
		field := style.Width(cw - 2).Render(e.input.View())
		hits = append(hits, hit{
			id:   "input",
			ctl:  dialog.ControlInput,
			rect: mouse.Rect{X: originX, Y: originY + nextLine(), W: lipgloss.Width(field), H: lipgloss.Height(field)},
		})
		rows = append(rows, field)
	}

	if pct, ok := d.Percent(); ok {
		frac := float64(min(max(pct, 0), 100)) / 100
		rows = append(rows, "", e.bar.ViewAs(frac)+" "+MutedText.Render(fmt.Sprintf("%d%%", pct)))
	}

	rows = append(rows, "")
	buttonY := originY + nextLine()
	var rendered []string
	x := originX
	for i, b := range d.Buttons() {
		id := "btn:" + string(b.ID)
		label := ansi.Truncate(m.text.Sanitize(b.Label), maxLabelWidth, "…")
		danger := strings.Contains(string(b.ID), "cancel") || strings.Contains(string(b.ID), "close")
		r := buttonStyle(d.Focused() == b.ID, m.mouse.Hover() == id, danger).Render(label)
		if i > 0 {
			rendered = append(rendered, strings.Repeat(" ", buttonGap))
			x += buttonGap
		}
		hits = append(hits, hit{id: id, ctl: b.ID, rect: mouse.Rect{X: x, Y: buttonY, W: lipgloss.Width(r), H: 1}})
		rendered = append(rendered, r)
		x += lipgloss.Width(r)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))

	hint := "tab next · enter select · esc cancel"
	if n := len(m.entries) - 1; n > 0 {
		hint += fmt.Sprintf(" · %d more behind", n)
	}
	rows = append(rows, "", MutedText.Render(hint))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return boxStyle(d.Kind()).Render(content), hits
}
