package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/darktalk/pkg/dialog"
)

// Program runs a Model and lets other goroutines drive progress dialogs.
type Program struct {
	model *Model
	prog  *tea.Program
}

// NewProgram wraps m in a Bubble Tea program with mouse support. The
// program stops when ctx is cancelled.
func NewProgram(ctx context.Context, m *Model, opts ...tea.ProgramOption) *Program {
	base := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	}
	return &Program{model: m, prog: tea.NewProgram(m, append(base, opts...)...)}
}

// Run blocks until every dialog has closed (unless the model keeps the
// program open) or the context ends.
func (p *Program) Run() error {
	_, err := p.prog.Run()
	return err
}

// SetProgress forwards a progress update to the event loop.
func (p *Program) SetProgress(d *dialog.Dialog, percent int) {
	p.prog.Send(progressMsg{id: d.ID(), percent: percent})
}

// Remove detaches d from the event loop without settling it.
func (p *Program) Remove(d *dialog.Dialog) {
	p.prog.Send(removeMsg{id: d.ID()})
}
