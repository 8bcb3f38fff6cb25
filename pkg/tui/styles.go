package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/darktalk/pkg/dialog"
)

// Colors
var (
	Primary      = lipgloss.Color("212")
	Error        = lipgloss.Color("196")
	Warning      = lipgloss.Color("214")
	Info         = lipgloss.Color("45")
	Muted        = lipgloss.Color("241")
	BgSecondary  = lipgloss.Color("235")
	BorderNormal = lipgloss.Color("240")
)

// Button styles. Buttons that cancel use the danger variants when focused
// or hovered.
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	ButtonHover = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("245")).
			Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(Error).
				Bold(true).
				Padding(0, 2)

	ButtonDangerHover = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("203")).
				Padding(0, 2)
)

// Text styles
var (
	Title     = lipgloss.NewStyle().Bold(true)
	MutedText = lipgloss.NewStyle().Foreground(Muted)
	Body      = lipgloss.NewStyle()

	InputBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderNormal)

	InputBoxFocused = InputBox.BorderForeground(Primary)
)

// boxStyle is the dialog frame. The border color follows the dialog kind.
func boxStyle(kind dialog.Kind) lipgloss.Style {
	border := Primary
	switch kind {
	case dialog.KindAlert:
		border = Info
	case dialog.KindConfirm:
		border = Warning
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(BgSecondary).
		Padding(boxPadY, boxPadX)
}

const (
	boxPadY = 1
	boxPadX = 2
	// border width on each side
	boxBorder = 1
)

func buttonStyle(focused, hovered, danger bool) lipgloss.Style {
	switch {
	case focused && danger:
		return ButtonDangerFocused
	case focused:
		return ButtonFocused
	case hovered && danger:
		return ButtonDangerHover
	case hovered:
		return ButtonHover
	default:
		return Button
	}
}
