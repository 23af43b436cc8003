package tui

import "github.com/charmbracelet/lipgloss"

// College palette
var (
	Green  = lipgloss.Color("#14532d")
	Gold   = lipgloss.Color("#d4af37")
	Red    = lipgloss.Color("#e53935")
	Muted  = lipgloss.Color("#8a8f98")
	Yellow = lipgloss.Color("#FFC107")
)

type Styles struct {
	Header   lipgloss.Style
	Step     lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Hint     lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Box      lipgloss.Style
	Spinner  lipgloss.Style
	Progress lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(Green).MarginBottom(1),
		Step:     lipgloss.NewStyle().Foreground(Gold).Bold(true),
		Label:    lipgloss.NewStyle().Foreground(Muted),
		Focused:  lipgloss.NewStyle().Foreground(Green).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(Red),
		Hint:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Success:  lipgloss.NewStyle().Foreground(Green).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(Yellow).Bold(true),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Green).Padding(1, 2),
		Spinner:  lipgloss.NewStyle().Foreground(Gold),
		Progress: lipgloss.NewStyle().Foreground(Green),
	}
}
