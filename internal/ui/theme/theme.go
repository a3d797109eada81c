package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface  = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext  = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title   = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(Subtext)
	Working = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Idle    = lipgloss.NewStyle().Foreground(Peach)
	Danger  = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Bar     = lipgloss.NewStyle().Foreground(Green)
)
