package lint

import "github.com/charmbracelet/lipgloss"

const (
	colorGreen      = "#10B981"
	colorYellow     = "#F59E0B"
	colorRed        = "#EF4444"
	colorDetailGray = "#9CA3AF"
	colorPurple     = "#7C3AED"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPurple))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorGreen)).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorYellow)).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorRed)).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorDetailGray))
)
