package report

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	probStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Align(lipgloss.Right)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)
