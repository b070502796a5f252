package tui

import (
	"charm.land/lipgloss/v2"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	addrStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
)

// Panel border style
func outputBorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")) // gray
}
