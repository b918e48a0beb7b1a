package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the radar panel and contact panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, radarPanel, contactPanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, contactPanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
