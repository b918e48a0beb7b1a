package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/scan"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, backend string, state scan.State) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	left := StyleMenuKey.Render(title) + menu
	right := renderState(state) + "  " + StyleMenuLabel.Render("Head: "+backend) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderState(state scan.State) string {
	if state == scan.Running {
		return StyleStateRunning.Render(state.String())
	}
	return StyleStateStopping.Render(state.String())
}
