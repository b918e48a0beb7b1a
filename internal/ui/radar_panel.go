package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderRadarPanel wraps the presented radar frame with a styled border.
func RenderRadarPanel(width, height int, frame string) string {
	content := frame + "\n" + RenderLegend(width-4)
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int) string {
	legend := StyleLegendSweep.Render("- sweep") +
		"  " +
		StyleLegendContact.Render("@ contact")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
