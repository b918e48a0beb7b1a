package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, t Telemetry) string {
	status := StyleStateRunning.Render("[" + t.State.String() + "]")

	rep := t.Report
	info := fmt.Sprintf(" Tick: %d  Sweep: %3ddeg %s  Range: 0-%.0fcm  Faults: %d/%d  Session: %.8s",
		rep.Tick, rep.Sweep.Angle, rep.Sweep.Direction, t.RangeCM,
		t.ActuatorFaults, t.SampleFaults, t.Session)

	content := status + StyleStatusBar.Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
