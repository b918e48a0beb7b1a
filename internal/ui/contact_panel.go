package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sonar-radar.klederson.com/internal/radar"
	"sonar-radar.klederson.com/internal/scan"
)

// Telemetry is what the panels show about the latest tick.
type Telemetry struct {
	Report         scan.Report
	State          scan.State
	Backend        string
	Session        string
	RangeCM        float64   // Far end of the sensor envelope
	ActuatorFaults int
	SampleFaults   int
	History        []float64 // Recent clamped readings, oldest first
}

// RenderContactPanel renders the per-tick readout beside the radar.
func RenderContactPanel(t Telemetry, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	rep := t.Report
	frame := rep.Frame

	title := StylePanelTitle.Render("CONTACT")
	lines := []string{title, StyleRule.Render(strings.Repeat("-", innerW)), ""}

	detection := StyleValue.Render(frame.Detection.Kind.String())
	if frame.Detection.Kind == radar.InRange {
		detection = StyleContact.Render(frame.Detection.Kind.String())
	}

	fields := []struct{ label, value string }{
		{"Bearing", StyleValue.Render(fmt.Sprintf("%d° %s", frame.Sample.Angle, bearingLabel(frame.Sample.Angle)))},
		{"Sweep", StyleValue.Render(fmt.Sprintf("%d° %s", rep.Sweep.Angle, rep.Sweep.Direction))},
		{"Raw", StyleValue.Render(formatRaw(rep))},
		{"Range", StyleValue.Render(fmt.Sprintf("%.1fcm", frame.Sample.Distance))},
		{"Status", detection},
	}
	if frame.Detection.Kind == radar.InRange {
		fields = append(fields, struct{ label, value string }{
			"Point", StyleContact.Render(fmt.Sprintf("(%.0f, %.0f)", frame.Detection.Object.X, frame.Detection.Object.Y)),
		})
	}

	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-8s", f.label))+f.value)
	}

	lines = append(lines, "")

	faults := fmt.Sprintf("servo %d  sensor %d", t.ActuatorFaults, t.SampleFaults)
	if rep.ActuatorErr != nil || rep.SampleErr != nil {
		lines = append(lines, StyleLabel.Render("  Faults  ")+StyleFault.Render(faults))
	} else {
		lines = append(lines, StyleLabel.Render("  Faults  ")+StyleValue.Render(faults))
	}

	lines = append(lines, "")

	barWidth := innerW - 12
	if barWidth < 8 {
		barWidth = 8
	}
	lines = append(lines, StyleLabel.Render("  Echo ")+renderRangeBar(frame.Sample.Distance, t.RangeCM, barWidth))

	if len(t.History) > 0 {
		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, "", StyleLabel.Render("  Recent readings:"))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(t.History, sparkW)))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}

	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func formatRaw(rep scan.Report) string {
	if rep.SampleErr != nil {
		return "no reading"
	}
	return fmt.Sprintf("%.3fm", rep.RawMeters)
}

// renderRangeBar fills more of the bar the closer the echo is.
func renderRangeBar(distance, maxRange float64, width int) string {
	ratio := 0.0
	if maxRange > 0 {
		ratio = 1 - distance/maxRange
	}
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(lipgloss.Color(proximityColor(ratio))).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := int((values[i] - minV) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteByte(chars[idx])
	}

	return sb.String()
}

// bearingLabel names the sector of the half-circle an angle points into.
func bearingLabel(angle int) string {
	dirs := []string{"E", "NE", "N", "NW", "W"}
	idx := int(math.Round(float64(angle) / 45))
	idx = max(0, min(idx, len(dirs)-1))
	return dirs[idx]
}

// proximityColor maps closeness (0 far .. 1 touching) to a shade, red when close.
func proximityColor(closeness float64) string {
	if closeness > 0.8 {
		return "#FF0000"
	}
	if closeness > 0.6 {
		return "#FFAA00"
	}
	if closeness > 0.3 {
		return "#00FF00"
	}
	return "#008F11"
}
