package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"sonar-radar.klederson.com/internal/radar"
	"sonar-radar.klederson.com/internal/scan"
)

func inRangeTelemetry() Telemetry {
	return Telemetry{
		Report: scan.Report{
			Tick:      19,
			Sweep:     radar.SweepState{Angle: 90, Direction: radar.CounterClockwise},
			Position:  90,
			RawMeters: 0.5,
			Frame: radar.Frame{
				Sample:    radar.PolarSample{Angle: 90, Distance: 50},
				Detection: radar.Detection{Kind: radar.InRange, Object: r2.Vec{X: 400, Y: 300}},
			},
		},
		State:   scan.Running,
		Backend: "demo",
		Session: "0123456789abcdef",
		RangeCM: 500,
		History: []float64{500, 500, 50},
	}
}

func TestRenderContactPanel(t *testing.T) {
	out := RenderContactPanel(inRangeTelemetry(), 40, 24)

	assert.Contains(t, out, "CONTACT")
	assert.Contains(t, out, "90° N")
	assert.Contains(t, out, "0.500m")
	assert.Contains(t, out, "50.0cm")
	assert.Contains(t, out, "IN RANGE")
	assert.Contains(t, out, "(400, 300)")
	assert.Equal(t, 24, lipgloss.Height(out))
}

func TestRenderContactPanelSampleFault(t *testing.T) {
	tel := inRangeTelemetry()
	tel.Report.SampleErr = errors.New("sample fault")
	tel.Report.Frame.Detection = radar.Detection{Kind: radar.OutOfRange}
	tel.SampleFaults = 1

	out := RenderContactPanel(tel, 40, 24)
	assert.Contains(t, out, "no reading")
	assert.Contains(t, out, "CLEAR")
	assert.Contains(t, out, "sensor 1")
	assert.NotContains(t, out, "(400, 300)")
}

func TestRenderStatusBar(t *testing.T) {
	out := RenderStatusBar(120, inRangeTelemetry())
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "Tick: 19")
	assert.Contains(t, out, "Session: 01234567")
	assert.NotContains(t, out, "89abcdef")
}

func TestRenderMenuBar(t *testing.T) {
	out := RenderMenuBar(80, "serial /dev/ttyUSB0", scan.Stopping)
	assert.Contains(t, out, "SONAR-RADAR")
	assert.Contains(t, out, "STOPPING")
	assert.Contains(t, out, "serial /dev/ttyUSB0")
}

func TestRenderRangeBar(t *testing.T) {
	near := renderRangeBar(50, 500, 10)
	far := renderRangeBar(500, 500, 10)
	assert.Equal(t, 9, strings.Count(near, "|"))
	assert.Equal(t, 0, strings.Count(far, "|"))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", renderSparkline(nil, 10))
	assert.Equal(t, "^_^", renderSparkline([]float64{500, 2, 500}, 10))
	assert.Len(t, renderSparkline(make([]float64, 30), 10), 10)
}

func TestBearingLabel(t *testing.T) {
	assert.Equal(t, "E", bearingLabel(0))
	assert.Equal(t, "NE", bearingLabel(45))
	assert.Equal(t, "N", bearingLabel(90))
	assert.Equal(t, "W", bearingLabel(180))
	assert.Equal(t, "W", bearingLabel(183))
}
