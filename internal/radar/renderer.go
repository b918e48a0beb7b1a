package radar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"sonar-radar.klederson.com/internal/config"
)

var (
	ColorBackground = lipgloss.Color("#000000")
	ColorGrid       = lipgloss.Color("#009600")
	ColorSweep      = lipgloss.Color("#00FF00")
	ColorObject     = lipgloss.Color("#FF0000")
)

// Surface is the drawing target for one frame. Coordinates are display
// pixels; a stroke width of 0 fills the circle.
type Surface interface {
	Clear(color lipgloss.Color) error
	DrawCircle(color lipgloss.Color, center r2.Vec, radius float64, width int) error
	DrawLine(color lipgloss.Color, from, to r2.Vec, width int) error
	Present() error
}

// Frame is everything needed to draw one tick.
type Frame struct {
	Sample    PolarSample
	SweepEnd  r2.Vec
	Detection Detection
}

// Renderer issues the draw calls for a frame.
type Renderer struct {
	geo Geometry
}

// NewRenderer creates a renderer for geometry g.
func NewRenderer(g Geometry) *Renderer {
	return &Renderer{geo: g}
}

// Draw clears the surface, draws the grid and then exactly one of the two
// sweep paths: the contact marker with a line to it, or the bare sweep line.
func (r *Renderer) Draw(s Surface, f Frame) error {
	if err := s.Clear(ColorBackground); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := r.drawGrid(s); err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	origin := r.geo.Origin
	switch f.Detection.Kind {
	case InRange:
		if err := s.DrawCircle(ColorObject, f.Detection.Object, config.MarkerRadius, 0); err != nil {
			return fmt.Errorf("marker: %w", err)
		}
		if err := s.DrawLine(ColorObject, origin, f.Detection.Object, config.SweepLineWidth); err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
	default:
		if err := s.DrawLine(ColorSweep, origin, f.SweepEnd, config.SweepLineWidth); err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
	}

	if err := s.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

func (r *Renderer) drawGrid(s Surface) error {
	o := r.geo.Origin
	for _, ringR := range r.geo.Rings {
		if err := s.DrawCircle(ColorGrid, o, ringR, config.GridLineWidth); err != nil {
			return err
		}
	}

	R := r.geo.VisibleRadius
	d := r.geo.DiagonalReach()
	lines := [][2]r2.Vec{
		{{X: o.X - R, Y: o.Y}, {X: o.X + R, Y: o.Y}}, // horizontal axis
		{{X: o.X, Y: o.Y - R}, o},                    // vertical axis
		{o, {X: o.X - d, Y: o.Y - d}},                // 135°
		{o, {X: o.X + d, Y: o.Y - d}},                // 45°
	}
	for _, l := range lines {
		if err := s.DrawLine(ColorGrid, l[0], l[1], config.GridLineWidth); err != nil {
			return err
		}
	}
	return nil
}
