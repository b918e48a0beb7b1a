package radar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"sonar-radar.klederson.com/internal/config"
)

// Geometry is the fixed radar layout in display (pixel) space.
// It is built once at startup and passed by value afterwards.
type Geometry struct {
	Width, Height int
	Origin        r2.Vec    // Radar center, bottom-middle of the display
	VisibleRadius float64   // Outermost rendered radius in pixels
	Scale         float64   // Pixels per centimeter
	Step          int       // Sweep step in degrees
	Rings         []float64 // Grid ring radii in pixels, innermost first
}

// NewGeometry derives the radar geometry from the startup configuration.
func NewGeometry(cfg config.Config) Geometry {
	d := cfg.Display
	rings := make([]float64, d.RingCount)
	for i := range rings {
		rings[i] = d.RingSpacing * float64(i+1)
	}
	return Geometry{
		Width:  d.Width,
		Height: d.Height,
		Origin: r2.Vec{
			X: float64(d.Width / 2),
			Y: float64(d.Height - d.OriginOffset),
		},
		VisibleRadius: d.VisibleRadius,
		Scale:         d.Scale,
		Step:          cfg.Sweep.Step,
		Rings:         rings,
	}
}

// DefaultGeometry returns the geometry for config.Default().
func DefaultGeometry() Geometry {
	return NewGeometry(config.Default())
}

// DiagonalReach is the per-axis offset of the 45° grid lines, so that
// the diagonals end on the outer ring.
func (g Geometry) DiagonalReach() float64 {
	return math.Round(g.VisibleRadius * math.Sqrt2 / 2)
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// ProjectObject maps a polar reading to display coordinates.
// 0° points along +x from the origin; angles grow counter-clockwise on
// screen, so y decreases as the angle increases.
func ProjectObject(angle int, distance float64, g Geometry) r2.Vec {
	rad := Radians(float64(angle))
	r := distance * g.Scale
	return r2.Vec{
		X: g.Origin.X + r*math.Cos(rad),
		Y: g.Origin.Y - r*math.Sin(rad),
	}
}

// ProjectSweepLine returns the end of the sweep line at angle. The line
// always reaches the visible radius, whatever was measured.
func ProjectSweepLine(angle int, g Geometry) r2.Vec {
	return ProjectObject(angle, g.VisibleRadius/g.Scale, g)
}

// RadiusOf returns the distance of p from the origin in pixels.
func (g Geometry) RadiusOf(p r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, g.Origin))
}
