package radar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestDefaultGeometry(t *testing.T) {
	g := DefaultGeometry()

	assert.Equal(t, r2.Vec{X: 400, Y: 500}, g.Origin)
	assert.Equal(t, 360.0, g.VisibleRadius)
	assert.Equal(t, []float64{60, 120, 180, 240, 300, 360}, g.Rings)
	assert.Equal(t, 255.0, g.DiagonalReach())
}

func TestProjectObjectRadius(t *testing.T) {
	g := DefaultGeometry()

	for angle := 0; angle <= 180; angle++ {
		for _, d := range []float64{2, 3.5, 10, 50, 89.9, 90, 120, 250, 499.99, 500} {
			p := ProjectObject(angle, d, g)
			assert.InDelta(t, d*g.Scale, g.RadiusOf(p), 1e-9, "angle=%d distance=%v", angle, d)
		}
	}
}

func TestProjectObjectOrientation(t *testing.T) {
	g := DefaultGeometry()

	east := ProjectObject(0, 10, g)
	assert.InDelta(t, 440, east.X, 1e-9)
	assert.InDelta(t, 500, east.Y, 1e-9)

	// screen y grows downward, so "up" is a smaller y
	up := ProjectObject(90, 10, g)
	assert.InDelta(t, 400, up.X, 1e-9)
	assert.InDelta(t, 460, up.Y, 1e-9)

	west := ProjectObject(180, 10, g)
	assert.InDelta(t, 360, west.X, 1e-9)
	assert.InDelta(t, 500, west.Y, 1e-9)
}

func TestProjectSweepLineIgnoresReading(t *testing.T) {
	g := DefaultGeometry()

	for _, angle := range []int{0, 45, 90, 135, 180, 183} {
		end := ProjectSweepLine(angle, g)
		assert.InDelta(t, g.VisibleRadius, g.RadiusOf(end), 1e-9)

		rad := Radians(float64(angle))
		assert.InDelta(t, g.Origin.X+360*math.Cos(rad), end.X, 1e-9)
		assert.InDelta(t, g.Origin.Y-360*math.Sin(rad), end.Y, 1e-9)
	}
}
