package radar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestClassify(t *testing.T) {
	origin := r2.Vec{X: 400, Y: 500}

	tests := []struct {
		name   string
		object r2.Vec
		want   DetectionKind
	}{
		{"at origin", origin, InRange},
		{"inside", r2.Vec{X: 400, Y: 300}, InRange},
		{"exactly on edge", r2.Vec{X: 760, Y: 500}, InRange},
		{"just past edge", r2.Vec{X: 760.0001, Y: 500}, OutOfRange},
		{"far away", r2.Vec{X: 2400, Y: 500}, OutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.object, origin, 360)
			assert.Equal(t, tt.want, d.Kind)
			if tt.want == InRange {
				assert.Equal(t, tt.object, d.Object)
			} else {
				assert.Equal(t, r2.Vec{}, d.Object)
			}
		})
	}
}

func TestClassifyScenarios(t *testing.T) {
	g := DefaultGeometry()

	far := ProjectObject(0, 500, g)
	assert.InDelta(t, 2000, g.RadiusOf(far), 1e-9)
	assert.Equal(t, OutOfRange, Classify(far, g.Origin, g.VisibleRadius).Kind)

	near := ProjectObject(90, 50, g)
	assert.InDelta(t, 200, g.RadiusOf(near), 1e-9)
	assert.Equal(t, InRange, Classify(near, g.Origin, g.VisibleRadius).Kind)

	edge := ProjectObject(0, 90, g)
	assert.Equal(t, InRange, Classify(edge, g.Origin, g.VisibleRadius).Kind)
}
