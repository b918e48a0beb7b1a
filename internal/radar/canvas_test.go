package radar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestCanvas(t *testing.T) (*Canvas, *[]string) {
	t.Helper()
	var frames []string
	c := NewCanvas(DefaultGeometry(), func(frame string) error {
		frames = append(frames, frame)
		return nil
	})
	c.Resize(40, 20)
	require.NoError(t, c.Clear(ColorBackground))
	return c, &frames
}

func TestCanvasResizeAppliesOnClear(t *testing.T) {
	c := NewCanvas(DefaultGeometry(), nil)
	c.Resize(30, 10)

	cols, rows := c.Size()
	assert.Zero(t, cols)
	assert.Zero(t, rows)

	require.NoError(t, c.Clear(ColorBackground))
	cols, rows = c.Size()
	assert.Equal(t, 30, cols)
	assert.Equal(t, 10, rows)
}

func TestCanvasLines(t *testing.T) {
	c, _ := newTestCanvas(t)
	g := DefaultGeometry()
	o := g.Origin

	require.NoError(t, c.DrawLine(ColorGrid, r2.Vec{X: o.X, Y: o.Y - 360}, o, 1))
	require.NoError(t, c.DrawLine(ColorGrid, r2.Vec{X: o.X - 360, Y: o.Y}, r2.Vec{X: o.X + 360, Y: o.Y}, 1))

	col, row := c.CellOf(o)
	assert.Equal(t, 20, col)
	assert.Equal(t, 19, row)

	assert.Equal(t, '|', c.Glyph(20, 10))
	assert.Equal(t, '-', c.Glyph(5, 19))
	assert.Equal(t, '-', c.Glyph(35, 19))
	assert.Equal(t, ' ', c.Glyph(5, 5))
}

func TestCanvasFilledMarker(t *testing.T) {
	c, _ := newTestCanvas(t)
	p := r2.Vec{X: 400, Y: 300}

	require.NoError(t, c.DrawCircle(ColorObject, p, 10, 0))

	col, row := c.CellOf(p)
	assert.Equal(t, '@', c.Glyph(col, row))
}

func TestCanvasRingOutline(t *testing.T) {
	c, _ := newTestCanvas(t)
	g := DefaultGeometry()

	require.NoError(t, c.DrawCircle(ColorGrid, g.Origin, 360, 1))

	// top of the ring is drawn, the centre is not
	col, row := c.CellOf(r2.Vec{X: g.Origin.X, Y: g.Origin.Y - 360})
	assert.NotEqual(t, ' ', c.Glyph(col, row))
	col, row = c.CellOf(r2.Vec{X: g.Origin.X, Y: g.Origin.Y - 180})
	assert.Equal(t, ' ', c.Glyph(col, row))
}

func TestCanvasPresent(t *testing.T) {
	c, frames := newTestCanvas(t)
	require.NoError(t, c.DrawLine(ColorSweep, DefaultGeometry().Origin, r2.Vec{X: 760, Y: 500}, 4))
	require.NoError(t, c.Present())

	require.Len(t, *frames, 1)
	assert.Len(t, strings.Split((*frames)[0], "\n"), 20)
	assert.Contains(t, (*frames)[0], "-")
}

func TestCanvasWithoutSizeDrawsNothing(t *testing.T) {
	var got []string
	c := NewCanvas(DefaultGeometry(), func(frame string) error {
		got = append(got, frame)
		return nil
	})

	require.NoError(t, c.Clear(ColorBackground))
	require.NoError(t, c.DrawLine(ColorSweep, r2.Vec{}, r2.Vec{X: 10, Y: 10}, 1))
	require.NoError(t, c.DrawCircle(ColorGrid, r2.Vec{}, 10, 1))
	require.NoError(t, c.Present())
	assert.Equal(t, []string{""}, got)
}

func TestCanvasReleaseAndLose(t *testing.T) {
	c, _ := newTestCanvas(t)
	require.NoError(t, c.Release())

	assert.ErrorIs(t, c.Clear(ColorBackground), ErrSurfaceLost)
	assert.ErrorIs(t, c.DrawLine(ColorGrid, r2.Vec{}, r2.Vec{}, 1), ErrSurfaceLost)
	assert.ErrorIs(t, c.DrawCircle(ColorGrid, r2.Vec{}, 1, 1), ErrSurfaceLost)
	assert.ErrorIs(t, c.Present(), ErrSurfaceLost)

	c, _ = newTestCanvas(t)
	c.Lose()
	assert.ErrorIs(t, c.Present(), ErrSurfaceLost)
}

func TestStrokeChar(t *testing.T) {
	assert.Equal(t, '-', strokeChar(0))
	assert.Equal(t, '/', strokeChar(Radians(45)))
	assert.Equal(t, '|', strokeChar(Radians(90)))
	assert.Equal(t, '\\', strokeChar(Radians(135)))
	assert.Equal(t, '-', strokeChar(Radians(180)))
	assert.Equal(t, '|', strokeChar(Radians(-90)))
}
