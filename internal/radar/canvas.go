package radar

import (
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"sonar-radar.klederson.com/internal/config"
)

// ErrSurfaceLost is returned by every Canvas operation once the host UI is
// gone or the canvas has been released.
var ErrSurfaceLost = errors.New("display surface lost")

type cell struct {
	ch    rune
	color lipgloss.Color
	bold  bool
}

type styleKey struct {
	color lipgloss.Color
	bold  bool
}

// Canvas is a terminal Surface. It maps the radar's bounding box in pixel
// space onto a grid of character cells and hands each presented frame, as
// a styled string, to a sink.
type Canvas struct {
	mu sync.Mutex

	geo        Geometry
	minX, minY float64 // Viewport origin in pixels
	spanX      float64 // Viewport size in pixels
	spanY      float64

	cols, rows       int
	pendCols, pendRs int
	cells            []cell
	styles           map[styleKey]lipgloss.Style

	sink     func(frame string) error
	released bool
	lost     bool
}

// NewCanvas creates a canvas for geometry g that delivers frames to sink.
// It has no cells until the first Resize.
func NewCanvas(g Geometry, sink func(frame string) error) *Canvas {
	margin := config.MarkerRadius
	return &Canvas{
		geo:    g,
		minX:   g.Origin.X - g.VisibleRadius - margin,
		minY:   g.Origin.Y - g.VisibleRadius - margin,
		spanX:  2 * (g.VisibleRadius + margin),
		spanY:  g.VisibleRadius + 2*margin,
		styles: make(map[styleKey]lipgloss.Style),
		sink:   sink,
	}
}

// Resize sets the cell grid size. It takes effect at the next Clear so a
// frame is never drawn on two different grids.
func (c *Canvas) Resize(cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendCols, c.pendRs = max(cols, 0), max(rows, 0)
}

// Size returns the grid size currently drawn on.
func (c *Canvas) Size() (cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cols, c.rows
}

// Release ends the canvas's life. Further drawing fails with ErrSurfaceLost.
func (c *Canvas) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	c.cells = nil
	return nil
}

// Lose marks the canvas as lost, for when the host UI exits underneath it.
func (c *Canvas) Lose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lost = true
}

func (c *Canvas) usable() error {
	if c.released || c.lost {
		return ErrSurfaceLost
	}
	return nil
}

// Clear blanks every cell.
func (c *Canvas) Clear(color lipgloss.Color) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}

	if c.pendCols != c.cols || c.pendRs != c.rows || c.cells == nil {
		c.cols, c.rows = c.pendCols, c.pendRs
		c.cells = make([]cell, c.cols*c.rows)
	}
	for i := range c.cells {
		c.cells[i] = cell{ch: ' ', color: color}
	}
	return nil
}

// DrawCircle draws the outline of a circle, or fills it when width is 0.
func (c *Canvas) DrawCircle(color lipgloss.Color, center r2.Vec, radius float64, width int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	if c.cols == 0 || c.rows == 0 {
		return nil
	}

	if width == 0 {
		c.fillCircle(color, center, radius)
		return nil
	}

	// enough steps to land in every cell the outline crosses
	cellW := c.spanX / float64(c.cols)
	steps := int(2*math.Pi*radius/cellW) * 2
	if steps < 32 {
		steps = 32
	}
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		p := r2.Vec{
			X: center.X + radius*math.Cos(a),
			Y: center.Y - radius*math.Sin(a),
		}
		c.plot(p, strokeChar(a+math.Pi/2), color, width > 1)
	}
	return nil
}

func (c *Canvas) fillCircle(color lipgloss.Color, center r2.Vec, radius float64) {
	c0, r0 := c.toCell(r2.Vec{X: center.X - radius, Y: center.Y - radius})
	c1, r1 := c.toCell(r2.Vec{X: center.X + radius, Y: center.Y + radius})
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if r2.Norm(r2.Sub(c.cellCenter(col, row), center)) <= radius {
				c.set(col, row, '@', color, true)
			}
		}
	}
	// a marker smaller than one cell still shows
	col, row := c.toCell(center)
	c.set(col, row, '@', color, true)
}

// DrawLine draws a straight line between two points.
func (c *Canvas) DrawLine(color lipgloss.Color, from, to r2.Vec, width int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	if c.cols == 0 || c.rows == 0 {
		return nil
	}

	fc, fr := c.toCellF(from)
	tc, tr := c.toCellF(to)
	dc, dr := tc-fc, tr-fr

	// dr is stretched back by the aspect ratio so the glyph matches what the eye sees
	ch := strokeChar(math.Atan2(-dr/config.AspectRatio, dc))

	n := int(math.Ceil(math.Max(math.Abs(dc), math.Abs(dr))))
	if n == 0 {
		c.set(int(fc), int(fr), ch, color, width > 1)
		return nil
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		col := int(math.Floor(fc + t*dc))
		row := int(math.Floor(fr + t*dr))
		c.set(col, row, ch, color, width > 1)
	}
	return nil
}

// Present serialises the grid and hands it to the sink.
func (c *Canvas) Present() error {
	c.mu.Lock()
	if err := c.usable(); err != nil {
		c.mu.Unlock()
		return err
	}
	frame := c.render()
	c.mu.Unlock()

	if c.sink == nil {
		return nil
	}
	return c.sink(frame)
}

func (c *Canvas) render() string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			if cl.ch == ' ' {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(c.style(cl.color, cl.bold).Render(string(cl.ch)))
		}
		if row < c.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (c *Canvas) style(color lipgloss.Color, bold bool) lipgloss.Style {
	key := styleKey{color, bold}
	if s, ok := c.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(color).Bold(bold)
	c.styles[key] = s
	return s
}

// Glyph returns the rune drawn at a cell, or ' '. Out-of-grid cells are blank.
func (c *Canvas) Glyph(col, row int) rune {
	c.mu.Lock()
	defer c.mu.Unlock()
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows || c.cells == nil {
		return ' '
	}
	return c.cells[row*c.cols+col].ch
}

// CellOf returns the cell a display point falls in.
func (c *Canvas) CellOf(p r2.Vec) (col, row int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toCell(p)
}

func (c *Canvas) toCellF(p r2.Vec) (float64, float64) {
	col := (p.X - c.minX) / c.spanX * float64(c.cols)
	row := (p.Y - c.minY) / c.spanY * float64(c.rows)
	return col, row
}

func (c *Canvas) toCell(p r2.Vec) (int, int) {
	col, row := c.toCellF(p)
	return int(math.Floor(col)), int(math.Floor(row))
}

func (c *Canvas) cellCenter(col, row int) r2.Vec {
	return r2.Vec{
		X: c.minX + (float64(col)+0.5)*c.spanX/float64(c.cols),
		Y: c.minY + (float64(row)+0.5)*c.spanY/float64(c.rows),
	}
}

func (c *Canvas) plot(p r2.Vec, ch rune, color lipgloss.Color, bold bool) {
	col, row := c.toCell(p)
	c.set(col, row, ch, color, bold)
}

func (c *Canvas) set(col, row int, ch rune, color lipgloss.Color, bold bool) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = cell{ch: ch, color: color, bold: bold}
}

// strokeChar picks the glyph for a stroke heading in direction a
// (radians, 0 = +x, counter-clockwise).
func strokeChar(a float64) rune {
	a = math.Mod(a, math.Pi)
	if a < 0 {
		a += math.Pi
	}
	switch int(math.Round(a/(math.Pi/4))) % 4 {
	case 0:
		return '-'
	case 1:
		return '/'
	case 2:
		return '|'
	default:
		return '\\'
	}
}
