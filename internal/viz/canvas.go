package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/particles/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	blank      = 0x2800
	alphaSteps = 16
)

// Canvas is a Braille dot canvas that implements field.Surface. Field
// coordinates are pixels; each terminal cell covers CellW x CellH pixels and
// holds 2x4 dots. Every cell remembers the strongest alpha painted into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	alpha [][]float64
	fg    colorful.Color
	cellW float64
	cellH float64
	gain  float64
}

func NewCanvas(w, h int, cellW, cellH, gain float64) *Canvas {
	c := &Canvas{cellW: cellW, cellH: cellH, gain: gain, fg: colorful.Color{R: 1, G: 1, B: 1}}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid for w x h cells and clears it.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.alpha = make([][]float64, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.alpha[i] = make([]float64, w)
	}
	c.Clear()
}

// PixelSize is the viewport size in field pixels.
func (c *Canvas) PixelSize() (w, h float64) {
	return float64(c.Width) * c.cellW, float64(c.Height) * c.cellH
}

// CellCenter maps a terminal cell to the pixel at its center.
func (c *Canvas) CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * c.cellW, (float64(row) + 0.5) * c.cellH
}

func (c *Canvas) plot(x, y int, a float64) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if a > c.alpha[row][col] {
		c.alpha[row][col] = a
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.alpha[i][j] = 0
		}
	}
}

func (c *Canvas) dot(x, y float64) (int, int) {
	return int(math.Floor(x / c.cellW * 2)), int(math.Floor(y / c.cellH * 4))
}

func (c *Canvas) setColor(col field.Color) {
	c.fg = colorful.Color{R: float64(col.R) / 255, G: float64(col.G) / 255, B: float64(col.B) / 255}
}

func (c *Canvas) FillCircle(x, y, r float64, col field.Color) {
	c.setColor(col)
	cx, cy := c.dot(x, y)
	rx := r / c.cellW * 2
	ry := r / c.cellH * 4
	c.plot(cx, cy, col.Alpha)
	if rx < 1 && ry < 1 {
		return
	}
	ix, iy := int(math.Ceil(rx)), int(math.Ceil(ry))
	for dy := -iy; dy <= iy; dy++ {
		for dx := -ix; dx <= ix; dx++ {
			nx, ny := float64(dx)/math.Max(rx, 1), float64(dy)/math.Max(ry, 1)
			if nx*nx+ny*ny <= 1 {
				c.plot(cx+dx, cy+dy, col.Alpha)
			}
		}
	}
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col field.Color) {
	c.setColor(col)
	ax, ay := c.dot(x0, y0)
	bx, by := c.dot(x1, y1)
	c.drawLine(ax, ay, bx, by, col.Alpha)
}

func (c *Canvas) drawLine(x0, y0, x1, y1 int, a float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.plot(x0, y0, a)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// CellColor blends the paint color over bg by the cell's alpha. It reports
// false for cells nothing was painted into.
func (c *Canvas) CellColor(row, col int, bg colorful.Color) (colorful.Color, bool) {
	a := c.alpha[row][col]
	if a <= 0 {
		return bg, false
	}
	a = math.Min(1, a*c.gain)
	a = math.Ceil(a*alphaSteps) / alphaSteps
	return bg.BlendRgb(c.fg, a).Clamped(), true
}

// Render draws the canvas with per-cell colors over bg. Adjacent cells with
// the same color share one styled run.
func (c *Canvas) Render(bg colorful.Color) string {
	base := lipgloss.NewStyle().Background(lipgloss.Color(bg.Hex()))
	var b strings.Builder
	var run strings.Builder
	for r, row := range c.Grid {
		runHex := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runHex == "" {
				b.WriteString(base.Render(run.String()))
			} else {
				b.WriteString(base.Foreground(lipgloss.Color(runHex)).Render(run.String()))
			}
			run.Reset()
		}
		for col, ch := range row {
			hex := ""
			if fg, ok := c.CellColor(r, col, bg); ok {
				hex = fg.Hex()
			}
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteRune(ch)
		}
		flush()
		if r < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
