package viz

import (
	"math"
	"strings"
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

const brailleBlank = 0x2800

// Canvas is a grid of Braille cells. Each cell holds 2x4 dots, so the dot
// resolution is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// Set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// FillRect sets every dot in the rectangle spanned by the two corners.
func (c *Canvas) FillRect(x0, y0, x1, y1 int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps world coordinates onto the dots of a canvas. Y grows upward
// in world space and downward on the canvas.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
	canvas     *Canvas
}

func NewViewport(c *Canvas, xmin, xmax, ymin, ymax float64) Viewport {
	return Viewport{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax, canvas: c}
}

// Dot returns the canvas dot nearest to world point (x, y).
func (v Viewport) Dot(x, y float64) (int, int) {
	w := float64(v.canvas.Width*2 - 1)
	h := float64(v.canvas.Height*4 - 1)
	px := (x - v.XMin) / (v.XMax - v.XMin) * w
	py := (v.YMax - y) / (v.YMax - v.YMin) * h
	return int(math.Round(px)), int(math.Round(py))
}

// Polyline draws straight segments between consecutive world points.
func (v Viewport) Polyline(xs, ys []float64) {
	for i := 1; i < len(xs) && i < len(ys); i++ {
		x0, y0 := v.Dot(xs[i-1], ys[i-1])
		x1, y1 := v.Dot(xs[i], ys[i])
		v.canvas.DrawLine(x0, y0, x1, y1)
	}
}

// Rect fills the world rectangle with corners (x0, y0) and (x1, y1).
func (v Viewport) Rect(x0, y0, x1, y1 float64) {
	px0, py0 := v.Dot(x0, y0)
	px1, py1 := v.Dot(x1, y1)
	v.canvas.FillRect(px0, py0, px1, py1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
