package viz

import (
	"math"
	"strings"

	"github.com/san-kum/bemsim/internal/geometry"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of Braille cells addressed in sub-pixels; it is
// Width*2 sub-pixels wide and Height*4 tall.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = []rune(strings.Repeat(string(rune(brailleBlank)), w))
	}
	return c
}

// Set lights the sub-pixel at (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.Grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Planform draws the blade outline seen from the front with the hub on
// the left, chord centred vertically, and a rib at every station.
func Planform(stations []geometry.Station, w, h int) *Canvas {
	c := NewCanvas(w, h)
	if len(stations) < 2 {
		return c
	}

	minR, maxR := stations[0].R, stations[len(stations)-1].R
	maxChord := 0.0
	for _, s := range stations {
		maxChord = math.Max(maxChord, s.Chord)
	}

	px, py := w*2-1, h*4-1
	toX := func(r float64) int { return int(math.Round((r - minR) / (maxR - minR) * float64(px))) }
	toY := func(half float64) int { return int(math.Round(float64(py)/2 - half/maxChord*float64(py))) }

	for i, s := range stations {
		x := toX(s.R)
		top, bottom := toY(s.Chord/2), toY(-s.Chord/2)
		c.DrawLine(x, top, x, bottom)
		if i > 0 {
			p := stations[i-1]
			c.DrawLine(toX(p.R), toY(p.Chord/2), x, top)
			c.DrawLine(toX(p.R), toY(-p.Chord/2), x, bottom)
		}
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
