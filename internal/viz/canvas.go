package viz

import "strings"

// Each cell is a braille glyph holding a 2x4 block of dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a dot grid of Cols*2 by Rows*4 sub-pixels.
type Canvas struct {
	Cols, Rows int
	cells      [][]rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, cells: make([][]rune, rows)}
	for i := range c.cells {
		c.cells[i] = make([]rune, cols)
	}
	c.Clear()
	return c
}

// Size returns the canvas size in dots.
func (c *Canvas) Size() (int, int) { return c.Cols * 2, c.Rows * 4 }

func (c *Canvas) cell(x, y int) (*rune, rune, bool) {
	if x < 0 || y < 0 {
		return nil, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Cols || row >= c.Rows {
		return nil, 0, false
	}
	return &c.cells[row][col], dotBits[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if r, bit, ok := c.cell(x, y); ok {
		*r |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	r, bit, ok := c.cell(x, y)
	return ok && *r&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBase
		}
	}
}

// Line draws a one dot wide Bresenham line.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	c.ThickLine(x0, y0, x1, y1, 0)
}

// ThickLine stamps a disc of radius r at every dot of the line.
func (c *Canvas) ThickLine(x0, y0, x1, y1, r int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		c.Disc(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Disc fills every dot within r of (cx, cy). r <= 0 sets one dot.
func (c *Canvas) Disc(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
