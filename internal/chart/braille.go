package chart

// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '⠀'

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// canvas is a grid of braille cells addressed in dots, origin bottom left.
type canvas struct {
	cols, rows int // in characters
	cells      [][]rune
	owner      [][]int // index of the series that last drew into the cell, -1 if none
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows}
	c.cells = make([][]rune, rows)
	c.owner = make([][]int, rows)
	for r := range c.cells {
		c.cells[r] = make([]rune, cols)
		c.owner[r] = make([]int, cols)
		for col := range c.cells[r] {
			c.cells[r][col] = brailleBase
			c.owner[r][col] = -1
		}
	}
	return c
}

// dotWidth and dotHeight are the canvas size in dots.
func (c *canvas) dotWidth() int  { return c.cols * 2 }
func (c *canvas) dotHeight() int { return c.rows * 4 }

// set lights the dot at x (from the left) and y (from the bottom).
func (c *canvas) set(x, y, owner int) {
	x = clampInt(x, c.dotWidth()-1)
	y = clampInt(y, c.dotHeight()-1)

	charCol := x / 2
	subCol := x % 2
	row := c.rows - 1 - y/4
	subRow := 3 - y%4

	c.cells[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
	c.owner[row][charCol] = owner
}

// line lights one dot per step along the longer axis between two points,
// interpolating the other axis with integer division (DDA).
func (c *canvas) line(x0, y0, x1, y1, owner int) {
	dx, dy := x1-x0, y1-y0
	steps := absInt(dx)
	if absInt(dy) > steps {
		steps = absInt(dy)
	}
	if steps == 0 {
		c.set(x0, y0, owner)
		return
	}
	for i := 0; i <= steps; i++ {
		c.set(x0+dx*i/steps, y0+dy*i/steps, owner)
	}
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
