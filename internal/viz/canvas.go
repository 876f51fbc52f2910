package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
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

// Canvas is a braille pixel grid. Each cell also remembers the highest spring
// tension drawn through it so edges can be coloured.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tension       [][]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Tension: make([][]float64, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tension[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in braille dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a pixel at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetTension(x, y, 0)
}

// SetTension sets a pixel and raises its cell's tension to at least t.
func (c *Canvas) SetTension(x, y int, t float64) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if t > c.Tension[row][col] {
		c.Tension[row][col] = t
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	mask := ^rune(pixelMap[y%4][x%2])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.Tension[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.DrawTensionLine(x0, y0, x1, y1, 0)
}

func (c *Canvas) DrawTensionLine(x0, y0, x1, y1 int, t float64) {
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
		c.SetTension(x0, y0, t)
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

// FillCircle lights every dot within r of (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
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

// Styled renders the canvas with each cell coloured by its tension. Runs of
// cells sharing a colour are rendered together.
func (c *Canvas) Styled(theme Theme) string {
	styles := theme.tensionStyles()
	var b strings.Builder
	for r, row := range c.Grid {
		start := 0
		for col := 1; col <= len(row); col++ {
			if col < len(row) && tensionBucket(c.Tension[r][col]) == tensionBucket(c.Tension[r][start]) {
				continue
			}
			b.WriteString(styles[tensionBucket(c.Tension[r][start])].Render(string(row[start:col])))
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

const tensionLevels = 11

func tensionBucket(t float64) int {
	return max(0, min(int(t*(tensionLevels-1)), tensionLevels-1))
}

func (t Theme) tensionStyles() [tensionLevels]lipgloss.Style {
	var out [tensionLevels]lipgloss.Style
	for i := range out {
		out[i] = lipgloss.NewStyle().Foreground(t.TensionColor(float64(i) / (tensionLevels - 1)))
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
