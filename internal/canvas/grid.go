package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r    rune
	attr Attr
	// tail marks the second column of a double-width rune.
	tail bool
}

// Grid is an in-memory Canvas.
type Grid struct {
	rows, cols int
	cells      [][]cell
	presented  int
}

// NewGrid allocates a blank grid of the given size.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{}
	g.Resize(rows, cols)
	return g
}

// Resize reallocates the grid, discarding its contents.
func (g *Grid) Resize(rows, cols int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g.rows, g.cols = rows, cols
	g.cells = make([][]cell, rows)
	for i := range g.cells {
		g.cells[i] = make([]cell, cols)
	}
	g.Clear()
}

func (g *Grid) Dimensions() (int, int) {
	return g.rows, g.cols
}

func (g *Grid) Clear() {
	for _, row := range g.cells {
		for i := range row {
			row[i] = cell{r: ' '}
		}
	}
}

func (g *Grid) WriteAt(row, col int, text string, attr Attr) {
	if row < 0 || row >= g.rows || col < 0 {
		return
	}
	line := g.cells[row]
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > g.cols {
			return
		}
		line[col] = cell{r: r, attr: attr}
		if w == 2 {
			line[col+1] = cell{attr: attr, tail: true}
		}
		col += w
	}
}

// Present records a completed frame. The grid has no backing device.
func (g *Grid) Present() {
	g.presented++
}

// Frames returns how many times Present was called.
func (g *Grid) Frames() int {
	return g.presented
}

// AttrAt returns the attribute of a cell, or AttrNormal out of range.
func (g *Grid) AttrAt(row, col int) Attr {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return AttrNormal
	}
	return g.cells[row][col].attr
}

// Lines returns the plain text content of every row.
func (g *Grid) Lines() []string {
	out := make([]string, g.rows)
	for i, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			if c.tail {
				continue
			}
			b.WriteRune(c.r)
		}
		out[i] = b.String()
	}
	return out
}

// Render joins the rows with newlines, passing each run of equally
// attributed cells through paint.
func (g *Grid) Render(paint func(Attr, string) string) string {
	out := make([]string, g.rows)
	for i, row := range g.cells {
		var line strings.Builder
		var run strings.Builder
		current := AttrNormal
		flush := func() {
			if run.Len() == 0 {
				return
			}
			line.WriteString(paint(current, run.String()))
			run.Reset()
		}
		for _, c := range row {
			if c.tail {
				continue
			}
			if c.attr != current {
				flush()
				current = c.attr
			}
			run.WriteRune(c.r)
		}
		flush()
		out[i] = line.String()
	}
	return strings.Join(out, "\n")
}
