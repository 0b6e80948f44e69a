// Package render draws a navigator's panes onto a canvas.
//
// The canvas width is split into one equal band per pane. Row 0 of each band
// carries the pane title, centred and inverted; the rows below list the
// pane's visible records with the selected one inverted. The selection is
// highlighted in every pane, not only the active one.
package render

import (
	"strings"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/canvas"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"github.com/mattn/go-runewidth"
)

// ReservedRows is the number of canvas rows not available for items.
const ReservedRows = 2

// Capacity returns the viewport capacity for a canvas with the given rows.
func Capacity(rows int) int {
	if c := rows - ReservedRows; c > 1 {
		return c
	}
	return 1
}

// BandWidth returns the columns given to each of panes bands. The remainder
// of the integer division stays blank.
func BandWidth(cols, panes int) int {
	if panes <= 0 || cols <= 0 {
		return 0
	}
	return cols / panes
}

// Render clears c, lays out every pane of n and presents the frame. Pane
// capacities are updated from the canvas height first so scroll offsets match
// what is drawn.
func Render(n *nav.Navigator, c canvas.Canvas) {
	rows, cols := c.Dimensions()
	n.SetCapacity(Capacity(rows))
	c.Clear()
	band := BandWidth(cols, n.Depth())
	if band > 0 && rows > 0 {
		for i := 0; i < n.Depth(); i++ {
			drawPane(c, n.Pane(i), i*band, band, rows)
		}
	}
	c.Present()
}

func drawPane(c canvas.Canvas, p *nav.Pane, left, width, rows int) {
	c.WriteAt(0, left, Centre(p.Title(), width), canvas.AttrInverted)
	maxItems := rows - ReservedRows
	if maxItems <= 0 {
		return
	}
	selected, _ := p.Selected()
	local := 0
	for idx, rec := range p.VisibleSlice() {
		if local >= maxItems {
			break
		}
		attr := canvas.AttrNormal
		if idx == selected {
			attr = canvas.AttrInverted
		}
		c.WriteAt(local+1, left, Fit(rec.Label, width), attr)
		local++
	}
}

// Fit truncates or right-pads label to exactly width display cells.
func Fit(label string, width int) string {
	if width <= 0 {
		return ""
	}
	label = strings.ReplaceAll(label, "\t", " ")
	return runewidth.FillRight(runewidth.Truncate(label, width, ""), width)
}

// Centre places title in the middle of a width-cell field.
func Centre(title string, width int) string {
	if width <= 0 {
		return ""
	}
	title = runewidth.Truncate(title, width, "")
	pad := (width - runewidth.StringWidth(title)) / 2
	return runewidth.FillRight(strings.Repeat(" ", pad)+title, width)
}
