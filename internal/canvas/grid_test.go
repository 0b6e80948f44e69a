package canvas

import (
	"strings"
	"testing"
)

func TestGridWriteAtClipsAtRightEdge(t *testing.T) {
	g := NewGrid(2, 5)
	g.WriteAt(0, 2, "abcdef", AttrNormal)
	if got := g.Lines()[0]; got != "  abc" {
		t.Fatalf("expected clipped row %q, got %q", "  abc", got)
	}
}

func TestGridWriteAtIgnoresOutOfRangeRows(t *testing.T) {
	g := NewGrid(1, 4)
	g.WriteAt(3, 0, "zz", AttrInverted)
	g.WriteAt(-1, 0, "zz", AttrInverted)
	if got := g.Lines()[0]; got != "    " {
		t.Fatalf("expected untouched row, got %q", got)
	}
}

func TestGridWideRunesOccupyTwoCells(t *testing.T) {
	g := NewGrid(1, 4)
	g.WriteAt(0, 0, "日本x", AttrInverted)
	if got := g.Lines()[0]; got != "日本" {
		t.Fatalf("expected wide runes to fill the row, got %q", got)
	}
	if g.AttrAt(0, 3) != AttrInverted {
		t.Fatalf("expected tail cell to carry the attribute")
	}
}

func TestGridRenderGroupsRunsByAttribute(t *testing.T) {
	g := NewGrid(1, 6)
	g.WriteAt(0, 0, "ab", AttrInverted)
	g.WriteAt(0, 2, "cd", AttrNormal)
	out := g.Render(func(a Attr, s string) string {
		if a == AttrInverted {
			return "[" + s + "]"
		}
		return s
	})
	if out != "[ab]cd  " {
		t.Fatalf("unexpected render %q", out)
	}
}

func TestGridClearResetsAttributes(t *testing.T) {
	g := NewGrid(2, 3)
	g.WriteAt(1, 0, "xyz", AttrInverted)
	g.Clear()
	if g.AttrAt(1, 1) != AttrNormal {
		t.Fatalf("expected attribute reset after clear")
	}
	if strings.TrimSpace(strings.Join(g.Lines(), "")) != "" {
		t.Fatalf("expected blank grid after clear")
	}
}

func TestGridPresentCountsFrames(t *testing.T) {
	g := NewGrid(1, 1)
	g.Present()
	g.Present()
	if g.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", g.Frames())
	}
}
