package provider

import (
	"context"
	"testing"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

func stubSet() Set {
	leaf := ChildFunc(func(_ context.Context, locator string) ([]nav.Record, error) {
		return []nav.Record{{Locator: locator + "/child", Label: locator}}, nil
	})
	return Set{
		Root: RootFunc(func(context.Context) ([]nav.Record, error) {
			return []nav.Record{{Locator: "o/r", Label: "r"}}, nil
		}),
		Commits: leaf,
		Files:   leaf,
		Content: leaf,
	}
}

func TestChainDepths(t *testing.T) {
	for _, depth := range []int{3, 4} {
		levels, err := Chain(stubSet(), depth)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if len(levels) != depth {
			t.Fatalf("expected %d levels, got %d", depth, len(levels))
		}
		for i, lvl := range levels {
			if lvl.Title != Titles[i] {
				t.Fatalf("level %d: expected title %q, got %q", i, Titles[i], lvl.Title)
			}
			if i > 0 && lvl.Provider == nil {
				t.Fatalf("level %d: missing provider", i)
			}
		}
	}
}

func TestChainRejectsUnsupportedDepth(t *testing.T) {
	for _, depth := range []int{0, 2, 5} {
		if _, err := Chain(stubSet(), depth); err == nil {
			t.Fatalf("expected error for depth %d", depth)
		}
	}
}

func TestNewDrillsThroughAllLevels(t *testing.T) {
	n, err := New(stubSet(), 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 1; i < 4; i++ {
		if err := n.ConfirmSelection(ctx); err != nil {
			t.Fatalf("confirm %d: %v", i, err)
		}
	}
	if n.Active() != 3 {
		t.Fatalf("expected last pane active, got %d", n.Active())
	}
	if got := n.Pane(3).Source(); got != "o/r/child/child" {
		t.Fatalf("unexpected leaf source %q", got)
	}
}
