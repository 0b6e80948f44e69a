// Package provider assembles the level chain the navigator drills through.
package provider

import (
	"context"
	"fmt"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

const (
	MinDepth = 3
	MaxDepth = 4
)

// Titles names the levels of the full chain in order.
var Titles = [MaxDepth]string{"Repositories", "Commits", "File Changes", "File Content"}

// RootFunc adapts a function to nav.RootProvider.
type RootFunc func(ctx context.Context) ([]nav.Record, error)

func (f RootFunc) Root(ctx context.Context) ([]nav.Record, error) { return f(ctx) }

// ChildFunc adapts a function to nav.Provider.
type ChildFunc func(ctx context.Context, locator string) ([]nav.Record, error)

func (f ChildFunc) Children(ctx context.Context, locator string) ([]nav.Record, error) {
	return f(ctx, locator)
}

// Set groups the providers backing each level.
type Set struct {
	Root    nav.RootProvider
	Commits nav.Provider
	Files   nav.Provider
	Content nav.Provider
}

// Chain returns the level list for a navigator of the given depth.
func Chain(set Set, depth int) ([]nav.Level, error) {
	if depth < MinDepth || depth > MaxDepth {
		return nil, fmt.Errorf("depth must be %d or %d (got %d)", MinDepth, MaxDepth, depth)
	}
	providers := [MaxDepth]nav.Provider{nil, set.Commits, set.Files, set.Content}
	levels := make([]nav.Level, depth)
	for i := range levels {
		levels[i] = nav.Level{Title: Titles[i], Provider: providers[i]}
	}
	return levels, nil
}

// New builds a navigator over set.
func New(set Set, depth int) (*nav.Navigator, error) {
	levels, err := Chain(set, depth)
	if err != nil {
		return nil, err
	}
	return nav.New(set.Root, levels...)
}
