package nav

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoProvider is returned when a level has nothing to fetch from.
var ErrNoProvider = errors.New("no provider for level")

// Provider fetches the children of a locator.
type Provider interface {
	Children(ctx context.Context, locator string) ([]Record, error)
}

// RootProvider fetches the first pane's records.
type RootProvider interface {
	Root(ctx context.Context) ([]Record, error)
}

// Level configures one pane of the chain. The first level's Provider is
// unused; its records come from the RootProvider.
type Level struct {
	Title    string
	Provider Provider
}

// FetchRequest describes a pending population of Target.
type FetchRequest struct {
	Target  int
	Locator string
	Title   string
	Seq     uint64

	provider Provider
}

// Fetch runs the request against the target level's provider.
func (r FetchRequest) Fetch(ctx context.Context) ([]Record, error) {
	if r.provider == nil {
		return nil, fmt.Errorf("%s: %w", r.Title, ErrNoProvider)
	}
	return r.provider.Children(ctx, r.Locator)
}

// FetchResult carries the outcome of a FetchRequest back to the navigator.
type FetchResult struct {
	Request FetchRequest
	Records []Record
	Err     error
}

// Navigator owns a fixed chain of panes and the active pane index.
type Navigator struct {
	root    RootProvider
	levels  []Level
	panes   []*Pane
	active  int
	seq     []uint64
	pending []bool
}

// New builds a navigator with one pane per level.
func New(root RootProvider, levels ...Level) (*Navigator, error) {
	if len(levels) == 0 {
		return nil, errors.New("navigator needs at least one level")
	}
	n := &Navigator{
		root:    root,
		levels:  append([]Level(nil), levels...),
		panes:   make([]*Pane, len(levels)),
		seq:     make([]uint64, len(levels)),
		pending: make([]bool, len(levels)),
	}
	for i, lvl := range levels {
		n.panes[i] = NewPane(lvl.Title)
	}
	return n, nil
}

// Start populates the first pane from the root provider. A failure leaves the
// pane empty; the error is returned for reporting only.
func (n *Navigator) Start(ctx context.Context) error {
	req := n.BeginRoot()
	records, err := req.Fetch(ctx)
	n.Complete(FetchResult{Request: req, Records: records, Err: err})
	return err
}

// BeginRoot prepares the fetch of the first pane. Every outstanding request
// is superseded and pane 0 becomes active when the result is applied.
func (n *Navigator) BeginRoot() FetchRequest {
	for i := range n.panes {
		n.seq[i]++
		n.pending[i] = false
	}
	n.pending[0] = true
	req := FetchRequest{Target: 0, Title: n.levels[0].Title, Seq: n.seq[0]}
	if n.root != nil {
		req.provider = rootAdapter{root: n.root}
	}
	return req
}

type rootAdapter struct {
	root RootProvider
}

func (r rootAdapter) Children(ctx context.Context, _ string) ([]Record, error) {
	return r.root.Root(ctx)
}

// Depth returns the number of panes in the chain.
func (n *Navigator) Depth() int { return len(n.panes) }

// Active returns the index of the pane receiving input.
func (n *Navigator) Active() int { return n.active }

// Pane returns the pane at index i, or nil when out of range.
func (n *Navigator) Pane(i int) *Pane {
	if i < 0 || i >= len(n.panes) {
		return nil
	}
	return n.panes[i]
}

// ActivePane returns the pane receiving input.
func (n *Navigator) ActivePane() *Pane {
	return n.panes[n.active]
}

// Pending reports whether a fetch for pane i is outstanding.
func (n *Navigator) Pending(i int) bool {
	if i < 0 || i >= len(n.pending) {
		return false
	}
	return n.pending[i]
}

// Loading reports whether any fetch is outstanding.
func (n *Navigator) Loading() bool {
	for _, p := range n.pending {
		if p {
			return true
		}
	}
	return false
}

// MoveActivePane shifts focus by direction, clamped to the chain.
func (n *Navigator) MoveActivePane(direction int) bool {
	old := n.active
	n.active += direction
	if n.active < 0 {
		n.active = 0
	}
	if n.active > len(n.panes)-1 {
		n.active = len(n.panes) - 1
	}
	return n.active != old
}

// MoveSelection moves the active pane's selection.
func (n *Navigator) MoveSelection(delta int) bool {
	return n.ActivePane().MoveSelection(delta)
}

// JumpTo selects index in the active pane.
func (n *Navigator) JumpTo(index int) bool {
	pane := n.ActivePane()
	cur, ok := pane.Selected()
	if !ok || index < 0 || index >= pane.Len() {
		return false
	}
	return pane.MoveSelection(index - cur)
}

// BeginConfirm prepares the fetch that confirming the active pane's selection
// triggers. It returns false when there is nothing to fetch: the active pane
// is the last one, is empty, or its selection has no locator. Any request
// still outstanding for the target or a deeper pane is superseded.
func (n *Navigator) BeginConfirm() (FetchRequest, bool) {
	if n.active >= len(n.panes)-1 {
		return FetchRequest{}, false
	}
	rec, ok := n.ActivePane().SelectedRecord()
	if !ok || rec.Locator == "" {
		return FetchRequest{}, false
	}
	target := n.active + 1
	for i := target; i < len(n.panes); i++ {
		n.seq[i]++
		n.pending[i] = false
	}
	n.pending[target] = true
	lvl := n.levels[target]
	return FetchRequest{
		Target:   target,
		Locator:  rec.Locator,
		Title:    lvl.Title,
		Seq:      n.seq[target],
		provider: lvl.Provider,
	}, true
}

// Complete applies a fetch result. Superseded results are dropped and false
// is returned. Failures populate the target with an empty list; either way
// the target becomes the active pane.
func (n *Navigator) Complete(res FetchResult) bool {
	target := res.Request.Target
	if target < 0 || target >= len(n.panes) {
		return false
	}
	if res.Request.Seq != n.seq[target] || !n.pending[target] {
		return false
	}
	n.pending[target] = false
	records := res.Records
	if res.Err != nil {
		records = nil
	}
	n.panes[target].populate(res.Request.Locator, records)
	n.active = target
	return true
}

// ConfirmSelection fetches inline and applies the result. The returned error
// is informational; the navigator has already advanced into an empty pane.
func (n *Navigator) ConfirmSelection(ctx context.Context) error {
	req, ok := n.BeginConfirm()
	if !ok {
		return nil
	}
	records, err := req.Fetch(ctx)
	n.Complete(FetchResult{Request: req, Records: records, Err: err})
	return err
}

// Refresh replaces pane i's records with a newer copy if the pane still shows
// source and no confirm is outstanding for it.
func (n *Navigator) Refresh(i int, source string, records []Record) bool {
	pane := n.Pane(i)
	if pane == nil || n.pending[i] {
		return false
	}
	if pane.Source() != source {
		return false
	}
	pane.Refresh(records)
	return true
}

// SetCapacity applies the viewport row count to every pane.
func (n *Navigator) SetCapacity(rows int) {
	for _, p := range n.panes {
		p.SetCapacity(rows)
	}
}
