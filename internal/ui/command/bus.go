package command

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

// FetchedMsg carries a completed fetch back to the model.
type FetchedMsg struct {
	Result nav.FetchResult
}

// Bus runs navigator fetches off the Update goroutine.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Fetch wraps a fetch request into a Bubble Tea command while emitting trace
// logs. The navigator is not touched until the FetchedMsg is handled.
func (b *Bus) Fetch(ctx context.Context, req nav.FetchRequest) tea.Cmd {
	events.Fetch.Queue(req.Target, req.Locator, req.Seq)
	return func() tea.Msg {
		records, err := req.Fetch(ctx)
		if err != nil {
			events.Fetch.Fail(req.Target, req.Locator, err)
		} else {
			events.Fetch.Done(req.Target, req.Locator, req.Seq, len(records))
		}
		return FetchedMsg{Result: nav.FetchResult{Request: req, Records: records, Err: err}}
	}
}
