// Package console runs the navigator synchronously on a raw terminal canvas:
// render, block for one key, apply it, repeat. Fetches run inline.
package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/backend"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/canvas"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/data/dispatcher"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/input"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/render"
)

var copyToClipboard = clipboard.WriteAll

// Terminal is a canvas that also delivers keys.
type Terminal interface {
	canvas.Canvas
	canvas.KeySource
}

// Loop owns the navigator while the console driver runs.
type Loop struct {
	nav        *nav.Navigator
	term       Terminal
	keys       input.KeyMap
	refresher  *backend.Refresher
	dispatcher *dispatcher.Dispatcher
}

// New prepares a loop. refresher may be nil.
func New(n *nav.Navigator, term Terminal, keys input.KeyMap, refresher *backend.Refresher) *Loop {
	return &Loop{
		nav:        n,
		term:       term,
		keys:       keys,
		refresher:  refresher,
		dispatcher: dispatcher.New(n),
	}
}

// Run populates the root pane and processes keys until quit, context
// cancellation or terminal loss. A failed root fetch is logged and the loop
// starts with an empty first pane.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.nav.Start(ctx); err != nil {
		logging.Error(fmt.Errorf("load %s: %w", l.nav.Pane(0).Title(), err))
	}
	var refresh <-chan backend.Event
	if l.refresher != nil {
		refresh = l.refresher.Events()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if refresh != nil {
			if _, closed := l.dispatcher.Drain(refresh); closed {
				refresh = nil
			}
		}
		render.Render(l.nav, l.term)
		ev, err := l.term.ReadKey()
		if errors.Is(err, canvas.ErrClosed) {
			events.App.Stop("terminal closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		if ev.Empty() {
			continue
		}
		if quit := l.handleKey(ctx, ev); quit {
			events.App.Stop("quit")
			return nil
		}
	}
}

func (l *Loop) handleKey(ctx context.Context, ev canvas.KeyEvent) bool {
	cmd := l.keys.Resolve(ev)
	events.Input.Key(ev.Name, cmd.String())
	switch cmd {
	case input.CmdQuit:
		return true
	case input.CmdYank:
		l.yank()
		return false
	case input.CmdConfirm:
		from := l.nav.Active()
		_, err := input.Apply(ctx, l.nav, cmd)
		if l.nav.Active() == from {
			return false
		}
		pane := l.nav.ActivePane()
		if err != nil {
			events.Fetch.Fail(l.nav.Active(), pane.Source(), err)
			logging.Error(fmt.Errorf("load %s: %w", pane.Title(), err))
			return false
		}
		l.refresher.Track(backend.Target{Pane: l.nav.Active(), Locator: pane.Source()})
		return false
	}
	_, _ = input.Apply(ctx, l.nav, cmd)
	return false
}

func (l *Loop) yank() {
	rec, ok := l.nav.ActivePane().SelectedRecord()
	if !ok {
		return
	}
	value := rec.Locator
	if value == "" {
		value = rec.Label
	}
	if err := copyToClipboard(value); err != nil {
		logging.Error(fmt.Errorf("copy to clipboard: %w", err))
		return
	}
	events.Nav.Yank(l.nav.Active(), value)
}
