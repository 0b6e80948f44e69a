package dispatcher

import (
	"fmt"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/backend"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

type Result struct {
	Pane    int
	Applied bool
	Err     error
}

// Dispatcher applies background refresh events to a navigator. It must run
// on the goroutine that owns the navigator.
type Dispatcher struct {
	nav *nav.Navigator
}

func New(n *nav.Navigator) *Dispatcher {
	return &Dispatcher{nav: n}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	res := Result{Pane: evt.Pane}
	if evt.Err != nil {
		res.Err = evt.Err
		logging.Error(fmt.Errorf("refresh %s: %w", evt.Locator, evt.Err))
		return res
	}
	res.Applied = d.nav.Refresh(evt.Pane, evt.Locator, evt.Records)
	if res.Applied {
		events.Refresh.Applied(evt.Pane, evt.Locator, len(evt.Records))
	} else {
		events.Refresh.Skipped(evt.Pane, evt.Locator)
	}
	return res
}

// Drain applies every event already queued on ch without blocking. It
// reports whether any event changed a pane and whether ch is closed.
func (d *Dispatcher) Drain(ch <-chan backend.Event) (changed, closed bool) {
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return changed, true
			}
			if d.Handle(evt).Applied {
				changed = true
			}
		default:
			return changed, false
		}
	}
}
