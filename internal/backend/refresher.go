package backend

import (
	"context"
	"sync"
	"time"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

// Target names the pane whose list is kept fresh and the locator it shows.
type Target struct {
	Pane    int
	Locator string
}

// Event conveys a refreshed list or the error from a refresh attempt.
type Event struct {
	Pane    int
	Locator string
	Records []nav.Record
	Err     error
}

// Fetcher re-fetches the list for pane under locator, bypassing any cache
// freshness window.
type Fetcher func(ctx context.Context, pane int, locator string) ([]nav.Record, error)

// Options tunes a Refresher.
type Options struct {
	Interval time.Duration
	// Throttle is the minimum gap between two fetches.
	Throttle time.Duration
	// Notify, when set, runs after each event is queued. Drivers that block
	// on terminal input use it to wake up.
	Notify func()
}

// Refresher periodically re-fetches the tracked pane and publishes events.
type Refresher struct {
	fetch    Fetcher
	interval time.Duration
	throttle *throttle
	notify   func()

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	target Target

	events chan Event
	wg     sync.WaitGroup
}

// NewRefresher starts the polling goroutine. Nothing is fetched until a
// target is tracked.
func NewRefresher(fetch Fetcher, opts Options) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	r := &Refresher{
		fetch:    fetch,
		interval: interval,
		throttle: newThrottle(opts.Throttle),
		notify:   opts.Notify,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	r.wg.Add(1)
	go r.poll()

	go func() {
		r.wg.Wait()
		close(r.events)
	}()

	return r
}

// Events returns a channel of refresh events.
func (r *Refresher) Events() <-chan Event {
	return r.events
}

// Track replaces the refresh target. An empty locator stops refreshing.
func (r *Refresher) Track(target Target) {
	if r == nil {
		return
	}
	r.mu.Lock()
	changed := r.target != target
	r.target = target
	r.mu.Unlock()
	if changed {
		events.Refresh.Track(target.Pane, target.Locator)
	}
}

// Tracked returns the current target.
func (r *Refresher) Tracked() Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// Stop cancels the refresher. The poller exits after its current fetch.
func (r *Refresher) Stop() {
	if r == nil {
		return
	}
	r.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

func (r *Refresher) poll() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if !r.emit() {
				return
			}
		}
	}
}

func (r *Refresher) emit() bool {
	target := r.Tracked()
	if target.Locator == "" {
		return true
	}
	if !r.throttle.wait(r.ctx) {
		return false
	}
	records, err := r.fetch(r.ctx, target.Pane, target.Locator)
	if r.ctx.Err() != nil {
		return false
	}
	evt := Event{Pane: target.Pane, Locator: target.Locator, Records: records, Err: err}
	select {
	case <-r.ctx.Done():
		return false
	case r.events <- evt:
	}
	if r.notify != nil {
		r.notify()
	}
	return true
}
