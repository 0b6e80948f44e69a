package backend

import (
	"context"
	"sync"
	"time"
)

// throttle spaces refresh fetches at least interval apart.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval}
}

// wait blocks until the next fetch may start and claims the slot. It returns
// false when ctx ends first.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.interval <= 0 {
		return ctx.Err() == nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if delay := time.Until(t.last.Add(t.interval)); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
	t.last = time.Now()
	return true
}
