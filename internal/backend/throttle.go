package backend

import (
	"context"
	"sync"
	"time"
)

// minFetchGap bounds how often a poller may hit the daemon, so a burst of
// refresh requests after several commands collapses into spaced fetches.
const minFetchGap = 250 * time.Millisecond

// throttle enforces a minimum gap between successive fetches of one poller.
type throttle struct {
	gap time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(gap time.Duration) *throttle {
	if gap <= 0 {
		return &throttle{}
	}
	return &throttle{gap: gap}
}

// wait blocks until the next fetch slot is free and claims it. It returns
// false when ctx ends first.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.gap <= 0 {
		return ctx.Err() == nil
	}
	t.mu.Lock()
	now := time.Now()
	start := t.next
	if start.Before(now) {
		start = now
	}
	t.next = start.Add(t.gap)
	t.mu.Unlock()

	delay := time.Until(start)
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
