package backend

import (
	"context"
	"testing"
	"time"
)

func TestThrottleSpacesFetches(t *testing.T) {
	gate := newThrottle(30 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if !gate.wait(ctx) {
			t.Fatalf("expected wait %d to succeed", i)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("expected at least two gaps, got %s", elapsed)
	}
}

func TestThrottleStopsOnCancel(t *testing.T) {
	gate := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if !gate.wait(ctx) {
		t.Fatalf("expected first slot to be free")
	}
	cancel()
	if gate.wait(ctx) {
		t.Fatalf("expected cancelled wait to report false")
	}
}

func TestThrottleZeroGap(t *testing.T) {
	gate := newThrottle(0)
	if !gate.wait(context.Background()) {
		t.Fatalf("expected zero gap to never block")
	}
}
