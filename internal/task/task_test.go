package task

import (
	"errors"
	"testing"
)

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	id := r.Register(KindAdd, "Adding magnet:?xt=urn:btih:ABC")
	if id == "" {
		t.Fatalf("expected non-empty id")
	}
	if r.Pending() != 1 {
		t.Fatalf("expected one pending task")
	}
	got, ok := r.Latest()
	if !ok || got.ID != id || got.State != Pending || got.Kind != KindAdd {
		t.Fatalf("unexpected latest task %#v", got)
	}

	if !r.Resolve(id, Outcome{}) {
		t.Fatalf("expected resolve to succeed")
	}
	if r.Resolve(id, Outcome{Err: errors.New("late")}) {
		t.Fatalf("resolved task must not be resolved again")
	}
	got, _ = r.Get(id)
	if got.State != Success || got.Resolved.IsZero() {
		t.Fatalf("expected success, got %#v", got)
	}
	if got.Summary() != "Adding magnet:?xt=urn:btih:ABC: done" {
		t.Fatalf("unexpected summary %q", got.Summary())
	}
}

func TestFailedTaskKeepsReasonUntilAcknowledged(t *testing.T) {
	r := NewRegistry()
	failed := r.Register(KindStop, "Stopping ubuntu.iso")
	pending := r.Register(KindStart, "Starting debian.iso")
	r.Resolve(failed, Outcome{Err: errors.New("connection refused")})

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 visible tasks, got %d", len(list))
	}
	if list[0].State != Failed || list[0].Reason != "connection refused" {
		t.Fatalf("unexpected failed task %#v", list[0])
	}

	if n := r.Acknowledge(); n != 1 {
		t.Fatalf("expected one acknowledged task, got %d", n)
	}
	list = r.List()
	if len(list) != 1 || list[0].ID != pending {
		t.Fatalf("pending task must survive acknowledge, got %#v", list)
	}
}

func TestResolveUnknownID(t *testing.T) {
	r := NewRegistry()
	if r.Resolve("missing", Outcome{}) {
		t.Fatalf("expected unknown id to be ignored")
	}
	if _, ok := r.Latest(); ok {
		t.Fatalf("expected empty registry")
	}
}
