package command

import (
	"context"
	"errors"
	"testing"

	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
)

func TestExecuteRegistersThenResolves(t *testing.T) {
	tasks := task.NewRegistry()
	bus := New(nil, tasks)

	called := 0
	cmd := bus.Execute(Request{Kind: task.KindStop, Label: "Stopping ubuntu.iso", Call: func(context.Context, transmission.API) error {
		called++
		return nil
	}})
	latest, ok := tasks.Latest()
	if !ok || latest.State != task.Pending {
		t.Fatalf("expected pending task before the command runs, got %#v", latest)
	}
	if called != 0 {
		t.Fatalf("call must not run until the command executes")
	}

	msg, ok := cmd().(ResultMsg)
	if !ok {
		t.Fatalf("expected ResultMsg")
	}
	if called != 1 || msg.Err != nil || msg.TaskID != latest.ID {
		t.Fatalf("unexpected result %#v (calls=%d)", msg, called)
	}
	got, _ := tasks.Get(latest.ID)
	if got.State != task.Success {
		t.Fatalf("expected success, got %v", got.State)
	}
}

func TestExecuteRecordsFailure(t *testing.T) {
	tasks := task.NewRegistry()
	bus := New(nil, tasks)
	boom := errors.New("connection refused")
	msg := bus.Execute(Request{Kind: task.KindAdd, Label: "Adding x", Call: func(context.Context, transmission.API) error {
		return boom
	}})().(ResultMsg)
	if !errors.Is(msg.Err, boom) {
		t.Fatalf("expected error in result, got %v", msg.Err)
	}
	got, _ := tasks.Get(msg.TaskID)
	if got.State != task.Failed || got.Reason != "connection refused" {
		t.Fatalf("expected failed task, got %#v", got)
	}
}
