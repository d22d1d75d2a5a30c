package command

import (
	"context"
	"time"

	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultTimeout = 15 * time.Second

// Call performs one mutating request against the daemon.
type Call func(ctx context.Context, api transmission.API) error

// Request describes a command to run and the task that tracks it.
type Request struct {
	Kind  task.Kind
	Label string
	Call  Call
}

// ResultMsg is delivered to the UI loop once a command has resolved. The task
// is already updated by the time it arrives.
type ResultMsg struct {
	TaskID task.ID
	Kind   task.Kind
	Label  string
	Err    error
}

// Bus runs daemon commands off the UI loop and records them as tasks.
type Bus struct {
	api     transmission.API
	tasks   *task.Registry
	timeout time.Duration
}

// New initialises a command bus instance.
func New(api transmission.API, tasks *task.Registry) *Bus {
	return &Bus{api: api, tasks: tasks, timeout: defaultTimeout}
}

// Tasks exposes the registry commands are recorded in.
func (b *Bus) Tasks() *task.Registry {
	return b.tasks
}

// Execute registers a pending task for req and returns a command that issues
// the call and resolves the task. Calls are not cancelled once issued.
func (b *Bus) Execute(req Request) tea.Cmd {
	id := b.tasks.Register(req.Kind, req.Label)
	events.Command.Queue(string(id), req.Label)
	api := b.api
	timeout := b.timeout
	return func() tea.Msg {
		var err error
		if req.Call == nil {
			events.Command.NoOp(req.Label, "no call")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			err = req.Call(ctx, api)
			cancel()
		}
		b.tasks.Resolve(id, task.Outcome{Err: err})
		events.Command.Result(string(id), req.Label, err)
		return ResultMsg{TaskID: id, Kind: req.Kind, Label: req.Label, Err: err}
	}
}
