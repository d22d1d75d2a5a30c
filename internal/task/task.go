// Package task tracks user-issued daemon commands and their outcome.
package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/google/uuid"
)

// ID identifies a registered task.
type ID string

// Kind names the command a task tracks.
type Kind int

const (
	KindAdd Kind = iota
	KindDelete
	KindStart
	KindStop
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindDelete:
		return "delete"
	case KindStart:
		return "start"
	case KindStop:
		return "stop"
	default:
		return "unknown"
	}
}

// State is the lifecycle position of a task.
type State int

const (
	Pending State = iota
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Task is a read-only copy of a registered command.
type Task struct {
	ID          ID
	Kind        Kind
	Description string
	State       State
	Reason      string
	Created     time.Time
	Resolved    time.Time
}

// Summary is the status-line text for the task.
func (t Task) Summary() string {
	switch t.State {
	case Pending:
		return t.Description
	case Success:
		return fmt.Sprintf("%s: done", t.Description)
	case Failed:
		return fmt.Sprintf("%s: failed: %s", t.Description, t.Reason)
	default:
		return t.Description
	}
}

// Outcome is the result passed to Resolve. A nil Err means success.
type Outcome struct {
	Err error
}

// Registry holds every task until it is resolved and acknowledged.
type Registry struct {
	mu    sync.Mutex
	tasks []*Task
	now   func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{now: time.Now}
}

// Register records a pending task and returns its id.
func (r *Registry) Register(kind Kind, description string) ID {
	id := ID(uuid.NewString())
	r.mu.Lock()
	r.tasks = append(r.tasks, &Task{
		ID:          id,
		Kind:        kind,
		Description: description,
		State:       Pending,
		Created:     r.now(),
	})
	r.mu.Unlock()
	events.Task.Register(string(id), kind.String(), description)
	return id
}

// Resolve moves a pending task to Success or Failed. Unknown ids and tasks
// that were already resolved are left alone.
func (r *Registry) Resolve(id ID, outcome Outcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.find(id)
	if t == nil || t.State != Pending {
		return false
	}
	t.Resolved = r.now()
	if outcome.Err != nil {
		t.State = Failed
		t.Reason = outcome.Err.Error()
	} else {
		t.State = Success
	}
	events.Task.Resolve(string(id), t.State.String(), t.Reason)
	return true
}

// List returns copies of every visible task, oldest first.
func (r *Registry) List() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *t)
	}
	return out
}

// Get returns a copy of the task with the given id.
func (r *Registry) Get(id ID) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t := r.find(id); t != nil {
		return *t, true
	}
	return Task{}, false
}

// Latest returns the most recently registered visible task.
func (r *Registry) Latest() (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tasks) == 0 {
		return Task{}, false
	}
	return *r.tasks[len(r.tasks)-1], true
}

// Pending reports how many tasks are still in flight.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tasks {
		if t.State == Pending {
			n++
		}
	}
	return n
}

// Acknowledge hides resolved tasks from List and prunes them. Pending tasks
// stay visible.
func (r *Registry) Acknowledge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tasks[:0]
	n := 0
	for _, t := range r.tasks {
		if t.State == Pending {
			kept = append(kept, t)
			continue
		}
		n++
	}
	for i := len(kept); i < len(r.tasks); i++ {
		r.tasks[i] = nil
	}
	r.tasks = kept
	return n
}

func (r *Registry) find(id ID) *Task {
	for _, t := range r.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
