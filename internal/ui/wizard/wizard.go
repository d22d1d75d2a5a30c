// Package wizard implements table-driven multi-stage input flows that end in
// a single daemon command.
package wizard

import (
	"context"
	"strings"

	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui/intent"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Stage is one input step of a wizard.
type Stage struct {
	Key         string
	Prompt      string
	Placeholder string
	Default     string
	Required    bool
	// Validate returns a message when the value is rejected.
	Validate func(string) string
}

// Submission is the command a finished wizard asks the caller to run.
type Submission struct {
	Kind        task.Kind
	Description string
	Call        func(ctx context.Context, api transmission.API) error
}

// Definition describes a wizard: its stages in order and how captured values
// become a command.
type Definition struct {
	Name   string
	Title  string
	Stages []Stage
	Build  func(values map[string]string) Submission
}

// Result reports what an Update did. Done means the wizard should be closed;
// Submission is non-nil only when the final stage was confirmed.
type Result struct {
	Done       bool
	Submission *Submission
	Cmd        tea.Cmd
}

// Wizard is a running instance of a Definition.
type Wizard struct {
	def    Definition
	stage  int
	values map[string]string
	input  textinput.Model
	err    string
}

// New starts def at its first stage.
func New(def Definition) *Wizard {
	w := &Wizard{def: def, values: make(map[string]string, len(def.Stages))}
	w.enter(0)
	return w
}

func (w *Wizard) Title() string      { return w.def.Title }
func (w *Wizard) StageIndex() int    { return w.stage }
func (w *Wizard) StageCount() int    { return len(w.def.Stages) }
func (w *Wizard) Error() string      { return w.err }
func (w *Wizard) InputView() string  { return w.input.View() }
func (w *Wizard) Value() string      { return w.input.Value() }
func (w *Wizard) Prompt() string     { return w.current().Prompt }
func (w *Wizard) Captured() []string { return w.capturedInOrder() }

func (w *Wizard) current() Stage {
	if w.stage < 0 || w.stage >= len(w.def.Stages) {
		return Stage{}
	}
	return w.def.Stages[w.stage]
}

func (w *Wizard) enter(stage int) {
	w.stage = stage
	st := w.current()
	ti := textinput.New()
	ti.Prompt = "> "
	// magnet links with many trackers run to several KiB
	ti.CharLimit = 0
	ti.Placeholder = st.Placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)
	value := st.Default
	if captured, ok := w.values[st.Key]; ok {
		value = captured
	}
	if value != "" {
		ti.SetValue(value)
	}
	ti.Focus()
	w.input = ti
	w.err = ""
}

// Update applies one intent. Confirm advances or submits, Cancel abandons the
// flow, Input edits the active stage; everything else is ignored.
func (w *Wizard) Update(in intent.Intent) Result {
	switch in.Kind {
	case intent.Cancel, intent.Quit:
		events.Wizard.Cancel(w.def.Name, w.stage)
		return Result{Done: true}
	case intent.Confirm:
		return w.confirm()
	case intent.Input:
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(in.Key)
		w.err = ""
		return Result{Cmd: cmd}
	}
	return Result{}
}

func (w *Wizard) confirm() Result {
	st := w.current()
	value := strings.TrimSpace(w.input.Value())
	if st.Required && value == "" {
		w.err = "a value is required"
		events.Wizard.Rejected(w.def.Name, w.stage, w.err)
		return Result{}
	}
	if st.Validate != nil {
		if msg := st.Validate(value); msg != "" {
			w.err = msg
			events.Wizard.Rejected(w.def.Name, w.stage, msg)
			return Result{}
		}
	}
	w.values[st.Key] = value
	if w.stage+1 < len(w.def.Stages) {
		w.enter(w.stage + 1)
		events.Wizard.Advance(w.def.Name, w.stage)
		return Result{}
	}
	events.Wizard.Submit(w.def.Name, w.capturedInOrder())
	if w.def.Build == nil {
		return Result{Done: true}
	}
	sub := w.def.Build(w.values)
	return Result{Done: true, Submission: &sub}
}

func (w *Wizard) capturedInOrder() []string {
	out := make([]string, 0, len(w.values))
	for _, st := range w.def.Stages {
		if v, ok := w.values[st.Key]; ok {
			out = append(out, v)
		}
	}
	return out
}
