package events

import "github.com/CouldBeFree/rustmission/internal/logging"

type WizardTracer struct{}

type TaskTracer struct{}

var (
	Wizard = WizardTracer{}
	Task   = TaskTracer{}
)

func (WizardTracer) Advance(name string, stage int) {
	logging.Trace("wizard.advance", map[string]interface{}{"wizard": name, "stage": stage})
}

func (WizardTracer) Rejected(name string, stage int, reason string) {
	logging.Trace("wizard.rejected", map[string]interface{}{"wizard": name, "stage": stage, "reason": reason})
}

func (WizardTracer) Submit(name string, fields []string) {
	logging.Trace("wizard.submit", map[string]interface{}{"wizard": name, "fields": fields})
}

func (WizardTracer) Cancel(name string, stage int) {
	logging.Trace("wizard.cancel", map[string]interface{}{"wizard": name, "stage": stage})
}

func (TaskTracer) Register(id, kind, description string) {
	logging.Trace("task.register", map[string]interface{}{"id": id, "kind": kind, "description": description})
}

func (TaskTracer) Resolve(id, state, reason string) {
	logging.Trace("task.resolve", map[string]interface{}{"id": id, "state": state, "reason": reason})
}
