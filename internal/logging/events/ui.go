package events

import "github.com/CouldBeFree/rustmission/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type OverlayTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Overlay = OverlayTracer{}
	Command = CommandTracer{}
)

func (UITracer) Intent(name, target string) {
	logging.Trace("ui.intent", map[string]interface{}{"intent": name, "target": target})
}

func (UITracer) Tab(index int) {
	logging.Trace("ui.tab", map[string]interface{}{"tab": index})
}

func (UITracer) Cursor(cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"cursor": cursor})
}

func (FilterTracer) Set(pattern string, rows int) {
	logging.Trace("filter.set", map[string]interface{}{"pattern": pattern, "rows": rows})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FilterTracer) Cursor(pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"cursor": pos})
}

func (OverlayTracer) Push(kind string, depth int) {
	logging.Trace("overlay.push", map[string]interface{}{"kind": kind, "depth": depth})
}

func (OverlayTracer) Pop(kind string, depth int) {
	logging.Trace("overlay.pop", map[string]interface{}{"kind": kind, "depth": depth})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(label, reason string) {
	logging.Trace("command.noop", map[string]interface{}{"label": label, "reason": reason})
}

func (CommandTracer) Result(id, label string, err error) {
	payload := map[string]interface{}{"id": id, "label": label}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}
