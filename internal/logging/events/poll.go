package events

import "github.com/CouldBeFree/rustmission/internal/logging"

type PollTracer struct{}

var Poll = PollTracer{}

func (PollTracer) Failed(kind string, failures int, err error) {
	payload := map[string]interface{}{"kind": kind, "failures": failures}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("poll.failed", payload)
}

func (PollTracer) Refresh(kind string) {
	logging.Trace("poll.refresh", map[string]interface{}{"kind": kind})
}

func (PollTracer) Applied(kind string, count int) {
	logging.Trace("poll.applied", map[string]interface{}{"kind": kind, "count": count})
}

func (PollTracer) Offline(failures int) {
	logging.Trace("poll.offline", map[string]interface{}{"failures": failures})
}
