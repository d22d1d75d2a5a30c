package dispatcher

import (
	"github.com/CouldBeFree/rustmission/internal/backend"
	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/state"
	"github.com/CouldBeFree/rustmission/internal/transmission"
)

// Result reports which parts of the store an event replaced.
type Result struct {
	TorrentsUpdated bool
	StatsUpdated    bool
	SessionUpdated  bool
	// WentOffline is set on the failure that crosses the offline threshold.
	WentOffline bool
}

// Dispatcher is the single writer of the snapshot store.
type Dispatcher struct {
	store *state.Store
}

func New(store *state.Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// Handle applies evt to the store. Failed polls leave published snapshots
// untouched; only torrent poll failures count towards going offline.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		if evt.Kind == backend.KindTorrents {
			n := d.store.RecordFailure(evt.Err)
			if n == state.OfflineThreshold {
				res.WentOffline = true
				events.Poll.Offline(n)
			}
		}
		return res
	}
	switch evt.Kind {
	case backend.KindTorrents:
		if torrents, ok := evt.Data.([]transmission.Torrent); ok {
			d.store.PublishTorrents(torrents, evt.At)
			events.Poll.Applied(evt.Kind.String(), len(torrents))
			res.TorrentsUpdated = true
		}
	case backend.KindStats:
		if stats, ok := evt.Data.(transmission.SessionStats); ok {
			d.store.PublishStats(stats)
			res.StatsUpdated = true
		}
	case backend.KindSession:
		if info, ok := evt.Data.(transmission.SessionInfo); ok {
			d.store.PublishInfo(info)
			res.SessionUpdated = true
		}
	}
	return res
}
