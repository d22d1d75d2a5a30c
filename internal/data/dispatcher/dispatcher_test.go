package dispatcher

import (
	"errors"
	"testing"
	"time"

	"github.com/CouldBeFree/rustmission/internal/backend"
	"github.com/CouldBeFree/rustmission/internal/state"
	"github.com/CouldBeFree/rustmission/internal/transmission"
)

func TestHandlePublishesSnapshots(t *testing.T) {
	store := state.NewStore()
	d := New(store)

	res := d.Handle(backend.Event{Kind: backend.KindTorrents, Data: []transmission.Torrent{{ID: "a"}}, At: time.Unix(5, 0)})
	if !res.TorrentsUpdated {
		t.Fatalf("expected torrents update")
	}
	if got := store.Torrents(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected torrents %#v", got)
	}

	res = d.Handle(backend.Event{Kind: backend.KindStats, Data: transmission.SessionStats{TorrentCount: 1}})
	if !res.StatsUpdated {
		t.Fatalf("expected stats update")
	}
	res = d.Handle(backend.Event{Kind: backend.KindSession, Data: transmission.SessionInfo{DownloadDir: "/dl"}})
	if !res.SessionUpdated {
		t.Fatalf("expected session update")
	}
	if info, _ := store.Info(); info.DownloadDir != "/dl" {
		t.Fatalf("unexpected info %#v", info)
	}
}

func TestHandleFailureKeepsSnapshot(t *testing.T) {
	store := state.NewStore()
	d := New(store)
	d.Handle(backend.Event{Kind: backend.KindTorrents, Data: []transmission.Torrent{{ID: "a"}}})

	boom := errors.New("timeout")
	var offline int
	for i := 0; i < state.OfflineThreshold+1; i++ {
		res := d.Handle(backend.Event{Kind: backend.KindTorrents, Err: boom})
		if res.TorrentsUpdated {
			t.Fatalf("failure must not report an update")
		}
		if res.WentOffline {
			offline++
		}
	}
	if offline != 1 {
		t.Fatalf("expected a single offline transition, got %d", offline)
	}
	if got := store.Torrents(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("snapshot changed after failures: %#v", got)
	}

	d.Handle(backend.Event{Kind: backend.KindStats, Err: boom})
	if store.ConsecutiveFailures() != state.OfflineThreshold+1 {
		t.Fatalf("stats failures must not count towards offline")
	}
}
