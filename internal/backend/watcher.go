package backend

import (
	"context"
	"sync"
	"time"

	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/transmission"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindTorrents Kind = iota
	KindStats
	KindSession
)

func (k Kind) String() string {
	switch k {
	case KindTorrents:
		return "torrents"
	case KindStats:
		return "stats"
	case KindSession:
		return "session"
	default:
		return "unknown"
	}
}

// Event conveys updated data or an error from a backend poll. Failures counts
// consecutive failed polls for the kind, including this one.
type Event struct {
	Kind     Kind
	Data     interface{}
	Err      error
	At       time.Time
	Failures int
}

// Options control poll cadence. Zero values fall back to defaults.
type Options struct {
	TorrentInterval time.Duration
	StatsInterval   time.Duration
	SessionInterval time.Duration
}

const (
	defaultTorrentInterval = 1500 * time.Millisecond
	defaultStatsInterval   = 3 * time.Second
	defaultSessionInterval = 30 * time.Second
)

// Watcher polls the daemon on independent schedules and publishes events.
type Watcher struct {
	api  transmission.API
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events  chan Event
	refresh map[Kind]chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts the torrent, stats and session pollers.
func NewWatcher(api transmission.API, opts Options) *Watcher {
	if opts.TorrentInterval <= 0 {
		opts.TorrentInterval = defaultTorrentInterval
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = defaultStatsInterval
	}
	if opts.SessionInterval <= 0 {
		opts.SessionInterval = defaultSessionInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		api:    api,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
		refresh: map[Kind]chan struct{}{
			KindTorrents: make(chan struct{}, 1),
			KindStats:    make(chan struct{}, 1),
			KindSession:  make(chan struct{}, 1),
		},
	}

	w.startTorrentPoller()
	w.startStatsPoller()
	w.startSessionPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Refresh asks the poller for kind to fetch now instead of waiting for its
// next tick. Requests made while one is pending collapse into one.
func (w *Watcher) Refresh(kind Kind) {
	ch, ok := w.refresh[kind]
	if !ok {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startTorrentPoller() {
	w.start(KindTorrents, w.opts.TorrentInterval, func(ctx context.Context) (interface{}, error) {
		return w.api.ListTorrents(ctx)
	})
}

func (w *Watcher) startStatsPoller() {
	w.start(KindStats, w.opts.StatsInterval, func(ctx context.Context) (interface{}, error) {
		return w.api.SessionStats(ctx)
	})
}

func (w *Watcher) startSessionPoller() {
	w.start(KindSession, w.opts.SessionInterval, func(ctx context.Context) (interface{}, error) {
		return w.api.SessionInfo(ctx)
	})
}

func (w *Watcher) start(kind Kind, interval time.Duration, fetch func(context.Context) (interface{}, error)) {
	gate := newThrottle(minFetchGap)
	w.wg.Add(1)
	go w.poll(kind, interval, func(ctx context.Context) (interface{}, error) {
		if !gate.wait(ctx) {
			return nil, ctx.Err()
		}
		return fetch(ctx)
	})
}

func (w *Watcher) poll(kind Kind, interval time.Duration, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	failures := 0
	emit := func() bool {
		data, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		if err != nil {
			failures++
			events.Poll.Failed(kind.String(), failures, err)
		} else {
			failures = 0
		}
		evt := Event{Kind: kind, Data: data, Err: err, At: time.Now(), Failures: failures}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	for {
		if !emit() {
			return
		}
		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-w.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-w.refresh[kind]:
			timer.Stop()
			events.Poll.Refresh(kind.String())
		}
	}
}
