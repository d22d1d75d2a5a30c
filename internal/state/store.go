package state

import (
	"sync"
	"time"

	"github.com/CouldBeFree/rustmission/internal/transmission"
)

// OfflineThreshold is the number of consecutive failed torrent polls after
// which the daemon is reported offline.
const OfflineThreshold = 3

// Store holds the latest snapshots pulled from the daemon. Each publish swaps
// the stored slice or value wholesale; callers must treat returned slices as
// read-only.
type Store struct {
	mu sync.RWMutex

	torrents    []transmission.Torrent
	stats       *transmission.SessionStats
	info        *transmission.SessionInfo
	lastUpdated time.Time

	failures int
	lastErr  error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// PublishTorrents replaces the torrent list and clears the failure streak.
func (s *Store) PublishTorrents(torrents []transmission.Torrent, at time.Time) {
	s.mu.Lock()
	s.torrents = torrents
	s.lastUpdated = at
	s.failures = 0
	s.lastErr = nil
	s.mu.Unlock()
}

// PublishStats replaces the session statistics snapshot.
func (s *Store) PublishStats(stats transmission.SessionStats) {
	s.mu.Lock()
	s.stats = &stats
	s.mu.Unlock()
}

// PublishInfo replaces the session settings snapshot.
func (s *Store) PublishInfo(info transmission.SessionInfo) {
	s.mu.Lock()
	s.info = &info
	s.mu.Unlock()
}

// RecordFailure notes a failed torrent poll and returns the current streak.
// Published snapshots are left untouched.
func (s *Store) RecordFailure(err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
	s.lastErr = err
	return s.failures
}

func (s *Store) Torrents() []transmission.Torrent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.torrents
}

// Stats returns the latest statistics, or false before the first successful poll.
func (s *Store) Stats() (transmission.SessionStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return transmission.SessionStats{}, false
	}
	return *s.stats, true
}

// Info returns the latest session settings, or false if none were fetched.
func (s *Store) Info() (transmission.SessionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return transmission.SessionInfo{}, false
	}
	return *s.info, true
}

func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

func (s *Store) ConsecutiveFailures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures
}

func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Offline reports whether torrent polls have failed often enough in a row to
// treat the daemon as unreachable.
func (s *Store) Offline() bool {
	return s.ConsecutiveFailures() >= OfflineThreshold
}
