package transmission

import (
	"strings"
	"time"

	"github.com/hekmon/transmissionrpc/v3"
)

// ID identifies a torrent on the daemon. The hash string is used so ids stay
// stable across daemon restarts.
type ID string

// Status mirrors the daemon's torrent status codes.
type Status int

const (
	StatusStopped Status = iota
	StatusQueuedToVerify
	StatusVerifying
	StatusQueuedToDownload
	StatusDownloading
	StatusQueuedToSeed
	StatusSeeding
)

// String returns the label shown in the torrent list.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusQueuedToVerify, StatusQueuedToDownload, StatusQueuedToSeed:
		return "Queued"
	case StatusVerifying:
		return "Checking"
	case StatusDownloading:
		return "Downloading"
	case StatusSeeding:
		return "Seeding"
	default:
		return "Unknown"
	}
}

// Torrent is an immutable snapshot of one torrent as reported by torrent-get.
type Torrent struct {
	ID           ID
	Name         string
	Size         int64
	PercentDone  float64
	ETASeconds   int64
	RateDownload int64
	RateUpload   int64
	Status       Status
	ErrorString  string
}

// ETA returns the estimated time remaining, or false when the daemon reports
// it as unknown or not applicable.
func (t Torrent) ETA() (time.Duration, bool) {
	if t.ETASeconds < 0 {
		return 0, false
	}
	return time.Duration(t.ETASeconds) * time.Second, true
}

// Stopped reports whether the torrent is paused on the daemon.
func (t Torrent) Stopped() bool {
	return t.Status == StatusStopped
}

// torrentFields lists the torrent-get fields decoded into Torrent.
var torrentFields = []string{
	"hashString",
	"name",
	"totalSize",
	"percentDone",
	"eta",
	"rateDownload",
	"rateUpload",
	"status",
	"errorString",
}

// SessionStats holds the daemon-wide transfer counters.
type SessionStats struct {
	ActiveTorrentCount int
	PausedTorrentCount int
	TorrentCount       int
	DownloadSpeed      int64
	UploadSpeed        int64
	Cumulative         StatsPeriod
	Current            StatsPeriod
}

// StatsPeriod aggregates transfer totals over a period.
type StatsPeriod struct {
	UploadedBytes   int64
	DownloadedBytes int64
	FilesAdded      int64
	SessionCount    int64
	SecondsActive   int64
}

// Ratio returns uploaded/downloaded, or zero when nothing was downloaded.
func (p StatsPeriod) Ratio() float64 {
	if p.DownloadedBytes <= 0 {
		return 0
	}
	return float64(p.UploadedBytes) / float64(p.DownloadedBytes)
}

// SessionInfo holds the session settings the dashboard uses.
type SessionInfo struct {
	DownloadDir string
	Version     string
	RPCVersion  int
}

func fromRPCTorrent(t transmissionrpc.Torrent) Torrent {
	out := Torrent{ETASeconds: -1}
	if t.HashString != nil {
		out.ID = ID(*t.HashString)
	}
	if t.Name != nil {
		out.Name = *t.Name
	}
	if t.TotalSize != nil {
		// the library reports sizes in bits
		out.Size = int64(*t.TotalSize / 8)
	}
	if t.PercentDone != nil {
		out.PercentDone = *t.PercentDone
	}
	if t.ETA != nil {
		out.ETASeconds = int64(*t.ETA)
	}
	if t.RateDownload != nil {
		out.RateDownload = int64(*t.RateDownload)
	}
	if t.RateUpload != nil {
		out.RateUpload = int64(*t.RateUpload)
	}
	if t.Status != nil {
		out.Status = Status(*t.Status)
	}
	if t.ErrorString != nil {
		out.ErrorString = *t.ErrorString
	}
	return out
}

func fromRPCStats(s transmissionrpc.SessionStats) SessionStats {
	out := SessionStats{
		ActiveTorrentCount: int(s.ActiveTorrentCount),
		PausedTorrentCount: int(s.PausedTorrentCount),
		TorrentCount:       int(s.TorrentCount),
		DownloadSpeed:      int64(s.DownloadSpeed),
		UploadSpeed:        int64(s.UploadSpeed),
	}
	if c := &s.CumulativeStats; c != nil {
		out.Cumulative = StatsPeriod{
			UploadedBytes:   int64(c.UploadedBytes),
			DownloadedBytes: int64(c.DownloadedBytes),
			FilesAdded:      int64(c.FilesAdded),
			SessionCount:    int64(c.SessionCount),
			SecondsActive:   int64(c.SecondsActive),
		}
	}
	if c := &s.CurrentStats; c != nil {
		out.Current = StatsPeriod{
			UploadedBytes:   int64(c.UploadedBytes),
			DownloadedBytes: int64(c.DownloadedBytes),
			FilesAdded:      int64(c.FilesAdded),
			SessionCount:    int64(c.SessionCount),
			SecondsActive:   int64(c.SecondsActive),
		}
	}
	return out
}

func isMagnet(source string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(source)), "magnet:")
}
