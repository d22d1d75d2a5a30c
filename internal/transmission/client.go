package transmission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hekmon/transmissionrpc/v3"
)

// API is the set of daemon operations the dashboard consumes.
type API interface {
	ListTorrents(ctx context.Context) ([]Torrent, error)
	SessionStats(ctx context.Context) (SessionStats, error)
	SessionInfo(ctx context.Context) (SessionInfo, error)
	Add(ctx context.Context, source string, downloadDir *string) error
	Start(ctx context.Context, ids []ID) error
	Stop(ctx context.Context, ids []ID) error
	Delete(ctx context.Context, ids []ID, withFiles bool) error
}

var _ API = (*Client)(nil)

const (
	DefaultURL       = "http://127.0.0.1:9091/transmission/rpc"
	defaultRPCPath   = "/transmission/rpc"
	defaultUserAgent = "rustmission/0.1"
)

var sessionFields = []string{"download-dir", "version", "rpc-version"}

// Client adapts a transmissionrpc client to API. Torrents are addressed by
// hash string so ids stay valid across daemon restarts.
type Client struct {
	rpc *transmissionrpc.Client
}

// Options configure a Client.
type Options struct {
	URL      string
	Username string
	Password string
}

// NewClient builds a Client for the RPC endpoint in opts.
func NewClient(opts Options) (*Client, error) {
	endpoint, err := ParseEndpoint(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.Username != "" || opts.Password != "" {
		endpoint.User = url.UserPassword(opts.Username, opts.Password)
	}
	rpc, err := transmissionrpc.New(endpoint, &transmissionrpc.Config{UserAgent: defaultUserAgent})
	if err != nil {
		return nil, fmt.Errorf("create rpc client: %w", err)
	}
	return &Client{rpc: rpc}, nil
}

// ListTorrents fetches every torrent in daemon order.
func (c *Client) ListTorrents(ctx context.Context) ([]Torrent, error) {
	raw, err := c.rpc.TorrentGet(ctx, torrentFields, nil)
	if err != nil {
		return nil, fmt.Errorf("torrent-get: %w", err)
	}
	out := make([]Torrent, 0, len(raw))
	for _, t := range raw {
		out = append(out, fromRPCTorrent(t))
	}
	return out, nil
}

// SessionStats fetches transfer statistics for the session.
func (c *Client) SessionStats(ctx context.Context) (SessionStats, error) {
	raw, err := c.rpc.SessionStats(ctx)
	if err != nil {
		return SessionStats{}, fmt.Errorf("session-stats: %w", err)
	}
	return fromRPCStats(raw), nil
}

// SessionInfo fetches daemon settings such as the default download dir.
func (c *Client) SessionInfo(ctx context.Context) (SessionInfo, error) {
	raw, err := c.rpc.SessionArgumentsGet(ctx, sessionFields)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("session-get: %w", err)
	}
	var info SessionInfo
	if raw.DownloadDir != nil {
		info.DownloadDir = *raw.DownloadDir
	}
	if raw.Version != nil {
		info.Version = *raw.Version
	}
	if raw.RPCVersion != nil {
		info.RPCVersion = int(*raw.RPCVersion)
	}
	return info, nil
}

// Add queues a magnet link, URL, or torrent file. A source naming a readable
// local file is uploaded as metainfo; anything else is passed to the daemon.
func (c *Client) Add(ctx context.Context, source string, downloadDir *string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return errors.New("torrent-add: source is empty")
	}
	payload := transmissionrpc.TorrentAddPayload{Filename: &source}
	if !isMagnet(source) {
		if info, err := os.Stat(source); err == nil && info.Mode().IsRegular() {
			meta, err := transmissionrpc.File2Base64(source)
			if err != nil {
				return fmt.Errorf("torrent-add: read %s: %w", source, err)
			}
			payload = transmissionrpc.TorrentAddPayload{MetaInfo: &meta}
		}
	}
	if downloadDir != nil {
		if dir := strings.TrimSpace(*downloadDir); dir != "" {
			payload.DownloadDir = &dir
		}
	}
	if _, err := c.rpc.TorrentAdd(ctx, payload); err != nil {
		return fmt.Errorf("torrent-add: %w", err)
	}
	return nil
}

// Start resumes the given torrents.
func (c *Client) Start(ctx context.Context, ids []ID) error {
	if err := c.rpc.TorrentStartHashes(ctx, hashes(ids)); err != nil {
		return fmt.Errorf("torrent-start: %w", err)
	}
	return nil
}

// Stop pauses the given torrents.
func (c *Client) Stop(ctx context.Context, ids []ID) error {
	if err := c.rpc.TorrentStopHashes(ctx, hashes(ids)); err != nil {
		return fmt.Errorf("torrent-stop: %w", err)
	}
	return nil
}

// Delete removes the given torrents, optionally deleting downloaded data.
// torrent-remove only takes numeric ids, so hashes are resolved first.
func (c *Client) Delete(ctx context.Context, ids []ID, withFiles bool) error {
	found, err := c.rpc.TorrentGetHashes(ctx, []string{"id", "hashString"}, hashes(ids))
	if err != nil {
		return fmt.Errorf("torrent-remove: resolve ids: %w", err)
	}
	numeric := make([]int64, 0, len(found))
	for _, t := range found {
		if t.ID != nil {
			numeric = append(numeric, *t.ID)
		}
	}
	if len(numeric) == 0 {
		return fmt.Errorf("torrent-remove: no torrent matches %v", ids)
	}
	err = c.rpc.TorrentRemove(ctx, transmissionrpc.TorrentRemovePayload{
		IDs:             numeric,
		DeleteLocalData: withFiles,
	})
	if err != nil {
		return fmt.Errorf("torrent-remove: %w", err)
	}
	return nil
}

// ParseEndpoint normalises a user supplied RPC address: the scheme defaults
// to http, an empty path to /transmission/rpc, and query or fragment parts are
// dropped. An empty address selects the local daemon.
func ParseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url %q: %w", raw, err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultRPCPath
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func hashes(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
