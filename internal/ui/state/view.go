package state

import "github.com/CouldBeFree/rustmission/internal/transmission"

// TorrentView is the filtered, selectable view over the latest torrent
// snapshot. Rows index into the snapshot passed to the last Recompute and are
// never used to modify it.
type TorrentView struct {
	Filter         Filter
	Selection      Selection
	Rows           []int
	ViewportOffset int

	torrents []transmission.Torrent
}

// Recompute rebuilds the rows from the given snapshot and current pattern,
// then reclamps the selection before anything reads it.
func (v *TorrentView) Recompute(torrents []transmission.Torrent) {
	v.torrents = torrents
	v.Rows = v.Filter.Apply(torrents)
	v.Selection.Reclamp(len(v.Rows))
	if len(v.Rows) == 0 || v.ViewportOffset > len(v.Rows)-1 {
		v.ViewportOffset = 0
	}
}

// SetPattern edits the filter and recomputes against the current snapshot.
func (v *TorrentView) SetPattern(text string) {
	v.Filter.SetPattern(text)
	v.Recompute(v.torrents)
}

// ClearPattern restores the unfiltered view.
func (v *TorrentView) ClearPattern() {
	v.Filter.Clear()
	v.Recompute(v.torrents)
}

// Refilter recomputes after the filter was edited in place.
func (v *TorrentView) Refilter() {
	v.Recompute(v.torrents)
}

// Items returns the torrents in view order.
func (v *TorrentView) Items() []transmission.Torrent {
	items := make([]transmission.Torrent, 0, len(v.Rows))
	for _, idx := range v.Rows {
		if idx >= 0 && idx < len(v.torrents) {
			items = append(items, v.torrents[idx])
		}
	}
	return items
}

// Current resolves the selected torrent.
func (v *TorrentView) Current() (transmission.Torrent, error) {
	row, ok := v.Selection.Current()
	if !ok || row >= len(v.Rows) {
		return transmission.Torrent{}, ErrEmptySelection
	}
	idx := v.Rows[row]
	if idx < 0 || idx >= len(v.torrents) {
		return transmission.Torrent{}, ErrEmptySelection
	}
	return v.torrents[idx], nil
}

// EnsureCursorVisible adjusts the viewport offset so the selection stays on screen.
func (v *TorrentView) EnsureCursorVisible(maxVisible int) {
	cursor, ok := v.Selection.Current()
	if !ok {
		v.ViewportOffset = 0
		return
	}
	if maxVisible <= 0 {
		v.ViewportOffset = 0
		return
	}
	maxOffset := len(v.Rows) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.ViewportOffset > maxOffset {
		v.ViewportOffset = maxOffset
	}
	if v.ViewportOffset < 0 {
		v.ViewportOffset = 0
	}
	if cursor < v.ViewportOffset {
		v.ViewportOffset = cursor
	}
	if upper := v.ViewportOffset + maxVisible - 1; cursor > upper {
		v.ViewportOffset = cursor - maxVisible + 1
		if v.ViewportOffset > maxOffset {
			v.ViewportOffset = maxOffset
		}
	}
}
