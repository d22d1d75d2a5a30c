package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/CouldBeFree/rustmission/internal/format/table"
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui/overlay"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultWidth    = 100
	defaultHeight   = 30
	rowIndicator    = "▌ "
	footerHints     = "j/k move  / filter  m add  p pause  d delete  t stats  ? help  q quit"
	colName         = 0
	firstHideable   = 2
	torrentColCount = 6
)

var (
	torrentHeader  = []string{"Name", "Size", "Progress", "ETA", "Download", "Upload"}
	torrentAligns  = []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignRight}
	indicatorWidth = len([]rune(rowIndicator))
)

// StatusLine is the bottom line of the screen.
type StatusLine struct {
	Text    string
	HasTask bool
	State   task.State
}

// Frame is the read-only render model produced once per View.
type Frame struct {
	Tabs      []Tab
	ActiveTab Tab
	Header    []string
	Rows      [][]string
	Stopped   []bool
	Widths    []int
	Cursor    int
	HasCursor bool
	Offset    int
	Visible   int
	Overlays  []overlay.Overlay
	Status    StatusLine
	Offline   bool
	Filter    string
	Filtering bool
}

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool
}

func (m *Model) layoutSize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m *Model) showFilterBar() bool {
	return m.filtering || m.view.Filter.Active()
}

func (m *Model) chromeRows() int {
	rows := 3
	if m.showFilterBar() {
		rows++
	}
	if m.showFooter {
		rows++
	}
	return rows
}

func (m *Model) maxVisibleRows() int {
	_, h := m.layoutSize()
	n := h - m.chromeRows()
	if n < 1 {
		n = 1
	}
	return n
}

// Frame builds the render model from the current view, overlays and tasks.
// It only reads model state.
func (m *Model) Frame() Frame {
	w, _ := m.layoutSize()
	items := m.view.Items()
	rows := make([][]string, len(items))
	stopped := make([]bool, len(items))
	for i, t := range items {
		rows[i] = torrentCells(t)
		stopped[i] = t.Stopped()
	}
	widths := table.Widths(torrentHeader, rows)
	if m.autoHide {
		hideEmptyColumns(widths, rows)
	}
	widths = table.Fit(widths, colName, w-indicatorWidth)

	cursor, hasCursor := m.view.Selection.Current()
	return Frame{
		Tabs:      tabs,
		ActiveTab: m.tab,
		Header:    torrentHeader,
		Rows:      rows,
		Stopped:   stopped,
		Widths:    widths,
		Cursor:    cursor,
		HasCursor: hasCursor,
		Offset:    m.view.ViewportOffset,
		Visible:   m.maxVisibleRows(),
		Overlays:  m.overlays.Items(),
		Status:    m.statusLine(),
		Offline:   m.store.Offline(),
		Filter:    m.view.Filter.Pattern,
		Filtering: m.filtering,
	}
}

// hideEmptyColumns collapses optional columns no row has a value for.
func hideEmptyColumns(widths []int, rows [][]string) {
	for c := firstHideable; c < torrentColCount && c < len(widths); c++ {
		empty := true
		for _, row := range rows {
			if row[c] != "" {
				empty = false
				break
			}
		}
		if empty {
			widths[c] = 0
		}
	}
}

func torrentCells(t transmission.Torrent) []string {
	size := t.Size
	if size < 0 {
		size = 0
	}
	progress := ""
	if t.PercentDone < 1 {
		progress = fmt.Sprintf("%.1f%%", t.PercentDone*100)
	}
	eta := ""
	if d, ok := t.ETA(); ok {
		eta = formatDuration(d)
	}
	return []string{
		t.Name,
		humanize.Bytes(uint64(size)),
		progress,
		eta,
		formatRate(t.RateDownload),
		formatRate(t.RateUpload),
	}
}

func formatRate(bytesPerSecond int64) string {
	if bytesPerSecond <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(bytesPerSecond)) + "/s"
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	if days > 0 {
		hours := (d % (24 * time.Hour)) / time.Hour
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return d.String()
}

func (m *Model) statusLine() StatusLine {
	if latest, ok := m.tasks.Latest(); ok {
		text := latest.Summary()
		if latest.State == task.Pending {
			text = m.spinner.View() + " " + text
		}
		return StatusLine{Text: text, HasTask: true, State: latest.State}
	}
	stats, ok := m.store.Stats()
	if !ok {
		if m.store.LastUpdated().IsZero() {
			return StatusLine{Text: "Connecting to daemon…"}
		}
		return StatusLine{Text: fmt.Sprintf("%d torrents", len(m.store.Torrents()))}
	}
	return StatusLine{Text: fmt.Sprintf("%d torrents  ↓ %s/s  ↑ %s/s",
		stats.TorrentCount,
		humanize.Bytes(uint64(max(stats.DownloadSpeed, 0))),
		humanize.Bytes(uint64(max(stats.UploadSpeed, 0))),
	)}
}

// View implements tea.Model.
func (m *Model) View() string {
	frame := m.Frame()
	w, h := m.layoutSize()

	lines := make([]styledLine, 0, h)
	lines = append(lines, styledLine{text: m.renderTabs(frame, w), raw: true})
	switch frame.ActiveTab {
	case TabSession:
		lines = append(lines, m.sessionLines()...)
	default:
		lines = append(lines, m.torrentLines(frame, w)...)
	}

	bottom := make([]styledLine, 0, 3)
	if m.showFilterBar() {
		bottom = append(bottom, styledLine{text: m.filterPrompt(), raw: true})
	}
	bottom = append(bottom, m.renderStatus(frame.Status))
	if m.showFooter {
		bottom = append(bottom, styledLine{text: footerHints, style: styles.Footer})
	}

	bodyHeight := h - len(bottom)
	lines = limitHeight(lines, bodyHeight, w)
	for len(lines) < bodyHeight {
		lines = append(lines, styledLine{})
	}
	lines = append(lines, bottom...)
	rendered := renderLines(applyWidth(lines, w))
	for _, o := range frame.Overlays {
		rendered = placeOverlay(rendered, m.renderOverlay(o, w, h), w)
	}
	return strings.Join(rendered, "\n")
}

func (m *Model) renderTabs(frame Frame, width int) string {
	parts := make([]string, 0, len(frame.Tabs)+1)
	for i, t := range frame.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		style := styles.Tab
		if t == frame.ActiveTab {
			style = styles.ActiveTab
		}
		if style != nil {
			label = style.Render(label)
		}
		parts = append(parts, label)
	}
	bar := strings.Join(parts, " ")
	if frame.Offline {
		badge := "OFFLINE"
		if styles.Offline != nil {
			badge = styles.Offline.Render(badge)
		}
		if gap := width - lipgloss.Width(bar) - lipgloss.Width(badge); gap > 0 {
			bar += strings.Repeat(" ", gap)
		} else {
			bar += " "
		}
		bar += badge
	}
	return bar
}

func (m *Model) torrentLines(frame Frame, width int) []styledLine {
	header := table.Render([][]string{frame.Header}, frame.Widths, torrentAligns)
	lines := []styledLine{{text: strings.Repeat(" ", indicatorWidth) + header[0], style: styles.Header}}
	if len(frame.Rows) == 0 {
		msg := "(no torrents)"
		if frame.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", frame.Filter)
		}
		return append(lines, styledLine{text: msg, style: styles.Info})
	}
	formatted := table.Render(frame.Rows, frame.Widths, torrentAligns)
	start := frame.Offset
	end := start + frame.Visible
	if end > len(formatted) {
		end = len(formatted)
	}
	for idx := start; idx < end; idx++ {
		style := styles.Item
		if frame.Stopped[idx] {
			style = styles.Stopped
		}
		text := "  " + formatted[idx]
		if frame.HasCursor && idx == frame.Cursor {
			style = styles.SelectedItem
			text = rowIndicator + formatted[idx]
			if pad := width - lipgloss.Width(text); pad > 0 {
				text += strings.Repeat(" ", pad)
			}
		}
		lines = append(lines, styledLine{text: text, style: style})
	}
	return lines
}

func (m *Model) sessionLines() []styledLine {
	rows := [][]string{}
	if info, ok := m.store.Info(); ok {
		rows = append(rows,
			[]string{"Daemon version", info.Version},
			[]string{"RPC version", fmt.Sprintf("%d", info.RPCVersion)},
			[]string{"Download directory", info.DownloadDir},
		)
	}
	if stats, ok := m.store.Stats(); ok {
		rows = append(rows,
			[]string{"Torrents", fmt.Sprintf("%d (%d active, %d paused)", stats.TorrentCount, stats.ActiveTorrentCount, stats.PausedTorrentCount)},
			[]string{"Download speed", formatRate(stats.DownloadSpeed)},
			[]string{"Upload speed", formatRate(stats.UploadSpeed)},
			[]string{"Downloaded (total)", humanize.Bytes(uint64(max(stats.Cumulative.DownloadedBytes, 0)))},
			[]string{"Uploaded (total)", humanize.Bytes(uint64(max(stats.Cumulative.UploadedBytes, 0)))},
		)
	}
	if len(rows) == 0 {
		return []styledLine{{text: "Waiting for session data…", style: styles.Info}}
	}
	lines := []styledLine{{text: "Session", style: styles.Header}}
	for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft}) {
		lines = append(lines, styledLine{text: "  " + line, style: styles.Info})
	}
	if err := m.store.LastError(); err != nil {
		lines = append(lines, styledLine{}, styledLine{text: fmt.Sprintf("Last poll error: %v", err), style: styles.Error})
	}
	return lines
}

func (m *Model) renderStatus(status StatusLine) styledLine {
	style := styles.Info
	if status.HasTask {
		switch status.State {
		case task.Success:
			style = styles.Success
		case task.Failed:
			style = styles.Error
		case task.Pending:
			// the spinner carries its own colour
			return styledLine{text: status.Text, raw: true}
		}
	}
	return styledLine{text: status.Text, style: style}
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if !line.raw && line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return out
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}

func secondsToDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}
