package ui

import (
	"fmt"
	"strings"

	"github.com/CouldBeFree/rustmission/internal/format/table"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui/overlay"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

const popupMargin = 4

func (m *Model) renderOverlay(o overlay.Overlay, width, height int) []string {
	inner := width - popupMargin*2
	if inner < 20 {
		inner = width - 2
	}
	var body string
	border := styles.PopupBorder
	switch p := o.(type) {
	case *overlay.ErrorPopup:
		border = styles.ErrorBorder
		body = m.errorBody(p, inner)
	case *overlay.HelpPopup:
		body = m.helpBody(p, height-popupMargin)
	case *overlay.StatsPopup:
		body = m.statsBody()
	case *overlay.WizardPopup:
		body = m.wizardBody(p, inner)
	}
	if border != nil {
		body = border.Render(body)
	}
	return strings.Split(body, "\n")
}

func popupTitle(text string) string {
	if styles.PopupTitle == nil {
		return text
	}
	return styles.PopupTitle.Render(text)
}

func (m *Model) errorBody(p *overlay.ErrorPopup, width int) string {
	title := p.Title
	if styles.Error != nil {
		title = styles.Error.Render(title)
	}
	message := lipgloss.NewStyle().Width(width - 4).Render(p.Message)
	return strings.Join([]string{title, "", message, "", "enter to dismiss"}, "\n")
}

func (m *Model) helpBody(p *overlay.HelpPopup, maxLines int) string {
	lines := []string{}
	for i, section := range m.keys.helpSections() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, popupTitle(section.title))
		for _, b := range section.bindings {
			h := b.Help()
			k := h.Key
			if styles.HelpKey != nil {
				k = styles.HelpKey.Render(k)
			}
			lines = append(lines, k+" "+h.Desc)
		}
	}
	if maxLines < 3 {
		maxLines = 3
	}
	scroll := p.Scroll
	if limit := len(lines) - maxLines; scroll > limit {
		scroll = max(limit, 0)
		p.Scroll = scroll
	}
	end := min(scroll+maxLines, len(lines))
	return strings.Join(lines[scroll:end], "\n")
}

func (m *Model) statsBody() string {
	stats, ok := m.store.Stats()
	if !ok {
		return popupTitle("Statistics") + "\n\nNo statistics yet"
	}
	rows := [][]string{{"", "Session", "Total"}}
	rows = append(rows, statsRows(stats.Current, stats.Cumulative)...)
	lines := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight})
	return popupTitle("Statistics") + "\n\n" + strings.Join(lines, "\n")
}

func statsRows(current, total transmission.StatsPeriod) [][]string {
	bytes := func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) }
	ratio := func(p transmission.StatsPeriod) string {
		if p.DownloadedBytes <= 0 {
			return "∞"
		}
		return fmt.Sprintf("%.2f", p.Ratio())
	}
	return [][]string{
		{"Uploaded", bytes(current.UploadedBytes), bytes(total.UploadedBytes)},
		{"Downloaded", bytes(current.DownloadedBytes), bytes(total.DownloadedBytes)},
		{"Ratio", ratio(current), ratio(total)},
		{"Files added", humanize.Comma(current.FilesAdded), humanize.Comma(total.FilesAdded)},
		{"Active", formatSeconds(current.SecondsActive), formatSeconds(total.SecondsActive)},
		{"Sessions", humanize.Comma(current.SessionCount), humanize.Comma(total.SessionCount)},
	}
}

func formatSeconds(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}
	return formatDuration(secondsToDuration(seconds))
}

func (m *Model) wizardBody(p *overlay.WizardPopup, width int) string {
	w := p.Wizard
	lines := []string{
		popupTitle(w.Title()),
		fmt.Sprintf("step %d/%d", w.StageIndex()+1, w.StageCount()),
		"",
		w.Prompt(),
		ansi.Truncate(w.InputView(), width-4, "…"),
	}
	if msg := w.Error(); msg != "" {
		if styles.Error != nil {
			msg = styles.Error.Render(msg)
		}
		lines = append(lines, "", msg)
	}
	return strings.Join(lines, "\n")
}

// placeOverlay draws popup centered over base. Cells outside the popup keep
// their original content and styling.
func placeOverlay(base, popup []string, width int) []string {
	if len(popup) == 0 {
		return base
	}
	popupWidth := 0
	for _, line := range popup {
		popupWidth = max(popupWidth, ansi.StringWidth(line))
	}
	popupWidth = min(popupWidth, width)
	left := max((width-popupWidth)/2, 0)
	top := max((len(base)-len(popup))/2, 0)

	out := make([]string, len(base))
	copy(out, base)
	for i, line := range popup {
		row := top + i
		if row >= len(out) {
			break
		}
		under := out[row]
		prefix := ansi.Truncate(under, left, "")
		if pad := left - ansi.StringWidth(prefix); pad > 0 {
			prefix += strings.Repeat(" ", pad)
		}
		line = ansi.Truncate(line, popupWidth, "")
		if pad := popupWidth - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		suffix := ""
		if ansi.StringWidth(under) > left+popupWidth {
			suffix = ansi.TruncateLeft(under, left+popupWidth, "")
		}
		out[row] = prefix + "\x1b[0m" + line + "\x1b[0m" + suffix
	}
	return out
}
