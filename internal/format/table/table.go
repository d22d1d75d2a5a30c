package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const separator = "  "

// Widths returns, per column, the widest cell among header and rows.
func Widths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for c, h := range header {
		widths[c] = CellWidth(h)
	}
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				break
			}
			if w := CellWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}

// Format returns the rows padded according to the widest entry in each column.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := Widths(make([]string, len(rows[0])), rows)
	return Render(rows, widths, alignments)
}

// Render lays rows out using fixed column widths. Cells wider than their
// column are truncated with an ellipsis and columns of width zero are skipped.
func Render(rows [][]string, widths []int, alignments []Alignment) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		first := true
		for c, cell := range row {
			if c >= len(widths) || widths[c] <= 0 {
				continue
			}
			if !first {
				b.WriteString(separator)
			}
			first = false
			width := widths[c]
			if CellWidth(cell) > width {
				cell = truncate.StringWithTail(cell, uint(width), "…")
			}
			pad := width - CellWidth(cell)
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				writeSpaces(&b, pad)
			}
		}
		out[i] = b.String()
	}
	return out
}

// Fit shrinks the flexible column so the row fits within total columns.
// Columns other than flex keep their width.
func Fit(widths []int, flex, total int) []int {
	out := make([]int, len(widths))
	copy(out, widths)
	if flex < 0 || flex >= len(out) || total <= 0 {
		return out
	}
	used := 0
	visible := 0
	for c, w := range out {
		if w <= 0 {
			continue
		}
		visible++
		if c != flex {
			used += w
		}
	}
	if visible > 1 {
		used += (visible - 1) * len(separator)
	}
	room := total - used
	if room < 1 {
		room = 1
	}
	if out[flex] > room {
		out[flex] = room
	}
	return out
}

// CellWidth is the display width of text, ignoring ANSI sequences.
func CellWidth(text string) int {
	return ansi.StringWidth(text)
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
