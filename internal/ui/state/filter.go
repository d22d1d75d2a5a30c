package state

import (
	"strings"
	"unicode"

	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter holds the torrent name pattern and the edit cursor within it.
type Filter struct {
	Pattern string
	Cursor  int
}

// Active reports whether the pattern narrows the view.
func (f *Filter) Active() bool {
	return strings.TrimSpace(f.Pattern) != ""
}

// SetPattern replaces the pattern and moves the edit cursor to its end.
func (f *Filter) SetPattern(text string) {
	f.set(text, len([]rune(text)))
}

// Clear drops the pattern, restoring the full view.
func (f *Filter) Clear() {
	f.set("", 0)
}

func (f *Filter) set(text string, cursor int) {
	f.Pattern = text
	if cursor < 0 {
		cursor = 0
	}
	if n := len([]rune(text)); cursor > n {
		cursor = n
	}
	f.Cursor = cursor
}

// Apply returns the indices of torrents whose name fuzzy-matches the pattern,
// in their original order. An empty pattern selects every torrent.
func (f *Filter) Apply(torrents []transmission.Torrent) []int {
	return Apply(f.Pattern, torrents)
}

// Apply is the pure form of Filter.Apply.
func Apply(pattern string, torrents []transmission.Torrent) []int {
	trimmed := strings.TrimSpace(pattern)
	rows := make([]int, 0, len(torrents))
	for i, t := range torrents {
		if trimmed == "" || fuzzy.MatchNormalizedFold(trimmed, t.Name) {
			rows = append(rows, i)
		}
	}
	return rows
}

// CursorPos returns the rune offset of the edit cursor.
func (f *Filter) CursorPos() int {
	runes := []rune(f.Pattern)
	if f.Cursor < 0 {
		return 0
	}
	if f.Cursor > len(runes) {
		return len(runes)
	}
	return f.Cursor
}

// InsertText inserts text at the edit cursor.
func (f *Filter) InsertText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(f.Pattern)
	pos := f.CursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	f.set(string(updated), pos+len(insert))
	return true
}

// DeleteRuneBackward deletes the rune before the edit cursor.
func (f *Filter) DeleteRuneBackward() bool {
	runes := []rune(f.Pattern)
	pos := f.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	updated := append(runes[:pos-1], runes[pos:]...)
	f.set(string(updated), pos-1)
	return true
}

// DeleteWordBackward deletes the word preceding the edit cursor.
func (f *Filter) DeleteWordBackward() bool {
	runes := []rune(f.Pattern)
	pos := f.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStart(runes, pos)
	updated := append(runes[:i], runes[pos:]...)
	f.set(string(updated), i)
	return true
}

// DeleteToStart deletes everything before the edit cursor.
func (f *Filter) DeleteToStart() bool {
	runes := []rune(f.Pattern)
	pos := f.CursorPos()
	if pos == 0 {
		return false
	}
	f.set(string(runes[pos:]), 0)
	return true
}

func (f *Filter) MoveStart() bool {
	if f.CursorPos() == 0 {
		return false
	}
	f.Cursor = 0
	return true
}

func (f *Filter) MoveEnd() bool {
	end := len([]rune(f.Pattern))
	if f.CursorPos() == end {
		return false
	}
	f.Cursor = end
	return true
}

func (f *Filter) MoveRuneBackward() bool {
	if f.CursorPos() == 0 {
		return false
	}
	f.Cursor = f.CursorPos() - 1
	return true
}

func (f *Filter) MoveRuneForward() bool {
	pos := f.CursorPos()
	if pos >= len([]rune(f.Pattern)) {
		return false
	}
	f.Cursor = pos + 1
	return true
}

// MoveWordBackward moves the edit cursor to the start of the previous word.
func (f *Filter) MoveWordBackward() bool {
	pos := f.CursorPos()
	i := wordStart([]rune(f.Pattern), pos)
	if i == pos {
		return false
	}
	f.Cursor = i
	return true
}

// MoveWordForward moves the edit cursor past the next word.
func (f *Filter) MoveWordForward() bool {
	runes := []rune(f.Pattern)
	pos := f.CursorPos()
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i == pos {
		return false
	}
	f.Cursor = i
	return true
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}
