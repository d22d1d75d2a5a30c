package state

import "errors"

// ErrEmptySelection is returned when an action needs a selected torrent and
// the view is empty.
var ErrEmptySelection = errors.New("no torrent selected")

// Selection is an optional cursor over the filtered view. It is unset exactly
// when the view is empty.
type Selection struct {
	index  int
	length int
	set    bool
}

// Current returns the selected row, or false when nothing is selected.
func (s *Selection) Current() (int, bool) {
	if !s.set {
		return 0, false
	}
	return s.index, true
}

// Len returns the view length the selection was last clamped to.
func (s *Selection) Len() int {
	return s.length
}

// Next moves down one row, stopping at the last row.
func (s *Selection) Next() bool {
	return s.moveBy(1)
}

// Previous moves up one row, stopping at the first row.
func (s *Selection) Previous() bool {
	return s.moveBy(-1)
}

// Home selects the first row.
func (s *Selection) Home() bool {
	return s.moveTo(0)
}

// End selects the last row.
func (s *Selection) End() bool {
	return s.moveTo(s.length - 1)
}

// PageUp moves up by a page of the given height.
func (s *Selection) PageUp(maxVisible int) bool {
	return s.moveBy(-s.pageSize(maxVisible))
}

// PageDown moves down by a page of the given height.
func (s *Selection) PageDown(maxVisible int) bool {
	return s.moveBy(s.pageSize(maxVisible))
}

// Reclamp fits the cursor to a view of n rows. An empty view clears the
// selection; a cursor past the end moves to the last row; otherwise the index
// is kept as is, so the torrent under it can change when rows shift.
func (s *Selection) Reclamp(n int) {
	if n <= 0 {
		*s = Selection{}
		return
	}
	s.length = n
	if !s.set {
		s.index = 0
		s.set = true
		return
	}
	if s.index >= n {
		s.index = n - 1
	}
	if s.index < 0 {
		s.index = 0
	}
}

func (s *Selection) moveTo(index int) bool {
	if !s.set {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index >= s.length {
		index = s.length - 1
	}
	old := s.index
	s.index = index
	return old != s.index
}

func (s *Selection) moveBy(delta int) bool {
	return s.moveTo(s.index + delta)
}

func (s *Selection) pageSize(maxVisible int) int {
	size := maxVisible
	if size <= 0 || size > s.length {
		size = s.length
	}
	if size < 1 {
		size = 1
	}
	return size
}
