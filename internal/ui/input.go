package ui

import (
	"unicode"

	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/ui/intent"
	tea "github.com/charmbracelet/bubbletea"
)

// handleFilterIntent drives the filter bar. Confirm keeps the pattern and
// returns to the list, Cancel clears it, and Input edits it live.
func (m *Model) handleFilterIntent(in intent.Intent) tea.Cmd {
	switch in.Kind {
	case intent.Confirm:
		m.filtering = false
	case intent.Cancel:
		m.filtering = false
		m.view.ClearPattern()
		events.Filter.Cleared()
	case intent.Up, intent.Down:
		m.moveSelection(in.Kind)
	case intent.Input:
		m.handleTextInput(in.Key)
	}
	// the filter bar row comes and goes with the mode
	m.view.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	f := &m.view.Filter
	switch msg.String() {
	case "ctrl+u":
		return m.editFilter(f.DeleteToStart())
	case "ctrl+w", "alt+backspace":
		return m.editFilter(f.DeleteWordBackward())
	case "ctrl+a":
		return m.moveFilterCursor(f.MoveStart())
	case "ctrl+e":
		return m.moveFilterCursor(f.MoveEnd())
	case "alt+b":
		return m.moveFilterCursor(f.MoveWordBackward())
	case "alt+f":
		return m.moveFilterCursor(f.MoveWordForward())
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.editFilter(f.DeleteRuneBackward())
	case tea.KeyLeft:
		return m.moveFilterCursor(f.MoveRuneBackward())
	case tea.KeyRight:
		return m.moveFilterCursor(f.MoveRuneForward())
	case tea.KeySpace:
		return m.editFilter(f.InsertText(" "))
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.editFilter(f.InsertText(string(msg.Runes)))
	}
	return false
}

func (m *Model) editFilter(changed bool) bool {
	if !changed {
		return false
	}
	m.view.Refilter()
	m.view.EnsureCursorVisible(m.maxVisibleRows())
	events.Filter.Set(m.view.Filter.Pattern, len(m.view.Rows))
	return true
}

func (m *Model) moveFilterCursor(moved bool) bool {
	if moved {
		events.Filter.Cursor(m.view.Filter.CursorPos())
	}
	return moved
}

// filterPrompt renders the filter bar with a block caret at the edit cursor.
func (m *Model) filterPrompt() string {
	prompt := "/ "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	render := func(value string) string {
		if styles.Filter == nil || value == "" {
			return value
		}
		return styles.Filter.Render(value)
	}
	text := m.view.Filter.Pattern
	if !m.filtering {
		return prompt + render(text)
	}
	if text == "" {
		placeholder := "type to filter"
		if styles.FilterPlaceholder != nil {
			placeholder = styles.FilterPlaceholder.Render(placeholder)
		}
		return prompt + caret(" ") + placeholder
	}
	runes := []rune(text)
	pos := m.view.Filter.CursorPos()
	under := " "
	after := ""
	if pos < len(runes) {
		under = string(runes[pos])
		after = string(runes[pos+1:])
	}
	return prompt + render(string(runes[:pos])) + caret(under) + render(after)
}

func caret(char string) string {
	if styles.Cursor == nil {
		return char
	}
	return styles.Cursor.Render(char)
}
