package ui

import (
	"github.com/CouldBeFree/rustmission/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(b Backend) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-b.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent publishes the event into the store and, for torrent
// updates, recomputes the filtered view and reclamps the selection before the
// next render can observe them. Failed polls change nothing on screen besides
// the offline badge.
func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.dispatcher.Handle(evt)
	if res.TorrentsUpdated {
		m.view.Recompute(m.store.Torrents())
		m.view.EnsureCursorVisible(m.maxVisibleRows())
	}
}

func (m *Model) refresh(kind backend.Kind) {
	if m.backend != nil {
		m.backend.Refresh(kind)
	}
}
