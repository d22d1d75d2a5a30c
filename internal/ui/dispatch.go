package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui/command"
	"github.com/CouldBeFree/rustmission/internal/ui/intent"
	"github.com/CouldBeFree/rustmission/internal/ui/overlay"
	uistate "github.com/CouldBeFree/rustmission/internal/ui/state"
	"github.com/CouldBeFree/rustmission/internal/ui/wizard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.ForceQuit) {
		return tea.Quit
	}
	return m.Dispatch(m.mapKey(keyMsg))
}

// Dispatch routes one intent: errors are raised above everything, otherwise
// the top overlay gets it, then the filter bar, then the base view.
func (m *Model) Dispatch(in intent.Intent) tea.Cmd {
	if in.Kind == intent.Error {
		m.raise(in.Err.Title, in.Err.Message)
		return nil
	}
	if !m.overlays.Empty() {
		top, _ := m.overlays.Top()
		events.UI.Intent(in.Kind.String(), top.Kind().String())
		out := m.overlays.Dispatch(in)
		cmds := []tea.Cmd{out.Cmd}
		if out.Submission != nil {
			cmds = append(cmds, m.submit(*out.Submission))
		}
		return tea.Batch(cmds...)
	}
	if m.filtering {
		events.UI.Intent(in.Kind.String(), "filter")
		return m.handleFilterIntent(in)
	}
	events.UI.Intent(in.Kind.String(), m.tab.String())
	return m.handleBaseIntent(in)
}

func (m *Model) raise(title, message string) {
	m.overlays.PushError(title, message)
}

func (m *Model) handleBaseIntent(in intent.Intent) tea.Cmd {
	if in.Kind != intent.None && in.Kind != intent.Input {
		m.acknowledgeTasks()
	}
	switch in.Kind {
	case intent.Quit:
		return tea.Quit
	case intent.Help:
		m.overlays.Push(&overlay.HelpPopup{})
	case intent.ShowStats:
		m.overlays.Push(&overlay.StatsPopup{})
	case intent.ChangeTab:
		m.changeTab(Tab(in.Tab))
	case intent.Up, intent.Down, intent.Home, intent.End, intent.PageUp, intent.PageDown:
		if m.tab == TabTorrents {
			m.moveSelection(in.Kind)
		}
	case intent.Cancel:
		if m.tab == TabTorrents && m.view.Filter.Active() {
			m.view.ClearPattern()
			m.view.EnsureCursorVisible(m.maxVisibleRows())
			events.Filter.Cleared()
		}
	case intent.Filter:
		if m.tab == TabTorrents {
			m.filtering = true
			m.view.Filter.MoveEnd()
			m.view.EnsureCursorVisible(m.maxVisibleRows())
		}
	case intent.Add:
		m.overlays.Push(&overlay.WizardPopup{Wizard: wizard.New(wizard.AddTorrent(m.downloadDir()))})
	case intent.Pause:
		if m.tab == TabTorrents {
			return m.togglePause()
		}
	case intent.Delete, intent.DeleteWithFiles:
		if m.tab == TabTorrents {
			m.startDelete(in.Kind == intent.DeleteWithFiles)
		}
	}
	return nil
}

func (m *Model) changeTab(t Tab) {
	for _, candidate := range tabs {
		if candidate == t {
			m.tab = t
			events.UI.Tab(int(t))
			return
		}
	}
}

func (m *Model) moveSelection(kind intent.Kind) {
	sel := &m.view.Selection
	moved := false
	switch kind {
	case intent.Up:
		moved = sel.Previous()
	case intent.Down:
		moved = sel.Next()
	case intent.Home:
		moved = sel.Home()
	case intent.End:
		moved = sel.End()
	case intent.PageUp:
		moved = sel.PageUp(m.maxVisibleRows())
	case intent.PageDown:
		moved = sel.PageDown(m.maxVisibleRows())
	}
	if moved {
		cursor, _ := sel.Current()
		events.UI.Cursor(cursor)
	}
	m.view.EnsureCursorVisible(m.maxVisibleRows())
}

// downloadDir is the add wizard default: the daemon's configured directory,
// falling back to the local configuration.
func (m *Model) downloadDir() string {
	if info, ok := m.store.Info(); ok && info.DownloadDir != "" {
		return info.DownloadDir
	}
	return m.defaultDir
}

func (m *Model) selected(action string) (transmission.Torrent, bool) {
	t, err := m.view.Current()
	if errors.Is(err, uistate.ErrEmptySelection) {
		events.Command.NoOp(action, err.Error())
		return transmission.Torrent{}, false
	}
	return t, err == nil
}

// togglePause starts a stopped torrent and stops anything else.
func (m *Model) togglePause() tea.Cmd {
	t, ok := m.selected("pause")
	if !ok {
		return nil
	}
	ids := []transmission.ID{t.ID}
	if t.Stopped() {
		return m.execute(command.Request{
			Kind:  task.KindStart,
			Label: fmt.Sprintf("Starting %s", t.Name),
			Call: func(ctx context.Context, api transmission.API) error {
				return api.Start(ctx, ids)
			},
		})
	}
	return m.execute(command.Request{
		Kind:  task.KindStop,
		Label: fmt.Sprintf("Stopping %s", t.Name),
		Call: func(ctx context.Context, api transmission.API) error {
			return api.Stop(ctx, ids)
		},
	})
}

func (m *Model) startDelete(withFiles bool) {
	action := "delete"
	if withFiles {
		action = "delete-with-files"
	}
	t, ok := m.selected(action)
	if !ok {
		return
	}
	m.overlays.Push(&overlay.WizardPopup{Wizard: wizard.New(wizard.DeleteTorrent(t, withFiles))})
}

func (m *Model) submit(sub wizard.Submission) tea.Cmd {
	return m.execute(command.Request{Kind: sub.Kind, Label: sub.Description, Call: sub.Call})
}

func (m *Model) execute(req command.Request) tea.Cmd {
	return tea.Batch(m.bus.Execute(req), m.startSpinner())
}

func (m *Model) acknowledgeTasks() {
	if latest, ok := m.tasks.Latest(); ok && latest.State != task.Pending {
		m.tasks.Acknowledge()
	}
}
