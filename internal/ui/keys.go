package ui

import (
	"github.com/CouldBeFree/rustmission/internal/ui/intent"
	"github.com/CouldBeFree/rustmission/internal/ui/overlay"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Help      key.Binding

	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Confirm key.Binding
	Cancel  key.Binding

	TabTorrents key.Binding
	TabSession  key.Binding

	Filter          key.Binding
	Stats           key.Binding
	Pause           key.Binding
	Add             key.Binding
	Delete          key.Binding
	DeleteWithFiles key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit immediately"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit / close popup"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel / clear filter"),
		),
		TabTorrents: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Torrents tab"),
		),
		TabSession: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Session tab"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter torrents"),
		),
		Stats: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Statistics"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pause / resume"),
		),
		Add: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Add magnet or file"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete, keep data"),
		),
		DeleteWithFiles: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Delete with data"),
		),
	}
}

// helpSections groups bindings for the help popup.
func (k keyMap) helpSections() []helpSection {
	return []helpSection{
		{title: "Navigation", bindings: []key.Binding{k.Up, k.Down, k.Home, k.End, k.PageUp, k.PageDown, k.TabTorrents, k.TabSession}},
		{title: "Torrents", bindings: []key.Binding{k.Filter, k.Pause, k.Add, k.Delete, k.DeleteWithFiles, k.Stats}},
		{title: "General", bindings: []key.Binding{k.Confirm, k.Cancel, k.Help, k.Quit, k.ForceQuit}},
	}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

// textEntryActive reports whether keys should be treated as text: a wizard
// owns input or the filter bar is open with no overlay above it.
func (m *Model) textEntryActive() bool {
	if top, ok := m.overlays.Top(); ok {
		return top.Kind() == overlay.KindWizard
	}
	return m.filtering
}

// mapKey translates a raw key event into an intent.
func (m *Model) mapKey(msg tea.KeyMsg) intent.Intent {
	k := m.keys
	if m.textEntryActive() {
		switch {
		case key.Matches(msg, k.Confirm):
			return intent.Of(intent.Confirm)
		case key.Matches(msg, k.Cancel):
			return intent.Of(intent.Cancel)
		case m.filtering && m.overlays.Empty() && (msg.Type == tea.KeyUp || msg.Type == tea.KeyDown):
			if msg.Type == tea.KeyUp {
				return intent.Of(intent.Up)
			}
			return intent.Of(intent.Down)
		default:
			return intent.InputKey(msg)
		}
	}
	switch {
	case key.Matches(msg, k.Quit):
		return intent.Of(intent.Quit)
	case key.Matches(msg, k.Help):
		return intent.Of(intent.Help)
	case key.Matches(msg, k.Up):
		return intent.Of(intent.Up)
	case key.Matches(msg, k.Down):
		return intent.Of(intent.Down)
	case key.Matches(msg, k.Home):
		return intent.Of(intent.Home)
	case key.Matches(msg, k.End):
		return intent.Of(intent.End)
	case key.Matches(msg, k.PageUp):
		return intent.Of(intent.PageUp)
	case key.Matches(msg, k.PageDown):
		return intent.Of(intent.PageDown)
	case key.Matches(msg, k.Confirm):
		return intent.Of(intent.Confirm)
	case key.Matches(msg, k.Cancel):
		return intent.Of(intent.Cancel)
	case key.Matches(msg, k.TabTorrents):
		return intent.Tab(int(TabTorrents))
	case key.Matches(msg, k.TabSession):
		return intent.Tab(int(TabSession))
	case key.Matches(msg, k.Filter):
		return intent.Of(intent.Filter)
	case key.Matches(msg, k.Stats):
		return intent.Of(intent.ShowStats)
	case key.Matches(msg, k.Pause):
		return intent.Of(intent.Pause)
	case key.Matches(msg, k.Add):
		return intent.Of(intent.Add)
	case key.Matches(msg, k.Delete):
		return intent.Of(intent.Delete)
	case key.Matches(msg, k.DeleteWithFiles):
		return intent.Of(intent.DeleteWithFiles)
	}
	return intent.InputKey(msg)
}
