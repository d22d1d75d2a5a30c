package ui

import (
	"reflect"

	"github.com/CouldBeFree/rustmission/internal/backend"
	"github.com/CouldBeFree/rustmission/internal/data/dispatcher"
	"github.com/CouldBeFree/rustmission/internal/state"
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/theme"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui/command"
	"github.com/CouldBeFree/rustmission/internal/ui/overlay"
	uistate "github.com/CouldBeFree/rustmission/internal/ui/state"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Tab selects the base view.
type Tab int

const (
	TabTorrents Tab = iota + 1
	TabSession
)

func (t Tab) String() string {
	switch t {
	case TabTorrents:
		return "Torrents"
	case TabSession:
		return "Session"
	default:
		return "Unknown"
	}
}

var tabs = []Tab{TabTorrents, TabSession}

// Backend is the subset of backend.Watcher the model consumes.
type Backend interface {
	Events() <-chan backend.Event
	Refresh(kind backend.Kind)
}

// Options configure a Model.
type Options struct {
	API                transmission.API
	Backend            Backend
	Width              int
	Height             int
	ShowFooter         bool
	AutoHide           bool
	DefaultDownloadDir string
}

// Model implements the Bubble Tea model for the torrent dashboard.
type Model struct {
	store      *state.Store
	dispatcher *dispatcher.Dispatcher
	view       uistate.TorrentView
	overlays   overlay.Stack
	tasks      *task.Registry
	bus        *command.Bus
	backend    Backend
	keys       keyMap

	tab        Tab
	filtering  bool
	spinner    spinner.Model
	spinning   bool
	width      int
	height     int
	fixedSize  bool
	showFooter bool
	autoHide   bool
	defaultDir string

	handlers map[reflect.Type]msgHandler
}

// NewModel wires the store, overlays and command bus around opts.API.
func NewModel(opts Options) *Model {
	store := state.NewStore()
	tasks := task.NewRegistry()
	m := &Model{
		store:      store,
		dispatcher: dispatcher.New(store),
		tasks:      tasks,
		bus:        command.New(opts.API, tasks),
		backend:    opts.Backend,
		keys:       defaultKeyMap(),
		tab:        TabTorrents,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(*styles.Spinner)),
		showFooter: opts.ShowFooter,
		autoHide:   opts.AutoHide,
		defaultDir: opts.DefaultDownloadDir,
	}
	if opts.Width > 0 && opts.Height > 0 {
		m.width = opts.Width
		m.height = opts.Height
		m.fixedSize = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	return waitForBackendEvent(m.backend)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(command.ResultMsg{}): m.handleCommandResultMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok || m.fixedSize {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	m.view.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	if m.tasks.Pending() == 0 {
		m.spinning = false
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// Store exposes the snapshot store backing the model.
func (m *Model) Store() *state.Store { return m.store }

// Tasks exposes the status task registry.
func (m *Model) Tasks() *task.Registry { return m.tasks }

// Overlays exposes the overlay stack.
func (m *Model) Overlays() *overlay.Stack { return &m.overlays }

// TorrentView exposes the filtered torrent view.
func (m *Model) TorrentView() *uistate.TorrentView { return &m.view }

// ActiveTab reports which base view is showing.
func (m *Model) ActiveTab() Tab { return m.tab }

// Filtering reports whether the filter bar is taking input.
func (m *Model) Filtering() bool { return m.filtering }
