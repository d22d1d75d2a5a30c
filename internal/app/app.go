package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/CouldBeFree/rustmission/internal/backend"
	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	URL             string
	Username        string
	Password        string
	TorrentInterval time.Duration
	StatsInterval   time.Duration
	SessionInterval time.Duration
	DownloadDir     string
	AutoHide        bool
	Width           int
	Height          int
	ShowFooter      bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	client, err := transmission.NewClient(transmission.Options{
		URL:      cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("create rpc client: %w", err)
	}
	watcher := backend.NewWatcher(client, backend.Options{
		TorrentInterval: cfg.TorrentInterval,
		StatsInterval:   cfg.StatsInterval,
		SessionInterval: cfg.SessionInterval,
	})
	defer watcher.Stop()
	model := ui.NewModel(ui.Options{
		API:                client,
		Backend:            watcher,
		Width:              cfg.Width,
		Height:             cfg.Height,
		ShowFooter:         cfg.ShowFooter,
		AutoHide:           cfg.AutoHide,
		DefaultDownloadDir: cfg.DownloadDir,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("quit")
	return nil
}
