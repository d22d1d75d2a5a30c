package ui

import (
	"fmt"

	"github.com/CouldBeFree/rustmission/internal/backend"
	"github.com/CouldBeFree/rustmission/internal/logging"
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// handleCommandResultMsg surfaces a resolved command. The task is already
// updated by the bus; failures additionally raise an error popup. Either way
// the torrent poller is asked for a fresh snapshot.
func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.ResultMsg)
	if !ok {
		return nil
	}
	if result.Err != nil {
		logging.Error(fmt.Errorf("%s: %w", result.Label, result.Err))
		m.raise(failureTitle(result.Kind), result.Err.Error())
	}
	m.refresh(backend.KindTorrents)
	if result.Kind == task.KindAdd || result.Kind == task.KindDelete {
		m.refresh(backend.KindStats)
	}
	return nil
}

func failureTitle(kind task.Kind) string {
	switch kind {
	case task.KindAdd:
		return "Failed to add torrent"
	case task.KindDelete:
		return "Failed to delete torrent"
	case task.KindStart:
		return "Failed to start torrent"
	case task.KindStop:
		return "Failed to stop torrent"
	default:
		return "Command failed"
	}
}
