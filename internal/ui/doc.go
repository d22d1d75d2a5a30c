// Package ui contains the Bubble Tea program for the torrent dashboard.
// Model focuses on message orchestration while dedicated helpers own key
// mapping, filtering, rendering and command execution.
//
// Message flow:
//   - Key presses are mapped to intents (keys.go). Dispatch hands an intent to
//     the top overlay when one is open, otherwise to the filter bar while it is
//     taking input, otherwise to the base view of the active tab.
//   - Every other tea.Msg is routed through a typed handler registry so each
//     message kind is handled by a focused function.
//
// State ownership:
//   - Daemon snapshots live in internal/state.Store. The dispatcher applies
//     backend events to the store and the model recomputes the filtered
//     torrent view (internal/ui/state) whenever the torrent list changes.
//   - Overlays (error, help, statistics, wizards) live in internal/ui/overlay.
//     Errors always sit above everything else.
//   - Mutating commands run through internal/ui/command. The bus registers a
//     pending task before the call starts and resolves it when the result
//     message arrives, so the status line always has something to show.
//
// Backend interactions:
//   - A backend.Watcher polls the daemon on separate schedules for torrents,
//     statistics and session info. Update waits for its events and hands them
//     to applyBackendEvent. Poll failures are counted, never shown as popups;
//     three in a row mark the daemon offline until the next good snapshot.
//   - After a command resolves the model asks the watcher for an immediate
//     refresh so the table reflects the change without waiting a full cycle.
package ui
