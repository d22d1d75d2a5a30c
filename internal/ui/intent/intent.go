// Package intent defines the abstract actions raw key events are mapped to.
package intent

import tea "github.com/charmbracelet/bubbletea"

// Kind enumerates the intents understood by overlays and the base view.
type Kind int

const (
	None Kind = iota
	Up
	Down
	Home
	End
	PageUp
	PageDown
	Confirm
	Cancel
	ShowStats
	Pause
	ChangeTab
	Input
	Error
	Quit
	Help
	Filter
	Add
	Delete
	DeleteWithFiles
)

var names = map[Kind]string{
	None:            "none",
	Up:              "up",
	Down:            "down",
	Home:            "home",
	End:             "end",
	PageUp:          "page-up",
	PageDown:        "page-down",
	Confirm:         "confirm",
	Cancel:          "cancel",
	ShowStats:       "show-stats",
	Pause:           "pause",
	ChangeTab:       "change-tab",
	Input:           "input",
	Error:           "error",
	Quit:            "quit",
	Help:            "help",
	Filter:          "filter",
	Add:             "add",
	Delete:          "delete",
	DeleteWithFiles: "delete-with-files",
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "unknown"
}

// ErrorPayload is the content of an error popup.
type ErrorPayload struct {
	Title   string
	Message string
}

// Intent is one abstract action. Key carries the raw event for Input, Tab
// the target for ChangeTab, and Err the popup for Error.
type Intent struct {
	Kind Kind
	Key  tea.KeyMsg
	Tab  int
	Err  ErrorPayload
}

// Of builds an intent with no payload.
func Of(kind Kind) Intent {
	return Intent{Kind: kind}
}

// InputKey wraps a raw key event for text editing.
func InputKey(msg tea.KeyMsg) Intent {
	return Intent{Kind: Input, Key: msg}
}

// Tab builds a ChangeTab intent.
func Tab(n int) Intent {
	return Intent{Kind: ChangeTab, Tab: n}
}

// Raise builds an Error intent.
func Raise(title, message string) Intent {
	return Intent{Kind: Error, Err: ErrorPayload{Title: title, Message: message}}
}
