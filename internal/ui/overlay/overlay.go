// Package overlay holds the stack of modal components drawn above the base
// view. Only the top entry receives input.
package overlay

import (
	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"github.com/CouldBeFree/rustmission/internal/ui/intent"
	"github.com/CouldBeFree/rustmission/internal/ui/wizard"
	tea "github.com/charmbracelet/bubbletea"
)

// Kind identifies an overlay variant.
type Kind int

const (
	KindError Kind = iota
	KindHelp
	KindStats
	KindWizard
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindHelp:
		return "help"
	case KindStats:
		return "stats"
	case KindWizard:
		return "wizard"
	default:
		return "unknown"
	}
}

// Overlay is implemented only by the variants in this package.
type Overlay interface {
	Kind() Kind
	sealed()
}

// ErrorPopup reports a failure. It closes on Confirm or Quit.
type ErrorPopup struct {
	Title   string
	Message string
}

// HelpPopup lists key bindings.
type HelpPopup struct {
	Scroll int
}

// StatsPopup shows session statistics read from the store at render time.
type StatsPopup struct{}

// WizardPopup hosts a running command wizard.
type WizardPopup struct {
	Wizard *wizard.Wizard
}

func (*ErrorPopup) Kind() Kind  { return KindError }
func (*HelpPopup) Kind() Kind   { return KindHelp }
func (*StatsPopup) Kind() Kind  { return KindStats }
func (*WizardPopup) Kind() Kind { return KindWizard }

func (*ErrorPopup) sealed()  {}
func (*HelpPopup) sealed()   {}
func (*StatsPopup) sealed()  {}
func (*WizardPopup) sealed() {}

// Outcome describes what delivering an intent to the top overlay did.
type Outcome struct {
	Handled    bool
	Popped     Overlay
	Submission *wizard.Submission
	Cmd        tea.Cmd
}

// Stack is an ordered set of overlays, top last. It is owned by the UI loop.
type Stack struct {
	items []Overlay
}

func (s *Stack) Len() int    { return len(s.items) }
func (s *Stack) Empty() bool { return len(s.items) == 0 }

// Items returns the overlays bottom to top, the order they are drawn in.
func (s *Stack) Items() []Overlay {
	out := make([]Overlay, len(s.items))
	copy(out, s.items)
	return out
}

// Top returns the overlay receiving input.
func (s *Stack) Top() (Overlay, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Push adds o to the stack. Error popups always land on top; any other
// overlay is placed beneath errors already showing so they are dismissed first.
func (s *Stack) Push(o Overlay) {
	if o == nil {
		return
	}
	pos := len(s.items)
	if o.Kind() != KindError {
		for pos > 0 && s.items[pos-1].Kind() == KindError {
			pos--
		}
	}
	s.items = append(s.items, nil)
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = o
	events.Overlay.Push(o.Kind().String(), len(s.items))
}

// PushError raises an error popup above everything else.
func (s *Stack) PushError(title, message string) {
	s.Push(&ErrorPopup{Title: title, Message: message})
}

// Pop removes the top overlay.
func (s *Stack) Pop() (Overlay, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	events.Overlay.Pop(top.Kind().String(), len(s.items))
	return top, true
}

// Dispatch delivers in to the top overlay only and pops it when it reports
// completion. The intent is never forwarded further down in the same call.
func (s *Stack) Dispatch(in intent.Intent) Outcome {
	top, ok := s.Top()
	if !ok {
		return Outcome{}
	}
	done := false
	var out Outcome
	switch o := top.(type) {
	case *ErrorPopup:
		done = in.Kind == intent.Confirm || in.Kind == intent.Quit
	case *HelpPopup:
		switch in.Kind {
		case intent.Quit, intent.Confirm, intent.Cancel, intent.Help:
			done = true
		case intent.Down:
			o.Scroll++
		case intent.Up:
			if o.Scroll > 0 {
				o.Scroll--
			}
		}
	case *StatsPopup:
		switch in.Kind {
		case intent.Quit, intent.Confirm, intent.Cancel, intent.ShowStats:
			done = true
		}
	case *WizardPopup:
		res := o.Wizard.Update(in)
		done = res.Done
		out.Submission = res.Submission
		out.Cmd = res.Cmd
	}
	out.Handled = true
	if done {
		out.Popped, _ = s.Pop()
	}
	return out
}
