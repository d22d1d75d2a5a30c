package ui

import (
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/ui/command"
	"github.com/CouldBeFree/rustmission/internal/ui/intent"
)

func commandResult(kind task.Kind) command.ResultMsg {
	return command.ResultMsg{Kind: kind, Label: kind.String()}
}

func raiseIntent(title, message string) intent.Intent {
	return intent.Raise(title, message)
}
