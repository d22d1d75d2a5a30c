package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
)

const (
	stageSource      = "source"
	stageDirectory   = "directory"
	stageConfirm     = "confirm"
	addWizardName    = "add-torrent"
	deleteWizardName = "delete-torrent"
)

// AddTorrent asks for a magnet link, URL or torrent file, then for the
// download directory pre-filled with defaultDir.
func AddTorrent(defaultDir string) Definition {
	return Definition{
		Name:  addWizardName,
		Title: "Add torrent",
		Stages: []Stage{
			{Key: stageSource, Prompt: "Magnet, URL or file:", Placeholder: "magnet:?xt=urn:btih:...", Required: true},
			{Key: stageDirectory, Prompt: "Download directory:", Default: defaultDir},
		},
		Build: func(values map[string]string) Submission {
			source := values[stageSource]
			var dir *string
			if d := values[stageDirectory]; d != "" {
				dir = &d
			}
			return Submission{
				Kind:        task.KindAdd,
				Description: fmt.Sprintf("Adding %s", source),
				Call: func(ctx context.Context, api transmission.API) error {
					return api.Add(ctx, source, dir)
				},
			}
		},
	}
}

// DeleteTorrent asks for y/n confirmation before removing t, deleting its
// downloaded data when withFiles is set.
func DeleteTorrent(t transmission.Torrent, withFiles bool) Definition {
	prompt := fmt.Sprintf("Delete %q? (y/n)", t.Name)
	title := "Delete torrent"
	if withFiles {
		prompt = fmt.Sprintf("Delete %q and its data? (y/n)", t.Name)
		title = "Delete torrent with files"
	}
	id := t.ID
	name := t.Name
	return Definition{
		Name:  deleteWizardName,
		Title: title,
		Stages: []Stage{
			{Key: stageConfirm, Prompt: prompt, Placeholder: "y", Required: true, Validate: confirmYes},
		},
		Build: func(map[string]string) Submission {
			verb := "Deleting"
			if withFiles {
				verb = "Deleting with files"
			}
			return Submission{
				Kind:        task.KindDelete,
				Description: fmt.Sprintf("%s %s", verb, name),
				Call: func(ctx context.Context, api transmission.API) error {
					return api.Delete(ctx, []transmission.ID{id}, withFiles)
				},
			}
		},
	}
}

func confirmYes(value string) string {
	switch strings.ToLower(value) {
	case "y", "yes":
		return ""
	default:
		return "type y to confirm or press Esc to cancel"
	}
}
