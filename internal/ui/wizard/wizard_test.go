package wizard

import (
	"context"
	"strings"
	"testing"

	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui/intent"
	tea "github.com/charmbracelet/bubbletea"
)

type recordingAPI struct {
	transmission.API
	addSource string
	addDir    *string
	addCalls  int
	deleted   []transmission.ID
	withFiles bool
}

func (r *recordingAPI) Add(_ context.Context, source string, dir *string) error {
	r.addCalls++
	r.addSource = source
	r.addDir = dir
	return nil
}

func (r *recordingAPI) Delete(_ context.Context, ids []transmission.ID, withFiles bool) error {
	r.deleted = ids
	r.withFiles = withFiles
	return nil
}

func typeText(w *Wizard, text string) {
	w.Update(intent.InputKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}))
}

func TestAddWizardRoundTrip(t *testing.T) {
	w := New(AddTorrent("/downloads"))
	typeText(w, "magnet:?xt=urn:btih:ABC")
	if res := w.Update(intent.Of(intent.Confirm)); res.Done {
		t.Fatalf("first confirm should advance, not finish")
	}
	if w.StageIndex() != 1 {
		t.Fatalf("expected stage 1, got %d", w.StageIndex())
	}
	if w.Value() != "/downloads" {
		t.Fatalf("expected default directory, got %q", w.Value())
	}
	typeText(w, "/movies")

	res := w.Update(intent.Of(intent.Confirm))
	if !res.Done || res.Submission == nil {
		t.Fatalf("expected submission on final confirm, got %#v", res)
	}
	if res.Submission.Kind != task.KindAdd {
		t.Fatalf("expected add task kind, got %v", res.Submission.Kind)
	}
	if res.Submission.Description != "Adding magnet:?xt=urn:btih:ABC" {
		t.Fatalf("unexpected description %q", res.Submission.Description)
	}

	api := &recordingAPI{}
	if err := res.Submission.Call(context.Background(), api); err != nil {
		t.Fatalf("call returned error: %v", err)
	}
	if api.addCalls != 1 || api.addSource != "magnet:?xt=urn:btih:ABC" {
		t.Fatalf("unexpected add call %#v", api)
	}
	if api.addDir == nil || *api.addDir != "/downloads/movies" {
		t.Fatalf("unexpected directory %v", api.addDir)
	}
}

func TestAddWizardRequiresSource(t *testing.T) {
	w := New(AddTorrent(""))
	res := w.Update(intent.Of(intent.Confirm))
	if res.Done || res.Submission != nil {
		t.Fatalf("empty source must not advance")
	}
	if w.StageIndex() != 0 || w.Error() == "" {
		t.Fatalf("expected inline validation error at stage 0")
	}
	typeText(w, "x")
	if w.Error() != "" {
		t.Fatalf("editing should clear the validation error")
	}
}

func TestAddWizardKeepsLongMagnet(t *testing.T) {
	magnet := "magnet:?xt=urn:btih:ABC" + strings.Repeat("&tr=udp%3A%2F%2Ftracker.example.org%3A1337%2Fannounce", 120)
	if len(magnet) <= 4096 {
		t.Fatalf("test magnet too short: %d", len(magnet))
	}
	w := New(AddTorrent(""))
	typeText(w, magnet)
	if w.Value() != magnet {
		t.Fatalf("input truncated to %d of %d bytes", len(w.Value()), len(magnet))
	}
	w.Update(intent.Of(intent.Confirm))
	res := w.Update(intent.Of(intent.Confirm))
	if res.Submission == nil {
		t.Fatalf("expected submission")
	}
	api := &recordingAPI{}
	if err := res.Submission.Call(context.Background(), api); err != nil {
		t.Fatalf("call returned error: %v", err)
	}
	if api.addSource != magnet {
		t.Fatalf("submitted source truncated to %d of %d bytes", len(api.addSource), len(magnet))
	}
}

func TestAddWizardEmptyDirectoryOmitsDir(t *testing.T) {
	w := New(AddTorrent(""))
	typeText(w, "https://example.com/a.torrent")
	w.Update(intent.Of(intent.Confirm))
	res := w.Update(intent.Of(intent.Confirm))
	if res.Submission == nil {
		t.Fatalf("expected submission")
	}
	api := &recordingAPI{}
	_ = res.Submission.Call(context.Background(), api)
	if api.addDir != nil {
		t.Fatalf("expected nil directory, got %q", *api.addDir)
	}
}

func TestWizardCancelIssuesNothing(t *testing.T) {
	w := New(AddTorrent("/downloads"))
	typeText(w, "magnet:?xt=urn:btih:ABC")
	w.Update(intent.Of(intent.Confirm))
	res := w.Update(intent.Of(intent.Cancel))
	if !res.Done || res.Submission != nil {
		t.Fatalf("cancel must finish without a submission, got %#v", res)
	}
}

func TestWizardIgnoresUnrelatedIntents(t *testing.T) {
	w := New(AddTorrent("/downloads"))
	for _, kind := range []intent.Kind{intent.Up, intent.Down, intent.Pause, intent.ShowStats} {
		if res := w.Update(intent.Of(kind)); res.Done || res.Submission != nil {
			t.Fatalf("intent %s should be ignored", kind)
		}
	}
	if w.StageIndex() != 0 {
		t.Fatalf("stage should not change")
	}
}

func TestDeleteWizardNeedsConfirmation(t *testing.T) {
	torrent := transmission.Torrent{ID: "abc", Name: "ubuntu.iso"}
	w := New(DeleteTorrent(torrent, true))
	typeText(w, "n")
	if res := w.Update(intent.Of(intent.Confirm)); res.Done {
		t.Fatalf("answer n must be rejected")
	}
	w.Update(intent.InputKey(tea.KeyMsg{Type: tea.KeyBackspace}))
	typeText(w, "y")
	res := w.Update(intent.Of(intent.Confirm))
	if !res.Done || res.Submission == nil {
		t.Fatalf("expected submission after y")
	}
	if res.Submission.Kind != task.KindDelete {
		t.Fatalf("expected delete kind")
	}
	api := &recordingAPI{}
	if err := res.Submission.Call(context.Background(), api); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "abc" || !api.withFiles {
		t.Fatalf("unexpected delete call %#v", api)
	}
}

func TestDefinitionWithoutBuildJustCloses(t *testing.T) {
	w := New(Definition{Name: "noop", Stages: []Stage{{Key: "a", Default: "x"}}})
	res := w.Update(intent.Of(intent.Confirm))
	if !res.Done || res.Submission != nil {
		t.Fatalf("expected plain completion, got %#v", res)
	}
	if got := w.Captured(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("unexpected captured values %v", got)
	}
}
