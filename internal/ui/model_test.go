package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CouldBeFree/rustmission/internal/backend"
	"github.com/CouldBeFree/rustmission/internal/task"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	"github.com/CouldBeFree/rustmission/internal/ui/overlay"
)

type addCall struct {
	source string
	dir    *string
}

type fakeAPI struct {
	mu        sync.Mutex
	adds      []addCall
	started   [][]transmission.ID
	stopped   [][]transmission.ID
	deleted   [][]transmission.ID
	withFiles []bool
	err       error
}

func (f *fakeAPI) ListTorrents(context.Context) ([]transmission.Torrent, error) {
	return nil, nil
}

func (f *fakeAPI) SessionStats(context.Context) (transmission.SessionStats, error) {
	return transmission.SessionStats{}, nil
}

func (f *fakeAPI) SessionInfo(context.Context) (transmission.SessionInfo, error) {
	return transmission.SessionInfo{}, nil
}

func (f *fakeAPI) Add(_ context.Context, source string, dir *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, addCall{source: source, dir: dir})
	return f.err
}

func (f *fakeAPI) Start(_ context.Context, ids []transmission.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, ids)
	return f.err
}

func (f *fakeAPI) Stop(_ context.Context, ids []transmission.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, ids)
	return f.err
}

func (f *fakeAPI) Delete(_ context.Context, ids []transmission.ID, withFiles bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	f.withFiles = append(f.withFiles, withFiles)
	return f.err
}

type fakeBackend struct {
	events    chan backend.Event
	refreshes []backend.Kind
}

func (f *fakeBackend) Events() <-chan backend.Event { return f.events }
func (f *fakeBackend) Refresh(kind backend.Kind)    { f.refreshes = append(f.refreshes, kind) }

func newTestHarness(api *fakeAPI) *Harness {
	m := NewModel(Options{API: api, Width: 100, Height: 20, DefaultDownloadDir: "/downloads"})
	return NewHarness(m)
}

func torrentsEvent(torrents ...transmission.Torrent) backendEventMsg {
	return backendEventMsg{event: backend.Event{Kind: backend.KindTorrents, Data: torrents, At: time.Now()}}
}

func sampleTorrents() []transmission.Torrent {
	return []transmission.Torrent{
		{ID: "aaa", Name: "debian-12.iso", Size: 600 << 20, PercentDone: 1, ETASeconds: -1, Status: transmission.StatusSeeding, RateUpload: 2048},
		{ID: "bbb", Name: "ubuntu-24.04.iso", Size: 5 << 30, PercentDone: 0.5, ETASeconds: 600, Status: transmission.StatusDownloading, RateDownload: 1 << 20},
		{ID: "ccc", Name: "archlinux.iso", Size: 1 << 30, PercentDone: 0.1, ETASeconds: -1, Status: transmission.StatusStopped},
	}
}

func TestAddWizardSubmitsSingleCommand(t *testing.T) {
	api := &fakeAPI{}
	h := newTestHarness(api)

	h.Press("m")
	top, ok := h.Model().Overlays().Top()
	if !ok || top.Kind() != overlay.KindWizard {
		t.Fatalf("expected wizard overlay, got %v", top)
	}
	h.Type("magnet:?xt=urn:btih:ABC")
	h.Press("enter")
	if api.adds != nil {
		t.Fatalf("expected no call before the last stage, got %v", api.adds)
	}
	h.Type("/movies")
	h.Press("enter")

	if len(api.adds) != 1 {
		t.Fatalf("expected exactly one add call, got %d", len(api.adds))
	}
	call := api.adds[0]
	if call.source != "magnet:?xt=urn:btih:ABC" {
		t.Fatalf("unexpected source %q", call.source)
	}
	if call.dir == nil || *call.dir != "/downloads/movies" {
		t.Fatalf("expected dir /downloads/movies, got %v", call.dir)
	}
	if !h.Model().Overlays().Empty() {
		t.Fatalf("expected wizard to close, %d overlays remain", h.Model().Overlays().Len())
	}
	tasks := h.Model().Tasks().List()
	if len(tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks))
	}
	if tasks[0].Kind != task.KindAdd || tasks[0].State != task.Success {
		t.Fatalf("expected successful add task, got %+v", tasks[0])
	}
}

func TestAddWizardRequiresSource(t *testing.T) {
	api := &fakeAPI{}
	h := newTestHarness(api)
	h.Press("m")
	h.Press("enter")
	top, ok := h.Model().Overlays().Top()
	if !ok {
		t.Fatalf("expected wizard to stay open")
	}
	wp := top.(*overlay.WizardPopup)
	if wp.Wizard.StageIndex() != 0 || wp.Wizard.Error() == "" {
		t.Fatalf("expected validation error on first stage, got stage %d err %q", wp.Wizard.StageIndex(), wp.Wizard.Error())
	}
	h.Press("esc")
	if !h.Model().Overlays().Empty() {
		t.Fatalf("expected esc to cancel the wizard")
	}
	if len(api.adds) != 0 || len(h.Model().Tasks().List()) != 0 {
		t.Fatalf("expected no command after cancel")
	}
}

func TestPauseTogglesByStatus(t *testing.T) {
	api := &fakeAPI{}
	h := newTestHarness(api)
	h.Send(torrentsEvent(sampleTorrents()...))

	h.Press("p")
	if len(api.stopped) != 1 || api.stopped[0][0] != "aaa" {
		t.Fatalf("expected seeding torrent to be stopped, got %v", api.stopped)
	}
	h.Press("G")
	h.Press("p")
	if len(api.started) != 1 || api.started[0][0] != "ccc" {
		t.Fatalf("expected stopped torrent to be started, got %v", api.started)
	}
	latest, ok := h.Model().Tasks().Latest()
	if !ok || latest.Kind != task.KindStart {
		t.Fatalf("expected latest task to be a start, got %+v", latest)
	}
}

func TestPauseWithEmptyViewIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	h := newTestHarness(api)
	h.Press("p")
	if len(api.started)+len(api.stopped) != 0 {
		t.Fatalf("expected no calls without a selection")
	}
	if len(h.Model().Tasks().List()) != 0 {
		t.Fatalf("expected no task without a selection")
	}
}

func TestDeleteWizardConfirms(t *testing.T) {
	api := &fakeAPI{}
	h := newTestHarness(api)
	h.Send(torrentsEvent(sampleTorrents()...))
	h.Press("j")
	h.Press("D")
	h.Type("n")
	h.Press("enter")
	if len(api.deleted) != 0 {
		t.Fatalf("expected n to be rejected")
	}
	h.Press("backspace")
	h.Type("y")
	h.Press("enter")
	if len(api.deleted) != 1 || api.deleted[0][0] != "bbb" || !api.withFiles[0] {
		t.Fatalf("expected bbb deleted with files, got %v %v", api.deleted, api.withFiles)
	}
	latest, _ := h.Model().Tasks().Latest()
	if latest.Description != "Deleting with files ubuntu-24.04.iso" {
		t.Fatalf("unexpected task description %q", latest.Description)
	}
}

func TestCommandFailureRaisesError(t *testing.T) {
	api := &fakeAPI{err: errors.New("permission denied")}
	h := newTestHarness(api)
	h.Send(torrentsEvent(sampleTorrents()...))
	h.Press("p")

	top, ok := h.Model().Overlays().Top()
	if !ok || top.Kind() != overlay.KindError {
		t.Fatalf("expected error overlay, got %v", top)
	}
	if top.(*overlay.ErrorPopup).Message != "permission denied" {
		t.Fatalf("unexpected message %q", top.(*overlay.ErrorPopup).Message)
	}
	latest, _ := h.Model().Tasks().Latest()
	if latest.State != task.Failed || latest.Reason != "permission denied" {
		t.Fatalf("expected failed task, got %+v", latest)
	}

	h.Press("enter")
	if !h.Model().Overlays().Empty() {
		t.Fatalf("expected enter to dismiss the error")
	}
}

func TestCommandResultRequestsRefresh(t *testing.T) {
	api := &fakeAPI{}
	fb := &fakeBackend{events: make(chan backend.Event, 1)}
	m := NewModel(Options{API: api, Backend: fb, Width: 80, Height: 20})
	m.handleCommandResultMsg(commandResult(task.KindAdd))
	if len(fb.refreshes) != 2 || fb.refreshes[0] != backend.KindTorrents || fb.refreshes[1] != backend.KindStats {
		t.Fatalf("expected torrents and stats refresh, got %v", fb.refreshes)
	}
	fb.refreshes = nil
	m.handleCommandResultMsg(commandResult(task.KindStop))
	if len(fb.refreshes) != 1 || fb.refreshes[0] != backend.KindTorrents {
		t.Fatalf("expected torrents refresh only, got %v", fb.refreshes)
	}
}

func TestPollFailuresLeaveViewUntouched(t *testing.T) {
	h := newTestHarness(&fakeAPI{})
	h.Send(torrentsEvent(sampleTorrents()...))
	h.Press("j")

	for i := 0; i < 3; i++ {
		h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTorrents, Err: errors.New("connection refused"), Failures: i + 1}})
	}
	m := h.Model()
	if !m.Overlays().Empty() {
		t.Fatalf("expected poll failures to stay off the overlay stack")
	}
	if len(m.Store().Torrents()) != 3 {
		t.Fatalf("expected last snapshot to be kept, got %d torrents", len(m.Store().Torrents()))
	}
	if cursor, ok := m.TorrentView().Selection.Current(); !ok || cursor != 1 {
		t.Fatalf("expected cursor to stay on row 1, got %d", cursor)
	}
	if !m.Store().Offline() {
		t.Fatalf("expected store to report offline after three failures")
	}

	h.Send(torrentsEvent(sampleTorrents()...))
	if m.Store().Offline() {
		t.Fatalf("expected a good snapshot to clear offline")
	}
}

func TestSnapshotReclampsSelection(t *testing.T) {
	h := newTestHarness(&fakeAPI{})
	h.Send(torrentsEvent(sampleTorrents()...))
	h.Press("G")
	h.Send(torrentsEvent(sampleTorrents()[:1]...))
	cursor, ok := h.Model().TorrentView().Selection.Current()
	if !ok || cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", cursor)
	}
	h.Send(torrentsEvent())
	if _, ok := h.Model().TorrentView().Selection.Current(); ok {
		t.Fatalf("expected empty view to clear the selection")
	}
}

func TestOverlayPrecedence(t *testing.T) {
	h := newTestHarness(&fakeAPI{})
	h.Press("?")
	h.Model().Dispatch(raiseIntent("Boom", "something broke"))
	h.Press("?")

	top, _ := h.Model().Overlays().Top()
	if top.Kind() != overlay.KindError {
		t.Fatalf("expected error to stay on top, got %v", top.Kind())
	}
	if h.Model().Overlays().Len() != 2 {
		t.Fatalf("expected help to stay below the error, got %d overlays", h.Model().Overlays().Len())
	}
	h.Press("enter")
	top, _ = h.Model().Overlays().Top()
	if top.Kind() != overlay.KindHelp {
		t.Fatalf("expected help after dismissing the error, got %v", top.Kind())
	}
	h.Press("q")
	if !h.Model().Overlays().Empty() || h.Quit() {
		t.Fatalf("expected q to close help without quitting")
	}
	h.Press("q")
	if !h.Quit() {
		t.Fatalf("expected q on the base view to quit")
	}
}

func TestFilterBar(t *testing.T) {
	h := newTestHarness(&fakeAPI{})
	h.Send(torrentsEvent(sampleTorrents()...))
	h.Press("/")
	if !h.Model().Filtering() {
		t.Fatalf("expected filter bar to open")
	}
	h.Type("ubu")
	if rows := h.Model().TorrentView().Rows; len(rows) != 1 || rows[0] != 1 {
		t.Fatalf("expected only ubuntu to match, got %v", rows)
	}
	h.Press("enter")
	if h.Model().Filtering() || h.Model().TorrentView().Filter.Pattern != "ubu" {
		t.Fatalf("expected confirm to keep the pattern and close the bar")
	}
	h.Press("esc")
	if h.Model().TorrentView().Filter.Active() || len(h.Model().TorrentView().Rows) != 3 {
		t.Fatalf("expected esc to clear the pattern")
	}
}

func TestChangeTab(t *testing.T) {
	h := newTestHarness(&fakeAPI{})
	h.Press("2")
	if h.Model().ActiveTab() != TabSession {
		t.Fatalf("expected session tab, got %v", h.Model().ActiveTab())
	}
	h.Press("1")
	if h.Model().ActiveTab() != TabTorrents {
		t.Fatalf("expected torrents tab, got %v", h.Model().ActiveTab())
	}
}

func TestResolvedTasksAcknowledgedOnNextKey(t *testing.T) {
	h := newTestHarness(&fakeAPI{})
	h.Send(torrentsEvent(sampleTorrents()...))
	h.Press("p")
	if len(h.Model().Tasks().List()) != 1 {
		t.Fatalf("expected one task after pause")
	}
	h.Press("j")
	if len(h.Model().Tasks().List()) != 0 {
		t.Fatalf("expected resolved task to be acknowledged")
	}
}
