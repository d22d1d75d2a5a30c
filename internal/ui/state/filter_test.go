package state

import (
	"reflect"
	"testing"

	"github.com/CouldBeFree/rustmission/internal/transmission"
)

func sampleTorrents() []transmission.Torrent {
	return []transmission.Torrent{
		{ID: "1", Name: "ubuntu-24.04-desktop.iso"},
		{ID: "2", Name: "Debian Netinst"},
		{ID: "3", Name: "big buck bunny"},
		{ID: "4", Name: "Ubuntu Server"},
	}
}

func TestApplyEmptyPatternIsIdentity(t *testing.T) {
	torrents := sampleTorrents()
	got := Apply("   ", torrents)
	want := []int{0, 1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestApplyKeepsOriginalOrder(t *testing.T) {
	torrents := sampleTorrents()
	got := Apply("ubu", torrents)
	// "big buck bunny" matches as a scattered subsequence
	want := []int{0, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestApplyMatchesSubsequenceCaseInsensitive(t *testing.T) {
	torrents := sampleTorrents()
	got := Apply("DBN", torrents)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected subsequence match on Debian Netinst, got %v", got)
	}
	if got := Apply("zzz", torrents); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFilterRoundTripRestoresView(t *testing.T) {
	torrents := sampleTorrents()
	snapshot := append([]transmission.Torrent(nil), torrents...)

	var v TorrentView
	v.Recompute(torrents)
	before := v.Items()

	v.SetPattern("bunny")
	if len(v.Rows) != 1 {
		t.Fatalf("expected one filtered row, got %d", len(v.Rows))
	}
	v.ClearPattern()

	if !reflect.DeepEqual(v.Items(), before) {
		t.Fatalf("expected view to be restored, got %#v", v.Items())
	}
	if !reflect.DeepEqual(torrents, snapshot) {
		t.Fatalf("filtering mutated the snapshot")
	}
}

func TestFilterEditing(t *testing.T) {
	var f Filter
	f.InsertText("hello")
	f.InsertText(" world")
	if f.Pattern != "hello world" || f.CursorPos() != 11 {
		t.Fatalf("unexpected filter %q at %d", f.Pattern, f.CursorPos())
	}
	if !f.DeleteWordBackward() || f.Pattern != "hello " {
		t.Fatalf("expected word deletion, got %q", f.Pattern)
	}
	if !f.DeleteRuneBackward() || f.Pattern != "hello" {
		t.Fatalf("expected rune deletion, got %q", f.Pattern)
	}
	f.MoveStart()
	f.InsertText(">")
	if f.Pattern != ">hello" || f.CursorPos() != 1 {
		t.Fatalf("expected insert at start, got %q at %d", f.Pattern, f.CursorPos())
	}
	f.MoveWordForward()
	if f.CursorPos() != 6 {
		t.Fatalf("expected cursor at end of word, got %d", f.CursorPos())
	}
	f.MoveRuneBackward()
	f.MoveRuneBackward()
	if !f.DeleteToStart() || f.Pattern != "lo" || f.CursorPos() != 0 {
		t.Fatalf("expected delete to start, got %q at %d", f.Pattern, f.CursorPos())
	}
	if f.MoveWordBackward() {
		t.Fatalf("word backward at start should be a no-op")
	}
	f.MoveEnd()
	if f.MoveRuneForward() {
		t.Fatalf("rune forward at end should be a no-op")
	}
	f.Clear()
	if f.Active() {
		t.Fatalf("expected inactive filter after clear")
	}
}
