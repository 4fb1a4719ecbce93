package player

import "testing"

func TestDiffer_NoChange(t *testing.T) {
	s := PlayerState{Current: -1}
	d := NewDiffer(s)
	changed := d.Diff(s)
	if changed.Changed() {
		t.Fatalf("expected no change, got %+v", changed)
	}
}

func TestDiffer_DetectsPauseChange(t *testing.T) {
	s := PlayerState{Current: -1}
	d := NewDiffer(s)
	next := s
	next.Paused = true
	changed := d.Diff(next)
	if changed.Paused == nil || !*changed.Paused {
		t.Fatalf("expected Paused=true, got %+v", changed)
	}
	if changed.Current != nil || changed.Position != nil {
		t.Fatalf("expected only Paused to change, got %+v", changed)
	}
}

func TestDiffer_PlaylistComparedByReferenceIdentity(t *testing.T) {
	list := Playlist{&PlaylistItem{ID: 1}}
	s := PlayerState{Playlist: list, Current: -1}
	d := NewDiffer(s)

	// Same backing array: no playlist change reported even though we
	// constructed a new Playlist header pointing at the same slice.
	same := PlayerState{Playlist: list[:1], Current: -1}
	if c := d.Diff(same); c.PlaylistOK {
		t.Fatalf("expected no playlist change for same backing array, got %+v", c)
	}

	// A genuinely new slice, even with equal contents, counts as changed.
	other := Playlist{&PlaylistItem{ID: 1}}
	s2 := PlayerState{Playlist: other, Current: -1}
	if c := d.Diff(s2); !c.PlaylistOK {
		t.Fatal("expected playlist change for a distinct backing array")
	}
}

func TestDiffer_SecondDiffIsClean(t *testing.T) {
	s := PlayerState{Current: -1}
	d := NewDiffer(s)
	next := s
	next.Position = 10
	d.Diff(next)
	if c := d.Diff(next); c.Changed() {
		t.Fatalf("expected no further change after diffing the same state twice, got %+v", c)
	}
}
