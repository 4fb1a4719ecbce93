package player

// StateChanged reports which fields actually changed between two
// PlayerState snapshots; a nil field means "unchanged", with per-field
// optionals populated only when that field actually changed.
type StateChanged struct {
	Playlist   Playlist
	PlaylistOK bool
	Current    *int
	Paused     *bool
	Position   *float64
	Fullscreen *bool
	Idle       *bool
}

// Changed reports whether any field differs.
func (c StateChanged) Changed() bool {
	return c.PlaylistOK || c.Current != nil || c.Paused != nil ||
		c.Position != nil || c.Fullscreen != nil || c.Idle != nil
}

// Differ holds the last-observed PlayerState and produces a StateChanged
// against each newly observed one.
type Differ struct {
	prev PlayerState
}

// NewDiffer seeds a Differ with the controller's initial state.
func NewDiffer(initial PlayerState) *Differ {
	return &Differ{prev: initial}
}

// Diff compares new against the last-seen state. Playlist equality is
// reference identity of the backing array (structural sharing); scalars
// use value equality.
func (d *Differ) Diff(new PlayerState) StateChanged {
	var out StateChanged

	if !samePlaylist(d.prev.Playlist, new.Playlist) {
		out.Playlist = new.Playlist
		out.PlaylistOK = true
	}
	if d.prev.Current != new.Current {
		v := new.Current
		out.Current = &v
	}
	if d.prev.Paused != new.Paused {
		v := new.Paused
		out.Paused = &v
	}
	if d.prev.Position != new.Position {
		v := new.Position
		out.Position = &v
	}
	if d.prev.Fullscreen != new.Fullscreen {
		v := new.Fullscreen
		out.Fullscreen = &v
	}
	if d.prev.Idle != new.Idle {
		v := new.Idle
		out.Idle = &v
	}

	d.prev = new
	return out
}

// samePlaylist compares two Playlists by reference identity of the
// backing array, the Go equivalent of the original's Arc::ptr_eq check:
// same pointer to element 0 and same length means the same allocation.
func samePlaylist(a, b Playlist) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
