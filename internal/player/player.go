// Package player owns the playlist, drives the external media engine, and
// publishes a watch-style state snapshot to the progress reporter, the
// desktop-bus adapter, and the navigation core's Play screen.
package player

import (
	"sync/atomic"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
)

// PlaylistItemID is a process-unique, monotonically increasing 64-bit
// identifier for a playlist entry. Wraparound after 2^64 assignments is
// accepted without a guard — no real session adds anywhere near that
// many tracks.
type PlaylistItemID uint64

// idGen hands out PlaylistItemIDs. The zero value is ready to use.
type idGen struct {
	next atomic.Uint64
}

func (g *idGen) Next() PlaylistItemID {
	return PlaylistItemID(g.next.Add(1) - 1)
}

// PlaylistItem is a MediaItem placed in the playlist, tagged with the id
// that identifies this specific placement; removal followed by
// reinsertion gets a new id.
type PlaylistItem struct {
	Item jellyfin.MediaItem
	ID   PlaylistItemID
}

// Playlist is an immutable, shared sequence of PlaylistItems. The
// controller never mutates a Playlist value in place — every change
// produces a new slice, so PlayerState snapshots observed by other
// goroutines are safe to read without copying, and the differ can detect
// "did the playlist change" by reference identity of the backing array.
type Playlist []*PlaylistItem

// PlayerState is the observable playback snapshot: shared ordered
// playlist, current index (or none via Current == -1), paused flag,
// idle flag, position in seconds, fullscreen flag.
type PlayerState struct {
	Playlist   Playlist
	Current    int // -1 means no current track
	Paused     bool
	Idle       bool
	Position   float64
	Fullscreen bool
	Minimized  bool
}

// CurrentItem returns the playlist entry PlayerState.Current points at, or
// nil if there is none.
func (s PlayerState) CurrentItem() *PlaylistItem {
	if s.Current < 0 || s.Current >= len(s.Playlist) {
		return nil
	}
	return s.Playlist[s.Current]
}

// Command is the closed set of operations a PlayerHandle can send to the
// controller.
type Command interface{ isCommand() }

type (
	// CmdPause sets the paused flag.
	CmdPause struct{ Paused bool }
	// CmdFullscreen sets the fullscreen flag.
	CmdFullscreen struct{ Fullscreen bool }
	// CmdMinimized sets the minimized flag.
	CmdMinimized struct{ Minimized bool }
	// CmdNext advances to the next playlist item.
	CmdNext struct{}
	// CmdPrevious returns to the previous playlist item.
	CmdPrevious struct{}
	// CmdSeek seeks to an absolute position in seconds.
	CmdSeek struct{ Seconds float64 }
	// CmdPlay switches current playback to the given playlist entry.
	CmdPlay struct{ ID PlaylistItemID }
	// CmdAddTrack inserts item into the playlist, optionally after a
	// given entry (appended if After is nil), optionally starting
	// playback immediately.
	CmdAddTrack struct {
		Item  jellyfin.MediaItem
		After *PlaylistItemID
		Play  bool
	}
	// CmdRemove deletes a playlist entry by id.
	CmdRemove struct{ ID PlaylistItemID }
	// CmdReplacePlaylist replaces the entire playlist and starts at
	// StartIndex.
	CmdReplacePlaylist struct {
		Items      []jellyfin.MediaItem
		StartIndex int
	}
	// CmdStop halts playback and clears the current index.
	CmdStop struct{}
)

func (CmdPause) isCommand()           {}
func (CmdFullscreen) isCommand()      {}
func (CmdMinimized) isCommand()       {}
func (CmdNext) isCommand()            {}
func (CmdPrevious) isCommand()        {}
func (CmdSeek) isCommand()            {}
func (CmdPlay) isCommand()            {}
func (CmdAddTrack) isCommand()        {}
func (CmdRemove) isCommand()          {}
func (CmdReplacePlaylist) isCommand() {}
func (CmdStop) isCommand()            {}
