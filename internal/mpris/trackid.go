package mpris

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/jellytui/jellyfin-tui/internal/player"
)

const (
	trackPathPrefix = "/org/mpris/MediaPlayer2/jellyfintui/Track/"
	noTrackPath     = dbus.ObjectPath("/org/mpris/MediaPlayer2/jellyfintui/NoTrack")
)

// trackIDToPath maps a PlaylistItemID to its bus object path; each
// PlaylistItemID maps bidirectionally to a bus object path.
func trackIDToPath(id player.PlaylistItemID) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("%s%d", trackPathPrefix, uint64(id)))
}

// pathToTrackID parses a track object path back to a PlaylistItemID. The
// second return is false for the NoTrack sentinel or any other path this
// package didn't mint.
func pathToTrackID(p dbus.ObjectPath) (player.PlaylistItemID, bool) {
	s := string(p)
	if s == string(noTrackPath) {
		return 0, false
	}
	if !strings.HasPrefix(s, trackPathPrefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, trackPathPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return player.PlaylistItemID(n), true
}

// trackPaths lists every playlist entry's object path, in order.
func trackPaths(list player.Playlist) []dbus.ObjectPath {
	paths := make([]dbus.ObjectPath, len(list))
	for i, item := range list {
		paths[i] = trackIDToPath(item.ID)
	}
	return paths
}

// currentTrackPath returns the current track's object path, or the
// NoTrack sentinel if there is none.
func currentTrackPath(state player.PlayerState) dbus.ObjectPath {
	cur := state.CurrentItem()
	if cur == nil {
		return noTrackPath
	}
	return trackIDToPath(cur.ID)
}
