package mpris

import (
	"github.com/godbus/dbus/v5"

	"github.com/jellytui/jellyfin-tui/internal/player"
)

// trackListAdapter exports org.mpris.MediaPlayer2.TrackList. AddTrack is
// refused (this client builds its playlist from the server library, not
// from arbitrary URIs); RemoveTrack/GoTo translate to Remove/Play
// commands, and GetTracksMetadata looks entries up by the same
// PlaylistItemID a track path encodes.
type trackListAdapter struct{ s *Server }

func (a trackListAdapter) GetTracksMetadata(ids []dbus.ObjectPath) ([]map[string]dbus.Variant, *dbus.Error) {
	state := a.s.handle.State().Borrow()
	byID := make(map[player.PlaylistItemID]*player.PlaylistItem, len(state.Playlist))
	for _, it := range state.Playlist {
		byID[it.ID] = it
	}

	out := make([]map[string]dbus.Variant, 0, len(ids))
	for _, p := range ids {
		id, ok := pathToTrackID(p)
		if !ok {
			return nil, dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs",
				[]any{"NoTrack has no metadata"})
		}
		item, ok := byID[id]
		if !ok {
			return nil, dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs",
				[]any{"track is not currently in the track list"})
		}
		out = append(out, a.s.metadataFor(item))
	}
	return out, nil
}

func (a trackListAdapter) AddTrack(uri string, after dbus.ObjectPath, setAsCurrent bool) *dbus.Error {
	return dbus.NewError("org.mpris.MediaPlayer2.TrackList.Error",
		[]any{"adding tracks by URI is not supported"})
}

func (a trackListAdapter) RemoveTrack(track dbus.ObjectPath) *dbus.Error {
	id, ok := pathToTrackID(track)
	if !ok {
		return dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", []any{"NoTrack cannot be removed"})
	}
	a.s.handle.Send(player.CmdRemove{ID: id})
	return nil
}

func (a trackListAdapter) GoTo(track dbus.ObjectPath) *dbus.Error {
	id, ok := pathToTrackID(track)
	if !ok {
		return dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", []any{"NoTrack cannot be played"})
	}
	a.s.handle.Send(player.CmdPlay{ID: id})
	return nil
}
