package mpris

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/jellytui/jellyfin-tui/internal/player"
)

// mediaPlayer2Adapter exports org.mpris.MediaPlayer2's two methods. Raise
// has no terminal-window concept to raise, so it's a no-op; Quit stops
// playback, since this adapter's scope is the player, not process
// lifecycle — there is no separate "quit the app" hook to call here.
type mediaPlayer2Adapter struct{ s *Server }

func (a mediaPlayer2Adapter) Raise() *dbus.Error { return nil }

func (a mediaPlayer2Adapter) Quit() *dbus.Error {
	a.s.handle.Send(player.CmdStop{})
	return nil
}

// propSpec builds the property table for all three interfaces, passed to
// prop.Export. CanQuit/CanRaise/Identity/DesktopEntry/HasTrackList are
// emit=false (constants for this app's lifetime, per MPRIS convention);
// Fullscreen, PlaybackStatus, Metadata, CanGoNext/CanGoPrevious, and the
// track list are emit=true/invalidates and updated from applyChange.
// Position is not in this table; position changes are announced through
// the Seeked signal instead.
func (s *Server) propSpec(opts Options, initial player.PlayerState) map[string]map[string]*prop.Prop {
	return map[string]map[string]*prop.Prop{
		"org.mpris.MediaPlayer2": {
			"CanQuit":             {Value: true, Writable: false, Emit: prop.EmitFalse},
			"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse},
			"HasTrackList":        {Value: true, Writable: false, Emit: prop.EmitFalse},
			"Identity":            {Value: opts.Identity, Writable: false, Emit: prop.EmitFalse},
			"DesktopEntry":        {Value: opts.DesktopEntry, Writable: false, Emit: prop.EmitFalse},
			"SupportedUriSchemes": {Value: []string{}, Writable: false, Emit: prop.EmitFalse},
			"SupportedMimeTypes":  {Value: []string{}, Writable: false, Emit: prop.EmitFalse},
			"Fullscreen": {
				Value: initial.Fullscreen, Writable: true, Emit: prop.EmitTrue,
				Callback: func(c *prop.Change) *dbus.Error {
					fs, _ := c.Value.(bool)
					s.handle.Send(player.CmdFullscreen{Fullscreen: fs})
					return nil
				},
			},
			"CanSetFullscreen": {Value: true, Writable: false, Emit: prop.EmitFalse},
		},
		"org.mpris.MediaPlayer2.Player": {
			"PlaybackStatus": {Value: playbackStatus(initial), Writable: false, Emit: prop.EmitTrue},
			"LoopStatus":     {Value: "None", Writable: false, Emit: prop.EmitFalse},
			"Rate":           {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
			"Shuffle":        {Value: false, Writable: false, Emit: prop.EmitFalse},
			"Metadata":       {Value: s.initialMetadata(initial), Writable: false, Emit: prop.EmitTrue},
			"Volume":         {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
			"MinimumRate":    {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
			"MaximumRate":    {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
			"CanGoNext":      {Value: initial.Current+1 < len(initial.Playlist), Writable: false, Emit: prop.EmitTrue},
			"CanGoPrevious":  {Value: initial.Current > 0, Writable: false, Emit: prop.EmitTrue},
			"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitFalse},
			"CanPause":       {Value: true, Writable: false, Emit: prop.EmitFalse},
			"CanSeek":        {Value: true, Writable: false, Emit: prop.EmitFalse},
			"CanControl":     {Value: true, Writable: false, Emit: prop.EmitFalse},
		},
		"org.mpris.MediaPlayer2.TrackList": {
			"Tracks":     {Value: trackPaths(initial.Playlist), Writable: false, Emit: prop.EmitInvalidates},
			"CanEditTracks": {Value: false, Writable: false, Emit: prop.EmitFalse},
		},
	}
}

func (s *Server) initialMetadata(state player.PlayerState) map[string]dbus.Variant {
	if cur := state.CurrentItem(); cur != nil {
		return s.metadataFor(cur)
	}
	return map[string]dbus.Variant{"mpris:trackid": dbus.MakeVariant(noTrackPath)}
}

// introspectNode builds the introspection tree for the three exported
// interfaces plus properties, so generic MPRIS clients that call
// org.freedesktop.DBus.Introspectable.Introspect can discover the shape
// without prior knowledge of this app.
func (s *Server) introspectNode() *introspect.Node {
	return &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name: "org.mpris.MediaPlayer2",
				Methods: []introspect.Method{
					{Name: "Raise"},
					{Name: "Quit"},
				},
			},
			{
				Name: "org.mpris.MediaPlayer2.Player",
				Methods: []introspect.Method{
					{Name: "Next"},
					{Name: "Previous"},
					{Name: "Pause"},
					{Name: "PlayPause"},
					{Name: "Stop"},
					{Name: "Play"},
					{Name: "Seek", Args: []introspect.Arg{{Name: "Offset", Type: "x", Direction: "in"}}},
					{Name: "SetPosition", Args: []introspect.Arg{
						{Name: "TrackId", Type: "o", Direction: "in"},
						{Name: "Position", Type: "x", Direction: "in"},
					}},
					{Name: "OpenUri", Args: []introspect.Arg{{Name: "Uri", Type: "s", Direction: "in"}}},
				},
				Signals: []introspect.Signal{
					{Name: "Seeked", Args: []introspect.Arg{{Name: "Position", Type: "x", Direction: "out"}}},
				},
			},
			{
				Name: "org.mpris.MediaPlayer2.TrackList",
				Methods: []introspect.Method{
					{Name: "GetTracksMetadata", Args: []introspect.Arg{
						{Name: "TrackIds", Type: "ao", Direction: "in"},
						{Name: "Metadata", Type: "aa{sv}", Direction: "out"},
					}},
					{Name: "AddTrack"},
					{Name: "RemoveTrack", Args: []introspect.Arg{{Name: "TrackId", Type: "o", Direction: "in"}}},
					{Name: "GoTo", Args: []introspect.Arg{{Name: "TrackId", Type: "o", Direction: "in"}}},
				},
				Signals: []introspect.Signal{
					{Name: "TrackListReplaced", Args: []introspect.Arg{
						{Name: "Tracks", Type: "ao", Direction: "out"},
						{Name: "CurrentTrack", Type: "o", Direction: "out"},
					}},
					{Name: "TrackAdded"},
					{Name: "TrackRemoved", Args: []introspect.Arg{{Name: "TrackId", Type: "o", Direction: "out"}}},
				},
			},
		},
	}
}
