package mpris

import (
	"github.com/godbus/dbus/v5"

	"github.com/jellytui/jellyfin-tui/internal/player"
)

// playerAdapter exports org.mpris.MediaPlayer2.Player's transport
// methods. Every method routes through PlayerHandle.Send, never touching
// the media engine directly.
type playerAdapter struct{ s *Server }

func (a playerAdapter) Next() *dbus.Error {
	a.s.handle.Send(player.CmdNext{})
	return nil
}

func (a playerAdapter) Previous() *dbus.Error {
	a.s.handle.Send(player.CmdPrevious{})
	return nil
}

func (a playerAdapter) Pause() *dbus.Error {
	a.s.handle.Send(player.CmdPause{Paused: true})
	return nil
}

func (a playerAdapter) PlayPause() *dbus.Error {
	paused := a.s.handle.State().Borrow().Paused
	a.s.handle.Send(player.CmdPause{Paused: !paused})
	return nil
}

func (a playerAdapter) Stop() *dbus.Error {
	a.s.handle.Send(player.CmdStop{})
	return nil
}

func (a playerAdapter) Play() *dbus.Error {
	a.s.handle.Send(player.CmdPause{Paused: false})
	return nil
}

func (a playerAdapter) Seek(offsetMicros int64) *dbus.Error {
	cur := a.s.handle.State().Borrow().Position
	a.s.handle.Send(player.CmdSeek{Seconds: cur + float64(offsetMicros)/1_000_000})
	return nil
}

func (a playerAdapter) SetPosition(trackID dbus.ObjectPath, positionMicros int64) *dbus.Error {
	state := a.s.handle.State().Borrow()
	cur := state.CurrentItem()
	if cur == nil || trackIDToPath(cur.ID) != trackID {
		// Per MPRIS spec: stale TrackId is a silent no-op, not an error.
		return nil
	}
	a.s.handle.Send(player.CmdSeek{Seconds: float64(positionMicros) / 1_000_000})
	return nil
}

func (a playerAdapter) OpenUri(uri string) *dbus.Error {
	return dbus.NewError("org.mpris.MediaPlayer2.Player.Error", []any{"OpenUri is not supported"})
}
