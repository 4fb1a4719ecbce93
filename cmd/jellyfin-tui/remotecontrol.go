package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/player"
)

// runRemoteControl opens a WebSocket push session and translates server
// GeneralCommand messages into PlayerHandle commands, so another Jellyfin
// client (or the server's own "cast to" UI) can drive this session's
// playback. It runs until ctx is cancelled or the session drops; callers
// that want reconnection should call it in a retry loop.
func runRemoteControl(ctx context.Context, client *jellyfin.AuthClient, handle *player.PlayerHandle, log *slog.Logger) {
	sess, err := client.OpenSession(ctx)
	if err != nil {
		log.Warn("remotecontrol: session unavailable", "err", err)
		return
	}
	defer sess.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sess.Messages():
			if !ok {
				return
			}
			info, ok := msg.Decode()
			if !ok || info.Command == nil {
				continue
			}
			dispatchGeneralCommand(handle, *info.Command, log)
		}
	}
}

// playerTarget is the slice of PlayerHandle that dispatchGeneralCommand
// needs, narrowed so the dispatch logic is testable without a live media
// engine behind it.
type playerTarget interface {
	Send(player.Command)
	State() *player.Receiver
}

// dispatchGeneralCommand maps the server's fixed remote-control command
// names onto PlayerHandle.Send calls. Unrecognized names are logged and
// dropped rather than treated as an error: the set of GeneralCommand
// names is server-defined and open-ended (volume, subtitle track
// selection, and others this client doesn't act on).
func dispatchGeneralCommand(handle playerTarget, cmd jellyfin.GeneralCommand, log *slog.Logger) {
	switch cmd.Name {
	case "Pause":
		handle.Send(player.CmdPause{Paused: true})
	case "Unpause":
		handle.Send(player.CmdPause{Paused: false})
	case "PlayPause":
		handle.Send(player.CmdPause{Paused: !handle.State().Borrow().Paused})
	case "NextTrack":
		handle.Send(player.CmdNext{})
	case "PreviousTrack":
		handle.Send(player.CmdPrevious{})
	case "Stop":
		handle.Send(player.CmdStop{})
	case "Seek":
		ticks, err := strconv.ParseInt(cmd.Arguments["SeekPositionTicks"], 10, 64)
		if err != nil {
			log.Warn("remotecontrol: malformed Seek command", "err", err)
			return
		}
		handle.Send(player.CmdSeek{Seconds: float64(ticks) / 10_000_000})
	default:
		log.Debug("remotecontrol: ignoring unhandled command", "name", cmd.Name)
	}
}
