package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/player"
)

type fakePlayerTarget struct {
	sent []player.Command
	recv *player.Receiver
}

func (f *fakePlayerTarget) Send(cmd player.Command)  { f.sent = append(f.sent, cmd) }
func (f *fakePlayerTarget) State() *player.Receiver { return f.recv }

func newFakeTarget(state player.PlayerState) *fakePlayerTarget {
	return &fakePlayerTarget{recv: player.NewBroadcaster(state).Subscribe()}
}

func TestDispatchGeneralCommand(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := []struct {
		name  string
		state player.PlayerState
		cmd   jellyfin.GeneralCommand
		want  player.Command
	}{
		{"Pause", player.PlayerState{}, jellyfin.GeneralCommand{Name: "Pause"}, player.CmdPause{Paused: true}},
		{"Unpause", player.PlayerState{}, jellyfin.GeneralCommand{Name: "Unpause"}, player.CmdPause{Paused: false}},
		{"PlayPause toggles from playing", player.PlayerState{Paused: false}, jellyfin.GeneralCommand{Name: "PlayPause"}, player.CmdPause{Paused: true}},
		{"PlayPause toggles from paused", player.PlayerState{Paused: true}, jellyfin.GeneralCommand{Name: "PlayPause"}, player.CmdPause{Paused: false}},
		{"NextTrack", player.PlayerState{}, jellyfin.GeneralCommand{Name: "NextTrack"}, player.CmdNext{}},
		{"PreviousTrack", player.PlayerState{}, jellyfin.GeneralCommand{Name: "PreviousTrack"}, player.CmdPrevious{}},
		{"Stop", player.PlayerState{}, jellyfin.GeneralCommand{Name: "Stop"}, player.CmdStop{}},
		{
			"Seek converts ticks to seconds",
			player.PlayerState{},
			jellyfin.GeneralCommand{Name: "Seek", Arguments: map[string]string{"SeekPositionTicks": "50000000"}},
			player.CmdSeek{Seconds: 5},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := newFakeTarget(tc.state)
			dispatchGeneralCommand(target, tc.cmd, discard)
			if len(target.sent) != 1 || target.sent[0] != tc.want {
				t.Fatalf("sent = %+v, want [%+v]", target.sent, tc.want)
			}
		})
	}
}

func TestDispatchGeneralCommand_UnknownNameIsIgnored(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	target := newFakeTarget(player.PlayerState{})
	dispatchGeneralCommand(target, jellyfin.GeneralCommand{Name: "SetVolume"}, discard)
	if len(target.sent) != 0 {
		t.Fatalf("expected no command sent for unknown name, got %+v", target.sent)
	}
}

func TestDispatchGeneralCommand_MalformedSeekIsIgnored(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	target := newFakeTarget(player.PlayerState{})
	dispatchGeneralCommand(target, jellyfin.GeneralCommand{Name: "Seek", Arguments: map[string]string{"SeekPositionTicks": "not-a-number"}}, discard)
	if len(target.sent) != 0 {
		t.Fatalf("expected no command sent for malformed seek, got %+v", target.sent)
	}
}
