package player

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/spawn"
)

// StreamURLFunc resolves a MediaItem to the URL mpv should stream from
// (the caller's C5 client builds this; kept as a function value so this
// package doesn't import jellyfin's HTTP surface beyond the MediaItem
// type).
type StreamURLFunc func(item jellyfin.MediaItem) string

// AuthHeaders is the bearer token / user-agent pair injected into the
// media engine before each play.
type AuthHeaders struct {
	Token     string
	UserAgent string
}

// Options configures a Controller.
type Options struct {
	Hwdec      string
	MpvProfile string
	MpvLogLevel string
	StreamURL  StreamURLFunc
	Auth       AuthHeaders
}

// Controller owns the playlist and the media engine connection, and
// publishes PlayerState snapshots.
type Controller struct {
	opts Options
	gen  idGen

	commands chan Command
	watch    *Broadcaster

	log *slog.Logger
}

// PlayerHandle is a cloneable reference to a running Controller: a closed
// flag, a command sender, and a state-watch receiver.
type PlayerHandle struct {
	closed *atomic.Bool
	send   chan<- Command
	recv   *Receiver
}

// Send delivers command to the controller. A send after the controller
// has shut down is silently dropped, and so is a send that finds the
// command channel full.
func (h *PlayerHandle) Send(cmd Command) {
	if h.closed.Load() {
		return
	}
	select {
	case h.send <- cmd:
	default:
		// Commands channel is momentarily full; drop rather than block
		// the caller (the next user keypress supersedes a stale one
		// anyway for all but AddTrack/Remove, which are rare enough not
		// to need a larger buffer).
	}
}

// State returns the Receiver this handle already holds; every call returns
// the same one. A handle from Controller.Handle gets its own Receiver.
func (h *PlayerHandle) State() *Receiver { return h.recv }

// New starts a Controller's media engine and returns it along with the
// first PlayerHandle. sp is used to spawn the engine event pump under the
// app's cancellation root (C1).
func New(ctx context.Context, sp *spawn.Spawner, opts Options, log *slog.Logger) (*Controller, *PlayerHandle, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		opts:     opts,
		commands: make(chan Command, 16),
		watch:    NewBroadcaster(PlayerState{Current: -1}),
		log:      log,
	}

	closed := &atomic.Bool{}
	handle := &PlayerHandle{closed: closed, send: c.commands, recv: c.watch.Subscribe()}

	sp.Spawn(func(ctx context.Context, _ *spawn.Spawner) {
		c.run(ctx, closed)
	}, "player-controller")

	return c, handle, nil
}

// Handle returns an additional handle sharing this controller's command
// channel with its own independent state Receiver.
func (c *Controller) Handle(closed *atomic.Bool) *PlayerHandle {
	return &PlayerHandle{closed: closed, send: c.commands, recv: c.watch.Subscribe()}
}

func (c *Controller) run(ctx context.Context, closed *atomic.Bool) {
	defer closed.Store(true)
	defer c.watch.Close()

	eng, err := startEngine(ctx, c.opts.Hwdec, c.opts.MpvProfile, c.opts.MpvLogLevel)
	if err != nil {
		c.log.Error("player: failed to start media engine", "err", err)
		return
	}
	defer func() {
		if err := eng.close(); err != nil {
			c.log.Debug("player: media engine exited", "err", err)
		}
	}()

	state := PlayerState{Current: -1}

	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.commands:
			if !ok {
				return
			}
			state = c.apply(ctx, eng, state, cmd)
			c.watch.Set(state)
		case ev, ok := <-eng.Events():
			if !ok {
				return
			}
			state = c.applyEvent(state, ev)
			c.watch.Set(state)
		}
	}
}

func (c *Controller) apply(ctx context.Context, eng *engine, state PlayerState, cmd Command) PlayerState {
	switch v := cmd.(type) {
	case CmdPause:
		state.Paused = v.Paused
		_ = eng.setProperty(ctx, "pause", v.Paused)
	case CmdFullscreen:
		state.Fullscreen = v.Fullscreen
		_ = eng.setProperty(ctx, "fullscreen", v.Fullscreen)
	case CmdMinimized:
		state.Minimized = v.Minimized
	case CmdNext:
		if state.Current >= 0 && state.Current+1 < len(state.Playlist) {
			state = c.playIndex(ctx, eng, state, state.Current+1)
		}
	case CmdPrevious:
		if state.Current > 0 {
			state = c.playIndex(ctx, eng, state, state.Current-1)
		}
	case CmdSeek:
		state.Position = v.Seconds
		_ = eng.setProperty(ctx, "time-pos", v.Seconds)
	case CmdPlay:
		if idx := indexOfID(state.Playlist, v.ID); idx >= 0 {
			state = c.playIndex(ctx, eng, state, idx)
		}
	case CmdAddTrack:
		var newID PlaylistItemID
		state, newID = c.addTrack(state, v)
		if v.Play {
			if idx := indexOfID(state.Playlist, newID); idx >= 0 {
				state = c.playIndex(ctx, eng, state, idx)
			}
		}
	case CmdRemove:
		state = c.remove(ctx, eng, state, v.ID)
	case CmdReplacePlaylist:
		state = c.replacePlaylist(ctx, eng, state, v)
	case CmdStop:
		state.Current = -1
		state.Idle = true
		state.Position = 0
		_ = eng.setProperty(ctx, "pause", true)
	}
	return state
}

func (c *Controller) playIndex(ctx context.Context, eng *engine, state PlayerState, idx int) PlayerState {
	state.Current = idx
	state.Position = 0
	state.Idle = false
	state.Paused = false
	item := state.Playlist[idx]
	if c.opts.Auth.Token != "" {
		_ = eng.setAuthHeaders(ctx, c.opts.Auth.Token, c.opts.Auth.UserAgent)
	}
	if c.opts.StreamURL != nil {
		_ = eng.loadfile(ctx, c.opts.StreamURL(item.Item))
	}
	return state
}

func (c *Controller) addTrack(state PlayerState, cmd CmdAddTrack) (PlayerState, PlaylistItemID) {
	entry := &PlaylistItem{Item: cmd.Item, ID: c.gen.Next()}
	newList := make(Playlist, 0, len(state.Playlist)+1)

	if cmd.After == nil {
		newList = append(newList, state.Playlist...)
		newList = append(newList, entry)
	} else {
		for _, it := range state.Playlist {
			newList = append(newList, it)
			if it.ID == *cmd.After {
				newList = append(newList, entry)
			}
		}
	}
	state.Playlist = newList
	return state, entry.ID
}

func (c *Controller) remove(ctx context.Context, eng *engine, state PlayerState, id PlaylistItemID) PlayerState {
	idx := indexOfID(state.Playlist, id)
	if idx < 0 {
		return state
	}
	newList := make(Playlist, 0, len(state.Playlist)-1)
	newList = append(newList, state.Playlist[:idx]...)
	newList = append(newList, state.Playlist[idx+1:]...)
	state.Playlist = newList

	switch {
	case state.Current == idx:
		state.Current = -1
		state.Idle = true
		_ = eng.setProperty(ctx, "pause", true)
	case state.Current > idx:
		state.Current--
	}
	return state
}

func (c *Controller) replacePlaylist(ctx context.Context, eng *engine, state PlayerState, cmd CmdReplacePlaylist) PlayerState {
	newList := make(Playlist, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		newList = append(newList, &PlaylistItem{Item: item, ID: c.gen.Next()})
	}
	state.Playlist = newList
	state.Current = -1
	if cmd.StartIndex >= 0 && cmd.StartIndex < len(newList) {
		state = c.playIndex(ctx, eng, state, cmd.StartIndex)
	}
	return state
}

func indexOfID(list Playlist, id PlaylistItemID) int {
	for i, it := range list {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// applyEvent folds an mpv property-change/end-file event into state.
func (c *Controller) applyEvent(state PlayerState, ev mpvEvent) PlayerState {
	switch ev.Event {
	case "property-change":
		switch ev.Name {
		case "time-pos":
			var pos float64
			if json.Unmarshal(ev.Data, &pos) == nil {
				state.Position = pos
			}
		case "pause":
			var paused bool
			if json.Unmarshal(ev.Data, &paused) == nil {
				state.Paused = paused
			}
		case "idle-active":
			var idle bool
			if json.Unmarshal(ev.Data, &idle) == nil {
				state.Idle = idle
			}
		}
	case "end-file":
		if state.Current >= 0 && state.Current+1 < len(state.Playlist) {
			state.Current++
			state.Position = 0
		} else {
			state.Current = -1
			state.Idle = true
		}
	}
	return state
}
