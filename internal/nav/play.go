package nav

import (
	"context"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/player"
)

// PlayRequest describes what to enqueue: either a parent to expand
// (e.g. "play this season") or an already-resolved item list.
type PlayRequest struct {
	ParentID   string
	Items      []jellyfin.MediaItem
	StartIndex int
}

// LoadPlay is the transient fetch variant that resolves a PlayRequest
// into concrete items, replaces the player's playlist, and hands off to
// the data-bearing Play screen.
type LoadPlay struct {
	Request PlayRequest
}

// Play is the data-bearing playback screen: the resolved item list plus
// the index playback starts at.
type Play struct {
	Items      []jellyfin.MediaItem
	StartIndex int
}

func (s LoadPlay) run(ctx context.Context, d *Deps) Navigation {
	items := s.Request.Items
	if s.Request.ParentID != "" {
		page, err := d.Client.Items(ctx, jellyfin.ItemQuery{
			ParentID:       s.Request.ParentID,
			Limit:          0,
			EnableUserData: true,
		})
		if err != nil {
			return Replace{Next: ErrorScreen{Diagnostic: err}}
		}
		items = page.Items
	}
	if len(items) == 0 {
		return Pop{}
	}

	start := s.Request.StartIndex
	if start < 0 || start >= len(items) {
		start = 0
	}

	d.Player.Send(player.CmdReplacePlaylist{Items: items, StartIndex: start})

	return Replace{Next: Play{Items: items, StartIndex: start}}
}

func (s Play) run(ctx context.Context, d *Deps) Navigation {
	return d.Renderer.RunPlay(ctx, s)
}
