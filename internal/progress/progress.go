// Package progress reports playback position to the server as the player
// advances, firing each report off to the side of its observer loop
// instead of blocking on the request.
package progress

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jellytui/jellyfin-tui/internal/player"
	"github.com/jellytui/jellyfin-tui/internal/spawn"
)

// Reporter is the fire-and-forget POST sink that Run's observer loop
// drives: PlaybackStart/Progress/Stopped against the authenticated
// client. Narrowed to an interface so tests can substitute a recorder.
type Reporter interface {
	PlaybackStart(ctx context.Context, itemID string, positionSeconds float64, paused bool) error
	PlaybackProgress(ctx context.Context, itemID string, positionSeconds float64, paused bool) error
	PlaybackStopped(ctx context.Context, itemID string, positionSeconds float64) error
}

// lastKnown is the (old-current-index, old-item-id, old-position) state
// the observer keeps between updates.
type lastKnown struct {
	index    int
	itemID   string
	position float64
}

// Run observes recv until the watch channel closes, translating every
// PlayerState update into the appropriate session POST(s): a start report
// on entering a new item, a stopped report on leaving one, and periodic
// progress reports while an item keeps playing. It blocks, so callers
// spawn it under a Pool task. All POSTs are fired via
// sp.SpawnRes so a slow or failing request never stalls the observer
// loop; a sync.Once guards the final stopped report so a shutdown race
// between the last Updated() and channel-close can't double-report.
func Run(ctx context.Context, sp *spawn.Spawner, recv *player.Receiver, reporter Reporter, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	last := lastKnown{index: -1}
	var stoppedOnce sync.Once

	reportStopped := func(itemID string, position float64) {
		stoppedOnce.Do(func() {
			sp.SpawnRes(func(ctx context.Context) error {
				return reporter.PlaybackStopped(ctx, itemID, position)
			}, "progress.stopped")
		})
	}

	for {
		state, ok := recv.Updated()
		if !ok {
			if last.itemID != "" {
				reportStopped(last.itemID, last.position)
			}
			return
		}

		cur := state.CurrentItem()
		if cur == nil {
			if last.itemID != "" {
				oldID, oldPos := last.itemID, last.position
				sp.SpawnRes(func(ctx context.Context) error {
					return reporter.PlaybackStopped(ctx, oldID, oldPos)
				}, "progress.stopped")
				last = lastKnown{index: -1}
			}
			continue
		}

		if state.Current != last.index {
			if last.itemID != "" {
				oldID, oldPos := last.itemID, last.position
				sp.SpawnRes(func(ctx context.Context) error {
					return reporter.PlaybackStopped(ctx, oldID, oldPos)
				}, "progress.stopped")
			}
			newID := cur.Item.ID
			sp.SpawnRes(func(ctx context.Context) error {
				return reporter.PlaybackStart(ctx, newID, state.Position, state.Paused)
			}, "progress.start")
		} else {
			itemID, position, paused := cur.Item.ID, state.Position, state.Paused
			sp.SpawnRes(func(ctx context.Context) error {
				return reporter.PlaybackProgress(ctx, itemID, position, paused)
			}, "progress.progress")
		}

		last = lastKnown{index: state.Current, itemID: cur.Item.ID, position: state.Position}
	}
}
