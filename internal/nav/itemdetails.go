package nav

import (
	"context"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
)

// LoadItemDetails is the transient fetch variant for a single item's
// details.
type LoadItemDetails struct {
	ItemID string
}

// ItemDetails is the data-bearing screen for a single item.
type ItemDetails struct {
	Item jellyfin.MediaItem
}

func (s LoadItemDetails) run(ctx context.Context, d *Deps) Navigation {
	item, err := d.Client.ItemDetails(ctx, s.ItemID)
	if err != nil {
		return Replace{Next: ErrorScreen{Diagnostic: err}}
	}
	return Replace{Next: ItemDetails{Item: item}}
}

func (s ItemDetails) run(ctx context.Context, d *Deps) Navigation {
	return d.Renderer.RunItemDetails(ctx, s)
}

// FetchItemDetails re-fetches a single item in place, e.g. to pick up a
// changed resume position after returning from playback.
type FetchItemDetails struct {
	ItemID string
}

func (s FetchItemDetails) run(ctx context.Context, d *Deps) Navigation {
	item, err := d.Client.ItemDetails(ctx, s.ItemID)
	if err != nil {
		return Replace{Next: ErrorScreen{Diagnostic: err}}
	}
	return Replace{Next: ItemDetails{Item: item}}
}
