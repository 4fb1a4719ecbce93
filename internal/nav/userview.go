package nav

import (
	"context"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
)

// LoadUserView is the transient fetch variant for opening a library view.
type LoadUserView struct {
	ViewID string
}

// UserView is the data-bearing screen listing items under a view.
type UserView struct {
	ViewID string
	Items  jellyfin.ItemsPage
}

func (s LoadUserView) run(ctx context.Context, d *Deps) Navigation {
	page, err := d.Client.Items(ctx, jellyfin.ItemQuery{
		ParentID:       s.ViewID,
		Limit:          100,
		ImageTypeLimit: 1,
		EnableUserData: true,
	})
	if err != nil {
		return Replace{Next: ErrorScreen{Diagnostic: err}}
	}
	return Replace{Next: UserView{ViewID: s.ViewID, Items: page}}
}

func (s UserView) run(ctx context.Context, d *Deps) Navigation {
	return d.Renderer.RunUserView(ctx, s)
}

// FetchItemListDetails re-fetches a parent's children without discarding
// the surrounding navigation context — used when a UserView/ItemDetails
// screen asks to refresh its child list in place rather than reloading
// the whole screen.
type FetchItemListDetails struct {
	ParentID string
}

// ItemListDetails is the data-bearing child-list screen: the parent id
// plus its resolved item list. The image-availability signal itself
// lives in the image cache, referenced by the renderer, not carried in
// this navigation-facing struct.
type ItemListDetails struct {
	ParentID string
	Items    jellyfin.ItemsPage
}

func (s FetchItemListDetails) run(ctx context.Context, d *Deps) Navigation {
	page, err := d.Client.Items(ctx, jellyfin.ItemQuery{
		ParentID:       s.ParentID,
		Limit:          100,
		ImageTypeLimit: 1,
		EnableUserData: true,
	})
	if err != nil {
		return Replace{Next: ErrorScreen{Diagnostic: err}}
	}
	return Replace{Next: ItemListDetails{ParentID: s.ParentID, Items: page}}
}

func (s ItemListDetails) run(ctx context.Context, d *Deps) Navigation {
	return d.Renderer.RunItemListDetails(ctx, s)
}
