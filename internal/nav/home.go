package nav

import (
	"context"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
)

// LoadHomeScreen is the transient fetch variant seeded as the stack's
// first entry. Its presence on top of the stack means "fetching the
// home screen; render a loading indicator".
type LoadHomeScreen struct{}

// HomeScreen is the data-bearing home screen: library views plus the
// resume and next-up rows a cold-start home load populates by issuing
// the view, resume, and next-up fetches together.
type HomeScreen struct {
	Libraries []jellyfin.Library
	Resume    []jellyfin.MediaItem
	NextUp    []jellyfin.MediaItem
}

func (LoadHomeScreen) run(ctx context.Context, d *Deps) Navigation {
	libs, err := d.Client.Libraries(ctx)
	if err != nil {
		return Replace{Next: ErrorScreen{Diagnostic: err}}
	}
	// Resume/NextUp failures degrade to empty rows rather than failing the
	// whole home screen: a library view is the load-bearing fetch here.
	resume, err := d.Client.Resume(ctx, 20)
	if err != nil {
		d.warn("resume fetch failed", err)
		resume = nil
	}
	nextUp, err := d.Client.NextUp(ctx, 20)
	if err != nil {
		d.warn("next-up fetch failed", err)
		nextUp = nil
	}
	return Replace{Next: HomeScreen{Libraries: libs, Resume: resume, NextUp: nextUp}}
}

func (s HomeScreen) run(ctx context.Context, d *Deps) Navigation {
	return d.Renderer.RunHome(ctx, s)
}
