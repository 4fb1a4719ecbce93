package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jellytui/jellyfin-tui/internal/image"
	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/nav"
	"github.com/jellytui/jellyfin-tui/internal/player"
)

// thumbWidth is the column width art is fetched/encoded at for the item
// list's inline "ready" marker; detail screens ask for a wider variant.
const (
	thumbWidth  = 20
	detailWidth = 60
)

// renderer is the concrete nav.Renderer this binary runs with: plain
// tview.List/TextView widgets plus a raw SetInputCapture switch per
// screen, with no generic keybind-engine indirection between a key
// press and the navigation it produces.
type renderer struct {
	app    *tview.Application
	player *player.PlayerHandle
	images *image.Cache
	log    *slog.Logger
}

func newRenderer(app *tview.Application, handle *player.PlayerHandle, images *image.Cache, log *slog.Logger) *renderer {
	return &renderer{app: app, player: handle, images: images, log: log}
}

// newDecision returns a buffered Navigation channel and the send closure
// a screen's input-capture callbacks use to resolve it. Callers must
// finish wiring layout (list items, input captures) before calling show,
// since SetRoot hands layout to the application's own draw goroutine.
func newDecision() (chan nav.Navigation, func(nav.Navigation)) {
	decision := make(chan nav.Navigation, 1)
	send := func(n nav.Navigation) {
		select {
		case decision <- n:
		default:
		}
	}
	return decision, send
}

// show swaps the application root to the fully-built layout. Call this
// only after every input capture on layout has been registered.
func (r *renderer) show(layout tview.Primitive) {
	r.app.QueueUpdateDraw(func() {
		r.app.SetRoot(layout, true)
	})
}

func (r *renderer) wait(ctx context.Context, decision chan nav.Navigation) nav.Navigation {
	select {
	case <-ctx.Done():
		return nav.Exit{}
	case n := <-decision:
		return n
	}
}

// primaryImageKey returns the cache key for item's primary image, or
// ok=false if the item carries no Primary image tag.
func primaryImageKey(item jellyfin.MediaItem) (image.Key, bool) {
	tag, ok := item.ImageTags[jellyfin.ImagePrimary]
	if !ok || tag == "" {
		return image.Key{}, false
	}
	return image.Key{Type: string(jellyfin.ImagePrimary), ItemID: item.ID, Tag: tag}, true
}

// fetchArt runs item's primary-image fetch through the cache/decode
// pipeline in the background and calls ready on the UI goroutine once it
// completes. A missing tag, a nil cache, or a fetch error are all silent
// no-ops: thumbnail art is decoration, not something worth interrupting
// browsing over.
func (r *renderer) fetchArt(ctx context.Context, item jellyfin.MediaItem, width int, ready func(*image.ProtocolHandle)) {
	if r.images == nil {
		return
	}
	key, ok := primaryImageKey(item)
	if !ok {
		return
	}
	go func() {
		handle, err := r.images.Fetch(ctx, key, width, item.ID, jellyfin.ImagePrimary)
		if err != nil {
			r.log.Debug("renderer: art fetch failed", "item", item.ID, "err", err)
			return
		}
		r.app.QueueUpdateDraw(func() { ready(handle) })
	}()
}

func isContainer(kind jellyfin.ItemKind) bool {
	switch kind {
	case jellyfin.KindSeries, jellyfin.KindSeason, jellyfin.KindFolder, jellyfin.KindPlaylist:
		return true
	default:
		return false
	}
}

func (r *renderer) RunHome(ctx context.Context, s nav.HomeScreen) nav.Navigation {
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true).SetTitle(" Home ")

	decision, send := newDecision()

	for _, item := range s.Resume {
		item := item
		list.AddItem("▶ Resume: "+item.Name, "", 0, func() {
			send(nav.Push{Current: s, Next: nav.LoadPlay{Request: nav.PlayRequest{Items: []jellyfin.MediaItem{item}}}})
		})
	}
	for _, item := range s.NextUp {
		item := item
		list.AddItem("▶ Next Up: "+item.Name, "", 0, func() {
			send(nav.Push{Current: s, Next: nav.LoadPlay{Request: nav.PlayRequest{Items: []jellyfin.MediaItem{item}}}})
		})
	}
	for _, lib := range s.Libraries {
		lib := lib
		list.AddItem(lib.Name, lib.Kind, 0, func() {
			send(nav.Push{Current: s, Next: nav.LoadUserView{ViewID: lib.ID}})
		})
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			send(nav.Exit{})
			return nil
		}
		return event
	})

	r.show(withFooter(list, " ↑↓ move  Enter select  q quit"))
	return r.wait(ctx, decision)
}

func (r *renderer) RunUserView(ctx context.Context, s nav.UserView) nav.Navigation {
	return r.runItemList(ctx, " Library ", s.Items.Items, s)
}

func (r *renderer) RunItemListDetails(ctx context.Context, s nav.ItemListDetails) nav.Navigation {
	return r.runItemList(ctx, " Items ", s.Items.Items, s)
}

// runItemList is shared between UserView and ItemListDetails: both are
// "a list of items under a parent" with identical drill-down/play
// semantics, differing only in which Load* screen resumes them.
func (r *renderer) runItemList(ctx context.Context, title string, items []jellyfin.MediaItem, current nav.Screen) nav.Navigation {
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true).SetTitle(title)

	decision, send := newDecision()

	for i, item := range items {
		item := item
		index := i
		label := item.Name
		if isContainer(item.Kind) {
			label += " /"
		}
		list.AddItem(label, string(item.Kind), 0, func() {
			if isContainer(item.Kind) {
				send(nav.Push{Current: current, Next: nav.FetchItemListDetails{ParentID: item.ID}})
				return
			}
			send(nav.Push{Current: current, Next: nav.LoadItemDetails{ItemID: item.ID}})
		})
		r.fetchArt(ctx, item, thumbWidth, func(*image.ProtocolHandle) {
			if index < list.GetItemCount() {
				main, secondary := list.GetItemText(index)
				list.SetItemText(index, main+" 🖼", secondary)
			}
		})
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape:
			send(nav.Pop{})
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'q':
			send(nav.Exit{})
			return nil
		}
		return event
	})

	r.show(withFooter(list, " ↑↓ move  Enter open  Esc back  q quit"))
	return r.wait(ctx, decision)
}

func (r *renderer) RunItemDetails(ctx context.Context, s nav.ItemDetails) nav.Navigation {
	view := tview.NewTextView().SetDynamicColors(true)
	view.SetBorder(true).SetTitle(" " + s.Item.Name + " ")
	text := fmt.Sprintf("[::b]%s[::-]\ntype: %s\n", s.Item.Name, s.Item.Kind)
	if s.Item.UserData != nil && s.Item.UserData.PlaybackPositionTicks > 0 {
		text += fmt.Sprintf("resume position: %.0fs\n", float64(s.Item.UserData.PlaybackPositionTicks)/1e7)
	}
	view.SetText(text)

	decision, send := newDecision()

	r.fetchArt(ctx, s.Item, detailWidth, func(handle *image.ProtocolHandle) {
		view.SetText(text + fmt.Sprintf("art: %d cols, %d bytes ready\n", handle.Width, len(handle.Payload)))
	})

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape:
			send(nav.Pop{})
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'p':
			send(nav.Push{Current: s, Next: nav.LoadPlay{Request: nav.PlayRequest{Items: []jellyfin.MediaItem{s.Item}}}})
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'q':
			send(nav.Exit{})
			return nil
		}
		return event
	})

	r.show(withFooter(view, " p play  Esc back  q quit"))
	return r.wait(ctx, decision)
}

func (r *renderer) RunPlay(ctx context.Context, s nav.Play) nav.Navigation {
	view := tview.NewTextView().SetDynamicColors(true)
	view.SetBorder(true).SetTitle(" Now Playing ")

	render := func() {
		state := r.player.State().Borrow()
		name := ""
		if cur := state.CurrentItem(); cur != nil {
			name = cur.Item.Name
		}
		status := "playing"
		if state.Paused {
			status = "paused"
		}
		view.SetText(fmt.Sprintf("[::b]%s[::-]\n%s — %.0fs\n", name, status, state.Position))
	}
	render()

	decision, send := newDecision()

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape:
			send(nav.Pop{})
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'q':
			send(nav.Exit{})
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == ' ':
			st := r.player.State().Borrow()
			r.player.Send(player.CmdPause{Paused: !st.Paused})
			render()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'n':
			r.player.Send(player.CmdNext{})
			render()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'p':
			r.player.Send(player.CmdPrevious{})
			render()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 's':
			r.player.Send(player.CmdStop{})
			send(nav.Pop{})
			return nil
		}
		return event
	})

	r.show(withFooter(view, " space pause  n/p next/prev  s stop  Esc back"))
	return r.wait(ctx, decision)
}

// withFooter wraps a primitive with a single footer-row-under-content
// Flex layout, giving every screen a consistent keybinding hint line.
func withFooter(content tview.Primitive, hint string) tview.Primitive {
	footer := tview.NewTextView().SetTextAlign(tview.AlignLeft).SetText(hint)
	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, true).
		AddItem(footer, 1, 0, false)
}
