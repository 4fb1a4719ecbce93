// Package nav is the navigation core: a stack of screens, a
// top-of-stack driver loop, and the fetch→render→command→navigate
// cycle. Individual screen widget rendering lives outside this package;
// nav owns the stack machinery, the Load*/Fetch* fetch behaviors against
// the server client, and the Error screen (the one renderer this package
// is responsible for, since error display is part of the navigation
// contract itself).
//
// The pop/run/apply/loop shape is a generalization of a worker-pool
// run-one-unit-of-work-then-loop pattern: pop one unit of work, run it to
// completion (or cancellation), fold its result back in, loop.
package nav

import (
	"context"
	"log/slog"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/jferrors"
	"github.com/jellytui/jellyfin-tui/internal/player"
	"github.com/rivo/tview"
)

// Screen is the closed set of screen/fetch variants this package knows
// about. Each variant knows how to run itself given Deps, producing the
// Navigation that drives the stack forward.
type Screen interface {
	run(ctx context.Context, d *Deps) Navigation
}

// Navigation is the closed set of stack operations a Screen's run can
// produce.
type Navigation interface{ apply(s *Stack) }

// Pop discards the top of the stack (the screen that just ran).
type Pop struct{}

// Push saves current (the caller) then next, so a later Pop off next
// returns to current with its prior rendered state intact.
type Push struct {
	Current Screen
	Next    Screen
}

// Replace pushes only Next — used both for ordinary forward navigation
// and for the Load*/Fetch* → data-screen transition.
type Replace struct{ Next Screen }

// Exit clears the stack, ending the driver loop.
type Exit struct{}

func (Pop) apply(s *Stack)     { /* already popped by the driver */ }
func (n Push) apply(s *Stack)  { s.push(n.Current); s.push(n.Next) }
func (n Replace) apply(s *Stack) { s.push(n.Next) }
func (Exit) apply(s *Stack)    { s.items = nil }

// Stack is the ordered sequence of screens, top at the end.
type Stack struct {
	items []Screen
}

// NewStack returns a Stack seeded with LoadHomeScreen.
func NewStack() *Stack {
	return &Stack{items: []Screen{LoadHomeScreen{}}}
}

func (s *Stack) push(scr Screen) { s.items = append(s.items, scr) }

// pop removes and returns the top screen, or (nil, false) if empty.
func (s *Stack) pop() (Screen, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, true
}

// Len reports the current stack depth (tests, diagnostics).
func (s *Stack) Len() int { return len(s.items) }

// Deps bundles every collaborator a Screen's run method may need: the
// authenticated server client, the player handle, the UI renderer, and
// a logger.
//
// App is the single shared tview.Application the Renderer draws into;
// the Error screen needs it directly since (unlike every other screen)
// its rendering lives in this package rather than behind Renderer. It
// may be nil in tests that never exercise ErrorScreen.run.
type Deps struct {
	Client   *jellyfin.AuthClient
	Player   *player.PlayerHandle
	Renderer Renderer
	App      *tview.Application
	Log      *slog.Logger
}

// warn logs a degraded-but-non-fatal fetch failure, swallowed the same
// way a background GC error is logged and swallowed rather than
// surfaced — applied here to the home screen's secondary resume/next-up
// rows, which shouldn't block the whole screen on their own failure.
func (d *Deps) warn(msg string, err error) {
	if d.Log == nil {
		return
	}
	d.Log.Warn("nav: "+msg, "err", err)
}

// Renderer is the boundary to individual screen widget rendering; this
// package references only its interface. Each data-bearing screen calls
// exactly one of these during its fetch→render→command→navigate cycle;
// the real terminal UI implements this interface, while nav's own tests
// substitute a fake.
type Renderer interface {
	RunHome(ctx context.Context, screen HomeScreen) Navigation
	RunUserView(ctx context.Context, screen UserView) Navigation
	RunItemDetails(ctx context.Context, screen ItemDetails) Navigation
	RunItemListDetails(ctx context.Context, screen ItemListDetails) Navigation
	RunPlay(ctx context.Context, screen Play) Navigation
}

// Driver repeatedly pops the top of the stack, runs it, and applies the
// Navigation it returns, until the stack empties or ctx is cancelled.
func Driver(ctx context.Context, stack *Stack, d *Deps) {
	for {
		if ctx.Err() != nil {
			return
		}
		top, ok := stack.pop()
		if !ok {
			return
		}
		nav := runScreen(ctx, top, d)
		nav.apply(stack)
	}
}

// runScreen recovers a screen's run panics as an Error navigation so a
// single misbehaving screen can't crash the whole driver loop; unlike a
// supervision-tree panic that aborts the whole pool, this recovers
// locally, since one screen failing shouldn't take down the app.
func runScreen(ctx context.Context, scr Screen, d *Deps) (result Navigation) {
	defer func() {
		if r := recover(); r != nil {
			result = Replace{Next: ErrorScreen{Diagnostic: jferrors.Newf(jferrors.KindUnknown, nil, "screen panicked: %v", r)}}
		}
	}()
	return scr.run(ctx, d)
}
