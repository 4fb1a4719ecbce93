package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/jellytui/jellyfin-tui/internal/jferrors"
	"github.com/rivo/tview"
)

// ErrorScreen is the one screen this package renders itself: any
// fallible screen coroutine that returns a diagnostic causes a
// Replace(Error(diag)). It shows the full diagnostic chain, colored by
// depth, with both arrow-key and j/k/h/l scrolling.
type ErrorScreen struct {
	Diagnostic error
}

// run blocks until the input capture below decides Quit (Pop: "popping
// it returns to the pre-error screen") or Kill (Exit), or ctx ends.
func (s ErrorScreen) run(ctx context.Context, d *Deps) Navigation {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	view.SetBorder(true).SetTitle(" Error ")
	view.SetText(renderChain(s.Diagnostic))

	footer := tview.NewTextView().
		SetTextAlign(tview.AlignLeft).
		SetText(" ↑↓←→/hjkl scroll  q quit to previous screen  Q kill")
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(view, 0, 1, true).
		AddItem(footer, 1, 0, false)

	decision := make(chan Navigation, 1)
	send := func(n Navigation) {
		select {
		case decision <- n:
		default:
		}
	}

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive // only specific keys handled, rest fall through
		case tcell.KeyEscape:
			send(Pop{})
			return nil
		case tcell.KeyDown:
			row, col := view.GetScrollOffset()
			view.ScrollTo(row+1, col)
			return nil
		case tcell.KeyUp:
			row, col := view.GetScrollOffset()
			if row > 0 {
				view.ScrollTo(row-1, col)
			}
			return nil
		case tcell.KeyLeft:
			row, col := view.GetScrollOffset()
			if col > 0 {
				view.ScrollTo(row, col-1)
			}
			return nil
		case tcell.KeyRight:
			row, col := view.GetScrollOffset()
			view.ScrollTo(row, col+1)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				send(Pop{})
				return nil
			case 'Q':
				send(Exit{})
				return nil
			case 'j':
				row, col := view.GetScrollOffset()
				view.ScrollTo(row+1, col)
				return nil
			case 'k':
				row, col := view.GetScrollOffset()
				if row > 0 {
					view.ScrollTo(row-1, col)
				}
				return nil
			case 'h':
				row, col := view.GetScrollOffset()
				if col > 0 {
					view.ScrollTo(row, col-1)
				}
				return nil
			case 'l':
				row, col := view.GetScrollOffset()
				view.ScrollTo(row, col+1)
				return nil
			}
		}
		return event
	})

	if d.App != nil {
		d.App.QueueUpdateDraw(func() {
			d.App.SetRoot(layout, true)
		})
	}

	select {
	case <-ctx.Done():
		return Exit{}
	case n := <-decision:
		return n
	}
}

// renderChain renders the diagnostic's Unwrap chain as tview color-tagged
// text, outermost frame brightest.
func renderChain(err error) string {
	lines := jferrors.Chain(err)
	if len(lines) == 0 {
		return "[green]no error[white]"
	}
	var b strings.Builder
	for i, line := range lines {
		color := "red"
		if i > 0 {
			color = "yellow"
		}
		fmt.Fprintf(&b, "[%s::b]%s[white::-]\n", color, tview.Escape(line))
	}
	return b.String()
}
