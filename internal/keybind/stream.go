package keybind

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
)

// EventKind discriminates the variants KeybindEventStream.Next yields.
type EventKind int

const (
	// EventRender is a periodic redraw trigger.
	EventRender EventKind = iota
	// EventText carries raw text for a text-input context.
	EventText
	// EventCommand carries a recognized command name for the stream's
	// bound mode.
	EventCommand
)

// Event is the tagged union KeybindEventStream.Next produces. Only the
// field matching Kind is meaningful.
type Event struct {
	Kind    EventKind
	Text    string
	Command string
}

// KeybindEventStream wraps a tcell event source and a mode's binding map,
// turning raw key events into typed commands. Unknown chords are consumed
// silently (never surfaced as an Event) unless TextMode is set, in which
// case any printable rune is surfaced as EventText instead of being
// looked up in the binding map.
type KeybindEventStream struct {
	screen   tcell.Screen
	bindings BindingMap
	render   *time.Ticker

	events chan tcell.Event
	done   chan struct{}

	// TextMode, when true, routes printable-rune events to EventText
	// instead of the binding map. Screens that own a text field toggle
	// this directly.
	TextMode bool
}

// NewStream starts polling screen for events on a background goroutine and
// returns a stream that decodes them against bindings. renderInterval <= 0
// disables the periodic EventRender tick.
func NewStream(screen tcell.Screen, bindings BindingMap, renderInterval time.Duration) *KeybindEventStream {
	s := &KeybindEventStream{
		screen:   screen,
		bindings: bindings,
		events:   make(chan tcell.Event),
		done:     make(chan struct{}),
	}
	if renderInterval > 0 {
		s.render = time.NewTicker(renderInterval)
	}

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}()

	return s
}

// SetBindings swaps the active binding map, used when the navigation core
// switches the top screen to a different mode.
func (s *KeybindEventStream) SetBindings(bindings BindingMap) {
	s.bindings = bindings
}

// Close stops the polling goroutine and the render ticker.
func (s *KeybindEventStream) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	if s.render != nil {
		s.render.Stop()
	}
}

// Next blocks until the next Event, ctx cancellation, or stream close.
// Returns ok=false only on cancellation/close.
func (s *KeybindEventStream) Next(ctx context.Context) (Event, bool) {
	var renderCh <-chan time.Time
	if s.render != nil {
		renderCh = s.render.C
	}
	for {
		select {
		case <-ctx.Done():
			return Event{}, false
		case <-s.done:
			return Event{}, false
		case <-renderCh:
			return Event{Kind: EventRender}, true
		case ev := <-s.events:
			out, ok := s.decode(ev)
			if ok {
				return out, true
			}
			// Unknown key / non-key event: consumed silently, loop again.
		}
	}
}

func (s *KeybindEventStream) decode(ev tcell.Event) (Event, bool) {
	keyEv, ok := ev.(*tcell.EventKey)
	if !ok {
		return Event{}, false
	}
	if s.TextMode && keyEv.Key() == tcell.KeyRune {
		return Event{Kind: EventText, Text: string(keyEv.Rune())}, true
	}
	chord := FromEvent(keyEv)
	cmd, ok := s.bindings[chord]
	if !ok {
		return Event{}, false
	}
	return Event{Kind: EventCommand, Command: cmd}, true
}
