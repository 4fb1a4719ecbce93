package player

import "sync"

// Broadcaster is a single-slot "latest value" broadcast primitive:
// receivers that aren't actively reading simply miss intermediate values
// and see only the newest one. The non-blocking replace-on-full send
// coalesces intermediate states so only the latest is ever observable.
//
// Exported (beyond the Controller that owns the canonical one) so tests
// and other observer-fan-out needs can stand up their own rather than
// threading per-observer queues through the controller.
type Broadcaster struct {
	mu   sync.Mutex
	cur  PlayerState
	subs []chan PlayerState
}

// NewBroadcaster returns a Broadcaster seeded with initial.
func NewBroadcaster(initial PlayerState) *Broadcaster {
	return &Broadcaster{cur: initial}
}

// Set publishes a new state to every current subscriber, replacing
// whatever stale value they hadn't read yet.
func (w *Broadcaster) Set(s PlayerState) {
	w.mu.Lock()
	w.cur = s
	subs := w.subs
	w.mu.Unlock()

	for _, ch := range subs {
		for {
			select {
			case ch <- s:
			default:
				// Slot full: drain the stale value and retry once so the
				// newest state wins.
				select {
				case <-ch:
					continue
				default:
				}
			}
			break
		}
	}
}

// Close closes every subscriber's channel, signaling "the controller is
// gone" to Receiver.Updated; an observer seeing this posts a final
// stopped report for the last id at the last position, then terminates.
func (w *Broadcaster) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		close(ch)
	}
	w.subs = nil
}

// Subscribe returns a Receiver seeded with the current state.
func (w *Broadcaster) Subscribe() *Receiver {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan PlayerState, 1)
	ch <- w.cur
	w.subs = append(w.subs, ch)
	return &Receiver{ch: ch, last: w.cur}
}

// Receiver observes the latest PlayerState. It is not safe for concurrent
// use by multiple goroutines.
type Receiver struct {
	ch   chan PlayerState
	last PlayerState
}

// Updated blocks until a state it has not yet returned is available, or
// returns the last observed state and false once the controller is gone.
func (r *Receiver) Updated() (PlayerState, bool) {
	s, ok := <-r.ch
	if !ok {
		return r.last, false
	}
	r.last = s
	return s, true
}

// Borrow returns the most recently observed state without blocking.
func (r *Receiver) Borrow() PlayerState { return r.last }

// C exposes the underlying channel for select-based multiplexing (e.g. the
// mpris adapter's signal loop). Reading from C does not update Borrow.
func (r *Receiver) C() <-chan PlayerState { return r.ch }
