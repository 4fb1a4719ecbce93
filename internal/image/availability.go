package image

import "context"

// AvailabilitySignal is a cross-task wake-on-ready primitive: an atomic
// "ready" flag plus a waker, letting a render loop await new images
// without polling. Built on a size-1 buffered channel, which gives the
// "at most one waiter parked, spurious readies harmless" contract
// directly: a full channel means a wake is already pending, so a second
// Wake is a no-op.
type AvailabilitySignal struct {
	ready chan struct{}
}

// NewAvailabilitySignal returns a signal with no pending wake.
func NewAvailabilitySignal() *AvailabilitySignal {
	return &AvailabilitySignal{ready: make(chan struct{}, 1)}
}

// Wake sets the ready flag and releases one waiter. Safe to call from any
// goroutine; redundant wakes before the next Wait are harmless.
func (a *AvailabilitySignal) Wake() {
	select {
	case a.ready <- struct{}{}:
	default:
	}
}

// Wait blocks until Wake has been called since the last Wait returned, or
// ctx is cancelled. The ready flag is edge-triggered: a successful Wait
// resets it, so the next Wait blocks again until a fresh Wake.
func (a *AvailabilitySignal) Wait(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
