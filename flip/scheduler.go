package flip

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a callback on the next frame, passing the frame time.
// It is the Go counterpart of a display's request-animation-frame hook.
type Scheduler interface {
	RequestFrame(fn func(now time.Time))
}

// FrameQueue is a Scheduler driven by an external frame source: whoever owns
// the display loop calls Pump once per frame.
type FrameQueue struct {
	mu      sync.Mutex
	pending []func(time.Time)
}

// RequestFrame implements Scheduler.
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Pump runs the callbacks queued before this call with frame time now and
// returns how many ran. Callbacks queued while pumping wait for the next Pump.
func (q *FrameQueue) Pump(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

// Pending returns the number of callbacks waiting for the next frame.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run pumps q at fps frames per second until ctx is done.
func (q *FrameQueue) Run(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			q.Pump(now)
		}
	}
}
