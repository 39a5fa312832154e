package core

import "time"

// FrameHandle identifies one scheduled frame callback. Zero means none.
type FrameHandle uint64

// FrameQueue holds the callbacks waiting for the next display refresh.
// The main loop calls Tick once per refresh, right before swapping buffers.
// Callbacks requested while a tick runs are deferred to the following tick,
// so frame N+1 never runs inside frame N.
//
// FrameQueue is not safe for concurrent use; it lives on the render thread.
type FrameQueue struct {
	next  FrameHandle
	order []FrameHandle
	live  map[FrameHandle]func(now time.Time)
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{live: make(map[FrameHandle]func(time.Time))}
}

// RequestFrame schedules fn for the next tick.
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) FrameHandle {
	q.next++
	q.order = append(q.order, q.next)
	q.live[q.next] = fn
	return q.next
}

// CancelFrame drops a pending callback. Unknown or already-run handles are
// ignored.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	delete(q.live, h)
}

// Pending reports how many callbacks are waiting.
func (q *FrameQueue) Pending() int {
	return len(q.live)
}

// Tick runs every callback requested before the call and returns how many ran.
// A callback cancelled by an earlier callback of the same tick is skipped.
func (q *FrameQueue) Tick(now time.Time) int {
	batch := q.order
	q.order = nil
	ran := 0
	for _, h := range batch {
		fn, ok := q.live[h]
		if !ok {
			continue
		}
		delete(q.live, h)
		fn(now)
		ran++
	}
	return ran
}
