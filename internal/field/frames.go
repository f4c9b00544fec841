package field

import "time"

type pendingFrame struct {
	id FrameID
	fn FrameFunc
}

// FrameQueue is a Scheduler whose callbacks run when the host calls Flush,
// typically once per display tick. Callbacks requested while a Flush is in
// progress are deferred to the next Flush.
type FrameQueue struct {
	next    FrameID
	pending []pendingFrame
	running []pendingFrame
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{
		pending: make([]pendingFrame, 0, 4),
		running: make([]pendingFrame, 0, 4),
	}
}

func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameID {
	q.next++
	q.pending = append(q.pending, pendingFrame{id: q.next, fn: fn})
	return q.next
}

// CancelFrame drops a request that has not fired yet. Unknown or already
// fired ids are ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, pf := range q.pending {
		if pf.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
			return
		}
	}
}

func (q *FrameQueue) Pending() int { return len(q.pending) }

// Flush runs every callback requested before the call and returns how many
// ran.
func (q *FrameQueue) Flush(now time.Time) int {
	q.running, q.pending = q.pending, q.running[:0]
	ran := 0
	for i := range q.running {
		fn := q.running[i].fn
		if fn == nil {
			continue
		}
		fn(now)
		ran++
	}
	for i := range q.running {
		q.running[i] = pendingFrame{}
	}
	q.running = q.running[:0]
	return ran
}
