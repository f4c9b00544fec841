package field

import "time"

// Headless is a Host with no display. Frames advance only when Advance is
// called, each one a fixed interval after the previous.
type Headless struct {
	*Hub
	target   Surface
	queue    *FrameQueue
	now      time.Time
	interval time.Duration
}

// NewHeadless paints into target at a virtual 60 Hz. A nil target makes the
// host report no surface.
func NewHeadless(target Surface, w, h float64) *Headless {
	return &Headless{
		Hub:      NewHub(w, h),
		target:   target,
		queue:    NewFrameQueue(),
		now:      time.Unix(0, 0),
		interval: time.Second / 60,
	}
}

func (h *Headless) Surface() (Surface, bool) { return h.target, h.target != nil }
func (h *Headless) Scheduler() Scheduler     { return h.queue }

// Advance flushes n frames and returns how many callbacks ran in total.
func (h *Headless) Advance(n int) int {
	ran := 0
	for i := 0; i < n; i++ {
		h.now = h.now.Add(h.interval)
		ran += h.queue.Flush(h.now)
	}
	return ran
}
