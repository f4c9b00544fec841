package metrics

import (
	"sort"
	"time"
)

const DefaultHistory = 600

// FrameStats keeps a bounded history of durations in milliseconds.
type FrameStats struct {
	name       string
	thresholds Thresholds
	capacity   int
	history    []float64
	samples    int
	total      float64
	scratch    []float64
}

func NewFrameStats(name string, t Thresholds, capacity int) *FrameStats {
	if capacity <= 0 {
		capacity = DefaultHistory
	}
	return &FrameStats{
		name:       name,
		thresholds: t,
		capacity:   capacity,
		history:    make([]float64, 0, capacity),
	}
}

func (s *FrameStats) Name() string { return s.name }

func (s *FrameStats) Observe(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	if len(s.history) == s.capacity {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, ms)
	s.samples++
	s.total += ms
}

// Value is the mean over the retained history, in milliseconds.
func (s *FrameStats) Value() float64 {
	if len(s.history) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.history {
		sum += v
	}
	return sum / float64(len(s.history))
}

// Last is the most recent sample in milliseconds.
func (s *FrameStats) Last() float64 {
	if len(s.history) == 0 {
		return 0
	}
	return s.history[len(s.history)-1]
}

// Percentile returns the p-th percentile (0..100) of the retained history.
func (s *FrameStats) Percentile(p float64) float64 {
	if len(s.history) == 0 {
		return 0
	}
	s.scratch = append(s.scratch[:0], s.history...)
	sort.Float64s(s.scratch)
	idx := int(p / 100 * float64(len(s.scratch)-1))
	if idx < 0 {
		idx = 0
	} else if idx >= len(s.scratch) {
		idx = len(s.scratch) - 1
	}
	return s.scratch[idx]
}

// FPS derives frames per second from the mean interval.
func (s *FrameStats) FPS() float64 {
	mean := s.Value()
	if mean <= 0 {
		return 0
	}
	return 1000 / mean
}

func (s *FrameStats) Rating() Rating {
	if len(s.history) == 0 {
		return RatingPending
	}
	return s.thresholds.Rate(s.Value())
}

// History returns the retained samples, oldest first. The slice is owned by
// s and changes on the next Observe.
func (s *FrameStats) History() []float64 { return s.history }

// Samples counts every observation since the last Reset, including those
// dropped from the history.
func (s *FrameStats) Samples() int { return s.samples }

// Total is the sum of every observation since the last Reset, in ms.
func (s *FrameStats) Total() float64 { return s.total }

func (s *FrameStats) Reset() {
	s.history = s.history[:0]
	s.samples = 0
	s.total = 0
}
