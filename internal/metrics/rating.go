package metrics

type Rating int

const (
	RatingPending Rating = iota
	RatingGood
	RatingNeedsImprovement
	RatingPoor
)

func (r Rating) String() string {
	switch r {
	case RatingGood:
		return "good"
	case RatingNeedsImprovement:
		return "needs-improvement"
	case RatingPoor:
		return "poor"
	}
	return "pending"
}

// Symbol is the one-glyph marker used in status lines.
func (r Rating) Symbol() string {
	switch r {
	case RatingGood:
		return "✓"
	case RatingNeedsImprovement:
		return "△"
	case RatingPoor:
		return "✗"
	}
	return "○"
}

// Thresholds rate a value: at or below Good is good, at or below Poor needs
// improvement, anything above is poor.
type Thresholds struct {
	Good float64
	Poor float64
}

func (t Thresholds) Rate(v float64) Rating {
	switch {
	case v <= t.Good:
		return RatingGood
	case v <= t.Poor:
		return RatingNeedsImprovement
	}
	return RatingPoor
}

var (
	// FrameThresholds rate the interval between frames in milliseconds:
	// 60 fps is good, anything below 30 fps is poor.
	FrameThresholds = Thresholds{Good: 1000.0 / 60, Poor: 1000.0 / 30}

	// StepThresholds rate the time spent updating and painting the field in
	// milliseconds.
	StepThresholds = Thresholds{Good: 2, Poor: 8}
)
