package field_test

import "github.com/san-kum/particles/internal/field"

type testHost struct {
	*field.Hub
	queue   *field.FrameQueue
	tally   *field.Tally
	noPaint bool
}

func newTestHost(w, h float64) *testHost {
	return &testHost{
		Hub:   field.NewHub(w, h),
		queue: field.NewFrameQueue(),
		tally: &field.Tally{},
	}
}

func (h *testHost) Surface() (field.Surface, bool) {
	if h.noPaint {
		return nil, false
	}
	return h.tally, true
}

func (h *testHost) Scheduler() field.Scheduler { return h.queue }

// lineRecorder keeps the endpoints of every stroked line.
type lineRecorder struct {
	field.Tally
	lines [][4]float64
	alpha []float64
}

func (l *lineRecorder) StrokeLine(x0, y0, x1, y1, w float64, c field.Color) {
	l.Tally.StrokeLine(x0, y0, x1, y1, w, c)
	l.lines = append(l.lines, [4]float64{x0, y0, x1, y1})
	l.alpha = append(l.alpha, c.Alpha)
}
