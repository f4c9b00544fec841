package field_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particles/internal/field"
)

var _ = Describe("Renderer", func() {
	var (
		host *testHost
		r    *field.Renderer
		now  time.Time
	)

	flush := func(n int) {
		for i := 0; i < n; i++ {
			now = now.Add(16 * time.Millisecond)
			host.queue.Flush(now)
		}
	}

	BeforeEach(func() {
		host = newTestHost(800, 600)
		r = field.NewRenderer(field.DefaultConfig(), field.WithSeed(42))
		now = time.Unix(0, 0)
	})

	It("paints the first frame on mount and keeps one frame scheduled", func() {
		Expect(r.Mount(host)).To(BeTrue())
		Expect(host.tally.Clears).To(Equal(1))
		Expect(host.queue.Pending()).To(Equal(1))

		flush(10)
		Expect(host.tally.Clears).To(Equal(11))
		Expect(host.queue.Pending()).To(Equal(1))
		Expect(r.Frames()).To(BeNumerically("==", 11))
	})

	It("stops painting after unmount", func() {
		r.Mount(host)
		flush(5)
		r.Unmount()
		painted := host.tally.Paints()
		clears := host.tally.Clears

		flush(20)
		Expect(host.tally.Paints()).To(Equal(painted))
		Expect(host.tally.Clears).To(Equal(clears))
		Expect(host.queue.Pending()).To(BeZero())

		resize, pointer := host.Listeners()
		Expect(resize).To(BeZero())
		Expect(pointer).To(BeZero())
	})

	It("stays idle without a surface", func() {
		host.noPaint = true
		Expect(r.Mount(host)).To(BeFalse())
		flush(3)
		Expect(host.tally.Paints()).To(BeZero())
		Expect(r.Field()).To(BeNil())
		r.Unmount()
	})

	It("keeps the same particles across theme toggles", func() {
		r.Mount(host)
		f := r.Field()
		before := f.Snapshot(nil)

		for i := 0; i < 10; i++ {
			r.SetTheme(r.Theme().Toggle())
		}
		Expect(r.Field()).To(BeIdenticalTo(f))
		Expect(f.Len()).To(Equal(field.DefaultCount))
		Expect(f.Snapshot(nil)).To(Equal(before))
		Expect(f.Theme()).To(Equal(field.ThemeDark))

		r.SetTheme(field.ThemeLight)
		Expect(f.Theme()).To(Equal(field.ThemeLight))
	})

	It("keeps particles across remounts", func() {
		r.Mount(host)
		f := r.Field()
		r.Unmount()
		Expect(r.Mount(host)).To(BeTrue())
		Expect(r.Field()).To(BeIdenticalTo(f))
	})

	It("follows resize and pointer events while mounted", func() {
		r.Mount(host)
		host.EmitResize(320, 200)
		w, h := r.Field().Bounds()
		Expect([]float64{w, h}).To(Equal([]float64{320, 200}))

		host.EmitPointer(12, 34)
		x, y, ok := r.Field().Pointer()
		Expect(ok).To(BeTrue())
		Expect([]float64{x, y}).To(Equal([]float64{12, 34}))

		r.Unmount()
		host.EmitResize(10, 10)
		w, _ = r.Field().Bounds()
		Expect(w).To(Equal(320.0))
	})

	It("can be unmounted from inside the frame hook", func() {
		r = field.NewRenderer(field.DefaultConfig(), field.WithSeed(1),
			field.WithFrameHook(func(time.Time, time.Duration) {
				if r.Frames() == 3 {
					r.Unmount()
				}
			}))
		Expect(r.Mount(host)).To(BeTrue())
		flush(5)

		Expect(r.Mounted()).To(BeFalse())
		Expect(r.Frames()).To(BeNumerically("==", 3))
		Expect(host.queue.Pending()).To(BeZero())
		Expect(host.tally.Clears).To(Equal(3))

		resize, pointer := host.Listeners()
		Expect(resize).To(BeZero())
		Expect(pointer).To(BeZero())
	})

	It("reports step timings through the frame hook", func() {
		var calls int
		r = field.NewRenderer(field.DefaultConfig(), field.WithSeed(1),
			field.WithFrameHook(func(time.Time, time.Duration) { calls++ }))
		r.Mount(host)
		flush(4)
		Expect(calls).To(Equal(5))
	})
})

var _ = Describe("FrameQueue", func() {
	It("defers frames requested during a flush", func() {
		q := field.NewFrameQueue()
		var runs int
		var loop field.FrameFunc
		loop = func(time.Time) {
			runs++
			q.RequestFrame(loop)
		}
		q.RequestFrame(loop)

		Expect(q.Flush(time.Now())).To(Equal(1))
		Expect(q.Flush(time.Now())).To(Equal(1))
		Expect(runs).To(Equal(2))
		Expect(q.Pending()).To(Equal(1))
	})

	It("drops cancelled frames", func() {
		q := field.NewFrameQueue()
		var ran []int
		q.RequestFrame(func(time.Time) { ran = append(ran, 1) })
		id := q.RequestFrame(func(time.Time) { ran = append(ran, 2) })
		q.CancelFrame(id)
		q.CancelFrame(999)

		Expect(q.Flush(time.Now())).To(Equal(1))
		Expect(ran).To(Equal([]int{1}))
	})

	It("honors cancellation from an earlier callback in the same flush", func() {
		q := field.NewFrameQueue()
		var second field.FrameID
		var ran int
		q.RequestFrame(func(time.Time) { q.CancelFrame(second) })
		second = q.RequestFrame(func(time.Time) { ran++ })

		Expect(q.Flush(time.Now())).To(Equal(1))
		Expect(ran).To(BeZero())
	})
})

var _ = Describe("Headless", func() {
	It("paints one frame per Advance step", func() {
		tally := &field.Tally{}
		host := field.NewHeadless(tally, 640, 480)
		r := field.NewRenderer(field.DefaultConfig(), field.WithSeed(3))

		Expect(r.Mount(host)).To(BeTrue())
		Expect(tally.Clears).To(Equal(1))

		Expect(host.Advance(9)).To(Equal(9))
		Expect(tally.Clears).To(Equal(10))
		Expect(r.Frames()).To(BeEquivalentTo(10))

		r.Unmount()
		Expect(host.Advance(5)).To(BeZero())
	})

	It("has no surface without a target", func() {
		host := field.NewHeadless(nil, 640, 480)
		Expect(field.NewRenderer(field.DefaultConfig()).Mount(host)).To(BeFalse())
	})
})

var _ = Describe("Hub", func() {
	It("still calls later listeners when one releases itself mid-emit", func() {
		hub := field.NewHub(100, 100)
		var calls []string
		var releaseA func()
		releaseA = hub.OnPointerMove(func(x, y float64) {
			calls = append(calls, "a")
			releaseA()
		})
		hub.OnPointerMove(func(x, y float64) { calls = append(calls, "b") })
		hub.OnPointerMove(func(x, y float64) { calls = append(calls, "c") })

		hub.EmitPointer(1, 2)
		Expect(calls).To(Equal([]string{"a", "b", "c"}))

		hub.EmitPointer(3, 4)
		Expect(calls).To(Equal([]string{"a", "b", "c", "b", "c"}))

		_, pointer := hub.Listeners()
		Expect(pointer).To(Equal(2))
	})

	It("does the same for resize listeners", func() {
		hub := field.NewHub(100, 100)
		var seen []float64
		var releaseA func()
		releaseA = hub.OnResize(func(w, h float64) { releaseA() })
		hub.OnResize(func(w, h float64) { seen = append(seen, w) })
		hub.OnResize(func(w, h float64) { seen = append(seen, h) })

		hub.EmitResize(640, 480)
		Expect(seen).To(Equal([]float64{640, 480}))
		w, h := hub.Viewport()
		Expect([]float64{w, h}).To(Equal([]float64{640, 480}))

		resize, _ := hub.Listeners()
		Expect(resize).To(Equal(2))
	})

	It("ignores a second release", func() {
		hub := field.NewHub(10, 10)
		release := hub.OnPointerMove(func(x, y float64) {})
		hub.OnPointerMove(func(x, y float64) {})
		release()
		release()
		_, pointer := hub.Listeners()
		Expect(pointer).To(Equal(1))
	})

	It("fires listeners added during an emit from the next emit on", func() {
		hub := field.NewHub(10, 10)
		var late int
		added := false
		hub.OnPointerMove(func(x, y float64) {
			if !added {
				added = true
				hub.OnPointerMove(func(x, y float64) { late++ })
			}
		})

		hub.EmitPointer(0, 0)
		Expect(late).To(BeZero())
		hub.EmitPointer(0, 0)
		Expect(late).To(Equal(1))
	})
})
