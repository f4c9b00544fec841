package field_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particles/internal/field"
)

const (
	width  = 800.0
	height = 600.0
)

func newField(seed int64) *field.Field {
	return field.New(field.DefaultConfig(), width, height, rand.New(rand.NewSource(seed)))
}

// still pins every particle far away from the others so only the particles a
// test places interact.
func still(f *field.Field) {
	for i := 0; i < f.Len(); i++ {
		f.Place(i, field.Particle{X: float64(i%10) * 10, Y: 5000 + float64(i)*1000, Size: 1})
	}
}

var _ = Describe("Field", func() {
	Describe("generation", func() {
		It("creates the configured number of particles inside the surface", func() {
			f := newField(1)
			Expect(f.Len()).To(Equal(field.DefaultCount))
			for i := 0; i < f.Len(); i++ {
				p := f.Particle(i)
				Expect(p.X).To(BeNumerically(">=", 0))
				Expect(p.X).To(BeNumerically("<", width))
				Expect(p.Y).To(BeNumerically(">=", 0))
				Expect(p.Y).To(BeNumerically("<", height))
				Expect(p.Size).To(BeNumerically(">=", field.DefaultSizeMin))
				Expect(p.Size).To(BeNumerically("<", field.DefaultSizeMax))
				Expect(math.Abs(p.VX)).To(BeNumerically("<=", field.DefaultVelocityFactor/2))
				Expect(math.Abs(p.VY)).To(BeNumerically("<=", field.DefaultVelocityFactor/2))
			}
		})

		It("is reproducible for a fixed seed", func() {
			Expect(newField(7).Snapshot(nil)).To(Equal(newField(7).Snapshot(nil)))
		})
	})

	Describe("bounds", func() {
		It("keeps particles within one frame of the surface", func() {
			f := newField(3)
			s := &field.Tally{}
			maxStep := field.DefaultVelocityFactor / 2
			for frame := 0; frame < 5000; frame++ {
				f.Step(s)
				for i := 0; i < f.Len(); i++ {
					p := f.Particle(i)
					Expect(p.X).To(BeNumerically(">=", -maxStep))
					Expect(p.X).To(BeNumerically("<=", width+maxStep))
					Expect(p.Y).To(BeNumerically(">=", -maxStep))
					Expect(p.Y).To(BeNumerically("<=", height+maxStep))
				}
			}
		})

		It("reverses velocity instead of clamping", func() {
			f := newField(1)
			still(f)
			f.Place(0, field.Particle{X: width - 0.1, Y: 300, VX: 0.25, VY: 0, Size: 1})
			f.Step(&field.Tally{})
			p := f.Particle(0)
			Expect(p.X).To(BeNumerically("~", width+0.15, 1e-9))
			Expect(p.VX).To(Equal(-0.25))

			f.Step(&field.Tally{})
			Expect(f.Particle(0).X).To(BeNumerically("~", width-0.1, 1e-9))
		})

		It("does not move particles when the surface shrinks", func() {
			f := newField(2)
			before := f.Snapshot(nil)
			f.Resize(100, 100)
			Expect(f.Snapshot(nil)).To(Equal(before))
			w, h := f.Bounds()
			Expect(w).To(Equal(100.0))
			Expect(h).To(Equal(100.0))
		})
	})

	Describe("pointer attraction", func() {
		It("leaves particles alone when the pointer is far away", func() {
			f := newField(1)
			still(f)
			f.Place(0, field.Particle{X: 500, Y: 500, Size: 2})
			f.SetPointer(-1000, -1000)
			f.Step(&field.Tally{})
			p := f.Particle(0)
			Expect(p.X).To(Equal(500.0))
			Expect(p.Y).To(Equal(500.0))
		})

		It("pulls a nearby particle one percent toward the pointer every frame", func() {
			f := newField(1)
			still(f)
			f.Place(0, field.Particle{X: 500, Y: 500, Size: 2})
			f.SetPointer(550, 500)

			f.Step(&field.Tally{})
			Expect(f.Particle(0).X).To(BeNumerically("~", 500.5, 1e-9))

			f.Step(&field.Tally{})
			Expect(f.Particle(0).X).To(BeNumerically("~", 500.5+0.01*49.5, 1e-9))
			Expect(f.Particle(0).Y).To(Equal(500.0))
		})

		It("ignores the pointer at exactly the radius", func() {
			f := newField(1)
			still(f)
			f.Place(0, field.Particle{X: 500, Y: 500, Size: 2})
			f.SetPointer(600, 500)
			f.Step(&field.Tally{})
			Expect(f.Particle(0).X).To(Equal(500.0))
		})

		It("applies no pull before any pointer event", func() {
			f := newField(1)
			still(f)
			f.Place(0, field.Particle{X: 10, Y: 10, Size: 2})
			_, _, ok := f.Pointer()
			Expect(ok).To(BeFalse())
			f.Step(&field.Tally{})
			Expect(f.Particle(0).X).To(Equal(10.0))
		})
	})

	Describe("connections", func() {
		It("connects particles 100px apart", func() {
			f := newField(1)
			still(f)
			f.Place(0, field.Particle{X: 100, Y: 300, Size: 1})
			f.Place(1, field.Particle{X: 200, Y: 300, Size: 1})
			rec := &lineRecorder{}
			f.Step(rec)
			Expect(rec.lines).To(Equal([][4]float64{{100, 300, 200, 300}}))
			Expect(rec.alpha[0]).To(BeNumerically("~", 0.1*(1-100.0/150.0), 1e-12))
		})

		It("does not connect particles 200px apart", func() {
			f := newField(1)
			still(f)
			f.Place(0, field.Particle{X: 100, Y: 300, Size: 1})
			f.Place(1, field.Particle{X: 300, Y: 300, Size: 1})
			rec := &lineRecorder{}
			f.Step(rec)
			Expect(rec.lines).To(BeEmpty())
		})

		It("paints one circle per particle after a single clear", func() {
			f := newField(1)
			s := &field.Tally{}
			f.Step(s)
			Expect(s.Clears).To(Equal(1))
			Expect(s.Circles).To(Equal(field.DefaultCount))
			Expect(s.Lines).To(BeNumerically("<=", field.DefaultCount*(field.DefaultCount-1)/2))
		})
	})

	Describe("theme", func() {
		It("changes only the paint color", func() {
			f := newField(9)
			before := f.Snapshot(nil)
			f.SetTheme(field.ThemeLight)
			f.SetTheme(field.ThemeDark)
			f.SetTheme(field.ThemeLight)
			Expect(f.Snapshot(nil)).To(Equal(before))
			Expect(f.Len()).To(Equal(field.DefaultCount))
		})

		It("maps names to colors", func() {
			light, err := field.ParseTheme("light")
			Expect(err).NotTo(HaveOccurred())
			Expect(light.Color(0.5)).To(Equal(field.Color{R: 80, G: 99, B: 211, Alpha: 0.5}))
			Expect(field.ThemeDark.Color(1)).To(Equal(field.Color{R: 255, G: 255, B: 255, Alpha: 1}))
			Expect(light.Toggle()).To(Equal(field.ThemeDark))

			_, err = field.ParseTheme("sepia")
			Expect(err).To(MatchError(field.ErrUnknownTheme))
		})
	})

	It("steps without allocating", func() {
		f := newField(4)
		f.SetPointer(400, 300)
		s := &field.Tally{}
		Expect(testing.AllocsPerRun(100, func() { f.Step(s) })).To(BeZero())
	})
})

var _ = Describe("Config", func() {
	It("accepts the defaults", func() {
		Expect(field.DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects",
		func(mutate func(*field.Config)) {
			cfg := field.DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(field.ErrInvalidConfig))
		},
		Entry("zero count", func(c *field.Config) { c.Count = 0 }),
		Entry("inverted sizes", func(c *field.Config) { c.SizeMin, c.SizeMax = 4, 1 }),
		Entry("pull above one", func(c *field.Config) { c.Pull = 2 }),
		Entry("opacity above one", func(c *field.Config) { c.OpacityBase = 0.9 }),
		Entry("zero connection distance", func(c *field.Config) { c.ConnectionDist = 0 }),
	)
})
