package field

import (
	"math"
	"math/rand"
)

// Field is the particle buffer and its per-frame update. The particle slice
// is allocated once in New and mutated in place; its length never changes.
type Field struct {
	cfg       Config
	particles []Particle
	width     float64
	height    float64
	rng       *rand.Rand

	pointerX, pointerY float64
	hasPointer         bool
	theme              Theme

	pointerRadiusSq float64
	connectionSq    float64
}

// New generates cfg.Count particles uniformly over a w×h surface.
func New(cfg Config, w, h float64, rng *rand.Rand) *Field {
	f := &Field{
		cfg:             cfg,
		particles:       make([]Particle, cfg.Count),
		width:           w,
		height:          h,
		rng:             rng,
		pointerRadiusSq: cfg.PointerRadius * cfg.PointerRadius,
		connectionSq:    cfg.ConnectionDist * cfg.ConnectionDist,
	}
	for i := range f.particles {
		f.particles[i] = Particle{
			X:    rng.Float64() * w,
			Y:    rng.Float64() * h,
			VX:   (rng.Float64() - 0.5) * cfg.VelocityFactor,
			VY:   (rng.Float64() - 0.5) * cfg.VelocityFactor,
			Size: rng.Float64()*(cfg.SizeMax-cfg.SizeMin) + cfg.SizeMin,
		}
	}
	return f
}

func (f *Field) Len() int { return len(f.particles) }

func (f *Field) Particle(i int) Particle { return f.particles[i] }

// Place overwrites particle i.
func (f *Field) Place(i int, p Particle) { f.particles[i] = p }

// Snapshot appends a copy of every particle to dst.
func (f *Field) Snapshot(dst []Particle) []Particle {
	return append(dst, f.particles...)
}

func (f *Field) Bounds() (w, h float64) { return f.width, f.height }

// Resize changes the bounce bounds only; particles outside the new bounds
// drift back in through their own bounces.
func (f *Field) Resize(w, h float64) {
	f.width, f.height = w, h
}

func (f *Field) SetPointer(x, y float64) {
	f.pointerX, f.pointerY = x, y
	f.hasPointer = true
}

func (f *Field) Pointer() (x, y float64, ok bool) {
	return f.pointerX, f.pointerY, f.hasPointer
}

func (f *Field) SetTheme(t Theme) { f.theme = t }

func (f *Field) Theme() Theme { return f.theme }

// Step advances every particle by one frame and paints the result.
func (f *Field) Step(s Surface) {
	s.Clear()

	rgb := f.theme.Color(0)
	n := len(f.particles)

	for i := 0; i < n; i++ {
		p := &f.particles[i]

		p.X += p.VX
		p.Y += p.VY

		if p.X < 0 || p.X > f.width {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > f.height {
			p.VY = -p.VY
		}

		if f.hasPointer {
			dx := f.pointerX - p.X
			dy := f.pointerY - p.Y
			if dx*dx+dy*dy < f.pointerRadiusSq {
				p.X += dx * f.cfg.Pull
				p.Y += dy * f.cfg.Pull
			}
		}

		rgb.Alpha = f.cfg.OpacityBase + f.rng.Float64()*f.cfg.OpacityVariance
		s.FillCircle(p.X, p.Y, p.Size, rgb)
	}

	for i := 0; i < n; i++ {
		p1 := &f.particles[i]
		for j := i + 1; j < n; j++ {
			p2 := &f.particles[j]
			dx := p1.X - p2.X
			dy := p1.Y - p2.Y
			distSq := dx*dx + dy*dy
			if distSq >= f.connectionSq {
				continue
			}
			rgb.Alpha = f.cfg.LineAlpha * (1 - math.Sqrt(distSq)/f.cfg.ConnectionDist)
			s.StrokeLine(p1.X, p1.Y, p2.X, p2.Y, f.cfg.LineWidth, rgb)
		}
	}
}
