package field

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Renderer is one particle field component instance. Particles are generated
// on the first Mount and survive Unmount/Mount cycles and theme changes.
type Renderer struct {
	cfg   Config
	rng   *rand.Rand
	log   *zap.Logger
	theme Theme

	field   *Field
	surface Surface
	sched   Scheduler

	releaseResize  func()
	releasePointer func()
	frame          FrameID
	mounted        bool
	frames         uint64

	animate FrameFunc
	onFrame func(now time.Time, step time.Duration)
}

type Option func(*Renderer)

func WithSeed(seed int64) Option {
	return func(r *Renderer) { r.rng = rand.New(rand.NewSource(seed)) }
}

func WithRand(rng *rand.Rand) Option {
	return func(r *Renderer) { r.rng = rng }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

func WithTheme(t Theme) Option {
	return func(r *Renderer) { r.theme = t }
}

// WithFrameHook registers fn to run after every painted frame with the time
// spent in Field.Step.
func WithFrameHook(fn func(now time.Time, step time.Duration)) Option {
	return func(r *Renderer) { r.onFrame = fn }
}

func NewRenderer(cfg Config, opts ...Option) *Renderer {
	r := &Renderer{
		cfg: cfg,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r.animate = r.tick
	return r
}

// Mount attaches the renderer to h and starts the frame loop. It returns
// false, painting nothing, when h has no surface.
func (r *Renderer) Mount(h Host) bool {
	if r.mounted {
		return true
	}
	s, ok := h.Surface()
	if !ok || s == nil {
		r.log.Debug("no drawing surface, particle field idle")
		return false
	}

	w, hgt := h.Viewport()
	if r.field == nil {
		r.field = New(r.cfg, w, hgt, r.rng)
		r.log.Info("particles generated",
			zap.Int("count", r.field.Len()),
			zap.Float64("width", w),
			zap.Float64("height", hgt))
	} else {
		r.field.Resize(w, hgt)
	}
	r.field.SetTheme(r.theme)

	r.surface = s
	r.sched = h.Scheduler()
	r.releaseResize = h.OnResize(r.resize)
	r.releasePointer = h.OnPointerMove(r.field.SetPointer)
	r.mounted = true

	r.tick(time.Now())
	return true
}

// Unmount releases both listeners and cancels the pending frame. No paint
// happens after it returns.
func (r *Renderer) Unmount() {
	if !r.mounted {
		return
	}
	r.releaseResize()
	r.releasePointer()
	r.sched.CancelFrame(r.frame)
	r.releaseResize, r.releasePointer = nil, nil
	r.frame = 0
	r.surface, r.sched = nil, nil
	r.mounted = false
	r.log.Debug("particle field unmounted", zap.Uint64("frames", r.frames))
}

func (r *Renderer) Mounted() bool { return r.mounted }

// SetTheme changes the paint color from the next frame on.
func (r *Renderer) SetTheme(t Theme) {
	if t == r.theme {
		return
	}
	r.theme = t
	if r.field != nil {
		r.field.SetTheme(t)
	}
	r.log.Debug("theme changed", zap.Stringer("theme", t))
}

func (r *Renderer) Theme() Theme { return r.theme }

// Field returns the particle field, or nil before the first Mount.
func (r *Renderer) Field() *Field { return r.field }

func (r *Renderer) Frames() uint64 { return r.frames }

func (r *Renderer) resize(w, h float64) {
	r.field.Resize(w, h)
	r.log.Debug("viewport resized", zap.Float64("width", w), zap.Float64("height", h))
}

func (r *Renderer) tick(now time.Time) {
	if !r.mounted {
		return
	}
	start := time.Now()
	r.field.Step(r.surface)
	r.frames++
	if r.onFrame != nil {
		r.onFrame(now, time.Since(start))
		// The hook may have unmounted the renderer.
		if !r.mounted {
			return
		}
	}
	r.frame = r.sched.RequestFrame(r.animate)
}
