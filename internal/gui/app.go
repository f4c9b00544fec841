// Package gui hosts the particle field in a desktop window via Ebiten.
package gui

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/viz"
)

type Options struct {
	viz.Options
	Width  int
	Height int
	Title  string
}

// imageSurface paints onto the screen image of the current Draw call.
type imageSurface struct {
	img *ebiten.Image
	bg  color.Color
}

func (s *imageSurface) Clear() {
	if s.img != nil {
		s.img.Fill(s.bg)
	}
}

func (s *imageSurface) FillCircle(x, y, r float64, c field.Color) {
	if s.img != nil {
		vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), nrgba(c), true)
	}
}

func (s *imageSurface) StrokeLine(x0, y0, x1, y1, width float64, c field.Color) {
	if s.img != nil {
		vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), nrgba(c), true)
	}
}

type windowHost struct {
	*field.Hub
	surface *imageSurface
	queue   *field.FrameQueue
}

func (h *windowHost) Surface() (field.Surface, bool) { return h.surface, true }
func (h *windowHost) Scheduler() field.Scheduler     { return h.queue }

var statusFace = text.NewGoXFace(basicfont.Face7x13)

type game struct {
	log      *zap.Logger
	host     *windowHost
	renderer *field.Renderer
	frames   *metrics.FrameStats
	themes   <-chan field.Theme
	theme    field.Theme

	width, height int
	cursorX       int
	cursorY       int
	lastDraw      time.Time
}

func newGame(opts Options, themes <-chan field.Theme) *game {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Field.Count == 0 {
		opts.Field = field.DefaultConfig()
	}
	g := &game{
		log: log,
		host: &windowHost{
			Hub:     field.NewHub(float64(opts.Width), float64(opts.Height)),
			surface: &imageSurface{},
			queue:   field.NewFrameQueue(),
		},
		frames: metrics.NewFrameStats("frame", metrics.FrameThresholds, metrics.DefaultHistory),
		themes: themes,
		theme:  opts.Theme,
		width:  opts.Width,
		height: opts.Height,
	}
	g.renderer = field.NewRenderer(opts.Field,
		field.WithSeed(opts.Seed),
		field.WithTheme(opts.Theme),
		field.WithLogger(log),
	)
	return g
}

func (g *game) Update() error {
	select {
	case t, ok := <-g.themes:
		if ok {
			g.setTheme(t)
		} else {
			g.themes = nil
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.setTheme(g.theme.Toggle())
	}

	x, y := ebiten.CursorPosition()
	if (x != g.cursorX || y != g.cursorY) && x >= 0 && y >= 0 && x < g.width && y < g.height {
		g.cursorX, g.cursorY = x, y
		g.host.EmitPointer(float64(x), float64(y))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	now := time.Now()
	if !g.lastDraw.IsZero() {
		g.frames.Observe(now.Sub(g.lastDraw))
	}
	g.lastDraw = now

	p := viz.PaletteFor(g.theme)
	bg := p.BackgroundColor()
	g.host.surface.img = screen
	g.host.surface.bg = bg

	if !g.renderer.Mounted() {
		g.renderer.Mount(g.host)
	} else if g.host.queue.Flush(now) == 0 {
		screen.Fill(bg)
	}
	g.host.surface.img = nil

	r := g.frames.Rating()
	status := fmt.Sprintf("%s %s  %.0f fps  frame %s %s  [T] theme  [Esc] quit",
		p.Icon, p.Name, ebiten.ActualFPS(), r.Symbol(), r)
	op := &text.DrawOptions{}
	op.GeoM.Translate(12, 12)
	op.ColorScale.ScaleWithColor(colorOf(p.Text))
	text.Draw(screen, status, statusFace, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.host.EmitResize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (g *game) setTheme(t field.Theme) {
	if t == g.theme {
		return
	}
	g.theme = t
	g.renderer.SetTheme(t)
	g.log.Info("theme switched", zap.Stringer("theme", t))
}

// Run opens the window and blocks until it is closed.
func Run(opts Options, themes <-chan field.Theme) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("window size %dx%d: must be positive", opts.Width, opts.Height)
	}
	g := newGame(opts, themes)
	defer g.renderer.Unmount()

	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.FPS > 0 {
		ebiten.SetTPS(opts.FPS)
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func colorOf(c lipgloss.Color) color.Color {
	parsed, err := colorful.Hex(string(c))
	if err != nil {
		return color.White
	}
	return parsed
}

func nrgba(c field.Color) color.NRGBA {
	a := c.Alpha
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*255 + 0.5)}
}
