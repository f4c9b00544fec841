// Package tui hosts the particle field on a raw tcell screen, without the
// Bubble Tea runtime.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/viz"
)

type screenHost struct {
	*field.Hub
	canvas *viz.Canvas
	queue  *field.FrameQueue
}

func (h *screenHost) Surface() (field.Surface, bool) { return h.canvas, h.canvas != nil }
func (h *screenHost) Scheduler() field.Scheduler     { return h.queue }

type App struct {
	screen   tcell.Screen
	opts     viz.Options
	log      *zap.Logger
	host     *screenHost
	renderer *field.Renderer
	frames   *metrics.FrameStats
	theme    field.Theme
	lastTick time.Time
}

// New initializes screen and mounts a renderer sized to it. The caller owns
// nothing afterwards: Run finalizes the screen.
func New(screen tcell.Screen, opts viz.Options) (*App, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	if opts.AlphaGain <= 0 {
		opts.AlphaGain = 1
	}
	if opts.Field.Count == 0 {
		opts.Field = field.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cols, rows := screen.Size()
	canvas := viz.NewCanvas(cols, rows, opts.CellWidth, opts.CellHeight, opts.AlphaGain)
	pw, ph := canvas.PixelSize()

	a := &App{
		screen: screen,
		opts:   opts,
		log:    log,
		host: &screenHost{
			Hub:    field.NewHub(pw, ph),
			canvas: canvas,
			queue:  field.NewFrameQueue(),
		},
		frames: metrics.NewFrameStats("frame", metrics.FrameThresholds, metrics.DefaultHistory),
		theme:  opts.Theme,
	}
	a.renderer = field.NewRenderer(opts.Field,
		field.WithSeed(opts.Seed),
		field.WithTheme(opts.Theme),
		field.WithLogger(log),
	)
	a.renderer.Mount(a.host)
	a.draw()
	return a, nil
}

// Run drives the frame loop until q, esc or ctrl+c is pressed or ctx is
// done. Themes received on the channel are applied live. The screen is
// finalized and the event goroutine has exited when Run returns.
func (a *App) Run(ctx context.Context, themes <-chan field.Theme) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	polled := make(chan struct{})
	go func() {
		defer close(polled)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	defer func() {
		a.renderer.Unmount()
		close(quit)
		a.screen.Fini()
		<-polled
	}()

	ticker := time.NewTicker(time.Second / time.Duration(a.opts.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t, ok := <-themes:
			if !ok {
				themes = nil
				continue
			}
			a.setTheme(t)
		case ev := <-events:
			if !a.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			a.frame(now)
		}
	}
}

func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 't':
				a.setTheme(a.theme.Toggle())
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.host.EmitPointer(a.host.canvas.CellCenter(x, y))
	case *tcell.EventResize:
		cols, rows := ev.Size()
		a.host.canvas.Resize(cols, rows)
		a.host.EmitResize(a.host.canvas.PixelSize())
		a.screen.Sync()
	}
	return true
}

func (a *App) frame(now time.Time) {
	if !a.lastTick.IsZero() {
		a.frames.Observe(now.Sub(a.lastTick))
	}
	a.lastTick = now
	a.host.queue.Flush(now)
	a.draw()
}

func (a *App) setTheme(t field.Theme) {
	if t == a.theme {
		return
	}
	a.theme = t
	a.renderer.SetTheme(t)
	a.log.Info("theme switched", zap.Stringer("theme", t))
}

// draw copies the canvas onto the screen, one tcell cell per canvas cell.
func (a *App) draw() {
	p := viz.PaletteFor(a.theme)
	bg := p.BackgroundColor()
	base := tcell.StyleDefault.Background(rgb(bg))

	c := a.host.canvas
	for row := range c.Grid {
		for col, ch := range c.Grid[row] {
			st := base
			if fg, ok := c.CellColor(row, col, bg); ok {
				st = st.Foreground(rgb(fg))
			}
			a.screen.SetContent(col, row, ch, nil, st)
		}
	}

	status := fmt.Sprintf(" %s %s  %.0f fps ", p.Icon, p.Name, a.frames.FPS())
	text, _ := colorful.Hex(string(p.Text))
	label := base.Foreground(rgb(text))
	for i, r := range []rune(status) {
		a.screen.SetContent(i, 0, r, nil, label)
	}
	a.screen.Show()
}

func (a *App) Theme() field.Theme { return a.theme }

func (a *App) Renderer() *field.Renderer { return a.renderer }

func rgb(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
