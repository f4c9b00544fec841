package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/metrics"
)

const (
	defaultCols = 80
	defaultRows = 24
	chartWidth  = 28
	chartPoints = 120
)

type TickMsg time.Time

type keyMap struct {
	Theme key.Binding
	Click key.Binding
	Reset key.Binding
	Panel key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Theme: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Click: key.NewBinding(key.WithKeys(" ", "enter", "+"), key.WithHelp("space", "click")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Panel: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "panel")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Theme, k.Click, k.Panel, k.Quit}
}

// FullHelp lists one binding per row to fit the panel.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Theme, k.Click, k.Reset, k.Panel, k.Quit}}
}

// ThemeMsg switches the theme from outside the program, e.g. a config reload.
type ThemeMsg field.Theme

type Options struct {
	Theme      field.Theme
	FPS        int
	Seed       int64
	CellWidth  float64
	CellHeight float64
	AlphaGain  float64
	Field      field.Config
	Logger     *zap.Logger
}

// termHost adapts the Bubble Tea program to field.Host.
type termHost struct {
	*field.Hub
	canvas *Canvas
	queue  *field.FrameQueue
}

func (h *termHost) Surface() (field.Surface, bool) { return h.canvas, h.canvas != nil }
func (h *termHost) Scheduler() field.Scheduler     { return h.queue }

// Model is the Bubble Tea program: a full-height particle canvas with an
// optional status panel on the right.
type Model struct {
	opts      Options
	log       *zap.Logger
	host      *termHost
	renderer  *field.Renderer
	frameTime *metrics.FrameStats
	stepTime  *metrics.FrameStats
	lastTick  time.Time
	interval  time.Duration

	theme         field.Theme
	clicks        int
	showPanel     bool
	width, height int
}

func NewModel(opts Options) Model {
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

	m := Model{
		opts:      opts,
		log:       log,
		frameTime: metrics.NewFrameStats("frame", metrics.FrameThresholds, metrics.DefaultHistory),
		stepTime:  metrics.NewFrameStats("step", metrics.StepThresholds, metrics.DefaultHistory),
		interval:  time.Second / time.Duration(opts.FPS),
		theme:     opts.Theme,
		showPanel: true,
		width:     defaultCols,
		height:    defaultRows,
	}

	canvas := NewCanvas(m.canvasCols(), m.height, opts.CellWidth, opts.CellHeight, opts.AlphaGain)
	pw, ph := canvas.PixelSize()
	m.host = &termHost{
		Hub:    field.NewHub(pw, ph),
		canvas: canvas,
		queue:  field.NewFrameQueue(),
	}

	steps := m.stepTime
	m.renderer = field.NewRenderer(opts.Field,
		field.WithSeed(opts.Seed),
		field.WithTheme(opts.Theme),
		field.WithLogger(log),
		field.WithFrameHook(func(_ time.Time, d time.Duration) { steps.Observe(d) }),
	)
	m.renderer.Mount(m.host)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.Theme):
			m.setTheme(m.theme.Toggle())
		case key.Matches(msg, keys.Click):
			m.clicks++
		case key.Matches(msg, keys.Reset):
			m.clicks = 0
		case key.Matches(msg, keys.Panel):
			m.showPanel = !m.showPanel
			m.layout()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case tea.MouseMsg:
		if msg.X < m.host.canvas.Width {
			m.host.EmitPointer(m.host.canvas.CellCenter(msg.X, msg.Y))
		}
	case ThemeMsg:
		m.setTheme(field.Theme(msg))
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.frameTime.Observe(now.Sub(m.lastTick))
		}
		m.lastTick = now
		m.host.queue.Flush(now)
		if m.renderer.Mounted() {
			return m, m.tick()
		}
	}
	return m, nil
}

func (m *Model) setTheme(t field.Theme) {
	if t == m.theme {
		return
	}
	m.theme = t
	m.renderer.SetTheme(t)
	m.log.Info("theme switched", zap.Stringer("theme", t))
}

func (m Model) canvasCols() int {
	cols := m.width
	if m.showPanel {
		cols -= panelWidth + 1
	}
	if cols < 10 {
		cols = 10
	}
	return cols
}

func (m *Model) layout() {
	m.host.canvas.Resize(m.canvasCols(), m.height)
	m.host.EmitResize(m.host.canvas.PixelSize())
}

// Close unmounts the particle field. It is safe to call more than once.
func (m Model) Close() {
	m.renderer.Unmount()
}

func (m Model) Theme() field.Theme { return m.theme }

func (m Model) Clicks() int { return m.clicks }

func (m Model) Renderer() *field.Renderer { return m.renderer }

func (m Model) View() string {
	p := PaletteFor(m.theme)
	canvas := m.host.canvas.Render(p.BackgroundColor())
	if !m.showPanel {
		return canvas
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panel(p))
}

func (m Model) panel(p Palette) string {
	st := newStyles(p)
	var s strings.Builder

	s.WriteString(GradientText("ANTIGRAVITY", p.Accent, p.Text))
	s.WriteString("  " + st.value.Render(p.Icon+" "+p.Name) + "\n")
	s.WriteString(st.muted.Render("ambient particle field") + "\n")
	s.WriteString(st.separator(panelWidth-4) + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	rated := func(label string, v float64, unit string, r metrics.Rating) {
		mark := lipgloss.NewStyle().Foreground(RatingColor(r)).Render(r.Symbol() + " " + r.String())
		val := "—"
		if r != metrics.RatingPending {
			val = fmt.Sprintf("%.2f%s", v, unit)
		}
		s.WriteString(st.label.Render(label) + st.value.Render(fmt.Sprintf("%-9s", val)) + " " + mark + "\n")
	}

	row("Clicks", fmt.Sprintf("%d", m.clicks))
	if f := m.renderer.Field(); f != nil {
		row("Particles", fmt.Sprintf("%d", f.Len()))
	}
	row("FPS", fmt.Sprintf("%.1f", m.frameTime.FPS()))
	rated("Frame", m.frameTime.Value(), "ms", m.frameTime.Rating())
	rated("Step", m.stepTime.Value(), "ms", m.stepTime.Rating())

	if hist := m.frameTime.History(); len(hist) > 1 {
		if len(hist) > chartPoints {
			hist = hist[len(hist)-chartPoints:]
		}
		chart := asciigraph.Plot(hist,
			asciigraph.Height(4),
			asciigraph.Width(chartWidth),
			asciigraph.Precision(1),
			asciigraph.Caption("frame ms"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString("\n" + st.separator(panelWidth-4) + "\n")
	h := help.New()
	h.ShowAll = true
	h.FullSeparator = "  "
	h.Styles.FullKey = st.key
	h.Styles.FullDesc = st.muted
	h.Styles.FullSeparator = st.muted
	s.WriteString(h.View(keys) + "\n")

	return st.panel.Height(m.height).Render(s.String())
}

// Run starts the program with mouse motion tracking and blocks until it
// exits. Themes received on the channel are applied live.
func Run(ctx context.Context, opts Options, themes <-chan field.Theme) error {
	m := NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case t, ok := <-themes:
				if !ok {
					return
				}
				p.Send(ThemeMsg(t))
			case <-done:
				return
			}
		}
	}()

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
