package field

import (
	"fmt"
	"strings"
	"time"
)

// Particle is a single animated point. Coordinates are in pixels, velocity
// in pixels per frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
}

// Color is an RGB triple with a straight alpha in [0, 1].
type Color struct {
	R, G, B uint8
	Alpha   float64
}

type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

var themeRGB = [...][3]uint8{
	ThemeDark:  {255, 255, 255},
	ThemeLight: {80, 99, 211},
}

func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Color returns the paint color of the theme at the given alpha.
func (t Theme) Color(alpha float64) Color {
	rgb := themeRGB[ThemeDark]
	if t == ThemeLight {
		rgb = themeRGB[ThemeLight]
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2], Alpha: alpha}
}

func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark", "":
		return ThemeDark, nil
	case "light":
		return ThemeLight, nil
	}
	return ThemeDark, fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

func (t Theme) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Theme) UnmarshalText(b []byte) error {
	parsed, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Surface is a 2D drawing target sized to the viewport.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, c Color)
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
}

type FrameID uint64

type FrameFunc func(now time.Time)

// Scheduler runs frame callbacks in step with display refresh. A request
// made from inside a callback fires on the following frame.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

// Host is the environment a Renderer is mounted into.
type Host interface {
	// Surface reports false when no drawing surface can be acquired.
	Surface() (Surface, bool)
	Viewport() (w, h float64)
	OnResize(fn func(w, h float64)) (release func())
	OnPointerMove(fn func(x, y float64)) (release func())
	Scheduler() Scheduler
}

const (
	DefaultCount           = 50
	DefaultSizeMin         = 1.0
	DefaultSizeMax         = 4.0
	DefaultVelocityFactor  = 0.5
	DefaultPointerRadius   = 100.0
	DefaultPull            = 0.01
	DefaultConnectionDist  = 150.0
	DefaultOpacityBase     = 0.3
	DefaultOpacityVariance = 0.3
	DefaultLineAlpha       = 0.1
	DefaultLineWidth       = 1.0
)

type Config struct {
	Count           int     `yaml:"count"`
	SizeMin         float64 `yaml:"size_min"`
	SizeMax         float64 `yaml:"size_max"`
	VelocityFactor  float64 `yaml:"velocity_factor"`
	PointerRadius   float64 `yaml:"pointer_radius"`
	Pull            float64 `yaml:"pull"`
	ConnectionDist  float64 `yaml:"connection_dist"`
	OpacityBase     float64 `yaml:"opacity_base"`
	OpacityVariance float64 `yaml:"opacity_variance"`
	LineAlpha       float64 `yaml:"line_alpha"`
	LineWidth       float64 `yaml:"line_width"`
}

func DefaultConfig() Config {
	return Config{
		Count:           DefaultCount,
		SizeMin:         DefaultSizeMin,
		SizeMax:         DefaultSizeMax,
		VelocityFactor:  DefaultVelocityFactor,
		PointerRadius:   DefaultPointerRadius,
		Pull:            DefaultPull,
		ConnectionDist:  DefaultConnectionDist,
		OpacityBase:     DefaultOpacityBase,
		OpacityVariance: DefaultOpacityVariance,
		LineAlpha:       DefaultLineAlpha,
		LineWidth:       DefaultLineWidth,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	case c.SizeMin <= 0 || c.SizeMax < c.SizeMin:
		return fmt.Errorf("%w: size range [%g, %g]", ErrInvalidConfig, c.SizeMin, c.SizeMax)
	case c.VelocityFactor < 0:
		return fmt.Errorf("%w: velocity_factor must not be negative", ErrInvalidConfig)
	case c.PointerRadius < 0 || c.ConnectionDist <= 0:
		return fmt.Errorf("%w: pointer_radius and connection_dist must be positive", ErrInvalidConfig)
	case c.Pull < 0 || c.Pull > 1:
		return fmt.Errorf("%w: pull must be in [0, 1], got %g", ErrInvalidConfig, c.Pull)
	case c.OpacityBase < 0 || c.OpacityVariance < 0 || c.OpacityBase+c.OpacityVariance > 1:
		return fmt.Errorf("%w: particle opacity must stay within [0, 1]", ErrInvalidConfig)
	case c.LineAlpha < 0 || c.LineAlpha > 1:
		return fmt.Errorf("%w: line_alpha must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}
