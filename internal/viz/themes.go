package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/metrics"
)

// Palette defines the color scheme around the particle field for one theme.
type Palette struct {
	Name       string
	Icon       string
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
}

var (
	PaletteDark = Palette{
		Name:       "dark",
		Icon:       "☾",
		Background: lipgloss.Color("#0a0a12"),
		Text:       lipgloss.Color("#e8e8f0"),
		Muted:      lipgloss.Color("#666688"),
		Accent:     lipgloss.Color("#00cccc"),
		Border:     lipgloss.Color("#444466"),
	}

	PaletteLight = Palette{
		Name:       "light",
		Icon:       "☀",
		Background: lipgloss.Color("#f4f5fb"),
		Text:       lipgloss.Color("#1e2140"),
		Muted:      lipgloss.Color("#8088aa"),
		Accent:     lipgloss.Color("#5063d3"),
		Border:     lipgloss.Color("#c0c4dc"),
	}
)

func PaletteFor(t field.Theme) Palette {
	if t == field.ThemeLight {
		return PaletteLight
	}
	return PaletteDark
}

// BackgroundColor parses the palette background for compositing.
func (p Palette) BackgroundColor() colorful.Color {
	c, err := colorful.Hex(string(p.Background))
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// RatingColor matches the colors used for metric ratings.
func RatingColor(r metrics.Rating) lipgloss.Color {
	switch r {
	case metrics.RatingGood:
		return lipgloss.Color("#22c55e")
	case metrics.RatingNeedsImprovement:
		return lipgloss.Color("#eab308")
	case metrics.RatingPoor:
		return lipgloss.Color("#ef4444")
	}
	return lipgloss.Color("#6b7280")
}
