package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const panelWidth = 38

type styles struct {
	panel  lipgloss.Style
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	key    lipgloss.Style
	graph  lipgloss.Style
	accent lipgloss.Color
}

func newStyles(p Palette) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Border).
			Background(p.Background).
			Foreground(p.Text).
			Padding(1, 2).
			Width(panelWidth),
		title:  lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		label:  lipgloss.NewStyle().Foreground(p.Muted).Width(10),
		value:  lipgloss.NewStyle().Foreground(p.Text),
		muted:  lipgloss.NewStyle().Foreground(p.Muted),
		key:    lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(p.Accent).MarginTop(1),
		accent: p.Accent,
	}
}

// GradientText renders text with a color ramp from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return lipgloss.NewStyle().Foreground(start).Render(text)
	}

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return result.String()
}

func (s styles) separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.muted.Render(left + " ◆ " + right)
}
