package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/viz"
)

// SVG is a field.Surface that keeps the most recent frame as SVG elements.
type SVG struct {
	Width, Height float64
	Background    string

	body    strings.Builder
	circles int
	lines   int
}

func NewSVG(width, height float64, background string) *SVG {
	return &SVG{Width: width, Height: height, Background: background}
}

func (s *SVG) Clear() {
	s.body.Reset()
	s.circles, s.lines = 0, 0
}

func (s *SVG) FillCircle(x, y, r float64, c field.Color) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		x, y, r, hex(c), c.Alpha)
	s.circles++
}

func (s *SVG) StrokeLine(x0, y0, x1, y1, width float64, c field.Color) {
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g" stroke-opacity="%.3f"/>`+"\n",
		x0, y0, x1, y1, hex(c), width, c.Alpha)
	s.lines++
}

// Counts reports the elements of the current frame.
func (s *SVG) Counts() (circles, lines int) { return s.circles, s.lines }

func (s *SVG) String() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if s.Background != "" {
		fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background)
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

type SnapshotOptions struct {
	Width, Height float64
	Frames        int
	Seed          int64
	Theme         field.Theme
	Field         field.Config
}

// WriteSnapshot runs a headless renderer for opts.Frames frames after the
// mount frame and writes the last one to w.
func WriteSnapshot(w io.Writer, opts SnapshotOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("snapshot size %gx%g: must be positive", opts.Width, opts.Height)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("snapshot frames %d: must not be negative", opts.Frames)
	}

	svg := NewSVG(opts.Width, opts.Height, string(viz.PaletteFor(opts.Theme).Background))
	host := field.NewHeadless(svg, opts.Width, opts.Height)
	r := field.NewRenderer(opts.Field, field.WithSeed(opts.Seed), field.WithTheme(opts.Theme))
	if !r.Mount(host) {
		return fmt.Errorf("snapshot: renderer did not mount")
	}
	host.Advance(opts.Frames)
	r.Unmount()

	_, err := svg.WriteTo(w)
	return err
}

func hex(c field.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
