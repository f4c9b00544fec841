package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/field"
)

func TestSVGSurface(t *testing.T) {
	s := NewSVG(200, 100, "#000000")
	s.FillCircle(10, 20, 2, field.ThemeDark.Color(0.4))
	s.StrokeLine(0, 0, 50, 50, 1, field.ThemeLight.Color(0.05))

	out := s.String()
	assert.Contains(t, out, `viewBox="0 0 200 100"`)
	assert.Contains(t, out, `<rect width="100%" height="100%" fill="#000000"/>`)
	assert.Contains(t, out, `<circle cx="10.00" cy="20.00" r="2.00" fill="#ffffff" fill-opacity="0.400"/>`)
	assert.Contains(t, out, `stroke="#5063d3" stroke-width="1" stroke-opacity="0.050"`)

	circles, lines := s.Counts()
	assert.Equal(t, 1, circles)
	assert.Equal(t, 1, lines)

	s.Clear()
	circles, lines = s.Counts()
	assert.Zero(t, circles)
	assert.Zero(t, lines)
	assert.NotContains(t, s.String(), "<circle")
}

func TestWriteSnapshot(t *testing.T) {
	opts := SnapshotOptions{
		Width:  800,
		Height: 600,
		Frames: 30,
		Seed:   7,
		Theme:  field.ThemeLight,
		Field:  field.DefaultConfig(),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, opts))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, field.DefaultCount, strings.Count(out, "<circle"))
	assert.Contains(t, out, `fill="#f4f5fb"`)

	var again bytes.Buffer
	require.NoError(t, WriteSnapshot(&again, opts))
	assert.Equal(t, out, again.String(), "same seed must give the same snapshot")
}

func TestWriteSnapshot_InvalidSize(t *testing.T) {
	err := WriteSnapshot(&bytes.Buffer{}, SnapshotOptions{Width: 0, Height: 10, Field: field.DefaultConfig()})
	assert.Error(t, err)
}
