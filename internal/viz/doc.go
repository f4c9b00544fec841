// Package viz hosts the particle field in a Bubble Tea terminal program.
//
// The field is painted onto a Braille [Canvas]: each terminal cell stands in
// for a block of pixels and carries 2x4 dots, and the strongest alpha painted
// into a cell decides how far its color is blended from the background
// toward the theme color.
//
// # Key Bindings
//
//	t      - Toggle dark/light theme
//	Space  - Count a click
//	r      - Reset the click counter
//	p      - Show/hide the status panel
//	q      - Quit
//
// Mouse motion over the canvas moves the pointer that attracts particles.
package viz
