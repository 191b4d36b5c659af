// Package draw renders routing results as PNG images: route maps, 2D
// embedding scatters and grids of previously rendered images.
package draw

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// paletteSize is the number of entries in the rainbow colormap Colors samples from.
const paletteSize = 256

var rainbow = buildRainbow(paletteSize)

// buildRainbow sweeps hue from blue (240°) to red (0°) at full saturation.
// This approximates colorcet's rainbow (bgyr_35_85_c72): same endpoints and
// order, different lightness profile.
func buildRainbow(n int) []drawing.Color {
	out := make([]drawing.Color, n)
	for i := range out {
		h := 240 * (1 - float64(i)/float64(n-1))
		r, g, b := colorful.Hsv(h, 1, 0.9).RGB255()
		out[i] = drawing.Color{R: r, G: g, B: b, A: 255}
	}
	return out
}

// Colors returns n colours spaced evenly along the rainbow colormap. Entry i
// is palette index int(i*256/n), so the first colour is always blue.
func Colors(n int) []drawing.Color {
	if n <= 0 {
		return nil
	}
	step := float64(paletteSize) / float64(n)
	out := make([]drawing.Color, n)
	for i := range out {
		idx := int(float64(i) * step)
		if idx >= paletteSize {
			idx = paletteSize - 1
		}
		out[i] = rainbow[idx]
	}
	return out
}
