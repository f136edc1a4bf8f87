// Package colorutil provides overlay colours shared by the renderers.
package colorutil

import (
	"image/color"
	"math"
)

// Common overlay colors.
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Cyan   = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// HSVToRGB converts HSV in the OpenCV convention (H 0-180, S 0-255,
// V 0-255) to RGB in 0-255.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	h = math.Mod(h*2, 360)
	if h < 0 {
		h += 360
	}
	s /= 255
	v /= 255

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return (r + m) * 255, (g + m) * 255, (b + m) * 255
}

// Spread returns the i-th of n fully saturated colours with evenly spaced
// hues, starting at red.
func Spread(i, n int) color.RGBA {
	if n < 1 {
		n = 1
	}
	r, g, b := HSVToRGB(180*float64(i%n)/float64(n), 255, 255)
	return color.RGBA{R: uint8(math.Round(r)), G: uint8(math.Round(g)), B: uint8(math.Round(b)), A: 255}
}

// Darken reduces the brightness of a color by factor in [0, 1].
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * (1 - factor)),
		G: uint8(float64(c.G) * (1 - factor)),
		B: uint8(float64(c.B) * (1 - factor)),
		A: c.A,
	}
}
