// Package color defines the RGBA value type and blend arithmetic used by
// layer compositing.
package color

// Color is an RGBA color with float32 components, nominally in [0, 1].
// Out-of-range values are clamped by the operations that consume them,
// never rejected.
type Color struct {
	R, G, B, A float32
}

// Transparent is the zero color, the default content of non-base layers.
var Transparent = Color{}

// New returns a color with the given components.
func New(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Gray returns an opaque gray color.
func Gray(v float32) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamped returns the color with every component limited to [0, 1].
func (c Color) Clamped() Color {
	return Color{
		R: Clamp01(c.R),
		G: Clamp01(c.G),
		B: Clamp01(c.B),
		A: Clamp01(c.A),
	}
}

// Lerp interpolates between a and b by t.
func Lerp(a, b Color, t float32) Color {
	return Color{
		R: a.R + t*(b.R-a.R),
		G: a.G + t*(b.G-a.G),
		B: a.B + t*(b.B-a.B),
		A: a.A + t*(b.A-a.A),
	}
}

// SameRGB reports whether two colors share RGB components exactly,
// ignoring alpha.
func (c Color) SameRGB(other Color) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}
