package color

import "fmt"

// BlendMode selects how a layer combines with the composite of the layers
// beneath it.
type BlendMode uint8

const (
	// BlendAlpha is standard over compositing: the top color replaces the
	// base in proportion to the top alpha.
	BlendAlpha BlendMode = iota
	// BlendAdd brightens the base by the top color scaled by its alpha.
	BlendAdd
	// BlendMultiply darkens the base toward base*top, faded in by the top
	// alpha.
	BlendMultiply
)

// String returns the project-file name of the mode.
func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(m))
	}
}

// ParseBlendMode maps a project-file name back to a mode. The empty string
// parses as alpha.
func ParseBlendMode(s string) (BlendMode, error) {
	switch s {
	case "alpha", "":
		return BlendAlpha, nil
	case "add":
		return BlendAdd, nil
	case "multiply":
		return BlendMultiply, nil
	}
	return BlendAlpha, fmt.Errorf("unknown blend mode %q", s)
}

// Blend combines over onto base. Inputs are clamped first. The result alpha
// is the standard over coverage for every mode; the mode selects only the
// RGB arithmetic.
func Blend(base, over Color, mode BlendMode) Color {
	base = base.Clamped()
	over = over.Clamped()

	a := over.A + base.A*(1-over.A)

	var r, g, b float32
	switch mode {
	case BlendAdd:
		r = Clamp01(base.R + over.R*over.A)
		g = Clamp01(base.G + over.G*over.A)
		b = Clamp01(base.B + over.B*over.A)
	case BlendMultiply:
		r = base.R + (base.R*over.R-base.R)*over.A
		g = base.G + (base.G*over.G-base.G)*over.A
		b = base.B + (base.B*over.B-base.B)*over.A
	default:
		r = over.R*over.A + base.R*(1-over.A)
		g = over.G*over.A + base.G*(1-over.A)
		b = over.B*over.A + base.B*(1-over.A)
	}
	return Color{R: r, G: g, B: b, A: a}
}
