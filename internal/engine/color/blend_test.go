package color

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func colorApprox(a, b Color) bool {
	return approx(a.R, b.R) && approx(a.G, b.G) && approx(a.B, b.B) && approx(a.A, b.A)
}

func TestBlendTransparentOverIsIdentity(t *testing.T) {
	base := Color{R: 0.3, G: 0.6, B: 0.9, A: 0.7}

	for _, mode := range []BlendMode{BlendAlpha, BlendAdd, BlendMultiply} {
		got := Blend(base, Transparent, mode)
		if !colorApprox(got, base) {
			t.Errorf("Blend(base, transparent, %v) = %v, want %v", mode, got, base)
		}
	}
}

func TestBlendAlphaExact(t *testing.T) {
	base := Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	over := Color{R: 1, G: 0, B: 0, A: 0.5}

	got := Blend(base, over, BlendAlpha)
	want := Color{R: 0.6, G: 0.2, B: 0.3, A: 1}
	if !colorApprox(got, want) {
		t.Errorf("Blend alpha = %v, want %v", got, want)
	}
}

func TestBlendAlphaSegment(t *testing.T) {
	// Alpha-blended RGB must lie on the segment between base and over.
	base := Color{R: 0.1, G: 0.8, B: 0.5, A: 1}
	over := Color{R: 0.9, G: 0.2, B: 0.5, A: 1}

	for _, a := range []float32{0, 0.25, 0.5, 0.75, 1} {
		o := over
		o.A = a
		got := Blend(base, o, BlendAlpha)
		want := Lerp(base, over, a)
		if !approx(got.R, want.R) || !approx(got.G, want.G) || !approx(got.B, want.B) {
			t.Errorf("alpha %v: got %v, want rgb of %v", a, got, want)
		}
	}
}

func TestBlendAddClamps(t *testing.T) {
	base := Color{R: 0.8, G: 0.5, B: 0, A: 1}
	over := Color{R: 0.6, G: 0.2, B: 0.1, A: 1}

	got := Blend(base, over, BlendAdd)
	want := Color{R: 1, G: 0.7, B: 0.1, A: 1}
	if !colorApprox(got, want) {
		t.Errorf("Blend add = %v, want %v", got, want)
	}
}

func TestBlendAddScalesByAlpha(t *testing.T) {
	base := Color{R: 0.2, G: 0.2, B: 0.2, A: 1}
	over := Color{R: 0.4, G: 0.4, B: 0.4, A: 0.5}

	got := Blend(base, over, BlendAdd)
	want := Color{R: 0.4, G: 0.4, B: 0.4, A: 1}
	if !colorApprox(got, want) {
		t.Errorf("Blend add half alpha = %v, want %v", got, want)
	}
}

func TestBlendMultiply(t *testing.T) {
	base := Color{R: 0.8, G: 0.6, B: 0.4, A: 1}
	over := Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

	got := Blend(base, over, BlendMultiply)
	want := Color{R: 0.4, G: 0.3, B: 0.2, A: 1}
	if !colorApprox(got, want) {
		t.Errorf("Blend multiply = %v, want %v", got, want)
	}
}

func TestBlendMultiplyFadesWithAlpha(t *testing.T) {
	base := Color{R: 0.8, G: 0.8, B: 0.8, A: 1}
	over := Color{R: 0, G: 0, B: 0, A: 0.5}

	// Halfway between base and base*over.
	got := Blend(base, over, BlendMultiply)
	want := Color{R: 0.4, G: 0.4, B: 0.4, A: 1}
	if !colorApprox(got, want) {
		t.Errorf("Blend multiply half alpha = %v, want %v", got, want)
	}
}

func TestBlendMultiplyByWhiteIsIdentity(t *testing.T) {
	base := Color{R: 0.3, G: 0.5, B: 0.7, A: 1}
	over := Color{R: 1, G: 1, B: 1, A: 1}

	got := Blend(base, over, BlendMultiply)
	if !colorApprox(got, base) {
		t.Errorf("Blend multiply by white = %v, want %v", got, base)
	}
}

func TestBlendResultAlpha(t *testing.T) {
	base := Color{A: 0.5}
	over := Color{A: 0.5}

	// Over coverage: 0.5 + 0.5*0.5 for every mode.
	for _, mode := range []BlendMode{BlendAlpha, BlendAdd, BlendMultiply} {
		got := Blend(base, over, mode)
		if !approx(got.A, 0.75) {
			t.Errorf("Blend(%v) alpha = %v, want 0.75", mode, got.A)
		}
	}
}

func TestBlendClampsInputs(t *testing.T) {
	base := Color{R: 1.5, G: -0.5, B: 0.5, A: 2}
	over := Transparent

	got := Blend(base, over, BlendAlpha)
	want := Color{R: 1, G: 0, B: 0.5, A: 1}
	if !colorApprox(got, want) {
		t.Errorf("Blend with out-of-range base = %v, want %v", got, want)
	}
}

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		in      string
		want    BlendMode
		wantErr bool
	}{
		{"alpha", BlendAlpha, false},
		{"add", BlendAdd, false},
		{"multiply", BlendMultiply, false},
		{"", BlendAlpha, false},
		{"screen", BlendAlpha, true},
	}

	for _, tc := range tests {
		got, err := ParseBlendMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseBlendMode(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseBlendMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBlendModeString(t *testing.T) {
	if BlendAlpha.String() != "alpha" || BlendAdd.String() != "add" || BlendMultiply.String() != "multiply" {
		t.Error("BlendMode.String() mismatch with project-file names")
	}
	if BlendMode(9).String() != "BlendMode(9)" {
		t.Errorf("unknown mode String() = %q", BlendMode(9).String())
	}
}
