package color

import "testing"

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
	}

	for _, tc := range tests {
		if got := Clamp01(tc.in); got != tc.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClamped(t *testing.T) {
	c := Color{R: -0.2, G: 0.5, B: 1.8, A: 1}
	got := c.Clamped()
	want := Color{R: 0, G: 0.5, B: 1, A: 1}
	if got != want {
		t.Errorf("Clamped() = %v, want %v", got, want)
	}
}

func TestLerpEndpoints(t *testing.T) {
	a := Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4}
	b := Color{R: 0.9, G: 0.8, B: 0.7, A: 0.6}

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(a, b, 0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(a, b, 1) = %v, want %v", got, b)
	}
}

func TestGray(t *testing.T) {
	got := Gray(0.5)
	want := Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	if got != want {
		t.Errorf("Gray(0.5) = %v, want %v", got, want)
	}
}

func TestSameRGB(t *testing.T) {
	a := Color{R: 0.1, G: 0.2, B: 0.3, A: 1}
	b := Color{R: 0.1, G: 0.2, B: 0.3, A: 0}
	c := Color{R: 0.1, G: 0.2, B: 0.4, A: 1}

	if !a.SameRGB(b) {
		t.Error("SameRGB should ignore alpha")
	}
	if a.SameRGB(c) {
		t.Error("SameRGB should compare all RGB components")
	}
}
