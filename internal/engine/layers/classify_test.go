package layers

import (
	"testing"

	"github.com/strata3d/strata/internal/engine/color"
)

func TestClassifyMaskAndAdjustment(t *testing.T) {
	s := newTestStack(t, 2, 1)
	l := s.Layer(1)
	l.Set(0, color.Color{R: 1, A: 0.3})
	l.Set(1, color.Color{R: 1, A: 0.9})

	cls := Classify(l, 0.5)
	if !cls.IsMask {
		t.Error("alpha 0.9 >= 0.5 should mark the layer as a mask")
	}
	if !cls.IsAdjustment {
		t.Error("alpha 0.3 in (0, 0.5) should mark the layer as an adjustment")
	}
	if cls.MaxAlpha != 0.9 {
		t.Errorf("MaxAlpha = %v, want 0.9", cls.MaxAlpha)
	}
}

func TestClassifyPureMask(t *testing.T) {
	s := newTestStack(t, 3, 1)
	s.Layer(1).Fill(color.Color{R: 1, A: 1})

	cls := Classify(s.Layer(1), 0.5)
	if !cls.IsMask || cls.IsAdjustment {
		t.Errorf("uniform opaque layer: IsMask=%v IsAdjustment=%v, want true/false", cls.IsMask, cls.IsAdjustment)
	}
}

func TestClassifyPureAdjustment(t *testing.T) {
	s := newTestStack(t, 3, 1)
	s.Layer(1).Fill(color.Color{R: 1, A: 0.2})

	cls := Classify(s.Layer(1), 0.5)
	if cls.IsMask || !cls.IsAdjustment {
		t.Errorf("uniform faint layer: IsMask=%v IsAdjustment=%v, want false/true", cls.IsMask, cls.IsAdjustment)
	}
}

func TestClassifyEmpty(t *testing.T) {
	s := newTestStack(t, 3, 2)

	cls := Classify(s.Layer(2), 0.5)
	if cls.IsMask || cls.IsAdjustment {
		t.Error("a fully transparent layer is neither mask nor adjustment")
	}
	if cls.MaxAlpha != 0 {
		t.Errorf("MaxAlpha = %v, want 0", cls.MaxAlpha)
	}
}

func TestClassifyBoundaryAlpha(t *testing.T) {
	s := newTestStack(t, 1, 1)
	s.Layer(1).Set(0, color.Color{A: 0.5})

	// Alpha exactly at the limit counts as mask coverage.
	cls := Classify(s.Layer(1), 0.5)
	if !cls.IsMask || cls.IsAdjustment {
		t.Errorf("alpha == limit: IsMask=%v IsAdjustment=%v, want true/false", cls.IsMask, cls.IsAdjustment)
	}
}

func TestClassifyHidden(t *testing.T) {
	s := newTestStack(t, 2, 1)
	s.Layer(1).Fill(color.Color{R: 1, A: 1})
	if err := s.SetVisible(1, false); err != nil {
		t.Fatalf("SetVisible failed: %v", err)
	}

	cls := Classify(s.Layer(1), 0.5)
	if !cls.Hidden {
		t.Error("hidden layer should classify as Hidden")
	}
	if got := cls.Markers(); got != "(H)(M)" {
		t.Errorf("Markers() = %q, want %q", got, "(H)(M)")
	}
}

func TestMarkers(t *testing.T) {
	tests := []struct {
		cls  Classification
		want string
	}{
		{Classification{}, ""},
		{Classification{IsMask: true}, "(M)"},
		{Classification{IsAdjustment: true}, "(A)"},
		{Classification{Hidden: true, IsMask: true, IsAdjustment: true}, "(H)(M)(A)"},
	}

	for _, tc := range tests {
		if got := tc.cls.Markers(); got != tc.want {
			t.Errorf("Markers() = %q, want %q", got, tc.want)
		}
	}
}

func TestClassifyRecomputes(t *testing.T) {
	s := newTestStack(t, 1, 1)
	l := s.Layer(1)
	l.Set(0, color.Color{A: 0.9})

	if cls := Classify(l, 0.5); !cls.IsMask {
		t.Fatal("expected mask before edit")
	}

	// Derived state follows the data; nothing is cached.
	l.Set(0, color.Color{A: 0.1})
	if cls := Classify(l, 0.5); cls.IsMask || !cls.IsAdjustment {
		t.Error("classification should track the edited alpha")
	}
}

func TestClassifyAll(t *testing.T) {
	s := newTestStack(t, 2, 3)
	s.Layer(2).Fill(color.Color{R: 1, A: 1})
	s.Layer(3).Fill(color.Color{R: 1, A: 0.1})

	all := s.ClassifyAll(0.5)
	if len(all) != 3 {
		t.Fatalf("ClassifyAll returned %d results, want 3", len(all))
	}
	if !all[0].IsMask {
		t.Error("base layer (opaque gray) should be a mask")
	}
	if !all[1].IsMask || all[1].IsAdjustment {
		t.Error("layer 2 should be mask only")
	}
	if all[2].IsMask || !all[2].IsAdjustment {
		t.Error("layer 3 should be adjustment only")
	}
}
