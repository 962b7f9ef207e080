package layers

import (
	"fmt"

	"github.com/strata3d/strata/internal/engine/color"
)

// Clear resets a layer: every component returns to the layer default and
// the blend mode returns to alpha. Visibility is untouched.
func (s *Stack) Clear(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	l.reset()
	return nil
}

// ClearComponents resets only the listed face-vertex components of a layer
// to the layer default. The component list is validated up front; on error
// nothing is written.
func (s *Stack) ClearComponents(index int, components []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	for _, k := range components {
		if k < 0 || k >= s.fvCount {
			return fmt.Errorf("%w: %d", ErrNoSuchComponent, k)
		}
	}
	for _, k := range components {
		l.colors[k] = l.def
	}
	return nil
}

// Copy replaces the destination layer's colors and blend mode with the
// source layer's. The destination keeps its index, name, and visibility.
func (s *Stack) Copy(src, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.layerAt(src)
	if err != nil {
		return err
	}
	to, err := s.layerAt(dst)
	if err != nil {
		return err
	}
	copy(to.colors, from.colors)
	to.mode = from.mode
	return nil
}

// Swap exchanges the colors and blend modes of two layers. Indices, names,
// and visibility stay with their slots.
func (s *Stack) Swap(a, b int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	la, err := s.layerAt(a)
	if err != nil {
		return err
	}
	lb, err := s.layerAt(b)
	if err != nil {
		return err
	}
	la.colors, lb.colors = lb.colors, la.colors
	la.mode, lb.mode = lb.mode, la.mode
	return nil
}

// MergeUp composites a layer with its upper neighbor and writes the result
// into the neighbor; the source layer is cleared. The pair composites in
// stack order under the upper layer's blend mode, and the surviving layer
// resets to alpha blending. The topmost layer has no upper neighbor.
func (s *Stack) MergeUp(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.layerAt(index)
	if err != nil {
		return err
	}
	if index == len(s.layers) {
		return fmt.Errorf("%w: layer %d is topmost", ErrNoUpperNeighbor, index)
	}
	upper := s.layers[index] // 1-based neighbor above src
	mergePair(src, upper, upper, src)
	return nil
}

// MergeDown composites a layer with its lower neighbor and writes the
// result into the neighbor; the source layer is cleared. The bottom layer
// has no lower neighbor.
func (s *Stack) MergeDown(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.layerAt(index)
	if err != nil {
		return err
	}
	if index == 1 {
		return fmt.Errorf("%w: layer %d is the bottom", ErrNoLowerNeighbor, index)
	}
	lower := s.layers[index-2]
	mergePair(lower, src, lower, src)
	return nil
}

// mergePair blends upper over lower with the upper layer's mode, writes
// the result into into, resets into to alpha blending, and clears src.
// into aliases one of the pair; each component is read before written.
func mergePair(lower, upper, into, src *Layer) {
	mode := upper.mode
	for k := range into.colors {
		into.colors[k] = color.Blend(lower.colors[k], upper.colors[k], mode)
	}
	into.mode = color.BlendAlpha
	src.reset()
}

func (l *Layer) reset() {
	for k := range l.colors {
		l.colors[k] = l.def
	}
	l.mode = color.BlendAlpha
}

// SetOpacity writes the clamped value into the alpha of every component of
// the layer, destroying any per-component alpha variance. This is the
// opacity slider's contract; Opacity reports the maximum for display.
func (s *Stack) SetOpacity(index int, v float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	v = color.Clamp01(v)
	for k := range l.colors {
		l.colors[k].A = v
	}
	return nil
}

// Opacity reports the maximum alpha found in the layer, which is what the
// opacity slider displays.
func (s *Stack) Opacity(index int) (float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.layerAt(index)
	if err != nil {
		return 0, err
	}
	var max float32
	for _, c := range l.colors {
		if c.A > max {
			max = c.A
		}
	}
	return max, nil
}

// FillRGB replaces the RGB of every covered component with the given color
// while preserving alpha. The bottom layer is filled everywhere; on other
// layers, uncovered components have their RGB zeroed.
func (s *Stack) FillRGB(index int, rgb color.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	rgb = rgb.Clamped()
	base := index == 1
	for k := range l.colors {
		a := l.colors[k].A
		if base || a > 0 {
			l.colors[k] = color.Color{R: rgb.R, G: rgb.G, B: rgb.B, A: a}
		} else {
			l.colors[k] = color.Color{}
		}
	}
	return nil
}

// LayerPalette returns up to limit distinct RGB values present on covered
// components of the layer, in first-seen order, each reported opaque.
func (s *Stack) LayerPalette(index, limit int) ([]color.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.layerAt(index)
	if err != nil {
		return nil, err
	}

	var swatches []color.Color
	for _, c := range l.colors {
		if c.A <= 0 {
			continue
		}
		seen := false
		for _, sw := range swatches {
			if sw.SameRGB(c) {
				seen = true
				break
			}
		}
		if seen {
			continue
		}
		swatches = append(swatches, color.Color{R: c.R, G: c.G, B: c.B, A: 1})
		if limit > 0 && len(swatches) == limit {
			break
		}
	}
	return swatches, nil
}

// MaskComponents returns the indices of components with alpha above zero.
// An empty result means the layer covers nothing.
func (s *Stack) MaskComponents(index int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.layerAt(index)
	if err != nil {
		return nil, err
	}

	var out []int
	for k, c := range l.colors {
		if c.A > 0 {
			out = append(out, k)
		}
	}
	return out, nil
}
