// Package packer folds the logical channels of a layer stack into the
// physical vertex-color and UV outputs of an export. Every assignment
// comes from the project mapping; validation runs before a single value
// is written, so a bad mapping never produces a half-packed result.
package packer

import (
	"fmt"

	"github.com/strata3d/strata/internal/engine/color"
	"github.com/strata3d/strata/internal/engine/layers"
)

// UVSet holds the two scalar arrays of one physical UV set, indexed by
// face-vertex.
type UVSet struct {
	U []float32
	V []float32
}

// PackedChannels is the physical export payload: the composited albedo
// in the native vertex-color channel and every UV set of the project.
// Axes nothing was mapped to stay zero.
type PackedChannels struct {
	Albedo []color.Color
	Sets   []UVSet
}

// scalar returns the array behind a slot.
func (p *PackedChannels) scalar(s Slot) []float32 {
	set := &p.Sets[s.Set-1]
	if s.Axis == AxisV {
		return set.V
	}
	return set.U
}

// Pack distributes the stack's logical channels into physical slots per
// the mapping: layer masks as effective alpha (alpha below the mask limit
// exports as zero), material channels as red gated by alpha, alpha
// overlays as their alpha, and RGBA overlays across two whole sets. The
// albedo is the caller's composited stack, copied into the result.
func Pack(s *layers.Stack, albedo []color.Color, m Mapping) (*PackedChannels, error) {
	if err := m.Validate(s.LayerCount()); err != nil {
		return nil, err
	}
	n := s.FaceVertexCount()
	if len(albedo) != n {
		return nil, fmt.Errorf("albedo has %d components, stack has %d", len(albedo), n)
	}

	s.RLock()
	defer s.RUnlock()

	packed := &PackedChannels{
		Albedo: append([]color.Color(nil), albedo...),
		Sets:   make([]UVSet, m.UVSets),
	}
	for i := range packed.Sets {
		packed.Sets[i].U = make([]float32, n)
		packed.Sets[i].V = make([]float32, n)
	}

	for idx := 1; idx <= s.LayerCount(); idx++ {
		out := packed.scalar(m.MaskSlots[idx])
		for k, c := range s.Layer(idx).Colors() {
			if c.A >= m.AlphaToMaskLimit {
				out[k] = c.A
			}
		}
	}

	for _, ch := range m.Channels {
		channel := s.Channel(ch.Name)
		if channel == nil {
			return nil, fmt.Errorf("stack has no channel %q", ch.Name)
		}
		out := packed.scalar(ch.Slot)
		for k, c := range channel.Colors() {
			if c.A > 0 {
				out[k] = c.R
			}
		}
	}

	for _, ov := range m.AlphaOverlays {
		overlay := s.Overlay(ov.Name)
		if overlay == nil {
			return nil, fmt.Errorf("stack has no overlay %q", ov.Name)
		}
		if overlay.Kind() != layers.OverlayAlpha {
			return nil, fmt.Errorf("overlay %q is %s, want alpha", ov.Name, overlay.Kind())
		}
		out := packed.scalar(ov.Slot)
		for k, c := range overlay.Colors() {
			out[k] = c.A
		}
	}

	for _, ov := range m.RGBAOverlays {
		overlay := s.Overlay(ov.Name)
		if overlay == nil {
			return nil, fmt.Errorf("stack has no overlay %q", ov.Name)
		}
		if overlay.Kind() != layers.OverlayRGBA {
			return nil, fmt.Errorf("overlay %q is %s, want rgba", ov.Name, overlay.Kind())
		}
		first := &packed.Sets[ov.Sets[0]-1]
		second := &packed.Sets[ov.Sets[1]-1]
		for k, c := range overlay.Colors() {
			first.U[k] = c.R
			first.V[k] = c.G
			second.U[k] = c.B
			second.V[k] = c.A
		}
	}

	return packed, nil
}

// Transparent reports whether the base layer's alpha dips below 1
// anywhere. Exports of such stacks carry the transparency suffix so
// downstream materials know to enable blending.
func Transparent(s *layers.Stack) bool {
	s.RLock()
	defer s.RUnlock()

	base := s.Layer(1)
	if base == nil {
		return false
	}
	for _, c := range base.Colors() {
		if c.A < 1 {
			return true
		}
	}
	return false
}

// ExportName appends the project suffix to a base name: "_transparency"
// for stacks with a see-through base layer, "_paletted" otherwise, and
// nothing at all when suffixing is disabled.
func ExportName(base string, transparent, suffixed bool) string {
	if !suffixed {
		return base
	}
	if transparent {
		return base + "_transparency"
	}
	return base + "_paletted"
}
