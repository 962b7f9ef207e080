// Package palette recolors layer stacks in bulk from a small master
// palette, so a family of export units can share one color scheme.
package palette

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strata3d/strata/internal/engine/color"
	"github.com/strata3d/strata/internal/engine/layers"
)

// MaxColors bounds the palette size.
const MaxColors = 5

// Palette maps up to MaxColors colors onto layers. Targets is keyed by
// 1-based palette index; each entry lists the 1-based layers that color
// repaints. Alpha components of palette colors are ignored; FillRGB keeps
// the layer's own coverage.
type Palette struct {
	Colors  []color.Color
	Targets map[int][]int
}

// Error reports every problem found in a palette.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid palette: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the palette against a stack of layerCount layers and
// returns an Error listing every problem, or nil.
func (p *Palette) Validate(layerCount int) error {
	if probs := p.Problems(layerCount); len(probs) > 0 {
		return &Error{Problems: probs}
	}
	return nil
}

// Problems collects every defect in a deterministic order.
func (p *Palette) Problems(layerCount int) []string {
	var probs []string

	if len(p.Colors) > MaxColors {
		probs = append(probs, fmt.Sprintf("palette has %d colors, limit is %d", len(p.Colors), MaxColors))
	}

	indices := make([]int, 0, len(p.Targets))
	for idx := range p.Targets {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		if idx < 1 || idx > len(p.Colors) {
			probs = append(probs, fmt.Sprintf("target group %d: no such palette color", idx))
			continue
		}
		for _, layer := range p.Targets[idx] {
			if layer < 1 || layer > layerCount {
				probs = append(probs, fmt.Sprintf("target group %d: layer %d out of range", idx, layer))
			}
		}
	}
	return probs
}

// Apply repaints every target layer with its palette color, preserving
// each component's alpha. The stack is untouched when validation fails.
func (p *Palette) Apply(s *layers.Stack) error {
	if err := p.Validate(s.LayerCount()); err != nil {
		return err
	}

	indices := make([]int, 0, len(p.Targets))
	for idx := range p.Targets {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		for _, layer := range p.Targets[idx] {
			if err := s.FillRGB(layer, p.Colors[idx-1]); err != nil {
				return err
			}
		}
	}
	return nil
}
