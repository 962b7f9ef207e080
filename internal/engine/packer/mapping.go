package packer

import (
	"fmt"
	"sort"
	"strings"
)

// ChannelSlot assigns a material channel to a scalar slot.
type ChannelSlot struct {
	Name string
	Slot Slot
}

// OverlaySlot assigns an alpha overlay to a scalar slot.
type OverlaySlot struct {
	Name string
	Slot Slot
}

// RGBAOverlaySets assigns an RGBA overlay its two whole UV sets: red and
// green go to the U and V of the first set, blue and alpha to the second.
type RGBAOverlaySets struct {
	Name string
	Sets [2]int
}

// Mapping assigns every logical channel a physical slot. Layer masks are
// keyed by 1-based layer index; channels and overlays keep configuration
// order. Nothing here is ever inferred from the stack.
type Mapping struct {
	UVSets           int
	AlphaToMaskLimit float32
	MaskSlots        map[int]Slot
	Channels         []ChannelSlot
	AlphaOverlays    []OverlaySlot
	RGBAOverlays     []RGBAOverlaySets
}

// MappingError reports every problem found in a channel mapping.
type MappingError struct {
	Problems []string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("invalid channel mapping: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the mapping against a stack of layerCount layers and
// returns a MappingError listing every problem, or nil.
func (m Mapping) Validate(layerCount int) error {
	if probs := m.Problems(layerCount); len(probs) > 0 {
		return &MappingError{Problems: probs}
	}
	return nil
}

// Problems collects every defect in the mapping in a deterministic
// order. An empty result means the mapping is packable.
func (m Mapping) Problems(layerCount int) []string {
	var probs []string

	if m.UVSets < 1 {
		probs = append(probs, fmt.Sprintf("uv_sets must be at least 1, got %d", m.UVSets))
	}
	if m.AlphaToMaskLimit <= 0 || m.AlphaToMaskLimit >= 1 {
		probs = append(probs, fmt.Sprintf("alpha_to_mask_limit must be inside (0,1), got %v", m.AlphaToMaskLimit))
	}

	// Scalar slots must be injective; owner remembers who claimed a slot
	// first.
	owner := make(map[Slot]string)
	claim := func(s Slot, who string) {
		if prev, taken := owner[s]; taken {
			probs = append(probs, fmt.Sprintf("slot %s assigned to both %s and %s", s, prev, who))
			return
		}
		owner[s] = who
	}
	inRange := func(s Slot, who string) bool {
		if m.UVSets >= 1 && (s.Set < 1 || s.Set > m.UVSets) {
			probs = append(probs, fmt.Sprintf("%s: slot %s outside uv_sets %d", who, s, m.UVSets))
			return false
		}
		return true
	}

	for idx := 1; idx <= layerCount; idx++ {
		slot, ok := m.MaskSlots[idx]
		if !ok {
			probs = append(probs, fmt.Sprintf("layer %d has no mask slot", idx))
			continue
		}
		who := fmt.Sprintf("layer %d mask", idx)
		if inRange(slot, who) {
			claim(slot, who)
		}
	}
	var stray []int
	for idx := range m.MaskSlots {
		if idx < 1 || idx > layerCount {
			stray = append(stray, idx)
		}
	}
	sort.Ints(stray)
	for _, idx := range stray {
		probs = append(probs, fmt.Sprintf("mask slot for layer %d: no such layer", idx))
	}

	seenNames := make(map[string]bool)
	for _, ch := range m.Channels {
		who := fmt.Sprintf("channel %q", ch.Name)
		if seenNames[ch.Name] {
			probs = append(probs, fmt.Sprintf("duplicate channel name %q", ch.Name))
		}
		seenNames[ch.Name] = true
		if inRange(ch.Slot, who) {
			claim(ch.Slot, who)
		}
	}
	for _, ov := range m.AlphaOverlays {
		who := fmt.Sprintf("alpha overlay %q", ov.Name)
		if inRange(ov.Slot, who) {
			claim(ov.Slot, who)
		}
	}

	// RGBA overlays own both axes of both their sets.
	for _, ov := range m.RGBAOverlays {
		who := fmt.Sprintf("rgba overlay %q", ov.Name)
		if ov.Sets[0] == ov.Sets[1] {
			probs = append(probs, fmt.Sprintf("%s: sets must be distinct, got %d twice", who, ov.Sets[0]))
		}
		for i, set := range ov.Sets {
			if i == 1 && ov.Sets[0] == ov.Sets[1] {
				continue
			}
			if m.UVSets >= 1 && (set < 1 || set > m.UVSets) {
				probs = append(probs, fmt.Sprintf("%s: set %d outside uv_sets %d", who, set, m.UVSets))
				continue
			}
			claim(Slot{Set: set, Axis: AxisU}, who)
			claim(Slot{Set: set, Axis: AxisV}, who)
		}
	}

	demand := layerCount + len(m.Channels) + len(m.AlphaOverlays) + 4*len(m.RGBAOverlays)
	if capacity := 2 * m.UVSets; demand > capacity {
		probs = append(probs, fmt.Sprintf("channel demand %d exceeds capacity %d (uv_sets %d)", demand, capacity, m.UVSets))
	}

	return probs
}
