package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strata3d/strata/internal/engine/color"
	"github.com/strata3d/strata/internal/engine/layers"
	"github.com/strata3d/strata/internal/engine/occlusion"
	"github.com/strata3d/strata/internal/engine/packer"
	"github.com/strata3d/strata/internal/engine/palette"
)

// ValidationError aggregates every problem found in a project config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid project config: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the whole project for consistency: the layer table, the
// channel mapping and its capacity, the palette, and the bake parameter
// ranges. Every problem is collected rather than stopping at the first; a
// nil return means the project can be built, baked, and packed as
// configured.
func (c *Config) Validate() error {
	var problems []string

	if c.Layers.Count < 1 {
		problems = append(problems, fmt.Sprintf("layers.count must be at least 1, got %d", c.Layers.Count))
	}
	problems = append(problems, c.layerTableProblems()...)

	mapping, slotProblems := c.buildMapping()
	problems = append(problems, slotProblems...)
	problems = append(problems, mapping.Problems(c.Layers.Count)...)

	pal := c.PaletteSpec()
	problems = append(problems, pal.Problems(c.Layers.Count)...)
	problems = append(problems, c.occlusionProblems()...)

	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must not be negative, got %d", c.Workers))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// layerTableProblems checks the per-layer name and blend mode tables
// against the declared layer count.
func (c *Config) layerTableProblems() []string {
	var probs []string

	for _, idx := range sortedKeys(c.Layers.Names) {
		if idx < 1 || idx > c.Layers.Count {
			probs = append(probs, fmt.Sprintf("name for layer %d: no such layer", idx))
		}
	}
	for _, idx := range sortedKeys(c.Layers.BlendModes) {
		if idx < 1 || idx > c.Layers.Count {
			probs = append(probs, fmt.Sprintf("blend mode for layer %d: no such layer", idx))
			continue
		}
		if _, err := color.ParseBlendMode(c.Layers.BlendModes[idx]); err != nil {
			probs = append(probs, fmt.Sprintf("blend mode for layer %d: %v", idx, err))
		}
	}

	return probs
}

func (c *Config) occlusionProblems() []string {
	var probs []string

	o := c.Occlusion
	if o.RayCount < 1 {
		probs = append(probs, fmt.Sprintf("occlusion.ray_count must be at least 1, got %d", o.RayCount))
	}
	if o.MaxDistance <= 0 {
		probs = append(probs, fmt.Sprintf("occlusion.max_distance must be positive, got %v", o.MaxDistance))
	}
	if o.MeshOffset <= 0 || o.MeshOffset > 1 {
		probs = append(probs, fmt.Sprintf("occlusion.mesh_offset must be inside (0,1], got %v", o.MeshOffset))
	}
	if o.BlendWeight < 0 || o.BlendWeight > 1 {
		probs = append(probs, fmt.Sprintf("occlusion.blend_weight must be inside [0,1], got %v", o.BlendWeight))
	}

	return probs
}

// buildMapping converts the config's channel bindings into a packer
// mapping, collecting every slot string that fails to parse. Bindings
// with unparseable slots are left out of the mapping.
func (c *Config) buildMapping() (packer.Mapping, []string) {
	var problems []string

	m := packer.Mapping{
		UVSets:           c.UVSets,
		AlphaToMaskLimit: c.AlphaToMaskLimit,
		MaskSlots:        make(map[int]packer.Slot, len(c.Layers.MaskSlots)),
	}

	for _, idx := range sortedKeys(c.Layers.MaskSlots) {
		slot, err := packer.ParseSlot(c.Layers.MaskSlots[idx])
		if err != nil {
			problems = append(problems, fmt.Sprintf("mask slot for layer %d: %v", idx, err))
			continue
		}
		m.MaskSlots[idx] = slot
	}

	for _, ch := range c.Channels {
		slot, err := packer.ParseSlot(ch.Slot)
		if err != nil {
			problems = append(problems, fmt.Sprintf("channel %q: %v", ch.Name, err))
			continue
		}
		m.Channels = append(m.Channels, packer.ChannelSlot{Name: ch.Name, Slot: slot})
	}

	for _, ov := range c.Overlays {
		kind, err := layers.ParseOverlayKind(ov.Kind)
		if err != nil {
			problems = append(problems, fmt.Sprintf("overlay %q: %v", ov.Name, err))
			continue
		}
		switch kind {
		case layers.OverlayAlpha:
			slot, err := packer.ParseSlot(ov.Slot)
			if err != nil {
				problems = append(problems, fmt.Sprintf("overlay %q: %v", ov.Name, err))
				continue
			}
			m.AlphaOverlays = append(m.AlphaOverlays, packer.OverlaySlot{Name: ov.Name, Slot: slot})
		case layers.OverlayRGBA:
			if len(ov.Sets) != 2 {
				problems = append(problems, fmt.Sprintf("overlay %q: rgba overlays need exactly 2 sets, got %d", ov.Name, len(ov.Sets)))
				continue
			}
			m.RGBAOverlays = append(m.RGBAOverlays, packer.RGBAOverlaySets{Name: ov.Name, Sets: [2]int{ov.Sets[0], ov.Sets[1]}})
		}
	}

	return m, problems
}

// Mapping returns the packer mapping described by the config. Call
// Validate first; bindings whose slots fail to parse are absent here.
func (c *Config) Mapping() packer.Mapping {
	m, _ := c.buildMapping()
	return m
}

// PaletteSpec returns the repaint palette described by the config.
func (c *Config) PaletteSpec() palette.Palette {
	p := palette.Palette{
		Colors:  make([]color.Color, len(c.Palette.Colors)),
		Targets: make(map[int][]int, len(c.Palette.Targets)),
	}
	for i, rgb := range c.Palette.Colors {
		p.Colors[i] = color.New(rgb[0], rgb[1], rgb[2], 1)
	}
	for idx, targets := range c.Palette.Targets {
		p.Targets[idx] = append([]int(nil), targets...)
	}
	return p
}

// BakeConfig returns the occlusion bake parameters described by the
// config, with the worker count shared across the project.
func (c *Config) BakeConfig() occlusion.Config {
	return occlusion.Config{
		RayCount:     c.Occlusion.RayCount,
		MaxDistance:  c.Occlusion.MaxDistance,
		SourceOffset: c.Occlusion.SourceOffset,
		MeshOffset:   c.Occlusion.MeshOffset,
		BlendWeight:  c.Occlusion.BlendWeight,
		GroundPlane:  c.Occlusion.GroundPlane,
		GroundScale:  c.Occlusion.GroundScale,
		GroundOffset: c.Occlusion.GroundOffset,
		Seed:         c.Occlusion.Seed,
		Workers:      c.Workers,
	}
}

// NewStack builds the layer stack the config describes for a mesh with
// fvCount face-vertex components: layers with their names and blend
// modes, every material channel, and every overlay. Call Validate first;
// NewStack reports only errors the validator would have caught.
func (c *Config) NewStack(fvCount int) (*layers.Stack, error) {
	s, err := layers.NewStack(fvCount, c.Layers.Count)
	if err != nil {
		return nil, err
	}

	for _, idx := range sortedKeys(c.Layers.Names) {
		if err := s.SetLayerName(idx, c.Layers.Names[idx]); err != nil {
			return nil, err
		}
	}
	for _, idx := range sortedKeys(c.Layers.BlendModes) {
		mode, err := color.ParseBlendMode(c.Layers.BlendModes[idx])
		if err != nil {
			return nil, err
		}
		if err := s.SetBlendMode(idx, mode); err != nil {
			return nil, err
		}
	}

	for _, ch := range c.Channels {
		s.AddChannel(ch.Name, color.New(1, 1, 1, 1))
	}
	for _, ov := range c.Overlays {
		kind, err := layers.ParseOverlayKind(ov.Kind)
		if err != nil {
			return nil, err
		}
		s.AddOverlay(ov.Name, kind)
	}

	return s, nil
}

func sortedKeys(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
