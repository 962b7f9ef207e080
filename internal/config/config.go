// Package config handles project configuration loading and management.
package config

import "gopkg.in/yaml.v3"

// Config holds all project settings.
type Config struct {
	Name             string          `yaml:"name"`
	Layers           LayersConfig    `yaml:"layers"`
	AlphaToMaskLimit float32         `yaml:"alpha_to_mask_limit"`
	UVSets           int             `yaml:"uv_sets"`
	Channels         []ChannelConfig `yaml:"channels"`
	Overlays         []OverlayConfig `yaml:"overlays"`
	Export           ExportConfig    `yaml:"export"`
	Occlusion        OcclusionConfig `yaml:"occlusion"`
	Palette          PaletteConfig   `yaml:"palette"`
	Workers          int             `yaml:"workers"`
	LogLevel         string          `yaml:"log_level"`
}

// LayersConfig describes the paint layer stack. Maps are keyed by 1-based
// layer index; absent entries keep the stack's own defaults.
type LayersConfig struct {
	Count      int            `yaml:"count"`
	Names      map[int]string `yaml:"names"`
	BlendModes map[int]string `yaml:"blend_modes"`
	MaskSlots  map[int]string `yaml:"mask_slots"`
}

// UnmarshalYAML replaces the layer tables wholesale: a project file that
// lists names, blend modes, or mask slots defines all of them, default
// entries do not leak through. Omitted tables keep their defaults.
func (l *LayersConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain LayersConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Count == 0 {
		p.Count = l.Count
	}
	if p.Names == nil {
		p.Names = l.Names
	}
	if p.BlendModes == nil {
		p.BlendModes = l.BlendModes
	}
	if p.MaskSlots == nil {
		p.MaskSlots = l.MaskSlots
	}
	*l = LayersConfig(p)
	return nil
}

// ChannelConfig binds one material channel to a physical slot.
type ChannelConfig struct {
	Name string `yaml:"name"`
	Slot string `yaml:"slot"`
}

// OverlayConfig binds one overlay to its physical destination. Alpha
// overlays name a single slot; RGBA overlays claim two whole UV sets.
type OverlayConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Slot string `yaml:"slot,omitempty"`
	Sets []int  `yaml:"sets,omitempty"`
}

// ExportConfig holds export naming and placement settings.
type ExportConfig struct {
	Suffix      bool    `yaml:"suffix"`
	GridSpacing float32 `yaml:"grid_spacing"` // UI placement hint, carried but not consumed
}

// OcclusionConfig holds the ray-casting parameters of the bake.
type OcclusionConfig struct {
	RayCount     int     `yaml:"ray_count"`
	MaxDistance  float32 `yaml:"max_distance"`
	SourceOffset float32 `yaml:"source_offset"`
	MeshOffset   float32 `yaml:"mesh_offset"`
	BlendWeight  float32 `yaml:"blend_weight"`
	GroundPlane  bool    `yaml:"ground_plane"`
	GroundScale  float32 `yaml:"ground_scale"`
	GroundOffset float32 `yaml:"ground_offset"`
	Seed         int64   `yaml:"seed"`
}

// PaletteConfig holds the repaint palette and its layer targets.
type PaletteConfig struct {
	Colors  [][3]float32  `yaml:"colors"`
	Targets map[int][]int `yaml:"targets"`
}

// Default returns a Config with the stock seven-layer project.
func Default() *Config {
	return &Config{
		Name: "project",
		Layers: LayersConfig{
			Count: 7,
			Names: map[int]string{7: "damage"},
			MaskSlots: map[int]string{
				1: "U1", 2: "V1", 3: "U2", 4: "V2", 5: "U3", 6: "V3", 7: "U4",
			},
		},
		AlphaToMaskLimit: 0.5,
		UVSets:           9,
		Channels: []ChannelConfig{
			{Name: "occlusion", Slot: "V4"},
			{Name: "metallic", Slot: "U5"},
			{Name: "smoothness", Slot: "V5"},
			{Name: "transmission", Slot: "U6"},
			{Name: "emission", Slot: "V6"},
		},
		Overlays: []OverlayConfig{
			{Name: "gradient1", Kind: "alpha", Slot: "U7"},
			{Name: "gradient2", Kind: "alpha", Slot: "V7"},
			{Name: "overlay", Kind: "rgba", Sets: []int{8, 9}},
		},
		Export: ExportConfig{
			Suffix:      true,
			GridSpacing: 5,
		},
		Occlusion: OcclusionConfig{
			RayCount:     250,
			MaxDistance:  10,
			SourceOffset: 1e-6,
			MeshOffset:   0.9,
			BlendWeight:  0.5,
			GroundPlane:  true,
			GroundScale:  100,
			GroundOffset: 1,
			Seed:         42,
		},
		Workers:  0,
		LogLevel: "info",
	}
}
