// Package layers implements the paint layer stack: per-face-vertex RGBA
// layers with blend modes, material channels, overlays, layer operations,
// and the mask/adjustment classifier.
package layers

import (
	"fmt"

	"github.com/strata3d/strata/internal/engine/color"
)

// Layer is one paint layer of a stack. Colors are stored per face-vertex
// and clamped to [0, 1] on write. A layer keeps its 1-based index and its
// identity for the lifetime of the stack; operations replace its contents,
// never the layer itself.
type Layer struct {
	index   int
	name    string
	mode    color.BlendMode
	visible bool
	def     color.Color
	colors  []color.Color
}

func newLayer(index, fvCount int, def color.Color) *Layer {
	l := &Layer{
		index:   index,
		visible: true,
		def:     def,
		colors:  make([]color.Color, fvCount),
	}
	for k := range l.colors {
		l.colors[k] = def
	}
	return l
}

// Index returns the layer's stable 1-based position, 1 being the bottom of
// the stack.
func (l *Layer) Index() int {
	return l.index
}

// Name returns the display name, falling back to "layer<index>" when none
// was assigned.
func (l *Layer) Name() string {
	if l.name == "" {
		return fmt.Sprintf("layer%d", l.index)
	}
	return l.name
}

// Mode returns the layer's blend mode.
func (l *Layer) Mode() color.BlendMode {
	return l.mode
}

// Visible reports whether the layer participates in compositing.
func (l *Layer) Visible() bool {
	return l.visible
}

// Default returns the color a cleared component resets to.
func (l *Layer) Default() color.Color {
	return l.def
}

// Colors returns the live face-vertex buffer. Callers iterating it
// concurrently with stack mutations must hold the stack's read lock; bulk
// writes belong to single-writer load and bake phases.
func (l *Layer) Colors() []color.Color {
	return l.colors
}

// At returns the color of face-vertex component k.
func (l *Layer) At(k int) color.Color {
	return l.colors[k]
}

// Set stores a color at component k, clamped to [0, 1].
func (l *Layer) Set(k int, c color.Color) {
	l.colors[k] = c.Clamped()
}

// Fill writes the same clamped color to every component.
func (l *Layer) Fill(c color.Color) {
	c = c.Clamped()
	for k := range l.colors {
		l.colors[k] = c
	}
}

// MaterialChannel is a named scalar-or-RGB channel (occlusion, metallic,
// smoothness, transmission, emission) stored alongside the paint layers.
// Values are RGBA face-vertex colors; export reads the R component of
// covered components.
type MaterialChannel struct {
	name   string
	def    color.Color
	colors []color.Color
}

func newChannel(name string, fvCount int, def color.Color) *MaterialChannel {
	c := &MaterialChannel{
		name:   name,
		def:    def,
		colors: make([]color.Color, fvCount),
	}
	for k := range c.colors {
		c.colors[k] = def
	}
	return c
}

// Name returns the channel name.
func (c *MaterialChannel) Name() string {
	return c.name
}

// Default returns the channel's reset color.
func (c *MaterialChannel) Default() color.Color {
	return c.def
}

// Colors returns the live face-vertex buffer.
func (c *MaterialChannel) Colors() []color.Color {
	return c.colors
}

// At returns the color of component k.
func (c *MaterialChannel) At(k int) color.Color {
	return c.colors[k]
}

// Set stores a color at component k, clamped to [0, 1].
func (c *MaterialChannel) Set(k int, v color.Color) {
	c.colors[k] = v.Clamped()
}

// SetScalar stores an opaque gray value at component k.
func (c *MaterialChannel) SetScalar(k int, v float32) {
	c.colors[k] = color.Gray(color.Clamp01(v))
}

// Fill writes the same clamped color to every component.
func (c *MaterialChannel) Fill(v color.Color) {
	v = v.Clamped()
	for k := range c.colors {
		c.colors[k] = v
	}
}

// OverlayKind distinguishes how an overlay leaves the stack at export time.
type OverlayKind uint8

const (
	// OverlayAlpha exports only the alpha component as one scalar slot.
	OverlayAlpha OverlayKind = iota
	// OverlayRGBA exports all four components across two whole UV sets.
	OverlayRGBA
)

// String returns the project-file name of the kind.
func (k OverlayKind) String() string {
	switch k {
	case OverlayAlpha:
		return "alpha"
	case OverlayRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("OverlayKind(%d)", uint8(k))
	}
}

// ParseOverlayKind maps a project-file name back to a kind.
func ParseOverlayKind(s string) (OverlayKind, error) {
	switch s {
	case "alpha":
		return OverlayAlpha, nil
	case "rgba":
		return OverlayRGBA, nil
	}
	return OverlayAlpha, fmt.Errorf("unknown overlay kind %q", s)
}

// Overlay is an RGBA face-vertex buffer excluded from compositing and
// exported as UV data only.
type Overlay struct {
	name   string
	kind   OverlayKind
	colors []color.Color
}

func newOverlay(name string, fvCount int, kind OverlayKind) *Overlay {
	return &Overlay{
		name:   name,
		kind:   kind,
		colors: make([]color.Color, fvCount),
	}
}

// Name returns the overlay name.
func (o *Overlay) Name() string {
	return o.name
}

// Kind returns how the overlay is exported.
func (o *Overlay) Kind() OverlayKind {
	return o.kind
}

// Colors returns the live face-vertex buffer.
func (o *Overlay) Colors() []color.Color {
	return o.colors
}

// At returns the color of component k.
func (o *Overlay) At(k int) color.Color {
	return o.colors[k]
}

// Set stores a color at component k, clamped to [0, 1].
func (o *Overlay) Set(k int, c color.Color) {
	o.colors[k] = c.Clamped()
}
