package layers

import (
	"fmt"
	"sync"

	"github.com/strata3d/strata/internal/engine/color"
)

// BaseLayerDefault is the reset color of the bottom layer. Layers above
// the bottom reset to transparent.
var BaseLayerDefault = color.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

// Stack is an ordered set of paint layers over one mesh's face-vertex
// domain, plus its material channels and overlays. The shape is fixed at
// construction time; operations mutate buffer contents, never the shape.
//
// A stack is safe for one writer and any number of concurrent readers.
// Mutating operations take the write lock internally; readers that iterate
// buffers directly (the compositor, the packer) bracket their pass with
// RLock/RUnlock.
type Stack struct {
	mu       sync.RWMutex
	fvCount  int
	layers   []*Layer
	channels []*MaterialChannel
	overlays []*Overlay
}

// NewStack creates a stack of layerCount layers over fvCount face-vertex
// components. The bottom layer defaults to opaque mid-gray, all others to
// transparent.
func NewStack(fvCount, layerCount int) (*Stack, error) {
	if fvCount <= 0 {
		return nil, fmt.Errorf("face-vertex count must be positive, got %d", fvCount)
	}
	if layerCount < 1 {
		return nil, fmt.Errorf("a stack needs at least one layer, got %d", layerCount)
	}

	s := &Stack{fvCount: fvCount}
	for i := 1; i <= layerCount; i++ {
		def := color.Transparent
		if i == 1 {
			def = BaseLayerDefault
		}
		s.layers = append(s.layers, newLayer(i, fvCount, def))
	}
	return s, nil
}

// RLock takes the stack's read lock.
func (s *Stack) RLock() {
	s.mu.RLock()
}

// RUnlock releases the stack's read lock.
func (s *Stack) RUnlock() {
	s.mu.RUnlock()
}

// FaceVertexCount returns the size of every buffer in the stack.
func (s *Stack) FaceVertexCount() int {
	return s.fvCount
}

// LayerCount returns the number of paint layers.
func (s *Stack) LayerCount() int {
	return len(s.layers)
}

// Layer returns the layer with the given 1-based index, or nil when out of
// range.
func (s *Stack) Layer(index int) *Layer {
	if index < 1 || index > len(s.layers) {
		return nil
	}
	return s.layers[index-1]
}

// Layers returns the paint layers in stack order, bottom to top. The slice
// is owned by the stack and must not be modified.
func (s *Stack) Layers() []*Layer {
	return s.layers
}

// AddChannel appends a material channel filled with def and returns it.
func (s *Stack) AddChannel(name string, def color.Color) *MaterialChannel {
	c := newChannel(name, s.fvCount, def)
	s.channels = append(s.channels, c)
	return c
}

// Channels returns the material channels in creation order.
func (s *Stack) Channels() []*MaterialChannel {
	return s.channels
}

// Channel returns the named material channel, or nil when absent.
func (s *Stack) Channel(name string) *MaterialChannel {
	for _, c := range s.channels {
		if c.name == name {
			return c
		}
	}
	return nil
}

// AddOverlay appends a transparent overlay and returns it.
func (s *Stack) AddOverlay(name string, kind OverlayKind) *Overlay {
	o := newOverlay(name, s.fvCount, kind)
	s.overlays = append(s.overlays, o)
	return o
}

// Overlays returns the overlays in creation order.
func (s *Stack) Overlays() []*Overlay {
	return s.overlays
}

// Overlay returns the named overlay, or nil when absent.
func (s *Stack) Overlay(name string) *Overlay {
	for _, o := range s.overlays {
		if o.name == name {
			return o
		}
	}
	return nil
}

// SetLayerName assigns the display name of a layer.
func (s *Stack) SetLayerName(index int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	l.name = name
	return nil
}

// SetBlendMode assigns a layer's blend mode.
func (s *Stack) SetBlendMode(index int, mode color.BlendMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	l.mode = mode
	return nil
}

// SetVisible shows or hides a layer.
func (s *Stack) SetVisible(index int, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	l.visible = visible
	return nil
}

// ToggleVisible flips a layer's visibility.
func (s *Stack) ToggleVisible(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layerAt(index)
	if err != nil {
		return err
	}
	l.visible = !l.visible
	return nil
}

// Clone returns a deep copy of the stack, including buffer contents.
func (s *Stack) Clone() *Stack {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := &Stack{fvCount: s.fvCount}
	for _, l := range s.layers {
		n.layers = append(n.layers, &Layer{
			index:   l.index,
			name:    l.name,
			mode:    l.mode,
			visible: l.visible,
			def:     l.def,
			colors:  append([]color.Color(nil), l.colors...),
		})
	}
	for _, c := range s.channels {
		n.channels = append(n.channels, &MaterialChannel{
			name:   c.name,
			def:    c.def,
			colors: append([]color.Color(nil), c.colors...),
		})
	}
	for _, o := range s.overlays {
		n.overlays = append(n.overlays, &Overlay{
			name:   o.name,
			kind:   o.kind,
			colors: append([]color.Color(nil), o.colors...),
		})
	}
	return n
}

func (s *Stack) layerAt(index int) (*Layer, error) {
	if index < 1 || index > len(s.layers) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchLayer, index)
	}
	return s.layers[index-1], nil
}
