// Package composite flattens a layer stack into a single RGBA buffer.
package composite

import (
	"runtime"
	"sync"

	"github.com/strata3d/strata/internal/engine/color"
	"github.com/strata3d/strata/internal/engine/layers"
)

// Components below this count are composited on the calling goroutine.
const minChunk = 2048

// Compositor flattens layer stacks over a pool of workers.
type Compositor struct {
	workers int
}

// New returns a compositor using the given number of workers; zero or
// negative means one per CPU.
func New(workers int) *Compositor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Compositor{workers: workers}
}

// Flatten composites every visible layer bottom to top over a transparent
// base and returns the result. Hidden layers are skipped; faint alphas
// blend normally here, the mask-export zeroing belongs to packing. The
// stack's read lock is held for the whole pass, so the result is an atomic
// snapshot.
func (c *Compositor) Flatten(s *layers.Stack) []color.Color {
	dst := make([]color.Color, s.FaceVertexCount())
	c.FlattenInto(dst, s)
	return dst
}

// FlattenInto composites into dst, which must hold exactly the stack's
// face-vertex count. Previous contents are overwritten.
func (c *Compositor) FlattenInto(dst []color.Color, s *layers.Stack) {
	s.RLock()
	defer s.RUnlock()

	for k := range dst {
		dst[k] = color.Transparent
	}

	visible := make([]*layers.Layer, 0, s.LayerCount())
	for _, l := range s.Layers() {
		if l.Visible() {
			visible = append(visible, l)
		}
	}
	if len(visible) == 0 {
		return
	}

	n := len(dst)
	chunk := (n + c.workers - 1) / c.workers
	if chunk < minChunk {
		chunk = minChunk
	}

	if n <= chunk {
		flattenRange(dst, visible, 0, n)
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			flattenRange(dst, visible, start, end)
		}(start, end)
	}
	wg.Wait()
}

// flattenRange composites components [start, end) layer by layer. Ranges
// are disjoint across workers, so no locking is needed on dst.
func flattenRange(dst []color.Color, visible []*layers.Layer, start, end int) {
	for _, l := range visible {
		mode := l.Mode()
		cols := l.Colors()
		for k := start; k < end; k++ {
			dst[k] = color.Blend(dst[k], cols[k], mode)
		}
	}
}
