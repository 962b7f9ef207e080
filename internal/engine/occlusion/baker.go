// Package occlusion bakes per-vertex ambient occlusion by Monte-Carlo
// hemisphere sampling, with separate estimates against the owning mesh and
// against the whole bake scene.
package occlusion

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/strata3d/strata/internal/engine/layers"
	"github.com/strata3d/strata/pkg/math"
)

// Normals shorter than this are treated as degenerate.
const minNormalLength = 1e-5

// Vertices are handed to workers in batches; cancellation is checked per
// batch.
const batchSize = 64

// Source is the per-vertex geometry of the mesh being baked.
type Source interface {
	VertexCount() int
	Position(i int) math.Vec3
	Normal(i int) math.Vec3
}

// Caster answers ray queries against the bake scene. CastSelf tests only
// the mesh being baked; CastScene tests every mesh plus the optional
// ground plane.
type Caster interface {
	CastSelf(origin, dir math.Vec3, maxDist float32) bool
	CastScene(origin, dir math.Vec3, maxDist float32) bool
}

// Topology fans per-vertex samples out to face-vertex components.
type Topology interface {
	FaceVertexCount() int
	VertexOfFaceVertex(k int) int
}

// Config carries every knob of a bake. MeshOffset and the ground plane
// fields are consumed by the caster provider when the scene is built; they
// live here so one struct configures a bake end to end.
type Config struct {
	RayCount     int
	MaxDistance  float32
	SourceOffset float32
	MeshOffset   float32
	BlendWeight  float32
	GroundPlane  bool
	GroundScale  float32
	GroundOffset float32
	Seed         int64
	Workers      int
}

// DefaultConfig returns the stock bake parameters.
func DefaultConfig() Config {
	return Config{
		RayCount:     250,
		MaxDistance:  10,
		SourceOffset: 1e-6,
		MeshOffset:   0.9,
		BlendWeight:  0.5,
		GroundPlane:  true,
		GroundScale:  100,
		GroundOffset: 1,
		Seed:         1,
	}
}

// Sample is one vertex's occlusion estimate: the fraction of rays that hit
// something. 0 is fully exposed, 1 fully occluded.
type Sample struct {
	Self   float32
	Global float32
}

// Combined blends the self and scene estimates; weight 0 is pure self,
// weight 1 pure scene.
func (s Sample) Combined(weight float32) float32 {
	return s.Self + (s.Global-s.Self)*weight
}

// Result holds the bake output. After cancellation, samples for Completed
// vertices are final and the rest remain zero; Degenerate counts vertices
// whose normal had no usable direction.
type Result struct {
	Samples    []Sample
	Degenerate int
	Completed  int
}

// Bake estimates occlusion for every vertex of src, testing the identical
// ray set against the mesh itself and against the scene. Degenerate
// normals are recovered as fully exposed and counted, never fatal. The
// context cancels the bake between batches; the partial result is
// returned along with the context's error.
func Bake(ctx context.Context, src Source, caster Caster, cfg Config) (*Result, error) {
	if cfg.RayCount <= 0 {
		return nil, fmt.Errorf("ray count must be positive, got %d", cfg.RayCount)
	}
	if cfg.MaxDistance <= 0 {
		return nil, fmt.Errorf("max distance must be positive, got %v", cfg.MaxDistance)
	}

	n := src.VertexCount()
	res := &Result{Samples: make([]Sample, n)}
	if n == 0 {
		return res, nil
	}

	dirs := Hemisphere(cfg.RayCount, cfg.Seed)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	type span struct{ start, end int }
	spans := make(chan span)

	var (
		wg         sync.WaitGroup
		degenerate atomic.Int64
		completed  atomic.Int64
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sp := range spans {
				for v := sp.start; v < sp.end; v++ {
					sample, bad := bakeVertex(src, caster, dirs, cfg, v)
					res.Samples[v] = sample
					if bad {
						degenerate.Add(1)
					}
				}
				completed.Add(int64(sp.end - sp.start))
			}
		}()
	}

feed:
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		select {
		case spans <- span{start, end}:
		case <-ctx.Done():
			break feed
		}
	}
	close(spans)
	wg.Wait()

	res.Degenerate = int(degenerate.Load())
	res.Completed = int(completed.Load())
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func bakeVertex(src Source, caster Caster, dirs []math.Vec3, cfg Config, v int) (Sample, bool) {
	normal := src.Normal(v)
	if normal.Length() < minNormalLength {
		return Sample{}, true
	}
	normal = normal.Normalize()

	origin := src.Position(v).Add(normal.Scale(cfg.SourceOffset))
	rot := math.QuatBetween(math.Vec3{Z: 1}, normal)

	var selfHits, sceneHits int
	for _, d := range dirs {
		dir := rot.Rotate(d)
		if caster.CastSelf(origin, dir, cfg.MaxDistance) {
			selfHits++
		}
		if caster.CastScene(origin, dir, cfg.MaxDistance) {
			sceneHits++
		}
	}

	count := float32(len(dirs))
	return Sample{
		Self:   float32(selfHits) / count,
		Global: float32(sceneHits) / count,
	}, false
}

// Apply writes the blended occlusion into a material channel as an
// openness map: 1 fully lit, 0 fully occluded, matching the channel's
// opaque-white default. Vertex samples fan out to face-vertex components
// through the topology.
func Apply(res *Result, topo Topology, ch *layers.MaterialChannel, weight float32) {
	for k := 0; k < topo.FaceVertexCount(); k++ {
		v := topo.VertexOfFaceVertex(k)
		ch.SetScalar(k, 1-res.Samples[v].Combined(weight))
	}
}
