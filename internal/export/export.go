// Package export drives a project export end to end: validate the
// configuration, bake occlusion onto the mesh, flatten the layer stack,
// and pack every logical channel into its physical slot.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/strata3d/strata/internal/config"
	"github.com/strata3d/strata/internal/engine/composite"
	"github.com/strata3d/strata/internal/engine/layers"
	"github.com/strata3d/strata/internal/engine/occlusion"
	"github.com/strata3d/strata/internal/engine/packer"
	"github.com/strata3d/strata/internal/logger"
	"github.com/strata3d/strata/pkg/formats"
	"github.com/strata3d/strata/pkg/math"
	"github.com/strata3d/strata/pkg/mesh"
)

// OcclusionChannel is the material channel the bake writes into. A
// project without it skips baking entirely.
const OcclusionChannel = "occlusion"

// HistoryWarning tags meshes that still carry construction history.
// Advisory only, the export proceeds.
const HistoryWarning = "mesh has construction history; export reflects the current topology only"

// Provider hands the pipeline its geometry: the mesh identity, the bake
// source and topology, and the ray caster of the bake scene. A nil
// caster skips the occlusion bake.
type Provider interface {
	MeshName() string
	HasConstructionHistory() bool
	occlusion.Source
	occlusion.Topology
	Caster(cfg occlusion.Config) occlusion.Caster
}

// SceneProvider adapts a target mesh and its neighbors into a Provider;
// the caster traces against every mesh of the scene.
type SceneProvider struct {
	Target *mesh.Mesh
	Others []*mesh.Mesh
}

func (p *SceneProvider) MeshName() string             { return p.Target.Name }
func (p *SceneProvider) HasConstructionHistory() bool { return p.Target.HasConstructionHistory() }
func (p *SceneProvider) VertexCount() int             { return p.Target.VertexCount() }
func (p *SceneProvider) Position(i int) math.Vec3     { return p.Target.Position(i) }
func (p *SceneProvider) Normal(i int) math.Vec3       { return p.Target.Normal(i) }
func (p *SceneProvider) FaceVertexCount() int         { return p.Target.FaceVertexCount() }
func (p *SceneProvider) VertexOfFaceVertex(k int) int { return p.Target.VertexOfFaceVertex(k) }

// Caster builds the scene tracer for a bake.
func (p *SceneProvider) Caster(cfg occlusion.Config) occlusion.Caster {
	return mesh.NewTracer(p.Target, p.Others, mesh.TracerOptions{
		MeshOffset:   cfg.MeshOffset,
		GroundPlane:  cfg.GroundPlane,
		GroundScale:  cfg.GroundScale,
		GroundOffset: cfg.GroundOffset,
	})
}

// Unit is one finished export: the suffixed name, every packed channel,
// and advisory warnings that never block the export.
type Unit struct {
	Name     string
	Channels *packer.PackedChannels
	Warnings []string
}

// Process runs the whole pipeline for one mesh: validate the project,
// bake occlusion when the project maps an occlusion channel and the
// provider supplies a caster, flatten the active stack, classify its
// layers, pack everything, and name the unit by the suffix policy.
// Cancelling the context aborts the bake and fails the export.
func Process(ctx context.Context, p Provider, sets *layers.Sets, cfg *config.Config) (*Unit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stack := sets.Active()
	if stack.FaceVertexCount() != p.FaceVertexCount() {
		return nil, fmt.Errorf("stack has %d components, mesh %q has %d",
			stack.FaceVertexCount(), p.MeshName(), p.FaceVertexCount())
	}

	unit := &Unit{}
	if p.HasConstructionHistory() {
		unit.Warnings = append(unit.Warnings, HistoryWarning)
	}

	bakeCfg := cfg.BakeConfig()
	if ch := stack.Channel(OcclusionChannel); ch != nil {
		if caster := p.Caster(bakeCfg); caster != nil {
			start := time.Now()
			res, err := occlusion.Bake(ctx, p, caster, bakeCfg)
			if err != nil {
				return nil, fmt.Errorf("baking %q: %w", p.MeshName(), err)
			}
			occlusion.Apply(res, p, ch, bakeCfg.BlendWeight)
			if res.Degenerate > 0 {
				unit.Warnings = append(unit.Warnings,
					fmt.Sprintf("%d degenerate normals baked as fully exposed", res.Degenerate))
			}
			logger.Sugar.Debugw("occlusion baked",
				"mesh", p.MeshName(), "vertices", res.Completed, "rays", bakeCfg.RayCount)
			logger.Stage("bake", start)
		}
	}

	start := time.Now()
	albedo := composite.New(cfg.Workers).Flatten(stack)
	logger.Stage("flatten", start)

	for i, cls := range stack.ClassifyAll(cfg.AlphaToMaskLimit) {
		logger.Sugar.Debugw("layer classified",
			"layer", i+1, "name", stack.Layer(i+1).Name(), "markers", cls.Markers())
	}

	start = time.Now()
	packed, err := packer.Pack(stack, albedo, cfg.Mapping())
	if err != nil {
		return nil, fmt.Errorf("packing %q: %w", p.MeshName(), err)
	}
	logger.Stage("pack", start)

	unit.Channels = packed
	unit.Name = packer.ExportName(p.MeshName(), packer.Transparent(stack), cfg.Export.Suffix)
	return unit, nil
}

// SVC converts the unit into its archive form.
func (u *Unit) SVC() *formats.SVC {
	svc := &formats.SVC{
		Version: formats.SVCVersion,
		Name:    u.Name,
		Albedo:  make([][4]float32, len(u.Channels.Albedo)),
		Sets:    make([]formats.SVCSet, len(u.Channels.Sets)),
	}
	for k, c := range u.Channels.Albedo {
		svc.Albedo[k] = [4]float32{c.R, c.G, c.B, c.A}
	}
	for i, set := range u.Channels.Sets {
		svc.Sets[i].U = append([]float32(nil), set.U...)
		svc.Sets[i].V = append([]float32(nil), set.V...)
	}
	return svc
}
