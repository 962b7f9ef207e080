// stratatool is a CLI utility for working with strata layer projects and
// packed SVC vertex archives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	gomath "math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/strata3d/strata/internal/config"
	"github.com/strata3d/strata/internal/engine/layers"
	"github.com/strata3d/strata/internal/engine/occlusion"
	"github.com/strata3d/strata/internal/engine/packer"
	"github.com/strata3d/strata/internal/export"
	"github.com/strata3d/strata/internal/logger"
	"github.com/strata3d/strata/internal/preview"
	"github.com/strata3d/strata/pkg/formats"
	"github.com/strata3d/strata/pkg/mesh"
)

const logFileName = "stratatool.log"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "init":
		cmdInit(args)
	case "validate":
		cmdValidate(args)
	case "info":
		cmdInfo(args)
	case "bake":
		cmdBake(args)
	case "export":
		cmdExport(args)
	case "preview":
		cmdPreview(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`stratatool - vertex layer compositing and export utility

Usage:
  stratatool <command> [options]

Commands:
  init [-f] [-o file]           Write a default project file
  validate [-project file]      Check a project file and its channel budget
  info <mesh.obj | file.svc>    Show mesh or archive information
  bake [options] <mesh.obj>     Bake vertex occlusion and report statistics
  export [options] <mesh.obj>   Compose, bake and pack a mesh into an SVC archive
  preview [options] <mesh.obj>  Render the composite or one channel to an image

Examples:
  stratatool init
  stratatool validate
  stratatool bake -scene room.obj -o chair_ao.svc chair.obj
  stratatool export -scene room.obj chair.obj
  stratatool preview -channel occlusion -yaw 30 -o ao.webp chair.obj`)
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	out := fs.String("o", config.ProjectFileName, "Output path")
	force := fs.Bool("f", false, "Overwrite an existing file")
	fs.Parse(args)

	if !*force {
		if _, err := os.Stat(*out); err == nil {
			fmt.Fprintf(os.Stderr, "%s already exists, use -f to overwrite\n", *out)
			os.Exit(1)
		}
	}

	cfg := config.Default()
	if err := cfg.SaveTo(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created: %s\n", *out)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	project := fs.String("project", "", "Project file (default: ./"+config.ProjectFileName+")")
	fs.Parse(args)

	cfg, err := config.Load(*project, config.Overrides{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "%d problem(s):\n", len(verr.Problems))
			for _, p := range verr.Problems {
				fmt.Fprintf(os.Stderr, "  - %s\n", p)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	m := cfg.Mapping()
	demand := cfg.Layers.Count + len(m.Channels) + len(m.AlphaOverlays) + 4*len(m.RGBAOverlays)

	fmt.Printf("Project:  %s\n", cfg.Name)
	fmt.Printf("Layers:   %d\n", cfg.Layers.Count)
	fmt.Printf("Channels: %d material, %d alpha overlay, %d rgba overlay\n",
		len(m.Channels), len(m.AlphaOverlays), len(m.RGBAOverlays))
	fmt.Printf("Budget:   %d of %d scalar slots over %d UV sets\n", demand, 2*m.UVSets, m.UVSets)
	fmt.Println("OK")
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: stratatool info <mesh.obj | file.svc>")
		os.Exit(1)
	}

	if strings.ToLower(filepath.Ext(args[0])) == ".svc" {
		svcInfo(args[0])
		return
	}
	meshInfo(args[0])
}

func meshInfo(path string) {
	m := loadMesh(path)

	degenerate := 0
	for _, face := range m.Faces {
		if len(face) < 3 {
			degenerate++
		}
	}
	b := m.Bounds()

	fmt.Printf("Mesh:        %s\n", m.Name)
	fmt.Printf("Vertices:    %d\n", m.VertexCount())
	fmt.Printf("Faces:       %d\n", len(m.Faces))
	fmt.Printf("Triangles:   %d\n", len(m.Triangles()))
	fmt.Printf("Components:  %d\n", m.FaceVertexCount())
	fmt.Printf("Bounds:      (%.3g, %.3g, %.3g) .. (%.3g, %.3g, %.3g)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Printf("Degenerate:  %d faces\n", degenerate)
}

func svcInfo(path string) {
	svc, err := formats.ParseSVCFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	transparent := false
	for _, c := range svc.Albedo {
		if c[3] < 1 {
			transparent = true
			break
		}
	}

	fmt.Printf("Name:        %s\n", svc.Name)
	fmt.Printf("Version:     %d\n", svc.Version)
	fmt.Printf("Components:  %d\n", svc.FaceVertexCount())
	fmt.Printf("UV sets:     %d\n", len(svc.Sets))
	if transparent {
		fmt.Println("Transparent: yes")
	} else {
		fmt.Println("Transparent: no")
	}
}

func cmdBake(args []string) {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	project := fs.String("project", "", "Project file (default: ./"+config.ProjectFileName+")")
	scene := fs.String("scene", "", "Comma-separated occluder OBJ files")
	seed := fs.Int64("seed", 0, "Override the bake seed")
	workers := fs.Int("workers", 0, "Worker count (0 = all cores)")
	out := fs.String("o", "", "Write an archive with only occlusion filled")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: stratatool bake [options] <mesh.obj>")
		os.Exit(1)
	}

	cfg := loadProject(fs, *project, *seed, *workers)
	if err := logger.Init(cfg.LogLevel, logFileName); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := loadMesh(fs.Arg(0))
	provider := &export.SceneProvider{Target: target, Others: loadScene(*scene)}
	bakeCfg := cfg.BakeConfig()

	start := time.Now()
	res, err := occlusion.Bake(ctx, provider, provider.Caster(bakeCfg), bakeCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var sum float32
	for _, s := range res.Samples {
		sum += 1 - s.Combined(bakeCfg.BlendWeight)
	}

	fmt.Printf("Baked:      %d vertices, %d rays each\n", res.Completed, bakeCfg.RayCount)
	fmt.Printf("Degenerate: %d\n", res.Degenerate)
	fmt.Printf("Openness:   %.3f mean\n", sum/float32(len(res.Samples)))
	fmt.Printf("Duration:   %s\n", time.Since(start).Round(time.Millisecond))

	if *out != "" {
		svc, err := occlusionArchive(target, cfg, res, bakeCfg.BlendWeight)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := formats.WriteSVCFile(*out, svc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote:      %s\n", *out)
	}
}

// occlusionArchive packs a bake result into an archive where only the
// occlusion slot carries data. The albedo holds the same openness as gray
// so the archive previews directly.
func occlusionArchive(m *mesh.Mesh, cfg *config.Config, res *occlusion.Result, weight float32) (*formats.SVC, error) {
	slot, ok := channelSlot(cfg, export.OcclusionChannel)
	if !ok {
		return nil, fmt.Errorf("project has no %s channel", export.OcclusionChannel)
	}

	fv := m.FaceVertexCount()
	svc := &formats.SVC{
		Version: formats.SVCVersion,
		Name:    m.Name,
		Albedo:  make([][4]float32, fv),
		Sets:    make([]formats.SVCSet, cfg.UVSets),
	}
	for i := range svc.Sets {
		svc.Sets[i].U = make([]float32, fv)
		svc.Sets[i].V = make([]float32, fv)
	}

	vals := svc.Sets[slot.Set-1].U
	if slot.Axis == packer.AxisV {
		vals = svc.Sets[slot.Set-1].V
	}
	for k := 0; k < fv; k++ {
		open := 1 - res.Samples[m.VertexOfFaceVertex(k)].Combined(weight)
		vals[k] = open
		svc.Albedo[k] = [4]float32{open, open, open, 1}
	}
	return svc, nil
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	project := fs.String("project", "", "Project file (default: ./"+config.ProjectFileName+")")
	scene := fs.String("scene", "", "Comma-separated occluder OBJ files")
	seed := fs.Int64("seed", 0, "Override the bake seed")
	workers := fs.Int("workers", 0, "Worker count (0 = all cores)")
	out := fs.String("o", "", "Output path (default: <export name>.svc)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: stratatool export [options] <mesh.obj>")
		os.Exit(1)
	}

	cfg := loadProject(fs, *project, *seed, *workers)
	if err := logger.Init(cfg.LogLevel, logFileName); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := loadMesh(fs.Arg(0))
	unit := runPipeline(ctx, cfg, target, loadScene(*scene))

	outPath := *out
	if outPath == "" {
		outPath = unit.Name + ".svc"
	}
	if err := formats.WriteSVCFile(outPath, unit.SVC()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported: %s (%d components, %d sets)\n",
		outPath, len(unit.Channels.Albedo), len(unit.Channels.Sets))
}

func cmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	project := fs.String("project", "", "Project file (default: ./"+config.ProjectFileName+")")
	scene := fs.String("scene", "", "Comma-separated occluder OBJ files")
	seed := fs.Int64("seed", 0, "Override the bake seed")
	workers := fs.Int("workers", 0, "Worker count (0 = all cores)")
	channel := fs.String("channel", "", "Render one material channel as grayscale")
	yaw := fs.Float64("yaw", 0, "Turntable rotation in degrees")
	size := fs.Int("size", 0, "Image size in pixels")
	out := fs.String("o", "preview.webp", "Output image (.webp, .tga or .png)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: stratatool preview [options] <mesh.obj>")
		os.Exit(1)
	}

	cfg := loadProject(fs, *project, *seed, *workers)
	if err := logger.Init(cfg.LogLevel, logFileName); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := loadMesh(fs.Arg(0))
	unit := runPipeline(ctx, cfg, target, loadScene(*scene))

	opts := preview.Options{
		Width:  *size,
		Height: *size,
		Yaw:    float32(*yaw * gomath.Pi / 180),
	}

	var img *image.NRGBA
	var err error
	if *channel != "" {
		slot, ok := channelSlot(cfg, *channel)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: project has no %s channel\n", *channel)
			os.Exit(1)
		}
		set := unit.Channels.Sets[slot.Set-1]
		vals := set.U
		if slot.Axis == packer.AxisV {
			vals = set.V
		}
		img, err = preview.RenderScalar(target, vals, opts)
	} else {
		img, err = preview.Render(target, unit.Channels.Albedo, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := preview.SaveImage(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote: %s\n", *out)
}

// runPipeline composes, bakes and packs the target mesh with the project
// configuration, printing warnings as they surface.
func runPipeline(ctx context.Context, cfg *config.Config, target *mesh.Mesh, others []*mesh.Mesh) *export.Unit {
	stack, err := cfg.NewStack(target.FaceVertexCount())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	provider := &export.SceneProvider{Target: target, Others: others}
	unit, err := export.Process(ctx, provider, layers.NewSets(stack), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range unit.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return unit
}

// channelSlot looks up a material channel's packed slot by name.
func channelSlot(cfg *config.Config, name string) (packer.Slot, bool) {
	for _, ch := range cfg.Mapping().Channels {
		if ch.Name == name {
			return ch.Slot, true
		}
	}
	return packer.Slot{}, false
}

// loadProject loads the project file with CLI overrides applied. The seed
// override only takes effect when the flag was given, so a project can keep
// seed 0.
func loadProject(fs *flag.FlagSet, path string, seed int64, workers int) *config.Config {
	overrides := config.Overrides{Workers: workers}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			overrides.Seed = seed
			overrides.SeedSet = true
		}
	})

	cfg, err := config.Load(path, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func loadMesh(path string) *mesh.Mesh {
	m, err := mesh.LoadOBJ(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return m
}

// loadScene loads the comma-separated occluder meshes, which may be empty.
func loadScene(list string) []*mesh.Mesh {
	var meshes []*mesh.Mesh
	for _, path := range strings.Split(list, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		meshes = append(meshes, loadMesh(path))
	}
	return meshes
}
