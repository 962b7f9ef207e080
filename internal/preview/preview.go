// Package preview renders meshes with per-vertex colors into images
// without a GPU: an orthographic software rasterizer for checking what an
// export will look like.
package preview

import (
	"fmt"
	"image"
	gomath "math"

	"github.com/strata3d/strata/internal/engine/color"
	"github.com/strata3d/strata/pkg/math"
	"github.com/strata3d/strata/pkg/mesh"
)

// Options frames a render.
type Options struct {
	Width  int     // output width in pixels, default 512
	Height int     // output height in pixels, default 512
	Yaw    float32 // turntable rotation around Y, radians
}

const (
	defaultSize = 512

	// Frame fraction kept clear around the mesh.
	margin = 0.05

	// Rendered at twice the output size, then filtered down.
	supersample = 2
)

// Render rasterizes the mesh with one color per face-vertex component,
// orthographically fit to the frame, Y up. The background stays
// transparent.
func Render(m *mesh.Mesh, colors []color.Color, opts Options) (*image.NRGBA, error) {
	if len(colors) != m.FaceVertexCount() {
		return nil, fmt.Errorf("mesh has %d components, got %d colors",
			m.FaceVertexCount(), len(colors))
	}

	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = defaultSize
	}
	if h <= 0 {
		h = defaultSize
	}

	big := image.NewNRGBA(image.Rect(0, 0, w*supersample, h*supersample))
	if len(m.Positions) > 0 && len(m.Faces) > 0 {
		rasterize(big, m, colors, opts.Yaw)
	}
	return Downsample(big, w, h), nil
}

// RenderScalar renders one scalar per face-vertex as opaque grayscale,
// for checking mask and material slots.
func RenderScalar(m *mesh.Mesh, values []float32, opts Options) (*image.NRGBA, error) {
	colors := make([]color.Color, len(values))
	for k, v := range values {
		colors[k] = color.Gray(color.Clamp01(v))
	}
	return Render(m, colors, opts)
}

// rasterize draws every triangle of the mesh into dst with a z-buffer.
// The view is orthographic: the mesh spins around its center by yaw, then
// the rotated bounds are fit to the frame with a uniform scale.
func rasterize(dst *image.NRGBA, m *mesh.Mesh, colors []color.Color, yaw float32) {
	sw := dst.Bounds().Dx()
	sh := dst.Bounds().Dy()

	center := m.Bounds().Center()
	view := math.RotateY(yaw).Mul(math.Translate(-center.X, -center.Y, -center.Z))

	viewPos := make([]math.Vec3, len(m.Positions))
	lo := math.Vec3{X: gomath.MaxFloat32, Y: gomath.MaxFloat32, Z: gomath.MaxFloat32}
	hi := math.Vec3{X: -gomath.MaxFloat32, Y: -gomath.MaxFloat32, Z: -gomath.MaxFloat32}
	for i, p := range m.Positions {
		v := view.TransformVec3(p)
		viewPos[i] = v
		if v.X < lo.X {
			lo.X = v.X
		}
		if v.Y < lo.Y {
			lo.Y = v.Y
		}
		if v.Z < lo.Z {
			lo.Z = v.Z
		}
		if v.X > hi.X {
			hi.X = v.X
		}
		if v.Y > hi.Y {
			hi.Y = v.Y
		}
		if v.Z > hi.Z {
			hi.Z = v.Z
		}
	}

	ex := hi.X - lo.X
	ey := hi.Y - lo.Y
	if ex <= 0 {
		ex = 1
	}
	if ey <= 0 {
		ey = 1
	}
	usable := float32(1 - 2*margin)
	scale := usable * float32(sw) / ex
	if s := usable * float32(sh) / ey; s < scale {
		scale = s
	}

	cx := (lo.X + hi.X) / 2
	cy := (lo.Y + hi.Y) / 2
	halfW := float32(sw) / scale / 2
	halfH := float32(sh) / scale / 2
	zpad := (hi.Z-lo.Z)*margin + 1e-3

	proj := math.Ortho(cx-halfW, cx+halfW, cy-halfH, cy+halfH, -(hi.Z + zpad), -(lo.Z - zpad))
	screen := math.Scale(float32(sw)/2, -float32(sh)/2, 1).Mul(math.Translate(1, -1, 0))
	mvp := screen.Mul(proj)

	pts := make([]math.Vec3, len(viewPos))
	for i, v := range viewPos {
		pts[i] = mvp.TransformVec3(v)
	}

	zbuf := make([]float32, sw*sh)
	for i := range zbuf {
		zbuf[i] = gomath.MaxFloat32
	}

	k0 := 0
	for _, face := range m.Faces {
		for i := 2; i < len(face); i++ {
			shadeTriangle(dst, zbuf, sw, sh,
				pts[face[0]], pts[face[i-1]], pts[face[i]],
				colors[k0], colors[k0+i-1], colors[k0+i])
		}
		k0 += len(face)
	}
}

// shadeTriangle fills one screen-space triangle, interpolating color and
// depth barycentrically. Both windings are drawn.
func shadeTriangle(dst *image.NRGBA, zbuf []float32, sw, sh int, a, b, c math.Vec3, ca, cb, cc color.Color) {
	area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if area > -1e-6 && area < 1e-6 {
		return
	}

	minX := clampInt(int(min3(a.X, b.X, c.X)), 0, sw-1)
	maxX := clampInt(int(max3(a.X, b.X, c.X))+1, 0, sw-1)
	minY := clampInt(int(min3(a.Y, b.Y, c.Y)), 0, sh-1)
	maxY := clampInt(int(max3(a.Y, b.Y, c.Y))+1, 0, sh-1)

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			x := float32(px) + 0.5
			y := float32(py) + 0.5

			w0 := (c.X-b.X)*(y-b.Y) - (c.Y-b.Y)*(x-b.X)
			w1 := (a.X-c.X)*(y-c.Y) - (a.Y-c.Y)*(x-c.X)
			w2 := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
			if (w0 < 0 || w1 < 0 || w2 < 0) && (w0 > 0 || w1 > 0 || w2 > 0) {
				continue
			}

			l0 := w0 / area
			l1 := w1 / area
			l2 := w2 / area

			z := l0*a.Z + l1*b.Z + l2*c.Z
			idx := py*sw + px
			if z >= zbuf[idx] {
				continue
			}
			zbuf[idx] = z

			di := dst.PixOffset(px, py)
			dst.Pix[di+0] = scale8(l0*ca.R + l1*cb.R + l2*cc.R)
			dst.Pix[di+1] = scale8(l0*ca.G + l1*cb.G + l2*cc.G)
			dst.Pix[di+2] = scale8(l0*ca.B + l1*cb.B + l2*cc.B)
			dst.Pix[di+3] = scale8(l0*ca.A + l1*cb.A + l2*cc.A)
		}
	}
}

func scale8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
