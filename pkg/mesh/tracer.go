package mesh

import (
	"github.com/strata3d/strata/pkg/math"
)

const rayEpsilon = 1e-7

// TracerOptions controls how the bake scene is assembled.
type TracerOptions struct {
	// MeshOffset shrinks every triangle toward its centroid by this
	// factor before casting, so rays leaving a surface do not graze the
	// shared edges of adjacent faces. Values outside (0, 1] disable the
	// shrink.
	MeshOffset float32
	// GroundPlane adds a square catcher plane below the scene.
	GroundPlane  bool
	GroundScale  float32
	GroundOffset float32
}

type triangle struct {
	a, b, c math.Vec3
}

// Tracer casts occlusion rays against two triangle sets built from the
// same meshes with identical treatment: the bake target alone ("self")
// and the target plus all other meshes and the optional ground plane
// ("scene").
type Tracer struct {
	self     []triangle
	scene    []triangle
	selfBox  AABB
	sceneBox AABB
}

// NewTracer assembles a bake scene around target. The other meshes only
// ever occlude; they are never bake targets themselves. The ground plane
// is a two-triangle square of side GroundScale centered under the scene
// bounds, GroundOffset below the lowest vertex.
func NewTracer(target *Mesh, others []*Mesh, opts TracerOptions) *Tracer {
	offset := opts.MeshOffset
	if offset <= 0 || offset > 1 {
		offset = 1
	}

	self := shrunkTriangles(target, offset)
	scene := make([]triangle, len(self), len(self)+2)
	copy(scene, self)

	bounds := target.Bounds()
	for _, other := range others {
		if len(other.Positions) == 0 {
			continue
		}
		scene = append(scene, shrunkTriangles(other, offset)...)
		b := other.Bounds()
		bounds.Expand(b.Min)
		bounds.Expand(b.Max)
	}
	if opts.GroundPlane && opts.GroundScale > 0 {
		for _, tri := range groundTriangles(bounds, opts.GroundScale, opts.GroundOffset) {
			scene = append(scene, shrink(tri, offset))
		}
	}

	return &Tracer{
		self:     self,
		scene:    scene,
		selfBox:  triangleBounds(self),
		sceneBox: triangleBounds(scene),
	}
}

// CastSelf reports whether the ray hits the bake target itself within
// maxDist.
func (t *Tracer) CastSelf(origin, dir math.Vec3, maxDist float32) bool {
	return castSet(t.self, t.selfBox, origin, dir, maxDist)
}

// CastScene reports whether the ray hits anything in the scene within
// maxDist.
func (t *Tracer) CastScene(origin, dir math.Vec3, maxDist float32) bool {
	return castSet(t.scene, t.sceneBox, origin, dir, maxDist)
}

func castSet(tris []triangle, box AABB, origin, dir math.Vec3, maxDist float32) bool {
	if len(tris) == 0 {
		return false
	}
	if _, ok := box.IntersectRay(origin, dir, maxDist); !ok {
		return false
	}
	for _, tri := range tris {
		if intersectTriangle(origin, dir, tri, maxDist) {
			return true
		}
	}
	return false
}

// intersectTriangle is the Möller-Trumbore test without backface culling.
// Hits at t <= rayEpsilon are ignored so a ray leaving a surface does not
// report its own triangle.
func intersectTriangle(origin, dir math.Vec3, tri triangle, maxDist float32) bool {
	e1 := tri.b.Sub(tri.a)
	e2 := tri.c.Sub(tri.a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -rayEpsilon && det < rayEpsilon {
		return false
	}
	inv := 1 / det
	s := origin.Sub(tri.a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return false
	}
	t := e2.Dot(q) * inv
	return t > rayEpsilon && t <= maxDist
}

func shrunkTriangles(m *Mesh, offset float32) []triangle {
	idx := m.Triangles()
	tris := make([]triangle, 0, len(idx))
	for _, t := range idx {
		tri := triangle{
			a: m.Positions[t[0]],
			b: m.Positions[t[1]],
			c: m.Positions[t[2]],
		}
		tris = append(tris, shrink(tri, offset))
	}
	return tris
}

func shrink(t triangle, offset float32) triangle {
	if offset == 1 {
		return t
	}
	c := t.a.Add(t.b).Add(t.c).Scale(1.0 / 3.0)
	return triangle{
		a: c.Add(t.a.Sub(c).Scale(offset)),
		b: c.Add(t.b.Sub(c).Scale(offset)),
		c: c.Add(t.c.Sub(c).Scale(offset)),
	}
}

func groundTriangles(scene AABB, scale, offset float32) []triangle {
	center := scene.Center()
	y := scene.Min.Y - offset
	h := scale / 2
	a := math.Vec3{X: center.X - h, Y: y, Z: center.Z - h}
	b := math.Vec3{X: center.X + h, Y: y, Z: center.Z - h}
	c := math.Vec3{X: center.X + h, Y: y, Z: center.Z + h}
	d := math.Vec3{X: center.X - h, Y: y, Z: center.Z + h}
	return []triangle{{a, b, c}, {a, c, d}}
}

func triangleBounds(tris []triangle) AABB {
	if len(tris) == 0 {
		return AABB{}
	}
	box := AABB{Min: tris[0].a, Max: tris[0].a}
	for _, tri := range tris {
		box.Expand(tri.a)
		box.Expand(tri.b)
		box.Expand(tri.c)
	}
	return box
}
