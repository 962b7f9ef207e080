// Package mesh provides polygon meshes with face-vertex topology, Wavefront
// OBJ loading, and the ray casting used by occlusion bakes.
package mesh

import (
	gomath "math"

	"github.com/strata3d/strata/pkg/math"
)

// Mesh is a polygon mesh with per-vertex positions and normals. Faces index
// into Positions and may have any arity of three or more. Color and channel
// data attach at face-vertex granularity: face-vertex k of face f is the
// k-th corner of that face, numbered consecutively across faces in order.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	Faces     [][]int

	// faceVertex maps flattened face-vertex indices to vertex indices.
	// Built on first use; Faces must not change afterwards.
	faceVertex []int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math.Vec3 { return m.Positions[i] }

// Normal returns the normal of vertex i, or the zero vector if normals
// have not been computed.
func (m *Mesh) Normal(i int) math.Vec3 {
	if i < len(m.Normals) {
		return m.Normals[i]
	}
	return math.Vec3{}
}

func (m *Mesh) ensureTopology() {
	if m.faceVertex != nil {
		return
	}
	total := 0
	for _, face := range m.Faces {
		total += len(face)
	}
	m.faceVertex = make([]int, 0, total)
	for _, face := range m.Faces {
		m.faceVertex = append(m.faceVertex, face...)
	}
}

// FaceVertexCount returns the total number of face-vertices, the sum of
// all face arities. Layer buffers are sized by this count.
func (m *Mesh) FaceVertexCount() int {
	m.ensureTopology()
	return len(m.faceVertex)
}

// VertexOfFaceVertex returns the vertex index behind face-vertex k.
func (m *Mesh) VertexOfFaceVertex(k int) int {
	m.ensureTopology()
	return m.faceVertex[k]
}

// Triangles returns the faces fan-triangulated into vertex index triples.
// Faces with fewer than three vertices are skipped.
func (m *Mesh) Triangles() [][3]int {
	var tris [][3]int
	for _, face := range m.Faces {
		for i := 2; i < len(face); i++ {
			tris = append(tris, [3]int{face[0], face[i-1], face[i]})
		}
	}
	return tris
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() AABB {
	if len(m.Positions) == 0 {
		return AABB{}
	}
	box := AABB{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		box.Expand(p)
	}
	return box
}

// HasConstructionHistory reports whether the mesh still carries modeling
// history that could invalidate a bake. Meshes loaded from OBJ never do.
func (m *Mesh) HasConstructionHistory() bool { return false }

// ComputeNormals rebuilds per-vertex normals as the area-weighted average
// of adjacent face normals. Degenerate faces contribute nothing; a vertex
// touched only by degenerate faces keeps a zero normal.
func (m *Mesh) ComputeNormals() {
	normals := make([]math.Vec3, len(m.Positions))
	for _, tri := range m.Triangles() {
		a := m.Positions[tri[0]]
		b := m.Positions[tri[1]]
		c := m.Positions[tri[2]]

		// Cross product length is twice the triangle area, so summing
		// unnormalized face normals weights by area.
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Length() < 1e-5 {
			continue
		}
		for _, vi := range tri {
			normals[vi] = normals[vi].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}

// SmoothNormals averages normals across vertices that share a quantized
// position, so seams between duplicated vertices shade smoothly. A normal
// deviating from the shared average by more than angleDeg is left alone,
// preserving hard creases. Call after ComputeNormals.
func (m *Mesh) SmoothNormals(angleDeg float32) {
	if len(m.Normals) < len(m.Positions) {
		return
	}
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup.
	posMap := make(map[[3]int32][]int)
	for i, p := range m.Positions {
		key := [3]int32{
			int32(p.X / epsilon),
			int32(p.Y / epsilon),
			int32(p.Z / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	minDot := float32(gomath.Cos(float64(angleDeg) * gomath.Pi / 180))
	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(m.Normals[idx])
		}
		if sum.Length() < 1e-5 {
			continue
		}
		avg := sum.Normalize()
		for _, idx := range idxs {
			if m.Normals[idx].Dot(avg) >= minDot {
				m.Normals[idx] = avg
			}
		}
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Expand grows the box to contain p.
func (b *AABB) Expand(p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// IntersectRay tests the ray against the box using the slab method.
// Returns the entry distance, or the exit distance when the origin is
// inside, and whether the box is hit within maxDist.
func (b AABB) IntersectRay(origin, dir math.Vec3, maxDist float32) (float32, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	// X slab
	if dir.X != 0 {
		t1 := (b.Min.X - origin.X) / dir.X
		t2 := (b.Max.X - origin.X) / dir.X
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.X < b.Min.X || origin.X > b.Max.X {
		return 0, false
	}

	// Y slab
	if dir.Y != 0 {
		t1 := (b.Min.Y - origin.Y) / dir.Y
		t2 := (b.Max.Y - origin.Y) / dir.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Y < b.Min.Y || origin.Y > b.Max.Y {
		return 0, false
	}

	// Z slab
	if dir.Z != 0 {
		t1 := (b.Min.Z - origin.Z) / dir.Z
		t2 := (b.Max.Z - origin.Z) / dir.Z
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Z < b.Min.Z || origin.Z > b.Max.Z {
		return 0, false
	}

	if tmax < tmin || tmax < 0 || tmin > maxDist {
		return 0, false
	}

	// Entry point, or exit point if starting inside.
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
