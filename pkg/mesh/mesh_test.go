package mesh

import (
	"testing"

	"github.com/strata3d/strata/pkg/math"
)

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}

func vecApprox(a, b math.Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

// cubeMesh builds a quad cube spanning [-1, 1] on each axis with faces
// wound counter-clockwise seen from outside.
func cubeMesh() *Mesh {
	return &Mesh{
		Name: "cube",
		Positions: []math.Vec3{
			{X: -1, Y: -1, Z: -1},
			{X: 1, Y: -1, Z: -1},
			{X: 1, Y: 1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
			{X: 1, Y: -1, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: -1, Y: 1, Z: 1},
		},
		Faces: [][]int{
			{4, 5, 6, 7}, // +Z
			{1, 0, 3, 2}, // -Z
			{0, 4, 7, 3}, // -X
			{5, 1, 2, 6}, // +X
			{0, 1, 5, 4}, // -Y
			{3, 7, 6, 2}, // +Y
		},
	}
}

func TestFaceVertexTopology(t *testing.T) {
	m := cubeMesh()

	if got := m.FaceVertexCount(); got != 24 {
		t.Fatalf("FaceVertexCount = %d, want 24", got)
	}
	checks := map[int]int{0: 4, 3: 7, 4: 1, 7: 2, 23: 2}
	for k, want := range checks {
		if got := m.VertexOfFaceVertex(k); got != want {
			t.Errorf("VertexOfFaceVertex(%d) = %d, want %d", k, got, want)
		}
	}
}

func TestTriangles(t *testing.T) {
	m := cubeMesh()

	tris := m.Triangles()
	if len(tris) != 12 {
		t.Fatalf("got %d triangles, want 12", len(tris))
	}
	if tris[0] != [3]int{4, 5, 6} || tris[1] != [3]int{4, 6, 7} {
		t.Errorf("first quad fan = %v, %v, want [4 5 6], [4 6 7]", tris[0], tris[1])
	}
}

func TestTrianglesSkipsSmallFaces(t *testing.T) {
	m := &Mesh{
		Positions: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:     [][]int{{0, 1}, {0, 1, 2}},
	}
	if got := len(m.Triangles()); got != 1 {
		t.Errorf("got %d triangles, want 1", got)
	}
}

func TestBounds(t *testing.T) {
	m := cubeMesh()

	box := m.Bounds()
	wantMin := math.Vec3{X: -1, Y: -1, Z: -1}
	wantMax := math.Vec3{X: 1, Y: 1, Z: 1}
	if box.Min != wantMin || box.Max != wantMax {
		t.Fatalf("Bounds = %v..%v, want %v..%v", box.Min, box.Max, wantMin, wantMax)
	}
	if c := box.Center(); c != (math.Vec3{}) {
		t.Errorf("Center = %v, want origin", c)
	}
	if s := box.Size(); s != (math.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Size = %v, want (2,2,2)", s)
	}
}

func TestBoundsEmptyMesh(t *testing.T) {
	m := &Mesh{}
	if box := m.Bounds(); box != (AABB{}) {
		t.Errorf("empty mesh Bounds = %v, want zero box", box)
	}
}

func TestComputeNormalsFlatTriangle(t *testing.T) {
	m := &Mesh{
		Positions: []math.Vec3{{}, {Z: 1}, {X: 1}},
		Faces:     [][]int{{0, 1, 2}},
	}
	m.ComputeNormals()

	want := math.Vec3{Y: 1}
	for i, n := range m.Normals {
		if !vecApprox(n, want) {
			t.Errorf("normal %d = %v, want %v", i, n, want)
		}
	}
}

func TestComputeNormalsOutward(t *testing.T) {
	m := cubeMesh()
	m.ComputeNormals()

	for i, n := range m.Normals {
		if !approx(n.Length(), 1) {
			t.Errorf("normal %d has length %v, want 1", i, n.Length())
		}
		if n.Dot(m.Positions[i]) <= 0 {
			t.Errorf("normal %d = %v points inward at %v", i, n, m.Positions[i])
		}
	}
}

func TestComputeNormalsDegenerateFace(t *testing.T) {
	m := &Mesh{
		Positions: []math.Vec3{{}, {X: 1}, {X: 2}},
		Faces:     [][]int{{0, 1, 2}}, // collinear
	}
	m.ComputeNormals()

	for i, n := range m.Normals {
		if n != (math.Vec3{}) {
			t.Errorf("normal %d = %v, want zero for degenerate geometry", i, n)
		}
	}
}

// tentMesh builds two upward slopes meeting at a ridge along Z, with the
// ridge vertices duplicated between the faces.
func tentMesh() *Mesh {
	return &Mesh{
		Positions: []math.Vec3{
			{X: -1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 1},
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 1},
		},
		Faces: [][]int{{0, 2, 1}, {3, 5, 4}},
	}
}

func TestSmoothNormalsMergesDuplicates(t *testing.T) {
	m := tentMesh()
	m.ComputeNormals()

	// The 90 degree ridge folds each slope normal 45 degrees off the
	// average, inside the threshold.
	m.SmoothNormals(60)

	want := math.Vec3{Y: 1}
	for _, i := range []int{1, 2, 3, 5} {
		if !vecApprox(m.Normals[i], want) {
			t.Errorf("ridge normal %d = %v, want %v", i, m.Normals[i], want)
		}
	}
	if vecApprox(m.Normals[0], want) {
		t.Errorf("lone vertex 0 was smoothed to %v", m.Normals[0])
	}
}

func TestSmoothNormalsKeepsCreases(t *testing.T) {
	m := tentMesh()
	m.ComputeNormals()
	before := append([]math.Vec3(nil), m.Normals...)

	m.SmoothNormals(30)

	for i := range m.Normals {
		if m.Normals[i] != before[i] {
			t.Errorf("normal %d changed from %v to %v below the angle threshold", i, before[i], m.Normals[i])
		}
	}
}

func TestNormalMissing(t *testing.T) {
	m := &Mesh{Positions: []math.Vec3{{X: 1}}}
	if n := m.Normal(0); n != (math.Vec3{}) {
		t.Errorf("Normal without computed normals = %v, want zero", n)
	}
}

func TestAABBIntersectRay(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	tests := []struct {
		name    string
		origin  math.Vec3
		dir     math.Vec3
		maxDist float32
		want    bool
	}{
		{"toward box", math.Vec3{Z: 5}, math.Vec3{Z: -1}, 10, true},
		{"away from box", math.Vec3{Z: 5}, math.Vec3{Z: 1}, 10, false},
		{"from inside", math.Vec3{}, math.Vec3{X: 1}, 10, true},
		{"beyond max distance", math.Vec3{Z: 5}, math.Vec3{Z: -1}, 3, false},
		{"parallel miss", math.Vec3{X: 5, Z: 5}, math.Vec3{Z: -1}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := box.IntersectRay(tt.origin, tt.dir, tt.maxDist); got != tt.want {
				t.Errorf("IntersectRay = %v, want %v", got, tt.want)
			}
		})
	}

	if d, ok := box.IntersectRay(math.Vec3{Z: 5}, math.Vec3{Z: -1}, 10); !ok || !approx(d, 4) {
		t.Errorf("entry distance = %v (hit=%v), want 4", d, ok)
	}
}
