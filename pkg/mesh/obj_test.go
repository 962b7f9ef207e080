package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strata3d/strata/pkg/math"
)

func TestParseOBJQuad(t *testing.T) {
	src := `# comment
o box
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`
	m, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if m.Name != "box" {
		t.Errorf("Name = %q, want %q", m.Name, "box")
	}
	if len(m.Positions) != 4 {
		t.Fatalf("got %d positions, want 4", len(m.Positions))
	}
	if len(m.Faces) != 1 || len(m.Faces[0]) != 4 {
		t.Fatalf("Faces = %v, want one quad", m.Faces)
	}
	if m.FaceVertexCount() != 4 {
		t.Errorf("FaceVertexCount = %d, want 4", m.FaceVertexCount())
	}
	want := math.Vec3{Z: 1}
	for i, n := range m.Normals {
		if n != want {
			t.Errorf("normal %d = %v, want %v", i, n, want)
		}
	}
}

func TestParseOBJSlashForms(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1
`
	m, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if m.Faces[0][2] != 2 {
		t.Errorf("face = %v, want [0 1 2]", m.Faces[0])
	}
	if m.Normals[2] != (math.Vec3{Z: 1}) {
		t.Errorf("normal 2 = %v, want (0,0,1)", m.Normals[2])
	}
}

func TestParseOBJComputesMissingNormals(t *testing.T) {
	src := `v 0 0 0
v 0 0 1
v 1 0 0
f 1 2 3
`
	m, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	want := math.Vec3{Y: 1}
	for i, n := range m.Normals {
		if !vecApprox(n, want) {
			t.Errorf("computed normal %d = %v, want %v", i, n, want)
		}
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	m, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	wantFace := []int{0, 1, 2}
	for i, vi := range m.Faces[0] {
		if vi != wantFace[i] {
			t.Fatalf("face = %v, want %v", m.Faces[0], wantFace)
		}
	}
}

func TestParseOBJMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad float", "v a b c\n"},
		{"short vertex", "v 1 2\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"bad face index", "v 0 0 0\nf x y z\n"},
		{"normal out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//9 2//9 3//9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			if !errors.Is(err, ErrMalformedOBJ) {
				t.Errorf("ParseOBJ error = %v, want ErrMalformedOBJ", err)
			}
		})
	}
}

func TestParseOBJEmpty(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("# nothing here\n"))
	if !errors.Is(err, ErrEmptyOBJ) {
		t.Errorf("ParseOBJ error = %v, want ErrEmptyOBJ", err)
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedestal.obj")
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if m.Name != "pedestal" {
		t.Errorf("Name = %q, want file stem %q", m.Name, "pedestal")
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "absent.obj")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
