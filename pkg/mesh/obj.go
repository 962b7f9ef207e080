package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/strata3d/strata/pkg/math"
)

// OBJ format errors.
var (
	ErrMalformedOBJ = errors.New("malformed OBJ data")
	ErrEmptyOBJ     = errors.New("OBJ data contains no faces")
)

// ParseOBJ parses a Wavefront OBJ mesh from r. The supported subset is
// v, vn, f (in the p, p/t, p//n and p/t/n forms) plus o/g for naming;
// vt and other statements are skipped. Normals are recorded per vertex,
// with the last face referencing a vertex winning; meshes without any
// normals get area-weighted computed ones.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{Name: "untitled"}
	var normalTable []math.Vec3

	// vertex index -> normal table index, resolved after scanning
	type normalRef struct{ vertex, normal int }
	var refs []normalRef

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		ident, vals := fields[0], fields[1:]

		switch ident {
		case "v":
			p, err := parseVec3(vals)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNum, err)
			}
			m.Positions = append(m.Positions, p)
		case "vn":
			n, err := parseVec3(vals)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNum, err)
			}
			normalTable = append(normalTable, n)
		case "f":
			if len(vals) < 3 {
				return nil, fmt.Errorf("%w: line %d: face with %d vertices", ErrMalformedOBJ, lineNum, len(vals))
			}
			face := make([]int, 0, len(vals))
			for _, s := range vals {
				vi, ni, err := parseFaceVertex(s)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNum, err)
				}
				vi, err = resolveIndex(vi, len(m.Positions))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNum, err)
				}
				face = append(face, vi)
				if ni != 0 {
					ni, err = resolveIndex(ni, len(normalTable))
					if err != nil {
						return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNum, err)
					}
					refs = append(refs, normalRef{vertex: vi, normal: ni})
				}
			}
			m.Faces = append(m.Faces, face)
		case "o", "g":
			if len(vals) > 0 {
				m.Name = vals[0]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}
	if len(m.Faces) == 0 {
		return nil, ErrEmptyOBJ
	}

	if len(refs) > 0 {
		m.Normals = make([]math.Vec3, len(m.Positions))
		for _, ref := range refs {
			m.Normals[ref.vertex] = normalTable[ref.normal]
		}
	} else {
		m.ComputeNormals()
	}
	return m, nil
}

// LoadOBJ parses an OBJ mesh from disk. A mesh without an o/g statement
// is named after the file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if m.Name == "untitled" {
		base := filepath.Base(path)
		m.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return m, nil
}

func parseVec3(vals []string) (math.Vec3, error) {
	if len(vals) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(vals))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(vals[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("component %q: %v", vals[i], err)
		}
		out[i] = float32(f)
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// parseFaceVertex splits a face corner into its 1-based position and
// normal indices. A missing normal yields 0.
func parseFaceVertex(s string) (vi, ni int, err error) {
	parts := strings.Split(s, "/")
	vi, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("vertex index %q: %v", parts[0], err)
	}
	if len(parts) == 3 && parts[2] != "" {
		ni, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, fmt.Errorf("normal index %q: %v", parts[2], err)
		}
	}
	return vi, ni, nil
}

// resolveIndex converts a 1-based OBJ index, possibly negative and
// relative to the end, into a 0-based slice index.
func resolveIndex(idx, count int) (int, error) {
	switch {
	case idx > 0 && idx <= count:
		return idx - 1, nil
	case idx < 0 && -idx <= count:
		return count + idx, nil
	default:
		return 0, fmt.Errorf("index %d out of range (have %d)", idx, count)
	}
}
