package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// SVC format errors.
var (
	ErrInvalidSVCMagic       = errors.New("invalid SVC magic: expected 'SVC1'")
	ErrUnsupportedSVCVersion = errors.New("unsupported SVC version")
	ErrTruncatedSVCData      = errors.New("truncated SVC data")
	ErrMalformedSVC          = errors.New("malformed SVC payload")
)

// SVCVersion is the current archive version.
const SVCVersion = 1

// svcMaxFaceVertices bounds the component count a parser will accept.
const svcMaxFaceVertices = 1 << 24

// svcMaxSets bounds the UV set count a parser will accept.
const svcMaxSets = 64

// SVCSet holds the two scalar arrays of one UV set, indexed by
// face-vertex.
type SVCSet struct {
	U []float32
	V []float32
}

// SVC is a vertex-channel archive: the export name, the packed albedo as
// RGBA per face-vertex, and every UV set of the project in order. All
// arrays share one face-vertex count.
type SVC struct {
	Version uint8
	Name    string
	Albedo  [][4]float32
	Sets    []SVCSet
}

// FaceVertexCount returns the component count shared by every block.
func (s *SVC) FaceVertexCount() int {
	return len(s.Albedo)
}

// ParseSVC parses an SVC archive from raw bytes.
func ParseSVC(data []byte) (*SVC, error) {
	if len(data) < 7 {
		return nil, ErrTruncatedSVCData
	}

	// Check magic "SVC1"
	if string(data[0:4]) != "SVC1" {
		return nil, ErrInvalidSVCMagic
	}

	version := data[4]
	if version != SVCVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSVCVersion, version)
	}

	r := bytes.NewReader(data[5:])

	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return nil, fmt.Errorf("%w: reading name length", ErrTruncatedSVCData)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("%w: reading name", ErrTruncatedSVCData)
	}

	var fvCount uint32
	if err := binary.Read(r, binary.LittleEndian, &fvCount); err != nil {
		return nil, fmt.Errorf("%w: reading face-vertex count", ErrTruncatedSVCData)
	}
	var setCount uint16
	if err := binary.Read(r, binary.LittleEndian, &setCount); err != nil {
		return nil, fmt.Errorf("%w: reading set count", ErrTruncatedSVCData)
	}
	if fvCount == 0 || fvCount > svcMaxFaceVertices {
		return nil, fmt.Errorf("%w: face-vertex count %d", ErrMalformedSVC, fvCount)
	}
	if setCount > svcMaxSets {
		return nil, fmt.Errorf("%w: set count %d", ErrMalformedSVC, setCount)
	}

	svc := &SVC{
		Version: version,
		Name:    string(name),
		Albedo:  make([][4]float32, fvCount),
		Sets:    make([]SVCSet, setCount),
	}
	if err := binary.Read(r, binary.LittleEndian, svc.Albedo); err != nil {
		return nil, fmt.Errorf("%w: reading albedo", ErrTruncatedSVCData)
	}
	for i := range svc.Sets {
		svc.Sets[i].U = make([]float32, fvCount)
		svc.Sets[i].V = make([]float32, fvCount)
		if err := binary.Read(r, binary.LittleEndian, svc.Sets[i].U); err != nil {
			return nil, fmt.Errorf("%w: reading set %d U", ErrTruncatedSVCData, i+1)
		}
		if err := binary.Read(r, binary.LittleEndian, svc.Sets[i].V); err != nil {
			return nil, fmt.Errorf("%w: reading set %d V", ErrTruncatedSVCData, i+1)
		}
	}

	return svc, nil
}

// ParseSVCFile parses an SVC archive from disk.
func ParseSVCFile(path string) (*SVC, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SVC file: %w", err)
	}
	return ParseSVC(data)
}

// WriteSVC writes the archive in its little-endian layout. Every block
// must share the albedo's face-vertex count; nothing is written when the
// shape is inconsistent.
func WriteSVC(w io.Writer, svc *SVC) error {
	fvCount := len(svc.Albedo)
	if fvCount == 0 || fvCount > svcMaxFaceVertices {
		return fmt.Errorf("%w: face-vertex count %d", ErrMalformedSVC, fvCount)
	}
	if len(svc.Sets) > svcMaxSets {
		return fmt.Errorf("%w: set count %d", ErrMalformedSVC, len(svc.Sets))
	}
	if len(svc.Name) > 65535 {
		return fmt.Errorf("%w: name of %d bytes", ErrMalformedSVC, len(svc.Name))
	}
	for i, set := range svc.Sets {
		if len(set.U) != fvCount || len(set.V) != fvCount {
			return fmt.Errorf("%w: set %d has %d/%d components, want %d", ErrMalformedSVC, i+1, len(set.U), len(set.V), fvCount)
		}
	}

	if _, err := w.Write([]byte("SVC1")); err != nil {
		return fmt.Errorf("writing SVC magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(SVCVersion)); err != nil {
		return fmt.Errorf("writing SVC version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(svc.Name))); err != nil {
		return fmt.Errorf("writing SVC name length: %w", err)
	}
	if _, err := w.Write([]byte(svc.Name)); err != nil {
		return fmt.Errorf("writing SVC name: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(fvCount)); err != nil {
		return fmt.Errorf("writing SVC face-vertex count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(svc.Sets))); err != nil {
		return fmt.Errorf("writing SVC set count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, svc.Albedo); err != nil {
		return fmt.Errorf("writing SVC albedo: %w", err)
	}
	for i, set := range svc.Sets {
		if err := binary.Write(w, binary.LittleEndian, set.U); err != nil {
			return fmt.Errorf("writing SVC set %d U: %w", i+1, err)
		}
		if err := binary.Write(w, binary.LittleEndian, set.V); err != nil {
			return fmt.Errorf("writing SVC set %d V: %w", i+1, err)
		}
	}
	return nil
}

// WriteSVCFile writes the archive to disk.
func WriteSVCFile(path string, svc *SVC) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating SVC file: %w", err)
	}
	if err := WriteSVC(f, svc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
