package stl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chazu/cornermesh/pkg/meshlog"
	"github.com/chazu/cornermesh/pkg/scene"
)

// DefaultPrecision is the number of decimals written per coordinate.
const DefaultPrecision = 6

// Saver writes scene graphs as ASCII STL.
type Saver struct {
	// Precision is the number of digits after the decimal point. Values
	// below zero select the shortest exact representation.
	Precision int
}

// NewSaver returns a Saver with DefaultPrecision.
func NewSaver() Saver {
	return Saver{Precision: DefaultPrecision}
}

// Save writes g to path with DefaultPrecision.
func Save(path string, g *scene.SceneGraph) error {
	return NewSaver().Save(path, g)
}

// Save writes g to path. g must hold a single Shape with a triangle-only
// IndexedFaceSet and per-face normals; otherwise an error wrapping one of
// the scene.Err* preconditions is returned and path is not touched. The
// solid is named after the IndexedFaceSet, then the Shape, then the file
// name without directory and extension.
func (s Saver) Save(path string, g *scene.SceneGraph) error {
	shape, ifs, err := scene.SingleTriangleMesh(g)
	if err != nil {
		return fmt.Errorf("stl: save %s: %w", path, err)
	}

	name := ifs.Name
	if name == "" {
		name = shape.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var buf bytes.Buffer
	if err := s.Encode(&buf, name, ifs); err != nil {
		return fmt.Errorf("stl: save %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: create %s: %w", path, err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("stl: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("stl: close %s: %w", path, err)
	}

	meshlog.Logger().Info("stl: saved", "path", path, "name", name, "faces", ifs.NumberOfNormals())
	return nil
}

// Encode writes ifs as a single ASCII solid. Each face is emitted with its
// per-face normal and FaceSize-1 vertices, so polygons are written as-is;
// Save is the entry point that restricts output to triangles. Nothing is
// written to w unless the whole solid encodes.
func (s Saver) Encode(w io.Writer, name string, ifs *scene.IndexedFaceSet) error {
	f, err := ifs.Faces()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	header := "solid"
	if name != "" {
		header += " " + name
	}
	buf.WriteString(header)
	buf.WriteByte('\n')

	for iF := 0; iF < f.NumberOfFaces(); iF++ {
		n, err := ifs.FaceNormal(iF)
		if err != nil {
			return fmt.Errorf("face %d: %w", iF, err)
		}
		buf.WriteString("  facet normal ")
		s.writeVec3(&buf, n)
		buf.WriteString("    outer loop\n")

		size, err := f.FaceSize(iF)
		if err != nil {
			return err
		}
		for j := 0; j < size-1; j++ {
			iV, err := f.FaceVertex(iF, j)
			if err != nil {
				return fmt.Errorf("face %d: %w", iF, err)
			}
			p, err := ifs.Coordinate(iV)
			if err != nil {
				return fmt.Errorf("face %d: %w", iF, err)
			}
			buf.WriteString("      vertex ")
			s.writeVec3(&buf, p)
		}
		buf.WriteString("    endloop\n")
		buf.WriteString("  endfacet\n")
	}

	buf.WriteString("end" + header)
	buf.WriteByte('\n')

	_, err = buf.WriteTo(w)
	return err
}

func (s Saver) writeVec3(buf *bytes.Buffer, v [3]float32) {
	for i, x := range v {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(strconv.FormatFloat(float64(x), 'f', s.Precision, 32))
	}
	buf.WriteByte('\n')
}
