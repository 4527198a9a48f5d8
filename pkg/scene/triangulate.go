package scene

import (
	"fmt"

	"github.com/chazu/cornermesh/pkg/faces"
	"github.com/chazu/cornermesh/pkg/meshlog"
)

// Triangulate replaces every polygon of ifs with a triangle fan anchored at
// the polygon's first corner. Faces with fewer than three vertices are
// dropped. Normals follow their binding: per-face normals and per-face
// indices are repeated for each triangle of a fan, per-corner indices are
// carried with their corners, per-vertex normals are left as they are.
func (ifs *IndexedFaceSet) Triangulate() error {
	f, err := ifs.Faces()
	if err != nil {
		return err
	}
	binding := ifs.NormalBinding()
	if binding == BindingPerCorner && len(ifs.NormalIndex) != len(ifs.CoordIndex) {
		return fmt.Errorf("%w: normalIndex has %d entries for %d corners",
			ErrIndexOutOfRange, len(ifs.NormalIndex), len(ifs.CoordIndex))
	}

	t := fanBuilder{src: ifs, binding: binding}
	dropped := 0
	for iF := 0; iF < f.NumberOfFaces(); iF++ {
		ring, err := f.FaceCorners(iF)
		if err != nil {
			return fmt.Errorf("scene: triangulate face %d: %w", iF, err)
		}
		if len(ring) < 3 {
			dropped++
			continue
		}
		for i := 1; i+1 < len(ring); i++ {
			if err := t.triangle(f, iF, ring[0], ring[i], ring[i+1]); err != nil {
				return err
			}
		}
	}
	if dropped > 0 {
		meshlog.Logger().Warn("triangulate: dropped degenerate faces", "name", ifs.Name, "count", dropped)
	}

	ifs.CoordIndex = t.coordIndex
	switch binding {
	case BindingPerFace:
		ifs.Normal = t.normal
	case BindingPerFaceIndexed, BindingPerCorner:
		ifs.NormalIndex = t.normalIndex
	}
	return nil
}

type fanBuilder struct {
	src         *IndexedFaceSet
	binding     NormalBinding
	coordIndex  []int
	normal      []float32
	normalIndex []int
}

func (b *fanBuilder) triangle(f *faces.Faces, iF int, corners ...int) error {
	for _, c := range corners {
		v, err := f.CornerVertex(c)
		if err != nil {
			return err
		}
		b.coordIndex = append(b.coordIndex, v)
		if b.binding == BindingPerCorner {
			b.normalIndex = append(b.normalIndex, b.src.NormalIndex[c])
		}
	}
	b.coordIndex = append(b.coordIndex, faces.Terminator)

	switch b.binding {
	case BindingPerFace:
		n, err := b.src.FaceNormal(iF)
		if err != nil {
			return fmt.Errorf("scene: triangulate face %d: %w", iF, err)
		}
		b.normal = append(b.normal, n[0], n[1], n[2])
	case BindingPerFaceIndexed:
		if iF >= len(b.src.NormalIndex) {
			return fmt.Errorf("%w: normalIndex has no entry for face %d", ErrIndexOutOfRange, iF)
		}
		b.normalIndex = append(b.normalIndex, b.src.NormalIndex[iF])
	case BindingPerCorner:
		b.normalIndex = append(b.normalIndex, faces.Terminator)
	}
	return nil
}
