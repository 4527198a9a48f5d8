package scene

import (
	"fmt"

	"github.com/chazu/cornermesh/pkg/faces"
)

// Geometry is the payload of a Shape: *IndexedFaceSet or *IndexedLineSet.
type Geometry interface {
	geometry() // marker method restricting implementations to this package
}

// NormalBinding says how the Normal array of an IndexedFaceSet maps onto
// its vertices, faces or corners.
type NormalBinding int

const (
	BindingNone           NormalBinding = iota // no normals
	BindingPerVertex                           // one normal per coord
	BindingPerFace                             // one normal per face, in face order
	BindingPerFaceIndexed                      // NormalIndex holds one entry per face
	BindingPerCorner                           // NormalIndex parallels CoordIndex
)

func (b NormalBinding) String() string {
	switch b {
	case BindingNone:
		return "none"
	case BindingPerVertex:
		return "per-vertex"
	case BindingPerFace:
		return "per-face"
	case BindingPerFaceIndexed:
		return "per-face-indexed"
	case BindingPerCorner:
		return "per-corner"
	default:
		return fmt.Sprintf("NormalBinding(%d)", int(b))
	}
}

// IndexedFaceSet is a polygon mesh. Coord and Normal hold packed xyz
// triples; CoordIndex is a terminator-delimited face stream as consumed by
// package faces.
type IndexedFaceSet struct {
	Name            string
	CoordIndex      []int
	Coord           []float32
	Normal          []float32
	NormalIndex     []int
	NormalPerVertex bool
}

func (*IndexedFaceSet) geometry() {}

// IndexedLineSet is a polyline set. It is carried through the scene graph
// but never meshed.
type IndexedLineSet struct {
	Name       string
	CoordIndex []int
	Coord      []float32
}

func (*IndexedLineSet) geometry() {}

// NormalBinding derives the binding from the presence of normals, the
// NormalPerVertex flag and the presence of NormalIndex.
func (ifs *IndexedFaceSet) NormalBinding() NormalBinding {
	switch {
	case len(ifs.Normal) == 0:
		return BindingNone
	case !ifs.NormalPerVertex && len(ifs.NormalIndex) == 0:
		return BindingPerFace
	case !ifs.NormalPerVertex:
		return BindingPerFaceIndexed
	case len(ifs.NormalIndex) == 0:
		return BindingPerVertex
	default:
		return BindingPerCorner
	}
}

// NumberOfCoords returns the number of xyz triples in Coord.
func (ifs *IndexedFaceSet) NumberOfCoords() int {
	return len(ifs.Coord) / 3
}

// NumberOfNormals returns the number of xyz triples in Normal.
func (ifs *IndexedFaceSet) NumberOfNormals() int {
	return len(ifs.Normal) / 3
}

// Faces builds a corner table over CoordIndex.
func (ifs *IndexedFaceSet) Faces() (*faces.Faces, error) {
	f, err := faces.New(ifs.CoordIndex)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", ifs.label(), err)
	}
	return f, nil
}

// IsTriangleMesh reports whether CoordIndex is well formed and every face
// has exactly three vertices.
func (ifs *IndexedFaceSet) IsTriangleMesh() bool {
	f, err := faces.New(ifs.CoordIndex)
	if err != nil {
		return false
	}
	return f.AllFacesHaveSize(3)
}

// Coordinate returns the xyz triple of vertex iV.
func (ifs *IndexedFaceSet) Coordinate(iV int) ([3]float32, error) {
	return triple(ifs.Coord, iV, "coord")
}

// FaceNormal returns normal iN as an xyz triple.
func (ifs *IndexedFaceSet) FaceNormal(iN int) ([3]float32, error) {
	return triple(ifs.Normal, iN, "normal")
}

func triple(data []float32, i int, what string) ([3]float32, error) {
	if i < 0 || 3*i+2 >= len(data) {
		return [3]float32{}, fmt.Errorf("%w: %s %d of %d", ErrIndexOutOfRange, what, i, len(data)/3)
	}
	return [3]float32{data[3*i], data[3*i+1], data[3*i+2]}, nil
}

func (ifs *IndexedFaceSet) label() string {
	if ifs.Name != "" {
		return fmt.Sprintf("IndexedFaceSet %q", ifs.Name)
	}
	return "IndexedFaceSet"
}
