package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/cornermesh/pkg/faces"
)

var (
	// ErrIndexOutOfRange indicates a coord or normal reference past the end
	// of its array.
	ErrIndexOutOfRange = errors.New("scene: index out of range")

	// The errors below are returned by SingleTriangleMesh.
	ErrNotSingleChild    = errors.New("scene: scene graph must have exactly one child")
	ErrNotShape          = errors.New("scene: child is not a Shape")
	ErrNoFaceSet         = errors.New("scene: shape geometry is not an IndexedFaceSet")
	ErrNotTriangleMesh   = errors.New("scene: IndexedFaceSet is not a triangle mesh")
	ErrNotPerFaceNormals = errors.New("scene: IndexedFaceSet normals are not bound per face")
)

// SingleTriangleMesh checks that g holds exactly one Shape whose geometry is
// a triangle-only IndexedFaceSet with one normal per face, and returns both.
func SingleTriangleMesh(g *SceneGraph) (*Shape, *IndexedFaceSet, error) {
	if g == nil || len(g.Children) != 1 {
		n := 0
		if g != nil {
			n = len(g.Children)
		}
		return nil, nil, fmt.Errorf("%w (has %d)", ErrNotSingleChild, n)
	}
	shape, ok := g.Children[0].(*Shape)
	if !ok {
		return nil, nil, fmt.Errorf("%w: got %T", ErrNotShape, g.Children[0])
	}
	ifs, ok := shape.Geometry.(*IndexedFaceSet)
	if !ok || ifs == nil {
		return nil, nil, fmt.Errorf("%w: got %T", ErrNoFaceSet, shape.Geometry)
	}
	f, err := faces.New(ifs.CoordIndex)
	if err != nil || !f.AllFacesHaveSize(3) {
		return nil, nil, ErrNotTriangleMesh
	}
	// A face set with no faces needs no normals to be bound per face.
	b := ifs.NormalBinding()
	if b == BindingNone && f.NumberOfFaces() == 0 && !ifs.NormalPerVertex {
		b = BindingPerFace
	}
	if b != BindingPerFace {
		return nil, nil, fmt.Errorf("%w: binding is %s", ErrNotPerFaceNormals, b)
	}
	return shape, ifs, nil
}

// ValidationSeverity indicates whether a finding makes the scene unusable or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // the geometry cannot be processed
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     string             // location in the tree, e.g. "children[0].geometry"
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// Validate walks g and reports structural problems: malformed face streams,
// references to missing coords or normals, and normal arrays whose size does
// not match their binding. It never mutates g.
func Validate(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	if g == nil {
		return append(errs, ValidationError{Message: "nil scene graph", Severity: SeverityError})
	}
	validateNodes(g.Children, "children", &errs)
	return errs
}

func validateNodes(nodes []Node, prefix string, errs *[]ValidationError) {
	for i, n := range nodes {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch n := n.(type) {
		case *Shape:
			if n == nil {
				*errs = append(*errs, ValidationError{Path: path, Message: "nil shape", Severity: SeverityError})
				continue
			}
			validateShape(n, path, errs)
		case *Group:
			if n == nil {
				*errs = append(*errs, ValidationError{Path: path, Message: "nil group", Severity: SeverityError})
				continue
			}
			validateNodes(n.Children, path+".children", errs)
		case nil:
			*errs = append(*errs, ValidationError{Path: path, Message: "nil node", Severity: SeverityError})
		}
	}
}

func validateShape(s *Shape, path string, errs *[]ValidationError) {
	path += ".geometry"
	switch geom := s.Geometry.(type) {
	case nil:
		*errs = append(*errs, ValidationError{Path: path, Message: "shape has no geometry", Severity: SeverityWarning})
	case *IndexedFaceSet:
		validateFaceSet(geom, path, errs)
	case *IndexedLineSet:
		if len(geom.Coord)%3 != 0 {
			*errs = append(*errs, ValidationError{Path: path, Message: "coord length is not a multiple of 3", Severity: SeverityError})
		}
	}
}

func validateFaceSet(ifs *IndexedFaceSet, path string, errs *[]ValidationError) {
	add := func(sev ValidationSeverity, format string, args ...any) {
		*errs = append(*errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...), Severity: sev})
	}

	if len(ifs.Coord)%3 != 0 {
		add(SeverityError, "coord length %d is not a multiple of 3", len(ifs.Coord))
	}
	if len(ifs.Normal)%3 != 0 {
		add(SeverityError, "normal length %d is not a multiple of 3", len(ifs.Normal))
	}

	f, err := faces.New(ifs.CoordIndex)
	if err != nil {
		add(SeverityError, "coordIndex: %v", err)
		return
	}

	nCoords := ifs.NumberOfCoords()
	for iC, v := range ifs.CoordIndex {
		if v >= nCoords {
			add(SeverityError, "coordIndex[%d] = %d references a missing coord (have %d)", iC, v, nCoords)
			break
		}
	}

	stats := f.Stats()
	if stats.EmptyFaces > 0 {
		add(SeverityWarning, "%d faces have no vertices", stats.EmptyFaces)
	}

	nNormals := ifs.NumberOfNormals()
	switch ifs.NormalBinding() {
	case BindingPerFace:
		if nNormals < f.NumberOfFaces() {
			add(SeverityError, "per-face normals: have %d, need %d", nNormals, f.NumberOfFaces())
		}
	case BindingPerVertex:
		if nNormals < nCoords {
			add(SeverityError, "per-vertex normals: have %d, need %d", nNormals, nCoords)
		}
	case BindingPerFaceIndexed:
		if len(ifs.NormalIndex) < f.NumberOfFaces() {
			add(SeverityError, "normalIndex: have %d entries, need %d", len(ifs.NormalIndex), f.NumberOfFaces())
		}
		checkNormalIndex(ifs.NormalIndex, nNormals, false, add)
	case BindingPerCorner:
		if len(ifs.NormalIndex) != len(ifs.CoordIndex) {
			add(SeverityError, "normalIndex length %d does not match coordIndex length %d",
				len(ifs.NormalIndex), len(ifs.CoordIndex))
		}
		checkNormalIndex(ifs.NormalIndex, nNormals, true, add)
	}
}

// checkNormalIndex reports the first out-of-range entry of idx. Negative
// entries are legal only as face terminators in a per-corner index.
func checkNormalIndex(idx []int, nNormals int, perCorner bool, add func(ValidationSeverity, string, ...any)) {
	for i, n := range idx {
		if n < 0 && !perCorner {
			add(SeverityError, "normalIndex[%d] = %d is not a normal index", i, n)
			return
		}
		if n >= nNormals {
			add(SeverityError, "normalIndex[%d] = %d references a missing normal (have %d)", i, n, nNormals)
			return
		}
	}
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
