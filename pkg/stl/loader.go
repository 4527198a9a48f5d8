package stl

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/cornermesh/pkg/faces"
	"github.com/chazu/cornermesh/pkg/meshlog"
	"github.com/chazu/cornermesh/pkg/scene"
)

// Ext is the file extension handled by this package, without the dot.
const Ext = "stl"

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("stl: format error")

// FormatError reports a grammar deviation. Face is the ordinal of the facet
// being parsed, or -1 when the solid header is at fault.
type FormatError struct {
	Face   int
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Face < 0 {
		return fmt.Sprintf("stl: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("stl: failed to parse face index %d (line %d): %s", e.Face, e.Line, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Load clears g and fills it from the ASCII STL file at path. On success g
// holds a single Shape whose IndexedFaceSet has one normal per face and
// g.URL is set to path. On failure g is left empty.
func Load(path string, g *scene.SceneGraph) error {
	g.Clear()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("stl: open %s: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, g); err != nil {
		return err
	}
	g.SetURL(path)
	return nil
}

// Decode clears g and fills it from ASCII STL read from r.
func Decode(r io.Reader, g *scene.SceneGraph) error {
	g.Clear()

	tkn := newTokenizer(r)
	if !tkn.expecting("solid") {
		if err := tkn.err(); err != nil {
			return fmt.Errorf("stl: read: %w", err)
		}
		return &FormatError{Face: -1, Line: tkn.line, Reason: fmt.Sprintf("expected \"solid\", got %q", tkn.tok)}
	}
	name := tkn.restOfLine("facet", "endsolid")

	ifs := &scene.IndexedFaceSet{Name: name, NormalPerVertex: false}
	d := decoder{tkn: tkn, ifs: ifs}
	for face := 0; ; face++ {
		done, err := d.facet()
		if err != nil {
			if ioErr := tkn.err(); ioErr != nil {
				return fmt.Errorf("stl: read: %w", ioErr)
			}
			return &FormatError{Face: face, Line: tkn.line, Reason: err.Error()}
		}
		if done {
			break
		}
	}
	if end := tkn.restOfLine(); end != "" && end != name {
		meshlog.Logger().Warn("stl: endsolid name differs from solid name", "solid", name, "endsolid", end)
	}

	g.AddChild(&scene.Shape{
		Name:       name,
		Appearance: &scene.Appearance{Material: scene.NewMaterial()},
		Geometry:   ifs,
	})
	meshlog.Logger().Debug("stl: decoded solid",
		"name", name, "faces", ifs.NumberOfNormals(), "coords", ifs.NumberOfCoords())
	return nil
}

type decoder struct {
	tkn     *tokenizer
	ifs     *scene.IndexedFaceSet
	nCoords int
}

// facet parses one facet block. It reports done when it meets endsolid in
// place of a facet.
func (d *decoder) facet() (done bool, err error) {
	tkn := d.tkn
	if !tkn.expecting("facet") {
		if tkn.is("endsolid") {
			return true, nil
		}
		return false, unexpected("facet", tkn.tok)
	}
	if !tkn.expecting("normal") {
		return false, unexpected("normal", tkn.tok)
	}
	n, err := tkn.vec3()
	if err != nil {
		return false, fmt.Errorf("normal: %w", err)
	}
	if !tkn.expecting("outer") {
		return false, unexpected("outer", tkn.tok)
	}
	if !tkn.expecting("loop") {
		return false, unexpected("loop", tkn.tok)
	}

	// Stage the face locally so a malformed facet adds nothing.
	var coord []float32
	var index []int
	for tkn.expecting("vertex") {
		v, err := tkn.vec3()
		if err != nil {
			return false, fmt.Errorf("vertex: %w", err)
		}
		coord = append(coord, v[0], v[1], v[2])
		index = append(index, d.nCoords+len(index))
	}
	if !tkn.is("endloop") {
		return false, unexpected("vertex or endloop", tkn.tok)
	}
	if !tkn.expecting("endfacet") {
		return false, unexpected("endfacet", tkn.tok)
	}

	d.ifs.Normal = append(d.ifs.Normal, n[0], n[1], n[2])
	d.ifs.Coord = append(d.ifs.Coord, coord...)
	d.ifs.CoordIndex = append(d.ifs.CoordIndex, index...)
	d.ifs.CoordIndex = append(d.ifs.CoordIndex, faces.Terminator)
	d.nCoords += len(index)
	return false, nil
}

func unexpected(want, got string) error {
	if got == "" {
		return fmt.Errorf("expected %s, got end of input", want)
	}
	return fmt.Errorf("expected %s, got %q", want, got)
}
