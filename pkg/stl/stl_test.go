package stl_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/cornermesh/pkg/scene"
	"github.com/chazu/cornermesh/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitTriangleSTL = `solid tri
  facet normal 0.000000 0.000000 1.000000
    outer loop
      vertex 0.000000 0.000000 0.000000
      vertex 1.000000 0.000000 0.000000
      vertex 0.000000 1.000000 0.000000
    endloop
  endfacet
endsolid tri
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func onlyFaceSet(t *testing.T, g *scene.SceneGraph) (*scene.Shape, *scene.IndexedFaceSet) {
	t.Helper()
	require.Len(t, g.Children, 1)
	shape, ok := g.Children[0].(*scene.Shape)
	require.True(t, ok, "child is %T", g.Children[0])
	ifs, ok := shape.Geometry.(*scene.IndexedFaceSet)
	require.True(t, ok, "geometry is %T", shape.Geometry)
	return shape, ifs
}

func TestLoadUnitTriangle(t *testing.T) {
	path := writeFile(t, "tri.stl", unitTriangleSTL)

	g := scene.New()
	require.NoError(t, stl.Load(path, g))
	assert.Equal(t, path, g.URL)

	shape, ifs := onlyFaceSet(t, g)
	assert.Equal(t, "tri", shape.Name)
	require.NotNil(t, shape.Appearance)
	assert.NotNil(t, shape.Appearance.Material)

	assert.Equal(t, []int{0, 1, 2, -1}, ifs.CoordIndex)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, ifs.Coord)
	assert.Equal(t, []float32{0, 0, 1}, ifs.Normal)
	assert.False(t, ifs.NormalPerVertex)
	assert.Equal(t, scene.BindingPerFace, ifs.NormalBinding())
}

func TestRoundTrip(t *testing.T) {
	in := writeFile(t, "tri.stl", unitTriangleSTL)
	g := scene.New()
	require.NoError(t, stl.Load(in, g))

	out := filepath.Join(t.TempDir(), "copy.stl")
	require.NoError(t, stl.Save(out, g))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, unitTriangleSTL, string(data))

	again := scene.New()
	require.NoError(t, stl.Load(out, again))
	_, a := onlyFaceSet(t, g)
	_, b := onlyFaceSet(t, again)
	assert.Equal(t, a.CoordIndex, b.CoordIndex)
	assert.Equal(t, a.Coord, b.Coord)
	assert.Equal(t, a.Normal, b.Normal)
}

func TestDecodeWhitespaceAndVertexCounts(t *testing.T) {
	src := "solid  odd part \n" +
		"facet normal 0 0 1 outer loop endloop endfacet\n" +
		"facet normal 1 0 0\n outer loop\n vertex 0 0 0 vertex 0 1 0\n vertex 0 1 1\n vertex 0 0 1\n endloop endfacet\n" +
		"endsolid odd part\n"

	g := scene.New()
	require.NoError(t, stl.Decode(strings.NewReader(src), g))

	shape, ifs := onlyFaceSet(t, g)
	assert.Equal(t, "odd part", shape.Name)
	assert.Equal(t, []int{-1, 0, 1, 2, 3, -1}, ifs.CoordIndex)
	assert.Len(t, ifs.Coord, 12)
	assert.Equal(t, []float32{0, 0, 1, 1, 0, 0}, ifs.Normal)
}

func TestDecodeSingleLine(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"one word", "solid tri facet normal 0 0 1 outer loop vertex 0 0 0 vertex 1 0 0 vertex 0 1 0 endloop endfacet endsolid tri", "tri"},
		{"two words", "solid left foot facet normal 0 0 1 outer loop vertex 0 0 0 vertex 1 0 0 vertex 0 1 0 endloop endfacet endsolid left foot\n", "left foot"},
		{"unnamed", "solid facet normal 0 0 1 outer loop vertex 0 0 0 vertex 1 0 0 vertex 0 1 0 endloop endfacet endsolid", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := scene.New()
			require.NoError(t, stl.Decode(strings.NewReader(tt.src), g))
			shape, ifs := onlyFaceSet(t, g)
			assert.Equal(t, tt.want, shape.Name)
			assert.Equal(t, []int{0, 1, 2, -1}, ifs.CoordIndex)
			assert.Equal(t, []float32{0, 0, 1}, ifs.Normal)
		})
	}
}

func TestDecodeEmptySolid(t *testing.T) {
	g := scene.New()
	require.NoError(t, stl.Decode(strings.NewReader("solid empty endsolid empty"), g))
	shape, ifs := onlyFaceSet(t, g)
	assert.Equal(t, "empty", shape.Name)
	assert.Empty(t, ifs.CoordIndex)
}

func TestEmptySolidRoundTrip(t *testing.T) {
	g := scene.New()
	require.NoError(t, stl.Decode(strings.NewReader("solid empty\nendsolid empty\n"), g))

	path := filepath.Join(t.TempDir(), "empty.stl")
	require.NoError(t, stl.Save(path, g))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "solid empty\nendsolid empty\n", string(data))
}

func TestDecodeFormatErrors(t *testing.T) {
	facet := "facet normal 0 0 1 outer loop vertex 0 0 0 vertex 1 0 0 vertex 0 1 0 endloop endfacet\n"

	tests := []struct {
		name string
		src  string
		face int
	}{
		{"missing header", "facet normal 0 0 1\n", -1},
		{"empty input", "", -1},
		{"bad keyword", "solid x\nfacett normal 0 0 1\n", 0},
		{"bad normal", "solid x\nfacet normal 0 zero 1\n", 0},
		{"missing outer", "solid x\nfacet normal 0 0 1 loop\n", 0},
		{"missing loop", "solid x\nfacet normal 0 0 1 outer vertex\n", 0},
		{"bad vertex", "solid x\n" + facet + "facet normal 0 0 1 outer loop vertex 1 2\n", 1},
		{"missing endloop", "solid x\n" + facet + facet + "facet normal 0 0 1 outer loop vertex 1 2 3 endfacet\n", 2},
		{"missing endfacet", "solid x\nfacet normal 0 0 1 outer loop endloop facet\n", 0},
		{"truncated", "solid x\n" + facet, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := scene.New()
			g.AddChild(&scene.Shape{})
			err := stl.Decode(strings.NewReader(tt.src), g)
			require.ErrorIs(t, err, stl.ErrFormat)

			var fe *stl.FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.face, fe.Face)
			assert.Empty(t, g.Children, "scene graph must be left cleared")
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	err := stl.Decode(strings.NewReader("solid x\nfacet normal 0 0 1 outer loop endloop\nendsolid x\n"), scene.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse face index 0")
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadMissingFile(t *testing.T) {
	g := scene.New()
	g.SetURL("old.stl")
	err := stl.Load(filepath.Join(t.TempDir(), "nope.stl"), g)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, g.URL)
}

func triangleScene(ifsName, shapeName string) *scene.SceneGraph {
	g := scene.New()
	g.AddChild(&scene.Shape{
		Name: shapeName,
		Geometry: &scene.IndexedFaceSet{
			Name:       ifsName,
			CoordIndex: []int{0, 1, 2, -1},
			Coord:      []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Normal:     []float32{0, 0, 1},
		},
	})
	return g
}

func TestSaveNamePrecedence(t *testing.T) {
	tests := []struct {
		name      string
		ifsName   string
		shapeName string
		want      string
	}{
		{"geometry name", "gear", "shape", "solid gear\n"},
		{"shape name", "", "shape", "solid shape\n"},
		{"file stem", "", "", "solid bracket\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bracket.stl")
			require.NoError(t, stl.Save(path, triangleScene(tt.ifsName, tt.shapeName)))
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), tt.want), "got %q", data)
			assert.True(t, strings.HasSuffix(string(data), "end"+tt.want), "got %q", data)
		})
	}
}

func TestSaveRejectsWithoutWriting(t *testing.T) {
	mixed := triangleScene("m", "")
	mixed.Children[0].(*scene.Shape).Geometry.(*scene.IndexedFaceSet).CoordIndex = []int{0, 1, 2, -1, 0, 1, 2, 0, -1}

	perVertex := triangleScene("pv", "")
	pv := perVertex.Children[0].(*scene.Shape).Geometry.(*scene.IndexedFaceSet)
	pv.NormalPerVertex = true
	pv.Normal = make([]float32, 9)

	twoChildren := triangleScene("a", "")
	twoChildren.AddChild(&scene.Shape{})

	tests := []struct {
		name string
		g    *scene.SceneGraph
		want error
	}{
		{"mixed face sizes", mixed, scene.ErrNotTriangleMesh},
		{"per-vertex normals", perVertex, scene.ErrNotPerFaceNormals},
		{"two children", twoChildren, scene.ErrNotSingleChild},
		{"group", &scene.SceneGraph{Children: []scene.Node{&scene.Group{}}}, scene.ErrNotShape},
		{"line set", &scene.SceneGraph{Children: []scene.Node{&scene.Shape{Geometry: &scene.IndexedLineSet{}}}}, scene.ErrNoFaceSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.stl")
			err := stl.Save(path, tt.g)
			require.ErrorIs(t, err, tt.want)
			_, statErr := os.Stat(path)
			assert.ErrorIs(t, statErr, os.ErrNotExist)
		})
	}
}

func TestSaveRejectsMissingData(t *testing.T) {
	g := triangleScene("short", "")
	g.Children[0].(*scene.Shape).Geometry.(*scene.IndexedFaceSet).Coord = []float32{0, 0, 0}

	path := filepath.Join(t.TempDir(), "out.stl")
	err := stl.Save(path, g)
	require.ErrorIs(t, err, scene.ErrIndexOutOfRange)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestEncodePrecision(t *testing.T) {
	ifs := &scene.IndexedFaceSet{
		CoordIndex: []int{0, 1, 2, -1},
		Coord:      []float32{0.5, 0, 0, 1, 0.25, 0, 0, 1, 0},
		Normal:     []float32{0, 0, 1},
	}

	var buf bytes.Buffer
	require.NoError(t, stl.Saver{Precision: 2}.Encode(&buf, "p", ifs))
	assert.Contains(t, buf.String(), "vertex 0.50 0.00 0.00\n")

	buf.Reset()
	require.NoError(t, stl.Saver{Precision: -1}.Encode(&buf, "p", ifs))
	assert.Contains(t, buf.String(), "vertex 1 0.25 0\n")
}

func TestEncodeWritesNothingOnError(t *testing.T) {
	ifs := &scene.IndexedFaceSet{
		CoordIndex: []int{0, 1, 2, -1, 0, 1, 2, -1},
		Coord:      make([]float32, 9),
		Normal:     []float32{0, 0, 1},
	}
	var buf bytes.Buffer
	err := stl.NewSaver().Encode(&buf, "x", ifs)
	require.ErrorIs(t, err, scene.ErrIndexOutOfRange)
	assert.Zero(t, buf.Len())
}
