package scene_test

import (
	"testing"

	"github.com/chazu/cornermesh/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitTriangle returns a one-triangle mesh with a +Z face normal.
func unitTriangle() *scene.IndexedFaceSet {
	return &scene.IndexedFaceSet{
		CoordIndex: []int{0, 1, 2, -1},
		Coord:      []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normal:     []float32{0, 0, 1},
	}
}

// unitSquare returns a single quad with a +Z face normal.
func unitSquare() *scene.IndexedFaceSet {
	return &scene.IndexedFaceSet{
		CoordIndex: []int{0, 1, 2, 3, -1},
		Coord:      []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Normal:     []float32{0, 0, 1},
	}
}

func singleShape(geom scene.Geometry) *scene.SceneGraph {
	g := scene.New()
	g.AddChild(&scene.Shape{
		Appearance: &scene.Appearance{Material: scene.NewMaterial()},
		Geometry:   geom,
	})
	return g
}

func TestSceneGraphClear(t *testing.T) {
	g := singleShape(unitTriangle())
	g.SetURL("mesh.stl")
	g.Clear()
	assert.Empty(t, g.Children)
	assert.Empty(t, g.URL)
}

func TestShapesWalksGroups(t *testing.T) {
	a := &scene.Shape{Name: "a"}
	b := &scene.Shape{Name: "b"}
	c := &scene.Shape{Name: "c"}

	g := scene.New()
	g.AddChild(a)
	g.AddChild(&scene.Group{Children: []scene.Node{b, &scene.Group{Children: []scene.Node{c}}}})

	shapes := g.Shapes()
	require.Len(t, shapes, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{shapes[0].Name, shapes[1].Name, shapes[2].Name})
}

func TestNormalBinding(t *testing.T) {
	tests := []struct {
		name string
		ifs  scene.IndexedFaceSet
		want scene.NormalBinding
	}{
		{"no normals", scene.IndexedFaceSet{NormalPerVertex: true}, scene.BindingNone},
		{"per face", scene.IndexedFaceSet{Normal: []float32{0, 0, 1}}, scene.BindingPerFace},
		{"per face indexed", scene.IndexedFaceSet{Normal: []float32{0, 0, 1}, NormalIndex: []int{0}}, scene.BindingPerFaceIndexed},
		{"per vertex", scene.IndexedFaceSet{Normal: []float32{0, 0, 1}, NormalPerVertex: true}, scene.BindingPerVertex},
		{"per corner", scene.IndexedFaceSet{Normal: []float32{0, 0, 1}, NormalPerVertex: true, NormalIndex: []int{0, 0, 0, -1}}, scene.BindingPerCorner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ifs.NormalBinding())
		})
	}
	assert.Equal(t, "per-face", scene.BindingPerFace.String())
}

func TestIsTriangleMesh(t *testing.T) {
	assert.True(t, unitTriangle().IsTriangleMesh())
	assert.False(t, unitSquare().IsTriangleMesh())
	assert.False(t, (&scene.IndexedFaceSet{CoordIndex: []int{0, 1, 2}}).IsTriangleMesh(), "unterminated")
}

func TestSingleTriangleMesh(t *testing.T) {
	shape, ifs, err := scene.SingleTriangleMesh(singleShape(unitTriangle()))
	require.NoError(t, err)
	require.NotNil(t, shape)
	require.NotNil(t, ifs)

	perVertex := unitTriangle()
	perVertex.NormalPerVertex = true

	twoShapes := singleShape(unitTriangle())
	twoShapes.AddChild(&scene.Shape{Geometry: unitTriangle()})

	tests := []struct {
		name string
		g    *scene.SceneGraph
		want error
	}{
		{"nil graph", nil, scene.ErrNotSingleChild},
		{"empty", scene.New(), scene.ErrNotSingleChild},
		{"two children", twoShapes, scene.ErrNotSingleChild},
		{"group child", &scene.SceneGraph{Children: []scene.Node{&scene.Group{}}}, scene.ErrNotShape},
		{"no geometry", singleShape(nil), scene.ErrNoFaceSet},
		{"line set", singleShape(&scene.IndexedLineSet{}), scene.ErrNoFaceSet},
		{"quad", singleShape(unitSquare()), scene.ErrNotTriangleMesh},
		{"mixed sizes", singleShape(&scene.IndexedFaceSet{
			CoordIndex: []int{0, 1, 2, -1, 0, 2, 3, 1, -1},
			Coord:      make([]float32, 12),
			Normal:     make([]float32, 6),
		}), scene.ErrNotTriangleMesh},
		{"per-vertex normals", singleShape(perVertex), scene.ErrNotPerFaceNormals},
		{"no normals", singleShape(&scene.IndexedFaceSet{CoordIndex: []int{0, 1, 2, -1}, Coord: make([]float32, 9)}), scene.ErrNotPerFaceNormals},
		{"empty per-vertex", singleShape(&scene.IndexedFaceSet{NormalPerVertex: true}), scene.ErrNotPerFaceNormals},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := scene.SingleTriangleMesh(tt.g)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSingleTriangleMeshWithoutFaces(t *testing.T) {
	_, ifs, err := scene.SingleTriangleMesh(singleShape(&scene.IndexedFaceSet{Name: "empty"}))
	require.NoError(t, err)
	assert.Equal(t, "empty", ifs.Name)

	// Every face degenerate: triangulation leaves nothing behind.
	degenerate := &scene.IndexedFaceSet{
		CoordIndex: []int{0, 1, -1, -1},
		Coord:      make([]float32, 6),
		Normal:     []float32{0, 0, 1, 0, 0, 1},
	}
	require.NoError(t, degenerate.Triangulate())
	assert.Empty(t, degenerate.CoordIndex)
	_, _, err = scene.SingleTriangleMesh(singleShape(degenerate))
	require.NoError(t, err)
}

func TestCoordinate(t *testing.T) {
	ifs := unitTriangle()
	p, err := ifs.Coordinate(1)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{1, 0, 0}, p)

	_, err = ifs.Coordinate(3)
	require.ErrorIs(t, err, scene.ErrIndexOutOfRange)
	_, err = ifs.FaceNormal(-1)
	require.ErrorIs(t, err, scene.ErrIndexOutOfRange)
}

func TestValidate(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		errs := scene.Validate(singleShape(unitTriangle()))
		assert.Empty(t, errs)
	})

	t.Run("missing coord", func(t *testing.T) {
		ifs := unitTriangle()
		ifs.CoordIndex = []int{0, 1, 5, -1}
		errs := scene.Validate(singleShape(ifs))
		require.True(t, scene.HasErrors(errs))
		assert.Contains(t, errs[0].Error(), "children[0].geometry")
	})

	t.Run("unterminated", func(t *testing.T) {
		ifs := unitTriangle()
		ifs.CoordIndex = []int{0, 1, 2}
		assert.True(t, scene.HasErrors(scene.Validate(singleShape(ifs))))
	})

	t.Run("too few face normals", func(t *testing.T) {
		ifs := unitTriangle()
		ifs.CoordIndex = []int{0, 1, 2, -1, 2, 1, 0, -1}
		assert.True(t, scene.HasErrors(scene.Validate(singleShape(ifs))))
	})

	t.Run("empty face is a warning", func(t *testing.T) {
		ifs := unitTriangle()
		ifs.CoordIndex = []int{0, 1, 2, -1, -1}
		ifs.Normal = []float32{0, 0, 1, 0, 0, 1}
		errs := scene.Validate(singleShape(ifs))
		require.Len(t, errs, 1)
		assert.Equal(t, scene.SeverityWarning, errs[0].Severity)
		assert.False(t, scene.HasErrors(errs))
	})

	t.Run("nil graph", func(t *testing.T) {
		require.NotPanics(t, func() {
			assert.True(t, scene.HasErrors(scene.Validate(nil)))
		})
	})

	t.Run("negative face normal index", func(t *testing.T) {
		ifs := unitTriangle()
		ifs.NormalIndex = []int{-1}
		require.Equal(t, scene.BindingPerFaceIndexed, ifs.NormalBinding())
		errs := scene.Validate(singleShape(ifs))
		require.True(t, scene.HasErrors(errs))
		assert.Contains(t, errs[0].Message, "normalIndex[0] = -1")
	})

	t.Run("per-corner terminators", func(t *testing.T) {
		ifs := unitTriangle()
		ifs.NormalPerVertex = true
		ifs.NormalIndex = []int{0, 0, 0, -1}
		assert.Empty(t, scene.Validate(singleShape(ifs)))
	})

	t.Run("nested group path", func(t *testing.T) {
		g := scene.New()
		g.AddChild(&scene.Group{Children: []scene.Node{&scene.Shape{}}})
		errs := scene.Validate(g)
		require.Len(t, errs, 1)
		assert.Equal(t, "children[0].children[0].geometry", errs[0].Path)
	})
}

func TestTriangulatePerFace(t *testing.T) {
	ifs := &scene.IndexedFaceSet{
		CoordIndex: []int{0, 1, 2, -1, 0, 2, 3, 4, -1, 5, 6, -1},
		Coord:      make([]float32, 21),
		Normal:     []float32{0, 0, 1, 1, 0, 0, 0, 1, 0},
	}
	require.NoError(t, ifs.Triangulate())

	assert.Equal(t, []int{
		0, 1, 2, -1,
		0, 2, 3, -1,
		0, 3, 4, -1,
	}, ifs.CoordIndex)
	assert.Equal(t, []float32{0, 0, 1, 1, 0, 0, 1, 0, 0}, ifs.Normal)
	assert.True(t, ifs.IsTriangleMesh())
}

func TestTriangulatePerCorner(t *testing.T) {
	ifs := unitSquare()
	ifs.NormalPerVertex = true
	ifs.Normal = []float32{0, 0, 1, 0, 0, -1}
	ifs.NormalIndex = []int{0, 0, 1, 1, -1}

	require.NoError(t, ifs.Triangulate())
	assert.Equal(t, []int{0, 1, 2, -1, 0, 2, 3, -1}, ifs.CoordIndex)
	assert.Equal(t, []int{0, 0, 1, -1, 0, 1, 1, -1}, ifs.NormalIndex)
}

func TestTriangulatePerVertexKeepsNormals(t *testing.T) {
	ifs := unitSquare()
	ifs.NormalPerVertex = true
	ifs.Normal = make([]float32, 12)

	require.NoError(t, ifs.Triangulate())
	assert.Len(t, ifs.Normal, 12)
	assert.Equal(t, scene.BindingPerVertex, ifs.NormalBinding())
}

func TestTriangulateMalformed(t *testing.T) {
	ifs := &scene.IndexedFaceSet{CoordIndex: []int{0, 1, 2, 3}}
	require.Error(t, ifs.Triangulate())

	short := unitSquare()
	short.NormalPerVertex = true
	short.NormalIndex = []int{0}
	require.ErrorIs(t, short.Triangulate(), scene.ErrIndexOutOfRange)
}
