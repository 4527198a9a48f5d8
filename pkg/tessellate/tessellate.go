// Package tessellate turns an evaluated design into scene graphs. Each
// named solid is meshed by a geometry kernel, welded, and stored as a
// triangle IndexedFaceSet with per-face normals, ready for stl.Save.
package tessellate

import (
	"fmt"

	"github.com/chazu/cornermesh/pkg/engine"
	"github.com/chazu/cornermesh/pkg/faces"
	"github.com/chazu/cornermesh/pkg/kernel"
	"github.com/chazu/cornermesh/pkg/meshlog"
	"github.com/chazu/cornermesh/pkg/scene"
)

// palette assigns distinct diffuse colors to successive solids.
var palette = [][3]float32{
	{0.290, 0.565, 0.851}, // #4A90D9
	{0.902, 0.494, 0.133}, // #E67E22
	{0.180, 0.800, 0.443}, // #2ECC71
	{0.608, 0.349, 0.714}, // #9B59B6
	{0.906, 0.298, 0.235}, // #E74C3C
	{0.102, 0.737, 0.612}, // #1ABC9C
	{0.953, 0.612, 0.071}, // #F39C12
	{0.204, 0.596, 0.859}, // #3498DB
}

// Tessellate meshes every solid of d with k and returns one single-shape
// scene graph per solid, in definition order. Each shape gets the next
// palette color. The design is not mutated.
func Tessellate(d *engine.Design, k kernel.Kernel) ([]*scene.SceneGraph, error) {
	if d == nil {
		return nil, nil
	}

	graphs := make([]*scene.SceneGraph, 0, len(d.Solids))
	for i, ns := range d.Solids {
		m, err := k.ToMesh(ns.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: solid %q: %w", ns.Name, err)
		}
		m.Name = ns.Name
		m.Weld()

		mat := scene.NewMaterial()
		mat.DiffuseColor = palette[i%len(palette)]

		g := scene.New()
		g.AddChild(&scene.Shape{
			Name:       ns.Name,
			Appearance: &scene.Appearance{Material: mat},
			Geometry:   MeshToFaceSet(m),
		})
		graphs = append(graphs, g)

		meshlog.Logger().Info("tessellate: meshed solid",
			"name", ns.Name, "vertices", m.VertexCount(), "triangles", m.TriangleCount())
	}
	return graphs, nil
}

// MeshToFaceSet converts a kernel mesh into an IndexedFaceSet. Every
// triangle becomes a three-vertex face closed by faces.Terminator, and the
// mesh's per-triangle normals become per-face normals. The mesh's slices
// are copied.
func MeshToFaceSet(m *kernel.Mesh) *scene.IndexedFaceSet {
	nT := m.TriangleCount()
	coordIndex := make([]int, 0, nT*4)
	for t := 0; t < nT; t++ {
		tri := m.Indices[t*3 : t*3+3]
		coordIndex = append(coordIndex, int(tri[0]), int(tri[1]), int(tri[2]), faces.Terminator)
	}

	return &scene.IndexedFaceSet{
		Name:            m.Name,
		CoordIndex:      coordIndex,
		Coord:           append([]float32(nil), m.Vertices...),
		Normal:          append([]float32(nil), m.Normals...),
		NormalPerVertex: false,
	}
}
