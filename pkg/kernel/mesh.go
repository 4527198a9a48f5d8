package kernel

// Mesh is a triangle mesh produced by a kernel.
// Vertices holds 3 floats per vertex, Normals 3 floats per triangle and
// Indices 3 vertex indices per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...] one per triangle
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // solid the mesh was generated from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Weld merges vertices with identical positions and rewrites Indices to
// refer to the merged vertices. Vertex order follows first occurrence.
func (m *Mesh) Weld() {
	index := make(map[[3]float32]uint32, m.VertexCount())
	remap := make([]uint32, m.VertexCount())
	verts := make([]float32, 0, len(m.Vertices))

	for i := range remap {
		p := [3]float32{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
		j, ok := index[p]
		if !ok {
			j = uint32(len(verts) / 3)
			index[p] = j
			verts = append(verts, p[0], p[1], p[2])
		}
		remap[i] = j
	}
	for i, idx := range m.Indices {
		m.Indices[i] = remap[idx]
	}
	m.Vertices = verts
}
