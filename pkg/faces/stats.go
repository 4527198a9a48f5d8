package faces

// Stats summarizes the topology of a corner table.
type Stats struct {
	Vertices         int     `json:"vertices"`
	Faces            int     `json:"faces"`
	Corners          int     `json:"corners"`
	DistinctVertices int     `json:"distinct_vertices"`
	MaxVertexID      int     `json:"max_vertex_id"` // -1 when there are no vertices
	EmptyFaces       int     `json:"empty_faces"`
	Triangles        int     `json:"triangles"`
	MinDegree        int     `json:"min_degree"`
	MaxDegree        int     `json:"max_degree"`
	MeanDegree       float64 `json:"mean_degree"`
}

// Stats computes a topology summary. Degrees count vertices per face,
// terminators excluded.
func (f *Faces) Stats() Stats {
	s := Stats{
		Vertices:    f.nV,
		Faces:       f.nF,
		Corners:     f.nC,
		MaxVertexID: -1,
	}

	seen := make(map[int]struct{}, f.nV)
	for _, v := range f.coordIndex {
		if v < 0 {
			continue
		}
		seen[v] = struct{}{}
		if v > s.MaxVertexID {
			s.MaxVertexID = v
		}
	}
	s.DistinctVertices = len(seen)

	if f.nF == 0 {
		return s
	}
	s.MinDegree = int(^uint(0) >> 1)
	for iF := 0; iF < f.nF; iF++ {
		deg := f.firstCornerFace[iF+1] - f.firstCornerFace[iF] - 1
		switch deg {
		case 0:
			s.EmptyFaces++
		case 3:
			s.Triangles++
		}
		s.MinDegree = min(s.MinDegree, deg)
		s.MaxDegree = max(s.MaxDegree, deg)
	}
	s.MeanDegree = float64(f.nV) / float64(f.nF)
	return s
}
