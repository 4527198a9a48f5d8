package faces

import "fmt"

// Faces is a corner table built from a terminator-delimited index stream.
type Faces struct {
	nV int
	nF int
	nC int

	// firstCornerFace[iF] is the corner where face iF begins;
	// firstCornerFace[nF] == nC.
	firstCornerFace []int

	// coordIndex is a private copy of the input in which the terminator of
	// face iF has been rewritten to -(iF+1).
	coordIndex []int
}

// New builds a corner table from coordIndex. The slice is copied and never
// modified. A stream whose last entries are vertex ids with no closing
// terminator is rejected with ErrUnterminatedFace.
func New(coordIndex []int) (*Faces, error) {
	f := &Faces{
		coordIndex:      make([]int, len(coordIndex)),
		firstCornerFace: make([]int, 1, 1+len(coordIndex)/4),
	}
	copy(f.coordIndex, coordIndex)

	for iC, idx := range f.coordIndex {
		if idx < 0 {
			f.coordIndex[iC] = -(f.nF + 1)
			f.firstCornerFace = append(f.firstCornerFace, iC+1)
			f.nF++
		} else {
			f.nV++
		}
		f.nC++
	}

	if tail := f.firstCornerFace[f.nF]; tail != f.nC {
		return nil, fmt.Errorf("%w: %d vertex ids after corner %d",
			ErrUnterminatedFace, f.nC-tail, tail)
	}
	return f, nil
}

// NumberOfVertices returns the number of vertex corners in the stream.
// Repeated vertex ids are counted once per occurrence.
func (f *Faces) NumberOfVertices() int {
	return f.nV
}

// NumberOfFaces returns the number of terminators in the stream.
func (f *Faces) NumberOfFaces() int {
	return f.nF
}

// NumberOfCorners returns the length of the stream, terminators included.
func (f *Faces) NumberOfCorners() int {
	return f.nC
}

// FaceSize returns the number of corners of face iF including its
// terminator, so a triangle has size 4 and an empty face size 1.
func (f *Faces) FaceSize(iF int) (int, error) {
	if err := f.checkFace(iF); err != nil {
		return 0, err
	}
	return f.firstCornerFace[iF+1] - f.firstCornerFace[iF], nil
}

// FaceFirstCorner returns the corner at which face iF begins.
func (f *Faces) FaceFirstCorner(iF int) (int, error) {
	if err := f.checkFace(iF); err != nil {
		return 0, err
	}
	return f.firstCornerFace[iF], nil
}

// FaceVertex returns the vertex id at local offset j of face iF, for
// 0 <= j < FaceSize(iF)-1.
func (f *Faces) FaceVertex(iF, j int) (int, error) {
	size, err := f.FaceSize(iF)
	if err != nil {
		return 0, err
	}
	if j < 0 || j >= size-1 {
		return 0, fmt.Errorf("%w: face %d has no vertex %d", ErrCornerOutOfRange, iF, j)
	}
	return f.coordIndex[f.firstCornerFace[iF]+j], nil
}

// CornerFace returns the face owning vertex corner iC. The lookup scans
// forward to the face terminator and costs O(face degree).
func (f *Faces) CornerFace(iC int) (int, error) {
	if err := f.checkVertexCorner(iC); err != nil {
		return 0, err
	}
	for i := iC + 1; i < f.nC; i++ {
		if v := f.coordIndex[i]; v < 0 {
			return -v - 1, nil
		}
	}
	return 0, fmt.Errorf("%w: no terminator after corner %d", ErrMalformedTopology, iC)
}

// NextCorner returns the corner following iC around its face. The last
// vertex corner of a face wraps to the first one.
func (f *Faces) NextCorner(iC int) (int, error) {
	if err := f.checkVertexCorner(iC); err != nil {
		return 0, err
	}
	next := iC + 1
	if next >= f.nC {
		return 0, fmt.Errorf("%w: no terminator after corner %d", ErrMalformedTopology, iC)
	}
	if v := f.coordIndex[next]; v < 0 {
		return f.firstCornerFace[-v-1], nil
	}
	return next, nil
}

// IsTerminator reports whether corner iC closes a face.
func (f *Faces) IsTerminator(iC int) (bool, error) {
	if iC < 0 || iC >= f.nC {
		return false, fmt.Errorf("%w: %d", ErrCornerOutOfRange, iC)
	}
	return f.coordIndex[iC] < 0, nil
}

// FaceCorners returns the vertex corners of face iF in ring order, obtained
// by following NextCorner from the first corner. An empty face yields an
// empty slice.
func (f *Faces) FaceCorners(iF int) ([]int, error) {
	size, err := f.FaceSize(iF)
	if err != nil {
		return nil, err
	}
	ring := make([]int, 0, size-1)
	if size == 1 {
		return ring, nil
	}
	first := f.firstCornerFace[iF]
	c := first
	for {
		ring = append(ring, c)
		if c, err = f.NextCorner(c); err != nil {
			return nil, err
		}
		if c == first {
			return ring, nil
		}
		if len(ring) >= size-1 {
			return nil, fmt.Errorf("%w: ring of face %d does not close", ErrMalformedTopology, iF)
		}
	}
}

// CornerVertex returns the vertex id stored at vertex corner iC.
func (f *Faces) CornerVertex(iC int) (int, error) {
	if err := f.checkVertexCorner(iC); err != nil {
		return 0, err
	}
	return f.coordIndex[iC], nil
}

// FirstCorners returns a copy of the face boundary offsets, of length
// NumberOfFaces()+1.
func (f *Faces) FirstCorners() []int {
	out := make([]int, len(f.firstCornerFace))
	copy(out, f.firstCornerFace)
	return out
}

// AllFacesHaveSize reports whether every face has exactly k vertices. It is
// vacuously true for a table with no faces.
func (f *Faces) AllFacesHaveSize(k int) bool {
	for iF := 0; iF < f.nF; iF++ {
		if f.firstCornerFace[iF+1]-f.firstCornerFace[iF]-1 != k {
			return false
		}
	}
	return true
}

func (f *Faces) checkFace(iF int) error {
	if iF < 0 || iF >= f.nF {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrFaceOutOfRange, iF, f.nF)
	}
	return nil
}

func (f *Faces) checkVertexCorner(iC int) error {
	if iC < 0 || iC >= f.nC {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrCornerOutOfRange, iC, f.nC)
	}
	if f.coordIndex[iC] < 0 {
		return fmt.Errorf("%w: %d", ErrTerminatorCorner, iC)
	}
	return nil
}
