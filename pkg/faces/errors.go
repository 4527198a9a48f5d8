package faces

import "errors"

// Terminator is the value every producer in this module emits to close a
// face. New accepts any negative value as a terminator.
const Terminator = -1

var (
	// ErrUnterminatedFace is returned by New when vertex ids follow the last
	// terminator of the stream.
	ErrUnterminatedFace = errors.New("faces: unterminated face at end of stream")

	// ErrFaceOutOfRange indicates a face index outside [0, NumberOfFaces()).
	ErrFaceOutOfRange = errors.New("faces: face index out of range")

	// ErrCornerOutOfRange indicates a corner index outside [0, NumberOfCorners())
	// or a local vertex offset outside the face.
	ErrCornerOutOfRange = errors.New("faces: corner index out of range")

	// ErrTerminatorCorner is returned when a vertex corner was required but the
	// corner holds a face terminator.
	ErrTerminatorCorner = errors.New("faces: corner is a face terminator")

	// ErrMalformedTopology is returned when a traversal runs off the end of
	// the stream without meeting a terminator.
	ErrMalformedTopology = errors.New("faces: malformed topology")
)
