// Package faces implements a corner table over a flat polygon index stream.
//
// The stream interleaves 0-based vertex ids with negative terminators, one
// per face:
//
//	[]int{0, 1, 2, -1, 3, 4, 5, -1}
//
// Construction copies the stream and rewrites every terminator into a
// back-reference to the face it closes, so the flat array doubles as a
// circular list of corners per face. A Faces value is immutable once New
// returns and may be shared between goroutines without locking.
package faces
