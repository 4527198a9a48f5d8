// Package scene defines the scene graph exchanged between mesh loaders and
// savers. The tree is closed: Node and Geometry are implemented only by the
// types in this package, so consumers can switch over them exhaustively.
package scene
