// Package stl reads and writes ASCII STL files through the scene graph.
//
// The accepted grammar is
//
//	solid <name>
//	  facet normal <nx> <ny> <nz>
//	    outer loop
//	      vertex <x> <y> <z>
//	      ...
//	    endloop
//	  endfacet
//	  ...
//	endsolid <name>
//
// Keywords are case-sensitive and separated by any whitespace. A facet may
// hold any number of vertices; the saver only writes triangle meshes.
// Binary STL is not supported.
package stl
