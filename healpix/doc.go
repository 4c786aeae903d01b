// Package healpix implements the nested HEALPix pixelisation of the sphere
// and the 64-bit sortable spatial key derived from it.
//
// HEALPix divides the sphere into 12 equal-area base cells; each subdivision
// order splits every cell into 4 children. In the nested numbering scheme a
// child id is derived from its parent by bit interleaving, so every pixel
// covers a contiguous id range at any finer order. That property is what makes
// the spatial key sortable: all objects inside a pixel occupy one contiguous
// key range.
package healpix
