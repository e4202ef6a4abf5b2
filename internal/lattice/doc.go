// Package lattice models n-dimensional hyperrectangular lattices with
// periodic boundary conditions. A Lattice owns a precomputed nearest
// neighbour list and, optionally, a map from squared minimum-image
// distance to all pairs of sites separated by that distance. Both are
// built once at construction; a Lattice is immutable afterwards.
//
// Sites are addressed by flat row-major indices: the first coordinate
// of the shape is the most significant, the last one varies fastest.
package lattice
