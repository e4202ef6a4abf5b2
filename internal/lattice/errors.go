package lattice

import "errors"

var (
	// ErrEmptyShape indicates a lattice shape with no dimensions.
	ErrEmptyShape = errors.New("lattice: shape must have at least one dimension")
	// ErrZeroExtent indicates a dimension with extent zero.
	ErrZeroExtent = errors.New("lattice: every extent must be at least 1")
	// ErrDimRange indicates a dimension index >= ndim.
	ErrDimRange = errors.New("lattice: dimension out of range")
	// ErrSiteRange indicates a flat site index >= size.
	ErrSiteRange = errors.New("lattice: site index out of range")
	// ErrNeighborRange indicates a neighbour slot >= 2*ndim.
	ErrNeighborRange = errors.New("lattice: neighbour number out of range")
	// ErrUnknownDistance indicates a squared distance absent from the distance map.
	ErrUnknownDistance = errors.New("lattice: squared distance not in distance map")
	// ErrShapeMismatch indicates a coordinate vector whose length differs from ndim.
	ErrShapeMismatch = errors.New("lattice: number of coordinates does not match shape")
	// ErrUnknownMetric indicates a Metric value outside the declared constants.
	ErrUnknownMetric = errors.New("lattice: unknown distance metric")
)
