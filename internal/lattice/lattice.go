package lattice

import "slices"

// Lattice is an n-dimensional periodic lattice. It is immutable once
// constructed; all precomputation happens in New / NewWithDistanceMap.
type Lattice struct {
	shape     []Index
	size      Index
	neighbors []Index // 2*ndim entries per site: {+1, -1} per dimension
	distMap   map[int][]Pair
	sqDists   []int // keys of distMap, ascending
}

// New builds a lattice from its shape without a distance map.
func New(shape []Index) (*Lattice, error) {
	return NewWithDistanceMap(shape, 0, Euclidean)
}

// NewWithDistanceMap builds a lattice from its shape and, if
// maxDist > 0, classifies all pairs of sites by squared minimum-image
// distance up to (excluding) maxDist under the given metric. The
// classification is O(size^2 * ndim) and runs once here, never in the
// sweep loop.
func NewWithDistanceMap(shape []Index, maxDist float64, metric Metric) (*Lattice, error) {
	if len(shape) == 0 {
		return nil, ErrEmptyShape
	}
	for _, ext := range shape {
		if ext == 0 {
			return nil, ErrZeroExtent
		}
	}
	if err := metric.validate(); err != nil {
		return nil, err
	}

	lat := &Lattice{
		shape: slices.Clone(shape),
		size:  sizeOf(shape),
	}
	lat.neighbors = makeNeighborList(lat.shape, lat.size)
	if maxDist > 0 {
		lat.distMap = buildDistMap(lat.shape, lat.size, maxDist, metric)
		lat.sqDists = make([]int, 0, len(lat.distMap))
		for d := range lat.distMap {
			lat.sqDists = append(lat.sqDists, d)
		}
		slices.Sort(lat.sqDists)
	}
	return lat, nil
}

// Size returns the total number of sites.
func (l *Lattice) Size() Index { return l.size }

// NDim returns the number of dimensions.
func (l *Lattice) NDim() Index { return Index(len(l.shape)) }

// Shape returns a copy of the per-dimension extents.
func (l *Lattice) Shape() []Index { return slices.Clone(l.shape) }

// Extent returns the lattice extent in dimension dim.
func (l *Lattice) Extent(dim Index) (Index, error) {
	if dim.Int() >= len(l.shape) {
		return 0, ErrDimRange
	}
	return l.shape[dim], nil
}

// Neighbor returns the index of neighbour number k of site. Slots come
// in {+1, -1} pairs per dimension, so k ranges over [0, 2*ndim).
func (l *Lattice) Neighbor(site, k Index) (Index, error) {
	if site >= l.size {
		return 0, ErrSiteRange
	}
	if k >= 2*l.NDim() {
		return 0, ErrNeighborRange
	}
	return l.neighbors[(Index(2).Mul(l.NDim()).Mul(site).Add(k)).Int()], nil
}

// Neighbors returns a read-only view over the 2*ndim neighbour indices
// of site. It aliases the lattice's internal list and must not be
// modified. Out-of-range sites panic; the flat index is expected to
// come from this lattice.
func (l *Lattice) Neighbors(site Index) []Index {
	n := 2 * l.NDim().Int()
	off := n * site.Int()
	return l.neighbors[off : off+n : off+n]
}

// SqDistances returns the squared distances present in the distance
// map in ascending order. It is empty when no map was built.
func (l *Lattice) SqDistances() []int { return slices.Clone(l.sqDists) }

// PairsWithSqDistance returns all pairs of sites separated by the
// given squared distance. Asking for a distance that was never
// populated is a programming error and is reported as such.
func (l *Lattice) PairsWithSqDistance(sqDist int) ([]Pair, error) {
	pairs, ok := l.distMap[sqDist]
	if !ok {
		return nil, ErrUnknownDistance
	}
	return pairs, nil
}

// TotalIndex computes the flat row-major index of a coordinate vector:
// the first coordinate is the most significant, the last varies
// fastest. This must match the traversal order used for the neighbour
// list so that external coordinate arithmetic stays consistent.
func (l *Lattice) TotalIndex(coords []Index) (Index, error) {
	return totalIndex(coords, l.shape)
}

func totalIndex(coords, shape []Index) (Index, error) {
	if len(coords) != len(shape) {
		return 0, ErrShapeMismatch
	}
	total := coords[0]
	for d := 1; d < len(shape); d++ {
		total = total.Mul(shape[d]).Add(coords[d])
	}
	return total, nil
}

func sizeOf(shape []Index) Index {
	size := Index(1)
	for _, ext := range shape {
		size = size.Mul(ext)
	}
	return size
}

// increment advances coords like a mixed-radix counter with the last
// coordinate fastest, wrapping to all zeros after the final site.
func increment(coords, shape []Index) {
	for d := len(coords) - 1; d >= 0; d-- {
		coords[d]++
		if coords[d] < shape[d] {
			return
		}
		coords[d] = 0
	}
}

func makeNeighborList(shape []Index, size Index) []Index {
	ndim := len(shape)
	neighbors := make([]Index, 2*ndim*size.Int())

	coords := make([]Index, ndim)
	scratch := make([]Index, ndim)
	for i := Index(0); i < size; i++ {
		for d := 0; d < ndim; d++ {
			copy(scratch, coords)
			scratch[d] = coords[d].Next(shape[d])
			up, _ := totalIndex(scratch, shape)
			scratch[d] = coords[d].Prev(shape[d])
			down, _ := totalIndex(scratch, shape)

			neighbors[2*ndim*i.Int()+2*d] = up
			neighbors[2*ndim*i.Int()+2*d+1] = down
		}
		increment(coords, shape)
	}
	return neighbors
}
