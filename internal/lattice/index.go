package lattice

// Index identifies either a flat lattice site or a single coordinate
// within one dimension. It is a dedicated type so that site indices do
// not mix silently with plain counters; all arithmetic goes through
// the explicit methods below. Only Next and Prev wrap around, and only
// against an explicit extent (periodic boundary conditions).
type Index uint64

// Add returns i + j.
func (i Index) Add(j Index) Index { return i + j }

// Sub returns i - j. The caller must ensure j <= i; indices are
// unsigned, so violating that wraps around like any Go unsigned type.
func (i Index) Sub(j Index) Index { return i - j }

// Mul returns i * j.
func (i Index) Mul(j Index) Index { return i * j }

// Next returns the coordinate after i in a dimension of the given
// extent, wrapping to 0 at the boundary.
func (i Index) Next(extent Index) Index {
	if i == extent-1 {
		return 0
	}
	return i + 1
}

// Prev returns the coordinate before i in a dimension of the given
// extent, wrapping to extent-1 at the boundary.
func (i Index) Prev(extent Index) Index {
	if i == 0 {
		return extent - 1
	}
	return i - 1
}

// Int converts i for use with built-in containers.
func (i Index) Int() int { return int(i) }
