package lattice

import "math"

// Metric selects how per-dimension separations combine into a squared
// lattice distance.
type Metric int

const (
	// Euclidean combines separations as the sum of their squares.
	Euclidean Metric = iota
	// Manhattan combines separations as the square of their sum.
	Manhattan
)

func (m Metric) validate() error {
	switch m {
	case Euclidean, Manhattan:
		return nil
	}
	return ErrUnknownMetric
}

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	}
	return "invalid"
}

// Pair is an unordered pair of site indices with A <= B.
type Pair struct {
	A, B Index
}

// minDist1D returns the minimum-image separation of two coordinates in
// a single dimension of the given extent.
func minDist1D(x0, x1, extent Index) int {
	forward := ((extent + x1 - x0) % extent).Int()
	backward := extent.Int() - forward
	return min(forward, backward)
}

func sqMinDist(site0, site1, shape []Index, metric Metric) int {
	switch metric {
	case Manhattan:
		sum := 0
		for d := range shape {
			sum += minDist1D(site0[d], site1[d], shape[d])
		}
		return sum * sum
	default:
		sq := 0
		for d := range shape {
			sep := minDist1D(site0[d], site1[d], shape[d])
			sq += sep * sep
		}
		return sq
	}
}

// buildDistMap classifies all unordered pairs (i, j), i <= j, by their
// squared minimum-image distance, keeping only pairs whose distance is
// strictly below maxDist.
func buildDistMap(shape []Index, size Index, maxDist float64, metric Metric) map[int][]Pair {
	distMap := make(map[int][]Pair)

	site0 := make([]Index, len(shape))
	site1 := make([]Index, len(shape))
	for i := Index(0); i+1 < size; i++ {
		copy(site1, site0)
		for j := i; j < size; j++ {
			sq := sqMinDist(site0, site1, shape, metric)
			if math.Sqrt(float64(sq)) < maxDist {
				distMap[sq] = append(distMap[sq], Pair{A: i, B: j})
			}
			increment(site1, shape)
		}
		increment(site0, shape)
	}
	return distMap
}
