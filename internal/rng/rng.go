// Package rng provides the single seeded random stream driving a
// simulation run. One Rng is shared across all ensembles of a run so
// results are a deterministic function of the seed and the sequence of
// draws performed.
package rng

import (
	"math/rand/v2"

	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
)

// Rng wraps a seeded PCG generator behind the three draws the sweep
// engine needs. All draws advance the same generator state.
type Rng struct {
	src         *rand.Rand
	latticeSize uint64
}

// New seeds a generator and sets the bound for GenIndex. The 64-bit
// seed is expanded into the PCG's 128-bit state with splitmix64 so
// that small seeds still produce well-mixed streams.
func New(latticeSize lattice.Index, seed uint64) *Rng {
	hi := splitmix64(seed)
	lo := splitmix64(seed ^ 0xda942042e4dd58b5)
	return &Rng{
		src:         rand.New(rand.NewPCG(hi, lo)),
		latticeSize: uint64(latticeSize),
	}
}

// GenIndex draws a uniform site index in [0, latticeSize).
func (r *Rng) GenIndex() lattice.Index {
	return lattice.Index(r.src.Uint64N(r.latticeSize))
}

// GenReal draws a uniform float64 in [0, 1).
func (r *Rng) GenReal() float64 { return r.src.Float64() }

// GenSpin draws a uniform spin from {-1, +1}.
func (r *Rng) GenSpin() ising.Spin {
	if r.src.Uint64N(2) == 0 {
		return ising.Down
	}
	return ising.Up
}

// SetLatticeSize changes only the bound used by GenIndex. The
// generator state is untouched, so the remaining stream stays a
// deterministic function of the seed and the draws made so far.
func (r *Rng) SetLatticeSize(size lattice.Index) { r.latticeSize = uint64(size) }

// RandomConfiguration fills a new configuration of the given size with
// GenSpin draws in site index order.
func RandomConfiguration(size lattice.Index, r *Rng) *ising.Configuration {
	cfg, _ := ising.New(size, ising.Up)
	for i := lattice.Index(0); i < size; i++ {
		if err := cfg.Set(i, r.GenSpin()); err != nil {
			panic(err) // GenSpin only returns +-1
		}
	}
	return cfg
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
