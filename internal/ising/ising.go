// Package ising holds spin configurations on a lattice and evaluates
// the observables of the classical Ising model: the Hamiltonian, the
// magnetization and the energy change of a single spin flip.
package ising

import (
	"fmt"
	"slices"

	"github.com/san-kum/spinmc/internal/lattice"
)

// Spin is a single lattice spin, strictly -1 or +1.
type Spin int8

const (
	Up   Spin = +1
	Down Spin = -1
)

// Parameters are the dimensionless physical couplings of an ensemble.
type Parameters struct {
	JT float64 // nearest-neighbour coupling J / kT
	HT float64 // external field h / kT
}

// Configuration is a mutable assignment of one spin per lattice site,
// addressed by flat site index. Every element is +-1 at all times:
// construction and Set enforce the domain, Flip preserves it.
type Configuration struct {
	spins []Spin
}

// New returns a configuration of the given size with every site set to
// initial.
func New(size lattice.Index, initial Spin) (*Configuration, error) {
	if initial != Up && initial != Down {
		return nil, fmt.Errorf("ising: initial spin must be +1 or -1, got %d", initial)
	}
	spins := make([]Spin, size.Int())
	for i := range spins {
		spins[i] = initial
	}
	return &Configuration{spins: spins}, nil
}

// Size returns the number of sites.
func (c *Configuration) Size() lattice.Index { return lattice.Index(len(c.spins)) }

// At returns the spin at site i. Indices are expected to come from the
// lattice this configuration is paired with; out-of-range access is a
// programming error and panics.
func (c *Configuration) At(i lattice.Index) Spin { return c.spins[i.Int()] }

// Set stores s at site i.
func (c *Configuration) Set(i lattice.Index, s Spin) error {
	if s != Up && s != Down {
		return fmt.Errorf("ising: spin must be +1 or -1, got %d", s)
	}
	if i >= c.Size() {
		return fmt.Errorf("ising: site %d out of range for configuration of size %d", i, c.Size())
	}
	c.spins[i.Int()] = s
	return nil
}

// Flip negates the spin at site i. This is the only mutation the sweep
// engine performs.
func (c *Configuration) Flip(i lattice.Index) { c.spins[i.Int()] = -c.spins[i.Int()] }

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	return &Configuration{spins: slices.Clone(c.spins)}
}

// Spins returns a read-only view of the spins in site order. It
// aliases the configuration and must not be modified.
func (c *Configuration) Spins() []Spin { return c.spins[:len(c.spins):len(c.spins)] }

func sumOfNeighbors(cfg *Configuration, site lattice.Index, lat *lattice.Lattice) int {
	sum := 0
	for _, n := range lat.Neighbors(site) {
		sum += int(cfg.At(n))
	}
	return sum
}

// Hamiltonian evaluates the full energy of a configuration:
//
//	H = -J/kT * sum_i s_i * sum_neigh(i) s_n / 2  -  h/kT * sum_i s_i
//
// The factor 1/2 counts each undirected bond once. The configuration
// must have the lattice's size.
func Hamiltonian(cfg *Configuration, p Parameters, lat *lattice.Lattice) float64 {
	coupling := 0
	magn := 0
	for i := lattice.Index(0); i < lat.Size(); i++ {
		coupling += int(cfg.At(i)) * sumOfNeighbors(cfg, i, lat)
		magn += int(cfg.At(i))
	}
	return -p.JT*float64(coupling)/2.0 - p.HT*float64(magn)
}

// DeltaE is the energy change if the spin at site were flipped,
// computed in closed form from the bonds touching the site. It equals
// Hamiltonian(flipped) - Hamiltonian(original) exactly.
func DeltaE(cfg *Configuration, site lattice.Index, p Parameters, lat *lattice.Lattice) float64 {
	return 2.0 * float64(cfg.At(site)) *
		(p.JT*float64(sumOfNeighbors(cfg, site, lat)) + p.HT)
}

// Magnetization is the average spin of a configuration.
func Magnetization(cfg *Configuration) float64 {
	sum := 0
	for _, s := range cfg.spins {
		sum += int(s)
	}
	return float64(sum) / float64(len(cfg.spins))
}
