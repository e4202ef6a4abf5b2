// Package mc drives a spin configuration through Monte-Carlo time with
// single-spin-flip Metropolis-Hastings updates. The Markov chain is
// inherently sequential: every step depends on the current
// configuration and the next draw from one shared random stream, so
// Evolve runs strictly in order on the calling goroutine.
package mc

import (
	"errors"
	"math"

	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
	"github.com/san-kum/spinmc/internal/rng"
)

// ErrSizeMismatch indicates a configuration whose size differs from
// the lattice it is evolved on.
var ErrSizeMismatch = errors.New("mc: configuration size does not match lattice")

// Measurement is a hook invoked once per sweep after the built-in
// observables have been recorded, e.g. to snapshot the configuration
// to storage.
type Measurement interface {
	Measure(cfg *ising.Configuration, energy float64)
}

// Result is the outcome of one Evolve call.
type Result struct {
	// Cfg is the evolved configuration. It is an independent copy;
	// the input configuration is left untouched.
	Cfg *ising.Configuration
	// Energy is the running energy after the last sweep. It matches a
	// fresh Hamiltonian evaluation of Cfg up to floating-point error.
	Energy float64
	// AcceptanceRate is the fraction of accepted flips in [0, 1].
	AcceptanceRate float64
}

// Evolve performs nSweeps sweeps of size(lat) single-spin-flip
// attempts each. A proposed flip is accepted outright when it does not
// raise the energy; otherwise it is accepted with probability
// exp(-delta). The delta <= 0 short circuit skips the costly
// exponential and, deliberately, the GenReal draw: the random stream
// consumed by a run therefore depends on which steps were accepted for
// free. This matches the reference behaviour and must not be reordered
// if reproducibility per seed is to be preserved.
//
// When obs is nil the sweeps are pure thermalisation with no
// measurement bookkeeping. Each extra Measurement runs once per sweep
// after the built-in recording.
func Evolve(cfg *ising.Configuration, energy float64, p ising.Parameters,
	lat *lattice.Lattice, r *rng.Rng, nSweeps int,
	obs *Observables, extra ...Measurement) (Result, error) {

	if cfg.Size() != lat.Size() {
		return Result{}, ErrSizeMismatch
	}

	work := cfg.Clone()
	size := lat.Size().Int()
	naccept := 0

	for sweep := 0; sweep < nSweeps; sweep++ {
		for step := 0; step < size; step++ {
			site := r.GenIndex()
			delta := ising.DeltaE(work, site, p, lat)

			if delta <= 0 || math.Exp(-delta) > r.GenReal() {
				work.Flip(site)
				energy += delta
				naccept++
			}
		}

		if obs != nil {
			if err := obs.record(work, energy, lat); err != nil {
				return Result{}, err
			}
		}
		for _, m := range extra {
			m.Measure(work, energy)
		}
	}

	rate := 0.0
	if nSweeps > 0 {
		rate = float64(naccept) / float64(nSweeps) / float64(size)
	}
	return Result{Cfg: work, Energy: energy, AcceptanceRate: rate}, nil
}
