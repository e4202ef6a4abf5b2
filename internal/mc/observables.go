package mc

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
)

// Correlator accumulates per-sweep spin-spin correlations binned by
// squared lattice distance. Bins[k] is the time series for
// SqDistances[k].
type Correlator struct {
	SqDistances []int
	Bins        [][]float64

	scratch []float64
}

func newCorrelator(lat *lattice.Lattice) *Correlator {
	sqd := lat.SqDistances()
	return &Correlator{
		SqDistances: sqd,
		Bins:        make([][]float64, len(sqd)),
	}
}

func (c *Correlator) measure(cfg *ising.Configuration, lat *lattice.Lattice) error {
	for k, sqd := range c.SqDistances {
		pairs, err := lat.PairsWithSqDistance(sqd)
		if err != nil {
			return err
		}
		if cap(c.scratch) < len(pairs) {
			c.scratch = make([]float64, len(pairs))
		}
		prods := c.scratch[:len(pairs)]
		for n, pair := range pairs {
			prods[n] = float64(cfg.At(pair.A)) * float64(cfg.At(pair.B))
		}
		c.Bins[k] = append(c.Bins[k], floats.Sum(prods)/float64(len(pairs)))
	}
	return nil
}

// Observables is the per-ensemble accumulator of measurement time
// series. One energy and one magnetization sample is appended per
// sweep; the correlator is present only when the lattice carries a
// distance map and correlator recording was requested.
type Observables struct {
	Energy        []float64
	Magnetization []float64
	Correlator    *Correlator
}

// NewObservables prepares an accumulator for the given lattice. The
// correlator bins parallel the lattice's ascending squared distances.
func NewObservables(lat *lattice.Lattice, recordCorrelator bool) *Observables {
	obs := &Observables{}
	if recordCorrelator && len(lat.SqDistances()) > 0 {
		obs.Correlator = newCorrelator(lat)
	}
	return obs
}

func (o *Observables) record(cfg *ising.Configuration, energy float64, lat *lattice.Lattice) error {
	o.Energy = append(o.Energy, energy)
	o.Magnetization = append(o.Magnetization, ising.Magnetization(cfg))
	if o.Correlator != nil {
		return o.Correlator.measure(cfg, lat)
	}
	return nil
}

// Sweeps returns the number of recorded samples.
func (o *Observables) Sweeps() int { return len(o.Energy) }

// MeanEnergy is the average of the energy series, 0 if empty.
func (o *Observables) MeanEnergy() float64 {
	if len(o.Energy) == 0 {
		return 0
	}
	return floats.Sum(o.Energy) / float64(len(o.Energy))
}

// MeanMagnetization is the average of the magnetization series, 0 if empty.
func (o *Observables) MeanMagnetization() float64 {
	if len(o.Magnetization) == 0 {
		return 0
	}
	return floats.Sum(o.Magnetization) / float64(len(o.Magnetization))
}
