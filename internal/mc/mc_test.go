package mc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
	"github.com/san-kum/spinmc/internal/rng"
)

type countingMeasurement struct {
	calls    int
	energies []float64
}

func (m *countingMeasurement) Measure(cfg *ising.Configuration, energy float64) {
	m.calls++
	m.energies = append(m.energies, energy)
}

func TestEvolveSizeMismatch(t *testing.T) {
	lat, err := lattice.New([]lattice.Index{4, 4})
	require.NoError(t, err)
	cfg, err := ising.New(8, ising.Up)
	require.NoError(t, err)

	_, err = Evolve(cfg, 0, ising.Parameters{}, lat, rng.New(lat.Size(), 1), 1, nil)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestEvolveEnergyConsistency(t *testing.T) {
	lat, err := lattice.New([]lattice.Index{8, 8})
	require.NoError(t, err)
	r := rng.New(lat.Size(), 7321)
	cfg := rng.RandomConfiguration(lat.Size(), r)

	p := ising.Parameters{JT: 0.44, HT: 0.05}
	energy := ising.Hamiltonian(cfg, p, lat)

	obs := NewObservables(lat, false)
	res, err := Evolve(cfg, energy, p, lat, r, 50, obs)
	require.NoError(t, err)

	require.GreaterOrEqual(t, res.AcceptanceRate, 0.0)
	require.LessOrEqual(t, res.AcceptanceRate, 1.0)

	// The running energy must track the Hamiltonian of the final state.
	require.InDelta(t, ising.Hamiltonian(res.Cfg, p, lat), res.Energy, 1e-8)

	require.Equal(t, 50, obs.Sweeps())
	require.Len(t, obs.Magnetization, 50)
	require.Nil(t, obs.Correlator)
}

func TestEvolveLeavesInputUntouched(t *testing.T) {
	lat, err := lattice.New([]lattice.Index{4, 4})
	require.NoError(t, err)
	r := rng.New(lat.Size(), 99)
	cfg := rng.RandomConfiguration(lat.Size(), r)
	before := cfg.Clone()

	p := ising.Parameters{JT: 0.3, HT: 0.0}
	res, err := Evolve(cfg, ising.Hamiltonian(cfg, p, lat), p, lat, r, 10, nil)
	require.NoError(t, err)

	require.Equal(t, before.Spins(), cfg.Spins())
	require.NotSame(t, cfg, res.Cfg)
}

func TestEvolveZeroSweeps(t *testing.T) {
	lat, err := lattice.New([]lattice.Index{4})
	require.NoError(t, err)
	cfg, err := ising.New(lat.Size(), ising.Up)
	require.NoError(t, err)

	res, err := Evolve(cfg, -1.5, ising.Parameters{JT: 1}, lat, rng.New(lat.Size(), 1), 0, nil)
	require.NoError(t, err)
	require.Equal(t, 0.0, res.AcceptanceRate)
	require.Equal(t, -1.5, res.Energy)
	require.Equal(t, cfg.Spins(), res.Cfg.Spins())
}

func TestEvolveAcceptsAllWhenFree(t *testing.T) {
	// With J = h = 0 every proposed flip has delta = 0 and is accepted
	// without consuming a GenReal draw.
	lat, err := lattice.New([]lattice.Index{6, 6})
	require.NoError(t, err)
	r := rng.New(lat.Size(), 42)
	cfg, err := ising.New(lat.Size(), ising.Up)
	require.NoError(t, err)

	res, err := Evolve(cfg, 0, ising.Parameters{}, lat, r, 5, nil)
	require.NoError(t, err)
	require.Equal(t, 1.0, res.AcceptanceRate)
}

func TestMeasurementHookRunsOncePerSweep(t *testing.T) {
	lat, err := lattice.New([]lattice.Index{4, 4})
	require.NoError(t, err)
	r := rng.New(lat.Size(), 5)
	cfg := rng.RandomConfiguration(lat.Size(), r)

	p := ising.Parameters{JT: 0.2, HT: 0.0}
	obs := NewObservables(lat, false)
	hook := &countingMeasurement{}

	const sweeps = 12
	_, err = Evolve(cfg, ising.Hamiltonian(cfg, p, lat), p, lat, r, sweeps, obs, hook)
	require.NoError(t, err)

	require.Equal(t, sweeps, hook.calls)
	// The hook sees the same running energy the built-in recording saw.
	require.Equal(t, obs.Energy, hook.energies)
}

func TestCorrelatorBinsParallelDistances(t *testing.T) {
	lat, err := lattice.NewWithDistanceMap([]lattice.Index{4, 4}, 2.0, lattice.Euclidean)
	require.NoError(t, err)

	obs := NewObservables(lat, true)
	require.NotNil(t, obs.Correlator)
	require.Equal(t, lat.SqDistances(), obs.Correlator.SqDistances)

	// A frozen all-up configuration has correlation 1 at every distance.
	cfg, err := ising.New(lat.Size(), ising.Up)
	require.NoError(t, err)
	require.NoError(t, obs.record(cfg, 0, lat))
	require.NoError(t, obs.record(cfg, 0, lat))

	for k, bin := range obs.Correlator.Bins {
		require.Len(t, bin, 2, "bin %d", k)
		require.InDelta(t, 1.0, bin[0], 1e-12)
		require.InDelta(t, 1.0, bin[1], 1e-12)
	}
}

func TestCorrelatorCheckerboard(t *testing.T) {
	lat, err := lattice.NewWithDistanceMap([]lattice.Index{4, 4}, 2.0, lattice.Euclidean)
	require.NoError(t, err)

	// Checkerboard: nearest neighbours anti-correlated, diagonals
	// correlated.
	cfg, err := ising.New(lat.Size(), ising.Up)
	require.NoError(t, err)
	for i := lattice.Index(0); i < lat.Size(); i++ {
		r, c := i/4, i%4
		if (r+c)%2 == 1 {
			cfg.Flip(i)
		}
	}

	obs := NewObservables(lat, true)
	require.NoError(t, obs.record(cfg, 0, lat))

	for k, sqd := range obs.Correlator.SqDistances {
		var want float64
		switch sqd {
		case 0, 2:
			want = 1.0
		case 1:
			want = -1.0
		default:
			t.Fatalf("unexpected squared distance %d", sqd)
		}
		require.InDelta(t, want, obs.Correlator.Bins[k][0], 1e-12, "sq distance %d", sqd)
	}
}

func TestNewObservablesWithoutDistanceMap(t *testing.T) {
	lat, err := lattice.New([]lattice.Index{4, 4})
	require.NoError(t, err)

	// Asking for a correlator without a distance map yields none.
	obs := NewObservables(lat, true)
	require.Nil(t, obs.Correlator)
}

func TestObservableMeans(t *testing.T) {
	obs := &Observables{
		Energy:        []float64{1, 2, 3},
		Magnetization: []float64{-1, 1},
	}
	require.InDelta(t, 2.0, obs.MeanEnergy(), 1e-12)
	require.InDelta(t, 0.0, obs.MeanMagnetization(), 1e-12)

	empty := &Observables{}
	require.Equal(t, 0.0, empty.MeanEnergy())
	require.Equal(t, 0.0, empty.MeanMagnetization())
}
