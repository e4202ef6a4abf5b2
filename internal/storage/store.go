// Package storage persists simulation runs. Each run gets its own
// directory under the store's base directory holding a metadata.json
// plus, per ensemble, an NNNN.dat CSV of observable time series and an
// optional NNNN.cfg of appended configuration snapshots.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/spinmc/internal/config"
	"github.com/san-kum/spinmc/internal/mc"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// EnsembleMetadata summarizes one completed ensemble.
type EnsembleMetadata struct {
	Index             int     `json:"index"`
	JT                float64 `json:"j"`
	HT                float64 `json:"h"`
	NTherm            int     `json:"ntherm"`
	NProd             int     `json:"nprod"`
	ThermAcceptance   float64 `json:"therm_acceptance"`
	ProdAcceptance    float64 `json:"prod_acceptance"`
	MeanEnergy        float64 `json:"mean_energy"`
	MeanMagnetization float64 `json:"mean_magnetization"`
	RunTimeMs         int64   `json:"run_time_ms"`
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Shape          []int              `json:"shape"`
	Seed           uint64             `json:"seed"`
	Start          string             `json:"start"`
	NThermInit     int                `json:"ntherm_init"`
	InitAcceptance float64            `json:"init_acceptance"`
	Ensembles      []EnsembleMetadata `json:"ensembles"`
}

// Run is an in-progress run directory. Ensemble results are written as
// they complete; Finish persists the metadata.
type Run struct {
	dir  string
	meta RunMetadata
}

// Begin creates a fresh run directory named ising_<unix seconds>.
func (s *Store) Begin(cfg *config.Config) (*Run, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	runID := fmt.Sprintf("ising_%d", time.Now().Unix())
	dir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Run{
		dir: dir,
		meta: RunMetadata{
			ID:         runID,
			Timestamp:  time.Now(),
			Shape:      cfg.Lattice.Shape,
			Seed:       cfg.RNG.Seed,
			Start:      cfg.MC.Start,
			NThermInit: cfg.MC.NThermInit,
		},
	}, nil
}

func (r *Run) ID() string { return r.meta.ID }

// SetInitAcceptance records the initial thermalisation acceptance rate.
func (r *Run) SetInitAcceptance(rate float64) { r.meta.InitAcceptance = rate }

// AddEnsemble records the summary of a completed ensemble.
func (r *Run) AddEnsemble(meta EnsembleMetadata) {
	r.meta.Ensembles = append(r.meta.Ensembles, meta)
}

// WriteObservables writes one ensemble's time series as NNNN.dat. The
// measure toggles select which columns appear; the sweep counter
// column is always present.
func (r *Run) WriteObservables(ensemble int, obs *mc.Observables, measure config.MeasureConfig) error {
	f, err := os.Create(filepath.Join(r.dir, ensembleFileName(ensemble, ".dat")))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"sweep"}
	if measure.Energy {
		header = append(header, "energy")
	}
	if measure.Magnetization {
		header = append(header, "magnetization")
	}
	if obs.Correlator != nil {
		for _, sqd := range obs.Correlator.SqDistances {
			header = append(header, fmt.Sprintf("corr_%d", sqd))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for sweep := 0; sweep < obs.Sweeps(); sweep++ {
		row := []string{strconv.Itoa(sweep)}
		if measure.Energy {
			row = append(row, formatFloat(obs.Energy[sweep]))
		}
		if measure.Magnetization {
			row = append(row, formatFloat(obs.Magnetization[sweep]))
		}
		if obs.Correlator != nil {
			for _, bin := range obs.Correlator.Bins {
				row = append(row, formatFloat(bin[sweep]))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// Finish writes metadata.json.
func (r *Run) Finish() error {
	f, err := os.Create(filepath.Join(r.dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

// List returns the metadata of all stored runs.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Series is a loaded observable table in column-major order:
// Columns[k] names Data[k].
type Series struct {
	Columns []string
	Data    [][]float64
}

// LoadSeries reads one ensemble's NNNN.dat back into memory.
func (s *Store) LoadSeries(runID string, ensemble int) (*Series, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, ensembleFileName(ensemble, ".dat")))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: ensemble file for %s/%d is empty", runID, ensemble)
	}

	series := &Series{
		Columns: records[0],
		Data:    make([][]float64, len(records[0])),
	}
	for _, record := range records[1:] {
		for k, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad value %q in %s: %w", field, runID, err)
			}
			series.Data[k] = append(series.Data[k], v)
		}
	}
	return series, nil
}

func ensembleFileName(ensemble int, extension string) string {
	return fmt.Sprintf("%04d%s", ensemble, extension)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
