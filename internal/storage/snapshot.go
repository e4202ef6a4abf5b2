package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/spinmc/internal/ising"
)

// SnapshotWriter appends one spin row per sweep to the ensemble's
// NNNN.cfg file. It plugs into the sweep engine as a Measurement hook;
// since the hook cannot return an error, write failures are latched
// and surfaced by Close.
type SnapshotWriter struct {
	f   *os.File
	w   *csv.Writer
	err error
}

// NewSnapshotWriter opens (or creates) the snapshot file for one
// ensemble of this run.
func (r *Run) NewSnapshotWriter(ensemble int) (*SnapshotWriter, error) {
	f, err := os.OpenFile(
		filepath.Join(r.dir, ensembleFileName(ensemble, ".cfg")),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &SnapshotWriter{f: f, w: csv.NewWriter(f)}, nil
}

// Measure appends the configuration as one CSV row of +-1 values.
func (sw *SnapshotWriter) Measure(cfg *ising.Configuration, energy float64) {
	if sw.err != nil {
		return
	}
	spins := cfg.Spins()
	row := make([]string, len(spins))
	for i, s := range spins {
		row[i] = strconv.Itoa(int(s))
	}
	sw.err = sw.w.Write(row)
}

// Close flushes and reports the first error encountered.
func (sw *SnapshotWriter) Close() error {
	sw.w.Flush()
	if sw.err == nil {
		sw.err = sw.w.Error()
	}
	if closeErr := sw.f.Close(); sw.err == nil {
		sw.err = closeErr
	}
	return sw.err
}
