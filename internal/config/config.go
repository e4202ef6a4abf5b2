// Package config loads and validates simulation input files. The YAML
// schema follows the simulation sections: lattice, rng, parameters, mc
// and measure. Scalar-or-sequence fields (J, h, ntherm, nprod) are
// broadcast against each other once at load time; by the time a sweep
// runs every per-ensemble sequence has the same length.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
)

const (
	StartHot  = "hot"
	StartCold = "cold"

	MetricEuclidean = "euclidean"
	MetricManhattan = "manhattan"
)

type Config struct {
	Lattice    LatticeConfig `yaml:"lattice"`
	RNG        RNGConfig     `yaml:"rng"`
	Parameters ParamConfig   `yaml:"parameters"`
	MC         MCConfig      `yaml:"mc"`
	Measure    MeasureConfig `yaml:"measure"`
	WriteCfg   bool          `yaml:"write_cfg"`
}

type LatticeConfig struct {
	Shape []int `yaml:"shape"`
}

type RNGConfig struct {
	Seed uint64 `yaml:"seed"`
}

type ParamConfig struct {
	J FloatList `yaml:"J"`
	H FloatList `yaml:"h"`
}

type MCConfig struct {
	NThermInit int     `yaml:"ntherm_init"`
	NTherm     IntList `yaml:"ntherm"`
	NProd      IntList `yaml:"nprod"`
	Start      string  `yaml:"start"`
}

type MeasureConfig struct {
	Energy        bool    `yaml:"energy"`
	Magnetization bool    `yaml:"magnetization"`
	Correlator    bool    `yaml:"correlator"`
	MaxDistance   float64 `yaml:"max_distance"`
	Metric        string  `yaml:"metric"`
}

// Ensemble is one fully resolved (parameters, sweep counts) entry.
type Ensemble struct {
	Params ising.Parameters
	NTherm int
	NProd  int
}

func DefaultConfig() *Config {
	return &Config{
		Lattice: LatticeConfig{Shape: []int{32, 32}},
		RNG:     RNGConfig{Seed: 537},
		Parameters: ParamConfig{
			J: FloatList{0.3},
			H: FloatList{0.0},
		},
		MC: MCConfig{
			NThermInit: 1000,
			NTherm:     IntList{500},
			NProd:      IntList{2000},
			Start:      StartHot,
		},
		Measure: MeasureConfig{
			Energy:        true,
			Magnetization: true,
			Correlator:    false,
			MaxDistance:   0,
			Metric:        MetricEuclidean,
		},
	}
}

// Load reads a config file on top of the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.Lattice.Shape) == 0 {
		return fmt.Errorf("config: lattice shape must not be empty")
	}
	for _, ext := range c.Lattice.Shape {
		if ext < 1 {
			return fmt.Errorf("config: lattice extent must be positive, got %d", ext)
		}
	}
	if len(c.Parameters.J) == 0 || len(c.Parameters.H) == 0 {
		return fmt.Errorf("config: parameters J and h must not be empty")
	}
	if c.MC.Start != StartHot && c.MC.Start != StartCold {
		return fmt.Errorf("config: start must be %q or %q, got %q", StartHot, StartCold, c.MC.Start)
	}
	if c.MC.NThermInit < 0 {
		return fmt.Errorf("config: ntherm_init must not be negative")
	}
	for _, n := range append(append(IntList{}, c.MC.NTherm...), c.MC.NProd...) {
		if n < 0 {
			return fmt.Errorf("config: sweep counts must not be negative")
		}
	}
	if c.Measure.Metric != MetricEuclidean && c.Measure.Metric != MetricManhattan {
		return fmt.Errorf("config: metric must be %q or %q, got %q",
			MetricEuclidean, MetricManhattan, c.Measure.Metric)
	}
	if c.Measure.Correlator && c.Measure.MaxDistance <= 0 {
		return fmt.Errorf("config: correlator needs a positive max_distance")
	}
	if _, err := c.Ensembles(); err != nil {
		return err
	}
	return nil
}

// Ensembles resolves all broadcasting: J against h, then ntherm and
// nprod against the resulting parameter count. Length-1 sequences are
// broadcast, anything else must match exactly.
func (c *Config) Ensembles() ([]Ensemble, error) {
	j := c.Parameters.J
	h := c.Parameters.H
	if len(j) > 1 && len(h) > 1 && len(j) != len(h) {
		return nil, fmt.Errorf("config: J and h are both sequences but have different lengths (%d vs %d)",
			len(j), len(h))
	}
	n := max(len(j), len(h))
	j = broadcastFloats(j, n)
	h = broadcastFloats(h, n)

	ntherm, err := broadcastInts(c.MC.NTherm, n, "ntherm")
	if err != nil {
		return nil, err
	}
	nprod, err := broadcastInts(c.MC.NProd, n, "nprod")
	if err != nil {
		return nil, err
	}

	ensembles := make([]Ensemble, n)
	for i := range ensembles {
		ensembles[i] = Ensemble{
			Params: ising.Parameters{JT: j[i], HT: h[i]},
			NTherm: ntherm[i],
			NProd:  nprod[i],
		}
	}
	return ensembles, nil
}

// Shape converts the configured extents to lattice indices.
func (c *Config) Shape() []lattice.Index {
	shape := make([]lattice.Index, len(c.Lattice.Shape))
	for i, ext := range c.Lattice.Shape {
		shape[i] = lattice.Index(ext)
	}
	return shape
}

// Metric returns the configured distance metric.
func (c *Config) Metric() lattice.Metric {
	if c.Measure.Metric == MetricManhattan {
		return lattice.Manhattan
	}
	return lattice.Euclidean
}

// HotStart reports whether the run begins from a random configuration.
func (c *Config) HotStart() bool { return c.MC.Start == StartHot }

func broadcastFloats(vals FloatList, n int) FloatList {
	if len(vals) == n {
		return vals
	}
	out := make(FloatList, n)
	for i := range out {
		out[i] = vals[0]
	}
	return out
}

func broadcastInts(vals IntList, n int, field string) (IntList, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("config: %s must not be empty", field)
	}
	if len(vals) > 1 {
		if len(vals) != n {
			return nil, fmt.Errorf("config: %s has %d entries but there are %d parameter sets",
				field, len(vals), n)
		}
		return vals, nil
	}
	out := make(IntList, n)
	for i := range out {
		out[i] = vals[0]
	}
	return out, nil
}
