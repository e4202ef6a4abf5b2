package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestEnsemblesBroadcasting(t *testing.T) {
	tests := []struct {
		name    string
		j, h    FloatList
		ntherm  IntList
		nprod   IntList
		want    int
		wantErr bool
	}{
		{"AllScalars", FloatList{0.3}, FloatList{0.1}, IntList{10}, IntList{20}, 1, false},
		{"JSequence", FloatList{0.1, 0.2, 0.3}, FloatList{0.0}, IntList{10}, IntList{20}, 3, false},
		{"HSequence", FloatList{0.5}, FloatList{-0.1, 0.1}, IntList{10}, IntList{20}, 2, false},
		{"BothMatch", FloatList{0.1, 0.2}, FloatList{0.3, 0.4}, IntList{10}, IntList{20}, 2, false},
		{"BothMismatch", FloatList{0.1, 0.2}, FloatList{1, 2, 3}, IntList{10}, IntList{20}, 0, true},
		{"NThermPerEnsemble", FloatList{0.1, 0.2}, FloatList{0}, IntList{10, 30}, IntList{20}, 2, false},
		{"NThermMismatch", FloatList{0.1, 0.2}, FloatList{0}, IntList{10, 20, 30}, IntList{20}, 0, true},
		{"NProdMismatch", FloatList{0.1, 0.2, 0.3}, FloatList{0}, IntList{10}, IntList{20, 30}, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Parameters.J = tc.j
			cfg.Parameters.H = tc.h
			cfg.MC.NTherm = tc.ntherm
			cfg.MC.NProd = tc.nprod

			ensembles, err := cfg.Ensembles()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Ensembles: %v", err)
			}
			if len(ensembles) != tc.want {
				t.Fatalf("got %d ensembles, want %d", len(ensembles), tc.want)
			}
		})
	}
}

func TestEnsemblesBroadcastValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parameters.J = FloatList{0.1, 0.2, 0.3}
	cfg.Parameters.H = FloatList{0.7}
	cfg.MC.NTherm = IntList{5}
	cfg.MC.NProd = IntList{1, 2, 3}

	ensembles, err := cfg.Ensembles()
	if err != nil {
		t.Fatalf("Ensembles: %v", err)
	}
	for i, ens := range ensembles {
		if ens.Params.HT != 0.7 {
			t.Errorf("ensemble %d: h = %g, want broadcast 0.7", i, ens.Params.HT)
		}
		if ens.NTherm != 5 {
			t.Errorf("ensemble %d: ntherm = %d, want broadcast 5", i, ens.NTherm)
		}
		if ens.NProd != i+1 {
			t.Errorf("ensemble %d: nprod = %d, want %d", i, ens.NProd, i+1)
		}
	}
}

func TestLoadScalarAndSequenceForms(t *testing.T) {
	input := `
lattice:
  shape: [8, 8]
rng:
  seed: 42
parameters:
  J: [0.2, 0.4]
  h: 0.0
mc:
  ntherm_init: 100
  ntherm: 50
  nprod: [200, 300]
  start: cold
measure:
  correlator: true
  max_distance: 3.0
  metric: manhattan
write_cfg: true
`
	path := filepath.Join(t.TempDir(), "in.yml")
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Lattice.Shape; len(got) != 2 || got[0] != 8 || got[1] != 8 {
		t.Errorf("shape = %v, want [8 8]", got)
	}
	if cfg.RNG.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.RNG.Seed)
	}
	if cfg.HotStart() {
		t.Error("start should be cold")
	}
	if !cfg.WriteCfg {
		t.Error("write_cfg should be true")
	}
	if cfg.Measure.Metric != MetricManhattan {
		t.Errorf("metric = %q, want manhattan", cfg.Measure.Metric)
	}

	ensembles, err := cfg.Ensembles()
	if err != nil {
		t.Fatalf("Ensembles: %v", err)
	}
	if len(ensembles) != 2 {
		t.Fatalf("got %d ensembles, want 2", len(ensembles))
	}
	if ensembles[0].NTherm != 50 || ensembles[1].NTherm != 50 {
		t.Errorf("ntherm not broadcast: %+v", ensembles)
	}
	if ensembles[0].NProd != 200 || ensembles[1].NProd != 300 {
		t.Errorf("nprod wrong: %+v", ensembles)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"EmptyShape", func(c *Config) { c.Lattice.Shape = nil }},
		{"ZeroExtent", func(c *Config) { c.Lattice.Shape = []int{4, 0} }},
		{"BadStart", func(c *Config) { c.MC.Start = "warm" }},
		{"NegativeNThermInit", func(c *Config) { c.MC.NThermInit = -1 }},
		{"NegativeNProd", func(c *Config) { c.MC.NProd = IntList{-5} }},
		{"BadMetric", func(c *Config) { c.Measure.Metric = "chebyshev" }},
		{"CorrelatorWithoutCutoff", func(c *Config) { c.Measure.Correlator = true; c.Measure.MaxDistance = 0 }},
		{"EmptyJ", func(c *Config) { c.Parameters.J = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")
	orig := GetPreset("critical-2d")
	if orig == nil {
		t.Fatal("preset missing")
	}
	if err := Save(path, orig); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Parameters.J) != len(orig.Parameters.J) {
		t.Errorf("J lost in round trip: %v vs %v", loaded.Parameters.J, orig.Parameters.J)
	}
	if loaded.Measure.MaxDistance != orig.Measure.MaxDistance {
		t.Errorf("max_distance = %g, want %g", loaded.Measure.MaxDistance, orig.Measure.MaxDistance)
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("no presets")
	}
	for _, name := range names {
		p := GetPreset(name)
		if p == nil {
			t.Fatalf("GetPreset(%q) = nil", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}

func TestGetPresetUnknown(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}
