package config

import "slices"

var presets = map[string]*Config{
	// Coupling scan through the 2D critical point J/kT ~ 0.4407.
	"critical-2d": {
		Lattice:    LatticeConfig{Shape: []int{32, 32}},
		RNG:        RNGConfig{Seed: 537},
		Parameters: ParamConfig{J: FloatList{0.30, 0.38, 0.42, 0.4407, 0.46, 0.55}, H: FloatList{0.0}},
		MC: MCConfig{
			NThermInit: 5000, NTherm: IntList{2000}, NProd: IntList{10000},
			Start: StartHot,
		},
		Measure: MeasureConfig{
			Energy: true, Magnetization: true,
			Correlator: true, MaxDistance: 8.0, Metric: MetricEuclidean,
		},
	},
	// Small 1D chain, useful for quick checks; no phase transition.
	"chain-1d": {
		Lattice:    LatticeConfig{Shape: []int{256}},
		RNG:        RNGConfig{Seed: 1},
		Parameters: ParamConfig{J: FloatList{0.5, 1.0, 1.5}, H: FloatList{0.0}},
		MC: MCConfig{
			NThermInit: 1000, NTherm: IntList{500}, NProd: IntList{5000},
			Start: StartHot,
		},
		Measure: MeasureConfig{Energy: true, Magnetization: true, Metric: MetricEuclidean},
	},
	// Field sweep at fixed coupling on a 3D lattice.
	"field-3d": {
		Lattice:    LatticeConfig{Shape: []int{12, 12, 12}},
		RNG:        RNGConfig{Seed: 9182},
		Parameters: ParamConfig{J: FloatList{0.22}, H: FloatList{-0.2, -0.1, 0.0, 0.1, 0.2}},
		MC: MCConfig{
			NThermInit: 2000, NTherm: IntList{1000}, NProd: IntList{4000},
			Start: StartCold,
		},
		Measure: MeasureConfig{Energy: true, Magnetization: true, Metric: MetricEuclidean},
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ListPresets returns the available preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
