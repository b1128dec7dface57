package config

import (
	"sort"

	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
	"github.com/san-kum/bemsim/internal/rootfind"
	"github.com/san-kum/bemsim/internal/rotor"
)

var Presets = map[string]*Config{
	"nrel": DefaultConfig(),
	"nrel-small": {
		Name:      "nrel-small",
		Blade:     geometry.ReferenceBlade(),
		Operating: rotor.Operating{RPM: 106.952, Rho: 1.225, VInf: 7},
		Elements:  3,
		Solver: SolverConfig{
			Formulation: "tip-speed", Coefficients: "table", Finder: "broyden", Basis: string(bem.TorqueBasis),
			AInit: DefaultAInit, BInit: DefaultBInit, Settings: rootfind.DefaultSettings(),
		},
	},
	"propeller": {
		Name:      "propeller",
		Blade:     rotor.PropellerRotor().Blade,
		Operating: rotor.PropellerRotor().Operating,
		Elements:  6,
		Solver: SolverConfig{
			Formulation: "angle", Coefficients: "table", Finder: "broyden", Basis: string(bem.TorqueBasis),
			AInit: DefaultAInit, BInit: DefaultBInit, Settings: rootfind.DefaultSettings(),
		},
	},
	"propeller-linear": {
		Name:      "propeller-linear",
		Blade:     rotor.PropellerRotor().Blade,
		Operating: rotor.PropellerRotor().Operating,
		Elements:  6,
		Solver: SolverConfig{
			Formulation: "angle", Coefficients: "linear", Finder: "broyden", Basis: string(bem.TorqueBasis),
			AInit: DefaultAInit, BInit: DefaultBInit, Settings: rootfind.DefaultSettings(),
			Retries: []Guess{{A: 0.05, B: 0.005}, {A: 0.4, B: 0.02}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	out.Solver.Retries = append([]Guess(nil), cfg.Solver.Retries...)
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
