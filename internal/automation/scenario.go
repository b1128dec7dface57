// Package automation runs scripted batches of rotor evaluations.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bemsim/internal/config"
	"github.com/san-kum/bemsim/internal/rotor"
	"github.com/san-kum/bemsim/internal/storage"
	"github.com/san-kum/bemsim/internal/sweep"
)

var ErrEmptyScenario = errors.New("automation: scenario has no cases")

// Scenario defines a scripted sequence of rotor evaluations
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cases       []Case `yaml:"cases"`
}

// Case starts from a preset (the default config when empty) and applies
// parameter overrides by sweep parameter name.
type Case struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Set    map[string]float64 `yaml:"set"`
	Save   bool               `yaml:"save"`
}

type CaseResult struct {
	Case   Case
	Result *rotor.Result
	RunID  string
	Err    error
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(scenario.Cases) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// RunScenario evaluates every case in order. A failing case is recorded
// on its result and the run continues; only cancellation stops it. Cases
// marked Save are stored when st is not nil.
func RunScenario(ctx context.Context, sc *Scenario, log logrus.FieldLogger, st *storage.Store) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(sc.Cases))

	for i, c := range sc.Cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		clog := log.WithFields(logrus.Fields{"scenario": sc.Name, "case": c.Name, "step": i + 1})
		cr := CaseResult{Case: c}
		cr.Result, cr.RunID, cr.Err = runCase(ctx, c, clog, st)
		if cr.Err != nil {
			clog.WithError(cr.Err).Warn("case failed")
		}
		results = append(results, cr)
	}
	return results, nil
}

func runCase(ctx context.Context, c Case, log logrus.FieldLogger, st *storage.Store) (*rotor.Result, string, error) {
	cfg := config.DefaultConfig()
	if c.Preset != "" {
		if cfg = config.GetPreset(c.Preset); cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", c.Preset, config.ListPresets())
		}
	}

	ev, r, err := cfg.Build(log)
	if err != nil {
		return nil, "", err
	}

	// apply in a fixed order so a failing override is reported consistently
	keys := make([]string, 0, len(c.Set))
	for k := range c.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if r, err = sweep.Apply(r, sweep.Param(k), c.Set[k]); err != nil {
			return nil, "", err
		}
	}

	res, err := ev.Evaluate(ctx, r)
	if err != nil {
		return nil, "", err
	}

	if !c.Save || st == nil {
		return res, "", nil
	}
	name := c.Name
	if name == "" {
		name = cfg.Name
	}
	runID, err := st.Save(storage.RunInfo{
		Name:         name,
		Formulation:  cfg.Solver.Formulation,
		Coefficients: cfg.Solver.Coefficients,
		Finder:       cfg.Solver.Finder,
	}, res)
	return res, runID, err
}
