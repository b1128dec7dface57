package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bemsim/internal/aero"
	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
	"github.com/san-kum/bemsim/internal/rootfind"
	"github.com/san-kum/bemsim/internal/rotor"
)

const (
	DefaultElements     = 6
	DefaultFormulation  = "tip-speed"
	DefaultCoefficients = "table"
	DefaultFinder       = "broyden"
	DefaultAInit        = 0.2
	DefaultBInit        = 0.01
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Name      string          `yaml:"name"`
	Blade     geometry.Blade  `yaml:"blade"`
	Operating rotor.Operating `yaml:"operating"`
	Elements  int             `yaml:"elements"`
	Solver    SolverConfig    `yaml:"solver"`
}

type SolverConfig struct {
	Formulation  string            `yaml:"formulation"`
	Coefficients string            `yaml:"coefficients"`
	Finder       string            `yaml:"finder"`
	Basis        string            `yaml:"basis"`
	AInit        float64           `yaml:"a_init"`
	BInit        float64           `yaml:"b_init"`
	Settings     rootfind.Settings `yaml:",inline"`
	Retries      []Guess           `yaml:"retries,omitempty"`
}

// Guess is an initial (a, b) pair.
type Guess struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

// DefaultConfig is the reference rotor slowed to a speed where every
// station has a physical root.
func DefaultConfig() *Config {
	return &Config{
		Name:  "nrel",
		Blade: geometry.ReferenceBlade(),
		Operating: rotor.Operating{
			RPM:  80,
			Rho:  1.225,
			VInf: 7,
		},
		Elements: DefaultElements,
		Solver: SolverConfig{
			Formulation:  DefaultFormulation,
			Coefficients: DefaultCoefficients,
			Finder:       DefaultFinder,
			Basis:        string(bem.TorqueBasis),
			AInit:        DefaultAInit,
			BInit:        DefaultBInit,
			Settings:     rootfind.DefaultSettings(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks names and ranges without building anything.
func (c *Config) Validate() error {
	if err := c.Blade.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Elements < 2 {
		return fmt.Errorf("%w: elements=%d, need at least 2", ErrInvalid, c.Elements)
	}
	switch {
	case c.Operating.RPM < 0:
		return fmt.Errorf("%w: rpm=%g is negative", ErrInvalid, c.Operating.RPM)
	case c.Operating.Rho <= 0:
		return fmt.Errorf("%w: rho=%g must be positive", ErrInvalid, c.Operating.Rho)
	case c.Operating.VInf <= 0:
		return fmt.Errorf("%w: v_inf=%g must be positive", ErrInvalid, c.Operating.VInf)
	}
	if _, err := bem.ParseBasis(c.Solver.Basis); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Solver.model(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := rootfind.New(c.Solver.Finder, c.Solver.Settings); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (s SolverConfig) model() (bem.InflowResidual, error) {
	m, err := aero.New(s.Coefficients)
	if err != nil {
		return nil, err
	}
	return bem.NewFormulation(s.Formulation, m)
}

// ElementSolver resolves the formulation, coefficient model and finder names.
func (c *Config) ElementSolver() (*bem.Solver, error) {
	residual, err := c.Solver.model()
	if err != nil {
		return nil, err
	}
	finder, err := rootfind.New(c.Solver.Finder, c.Solver.Settings)
	if err != nil {
		return nil, err
	}
	return bem.NewSolver(residual, finder), nil
}

func (c *Config) Rotor() (rotor.Rotor, error) {
	basis, err := bem.ParseBasis(c.Solver.Basis)
	if err != nil {
		return rotor.Rotor{}, err
	}
	return rotor.Rotor{
		Blade:     c.Blade,
		Operating: c.Operating,
		Elements:  c.Elements,
		AInit:     c.Solver.AInit,
		BInit:     c.Solver.BInit,
		Basis:     basis,
	}, nil
}

// Build validates c and returns an evaluator together with the rotor it
// describes.
func (c *Config) Build(log logrus.FieldLogger) (*rotor.Evaluator, rotor.Rotor, error) {
	if err := c.Validate(); err != nil {
		return nil, rotor.Rotor{}, err
	}
	solver, err := c.ElementSolver()
	if err != nil {
		return nil, rotor.Rotor{}, err
	}
	r, err := c.Rotor()
	if err != nil {
		return nil, rotor.Rotor{}, err
	}

	opts := []rotor.Option{rotor.WithLogger(log)}
	if len(c.Solver.Retries) > 0 {
		guesses := make([][2]float64, len(c.Solver.Retries))
		for i, g := range c.Solver.Retries {
			guesses[i] = [2]float64{g.A, g.B}
		}
		opts = append(opts, rotor.WithRetryGuesses(guesses...))
	}
	return rotor.NewEvaluator(solver, opts...), r, nil
}
