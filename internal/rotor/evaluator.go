package rotor

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/geometry"
)

// Result is one evaluated rotor.
type Result struct {
	Rotor       Rotor                `json:"rotor"`
	Stations    []geometry.Station   `json:"stations"`
	Elements    []bem.ElementOutput  `json:"elements"`
	Performance bem.RotorPerformance `json:"performance"`
	Elapsed     time.Duration        `json:"elapsed"`
}

// Evaluator turns a Rotor into a Result.
type Evaluator struct {
	solver  bem.ElementSolver
	guesses [][2]float64
	log     logrus.FieldLogger
}

type Option func(*Evaluator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithRetryGuesses sets initial (a, b) guesses that are tried in order for
// an element that fails to converge from the rotor's own guess.
func WithRetryGuesses(guesses ...[2]float64) Option {
	return func(e *Evaluator) { e.guesses = append([][2]float64(nil), guesses...) }
}

func NewEvaluator(solver bem.ElementSolver, opts ...Option) *Evaluator {
	e := &Evaluator{solver: solver}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	return e
}

// Evaluate solves every element of r concurrently and aggregates the loads.
// A degenerate performance is returned without error.
func (e *Evaluator) Evaluate(ctx context.Context, r Rotor) (*Result, error) {
	start := time.Now()
	log := e.log.WithFields(logrus.Fields{
		"elements": r.Elements,
		"rpm":      r.Operating.RPM,
		"v_inf":    r.Operating.VInf,
		"pitch":    r.Blade.Pitch,
	})

	stations, inputs, err := r.Inputs()
	if err != nil {
		return nil, err
	}

	log.Debug("solving elements")
	outputs, err := bem.SolveAll(ctx, e.elementSolver(log), inputs)
	if err != nil {
		log.WithError(err).Warn("rotor evaluation failed")
		return nil, err
	}

	deltaT, deltaQ := bem.Loads(outputs)
	perf, err := bem.Aggregate(bem.RotorInput{
		R:      r.Blade.RTip,
		RPM:    r.Operating.RPM,
		Rho:    r.Operating.Rho,
		VInf:   r.Operating.VInf,
		DeltaT: deltaT,
		DeltaQ: deltaQ,
	}, r.Basis)
	if err != nil {
		return nil, err
	}

	for _, w := range perf.Warnings() {
		log.Warn(w.String())
	}

	res := &Result{
		Rotor:       r,
		Stations:    stations,
		Elements:    outputs,
		Performance: perf,
		Elapsed:     time.Since(start),
	}
	log.WithFields(logrus.Fields{
		"thrust": perf.NetThrust,
		"torque": perf.NetTorque,
		"c_p":    perf.CP,
		"eta":    perf.Eta,
	}).Info("rotor evaluated")
	return res, nil
}

func (e *Evaluator) elementSolver(log logrus.FieldLogger) bem.ElementSolver {
	return &loggingSolver{base: e.solver, guesses: e.guesses, log: log}
}

type loggingSolver struct {
	base    bem.ElementSolver
	guesses [][2]float64
	log     logrus.FieldLogger
}

func (s *loggingSolver) Solve(in bem.ElementInput) (bem.ElementOutput, error) {
	log := s.log.WithField("r", in.R)

	out, err := s.base.Solve(in)
	if err == nil {
		log.WithFields(logrus.Fields{
			"a":          out.A,
			"b":          out.B,
			"iterations": out.Iterations,
		}).Debug("element converged")
		return out, nil
	}
	if !errors.Is(err, bem.ErrConvergence) {
		return out, err
	}

	for _, g := range s.guesses {
		retry := in
		retry.AInit, retry.BInit = g[0], g[1]
		o, rerr := s.base.Solve(retry)
		if rerr == nil {
			log.WithFields(logrus.Fields{
				"a_init": g[0],
				"b_init": g[1],
			}).Warn("element converged after retry")
			return o, nil
		}
	}
	return out, err
}
