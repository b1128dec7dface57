package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/bemsim/internal/config"
	"github.com/san-kum/bemsim/internal/export"
	"github.com/san-kum/bemsim/internal/rootfind"
	"github.com/san-kum/bemsim/internal/rotor"
	"github.com/san-kum/bemsim/internal/storage"
	"github.com/san-kum/bemsim/internal/viz"
)

// rotorFlags are shared by every command that evaluates a rotor. A flag
// overrides the preset or config file only when it was given.
type rotorFlags struct {
	preset       string
	configFile   string
	rpm          float64
	vInf         float64
	rho          float64
	pitch        float64
	elements     int
	formulation  string
	coefficients string
	finder       string
	basis        string
	tol          float64
	maxIter      int
}

func (f *rotorFlags) register(cmd *cobra.Command) {
	d := config.DefaultConfig()
	fl := cmd.Flags()
	fl.StringVar(&f.preset, "preset", "", "use preset configuration")
	fl.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fl.Float64Var(&f.rpm, "rpm", d.Operating.RPM, "rotor speed [rpm]")
	fl.Float64Var(&f.vInf, "v-inf", d.Operating.VInf, "free-stream speed [m/s]")
	fl.Float64Var(&f.rho, "rho", d.Operating.Rho, "air density [kg/m^3]")
	fl.Float64Var(&f.pitch, "pitch", d.Blade.Pitch, "collective pitch [deg]")
	fl.IntVar(&f.elements, "elements", d.Elements, "number of blade elements")
	fl.StringVar(&f.formulation, "formulation", d.Solver.Formulation, "inflow formulation (angle, tip-speed)")
	fl.StringVar(&f.coefficients, "coefficients", d.Solver.Coefficients, "coefficient model (table, linear, radius-legacy)")
	fl.StringVar(&f.finder, "finder", d.Solver.Finder, "root finder (broyden, fixed-point)")
	fl.StringVar(&f.basis, "basis", d.Solver.Basis, "coefficient basis (torque, power)")
	fl.Float64Var(&f.tol, "tol", d.Solver.Settings.Tol, "residual tolerance")
	fl.IntVar(&f.maxIter, "max-iter", d.Solver.Settings.MaxIter, "iteration budget per element")
}

func (f *rotorFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}

	// config file overrides preset
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("rpm") {
		cfg.Operating.RPM = f.rpm
	}
	if changed("v-inf") {
		cfg.Operating.VInf = f.vInf
	}
	if changed("rho") {
		cfg.Operating.Rho = f.rho
	}
	if changed("pitch") {
		cfg.Blade.Pitch = f.pitch
	}
	if changed("elements") {
		cfg.Elements = f.elements
	}
	if changed("formulation") {
		cfg.Solver.Formulation = f.formulation
	}
	if changed("coefficients") {
		cfg.Solver.Coefficients = f.coefficients
	}
	if changed("finder") {
		cfg.Solver.Finder = f.finder
	}
	if changed("basis") {
		cfg.Solver.Basis = f.basis
	}
	if changed("tol") {
		cfg.Solver.Settings.Tol = f.tol
	}
	if changed("max-iter") {
		cfg.Solver.Settings.MaxIter = f.maxIter
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var (
		flags  rotorFlags
		noSave bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate a rotor at one operating point",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			ev, r, err := cfg.Build(log)
			if err != nil {
				return err
			}

			res, err := ev.Evaluate(context.Background(), r)
			if err != nil {
				return err
			}

			if asJSON {
				return export.WriteJSON(os.Stdout, export.NewReport(cfg.Name, res))
			}

			if !noSave {
				st := storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
				runID, err := st.Save(runInfo(cfg), res)
				if err != nil {
					return err
				}
				fmt.Printf("run id: %s\n", runID)
			}

			fmt.Printf("completed in %v\n\n", res.Elapsed.Round(time.Microsecond))
			printResult(res)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON instead of storing it")
	return cmd
}

func runInfo(cfg *config.Config) storage.RunInfo {
	return storage.RunInfo{
		Name:         cfg.Name,
		Formulation:  cfg.Solver.Formulation,
		Coefficients: cfg.Solver.Coefficients,
		Finder:       cfg.Solver.Finder,
	}
}

func printResult(res *rotor.Result) {
	printElements(res)
	fmt.Println()
	fmt.Println(viz.NewStyles(viz.Themes[0]).Summary(res.Performance))
}

func printElements(res *rotor.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tR\tCHORD\tA\tB\tALPHA\tDT\tDQ\tITER")
	for i, el := range res.Elements {
		st := res.Stations[i]
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.6f\t%.6f\t%.4f\t%.4f\t%.4f\t%d\n",
			st.Index, st.R, st.Chord, el.A, el.B, el.Alpha, el.DeltaT, el.DeltaQ, el.Iterations)
	}
	w.Flush()
}

func newExploreCmd() *cobra.Command {
	var flags rotorFlags
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive rotor explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			// the explorer owns the terminal
			log.SetOutput(io.Discard)
			ev, r, err := cfg.Build(log)
			if err != nil {
				return err
			}
			return viz.RunExplorer(ev, r)
		},
	}
	flags.register(cmd)
	return cmd
}

func newBenchCmd() *cobra.Command {
	var (
		flags rotorFlags
		runs  int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time rotor evaluations with every root finder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FINDER\tRUNS\tMEAN\tITER/ELEM\tSTATUS")
			for _, name := range rootfind.Names() {
				c := *cfg
				c.Solver.Finder = name
				ev, r, err := c.Build(log)
				if err != nil {
					return err
				}

				var total time.Duration
				done, iters, elems := 0, 0, 0
				status := "ok"
				for i := 0; i < runs; i++ {
					res, err := ev.Evaluate(context.Background(), r)
					if err != nil {
						status = err.Error()
						break
					}
					done++
					total += res.Elapsed
					for _, el := range res.Elements {
						iters += el.Iterations
						elems++
					}
				}

				mean, perElem := time.Duration(0), 0.0
				if done > 0 {
					mean = total / time.Duration(done)
					perElem = float64(iters) / float64(elems)
				}
				fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\t%s\n", name, runs, mean, perElem, status)
			}
			return w.Flush()
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&runs, "runs", 100, "evaluations per finder")
	return cmd
}
