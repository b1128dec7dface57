package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/bemsim/internal/aero"
	"github.com/san-kum/bemsim/internal/bem"
	"github.com/san-kum/bemsim/internal/export"
	"github.com/san-kum/bemsim/internal/rootfind"
)

func newElementCmd() *cobra.Command {
	var (
		in           = bem.DefaultElementInput()
		formulation  string
		coefficients string
		finder       string
		settings     = rootfind.DefaultSettings()
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "element",
		Short: "solve the inflow of a single blade element",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := aero.New(coefficients)
			if err != nil {
				return err
			}
			residual, err := bem.NewFormulation(formulation, model)
			if err != nil {
				return err
			}
			f, err := rootfind.New(finder, settings)
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"formulation":  formulation,
				"coefficients": coefficients,
				"finder":       finder,
			}).Debug("solving element")

			out, err := bem.NewSolver(residual, f).Solve(in)
			if err != nil {
				return err
			}

			if asJSON {
				return export.WriteJSON(os.Stdout, out)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			rows := []struct {
				name  string
				value float64
			}{
				{"a", out.A}, {"b", out.B},
				{"omega", out.Omega}, {"V_0", out.V0}, {"V_1", out.V1}, {"V_2", out.V2},
				{"phi", out.Phi}, {"alpha", out.Alpha}, {"sigma", out.Sigma}, {"lambda_r", out.LambdaR},
				{"C_L", out.CL}, {"C_D", out.CD},
				{"delta_T", out.DeltaT}, {"delta_Q", out.DeltaQ},
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%.8g\n", r.name, r.value)
			}
			fmt.Fprintf(w, "residual\t[%.2e %.2e]\n", out.Residual[0], out.Residual[1])
			fmt.Fprintf(w, "iterations\t%d\n", out.Iterations)
			return w.Flush()
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&in.R, "r", in.R, "element radius [m]")
	fl.Float64Var(&in.Dr, "dr", in.Dr, "element width [m]")
	fl.Float64Var(&in.Theta, "theta", in.Theta, "twist angle [rad]")
	fl.Float64Var(&in.Chord, "chord", in.Chord, "chord [m]")
	fl.IntVar(&in.Blades, "blades", in.Blades, "number of blades")
	fl.Float64Var(&in.RPM, "rpm", in.RPM, "rotor speed [rpm]")
	fl.Float64Var(&in.Rho, "rho", in.Rho, "air density [kg/m^3]")
	fl.Float64Var(&in.VInf, "v-inf", in.VInf, "free-stream speed [m/s]")
	fl.Float64Var(&in.AInit, "a-init", in.AInit, "initial axial induction")
	fl.Float64Var(&in.BInit, "b-init", in.BInit, "initial angular induction")
	fl.StringVar(&formulation, "formulation", "tip-speed", "inflow formulation (angle, tip-speed)")
	fl.StringVar(&coefficients, "coefficients", "table", "coefficient model (table, linear, radius-legacy)")
	fl.StringVar(&finder, "finder", "broyden", "root finder (broyden, fixed-point)")
	fl.Float64Var(&settings.Tol, "tol", settings.Tol, "residual tolerance")
	fl.IntVar(&settings.MaxIter, "max-iter", settings.MaxIter, "iteration budget")
	fl.BoolVar(&asJSON, "json", false, "print the element as JSON")
	return cmd
}

func newDiskCmd() *cobra.Command {
	var a, area, rho, vu float64
	cmd := &cobra.Command{
		Use:   "disk",
		Short: "closed-form actuator disk loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bem.EvaluateActuatorDisk(a, area, rho, vu)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "C_t\t%.6g\n", out.Ct)
			fmt.Fprintf(w, "thrust\t%.6g\tN\n", out.Thrust)
			fmt.Fprintf(w, "C_p\t%.6g\n", out.Cp)
			fmt.Fprintf(w, "power\t%.6g\tW\n", out.Power)
			fmt.Fprintf(w, "V_r\t%.6g\tm/s\n", out.Vr)
			fmt.Fprintf(w, "V_d\t%.6g\tm/s\n", out.Vd)
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&a, "a", 1.0/3, "axial induction factor")
	cmd.Flags().Float64Var(&area, "area", 10, "rotor disk area [m^2]")
	cmd.Flags().Float64Var(&rho, "rho", 1.225, "air density [kg/m^3]")
	cmd.Flags().Float64Var(&vu, "vu", 10, "upstream speed [m/s]")
	return cmd
}
