package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/bemsim/internal/export"
	"github.com/san-kum/bemsim/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	var (
		flags    rotorFlags
		param    string
		from, to float64
		n        int
		metric   string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "evaluate a rotor across a parameter range",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			ev, r, err := cfg.Build(log)
			if err != nil {
				return err
			}

			s := sweep.Sweep{Param: sweep.Param(param), Values: sweep.Range(from, to, n)}
			log.WithFields(logrus.Fields{"param": param, "from": from, "to": to, "n": n}).Info("sweeping")

			points, err := s.Run(context.Background(), ev, r)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tTHRUST\tTORQUE\tC_T\tC_P\tETA\tSTATUS\n", param)
			var series []float64
			for _, p := range points {
				if !p.OK() {
					fmt.Fprintf(w, "%.4g\t-\t-\t-\t-\t-\t%v\n", p.Value, p.Err)
					continue
				}
				perf := p.Performance
				fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%.6f\t%.6f\t%.4f\tok\n",
					p.Value, perf.NetThrust, perf.NetTorque, perf.CT, perf.CP, perf.Eta)
				if v, err := sweep.Metric(perf, metric); err == nil {
					series = append(series, v)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}

			best, ok, err := sweep.Best(points, metric)
			if err != nil {
				return err
			}
			if ok {
				fmt.Printf("\nbest %s: %.6g at %s = %.4g\n", metric, metricValue(best, metric), param, best.Value)
			}

			if len(series) > 1 {
				fmt.Println()
				fmt.Println(asciigraph.Plot(series,
					asciigraph.Height(10),
					asciigraph.Width(60),
					asciigraph.Caption(fmt.Sprintf("%s vs %s", metric, param)),
				))
			}

			if out != "" {
				chart, err := export.SweepChart(s.Param, metric, points)
				if err != nil {
					return err
				}
				if err := chart.Save(out); err != nil {
					return err
				}
				fmt.Printf("chart written to %s\n", out)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&param, "param", string(sweep.RPM), "parameter to sweep (rpm, v_inf, pitch, rho)")
	cmd.Flags().Float64Var(&from, "from", 40, "first value")
	cmd.Flags().Float64Var(&to, "to", 90, "last value")
	cmd.Flags().IntVar(&n, "n", 6, "number of values")
	cmd.Flags().StringVar(&metric, "metric", "cp", "metric to maximise (cp, ct, cq, eta, thrust, torque)")
	cmd.Flags().StringVar(&out, "out", "", "write a chart (png, svg, pdf)")
	return cmd
}

func metricValue(p sweep.Point, metric string) float64 {
	v, _ := sweep.Metric(p.Performance, metric)
	return v
}
