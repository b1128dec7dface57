package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/bemsim/internal/config"
	"github.com/san-kum/bemsim/internal/export"
	"github.com/san-kum/bemsim/internal/storage"
	"github.com/san-kum/bemsim/internal/viz"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tFORMULATION\tRPM\tV_INF\tTHRUST\tETA")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.2f\t%.3f\t%.4f\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Formulation,
					run.Rotor.Operating.RPM,
					run.Rotor.Operating.VInf,
					run.Performance.NetThrust,
					run.Performance.Eta,
				)
			}
			return w.Flush()
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, res, err := storage.New(dataDir).Result(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
			fmt.Printf("solver: %s / %s / %s\n\n", meta.Formulation, meta.Coefficients, meta.Finder)
			printResult(res)
			fmt.Println()
			fmt.Print(viz.Planform(res.Stations, 40, 4).String())
			return nil
		},
	}
}

func newPlotCmd() *cobra.Command {
	var field, out string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the spanwise distribution of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := storage.New(dataDir).Result(args[0])
			if err != nil {
				return err
			}

			if out != "" {
				if err := export.SpanwiseChart(res).Save(out); err != nil {
					return err
				}
				fmt.Printf("chart written to %s\n", out)
				return nil
			}

			graph, err := viz.Spanwise(res.Elements, field, 60, 12)
			if err != nil {
				return err
			}
			fmt.Println(graph)
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "dt", "element field to plot")
	cmd.Flags().StringVar(&out, "out", "", "write a chart of dT and dQ (png, svg, pdf) instead")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the elements of a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := storage.New(dataDir).LoadElements(args[0])
			if err != nil {
				return err
			}

			var dst io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}

			w := csv.NewWriter(dst)
			if err := w.Write([]string{"r", "a", "b", "alpha", "delta_t", "delta_q"}); err != nil {
				return err
			}
			for _, row := range rows {
				rec := []string{}
				for _, v := range []float64{row.R, row.A, row.B, row.Alpha, row.DeltaT, row.DeltaQ} {
					rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var out, planform string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, res, err := storage.New(dataDir).Result(args[0])
			if err != nil {
				return err
			}
			if err := export.JSONFile(out, export.NewReport(meta.Name, res)); err != nil {
				return err
			}
			if planform != "" {
				svg := export.PlanformSVG(res.Stations, 800, 200, "#00ff88")
				return os.WriteFile(planform, []byte(svg), 0644)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&planform, "planform", "", "also write the blade planform as SVG")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFORMULATION\tCOEFFICIENTS\tELEMENTS\tRPM\tV_INF\tR_TIP")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.1f\t%.2f\n",
					name, p.Solver.Formulation, p.Solver.Coefficients, p.Elements,
					p.Operating.RPM, p.Operating.VInf, p.Blade.RTip)
			}
			return w.Flush()
		},
	}
}
