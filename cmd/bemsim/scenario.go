package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/bemsim/internal/automation"
	"github.com/san-kum/bemsim/internal/storage"
)

func newScenarioCmd() *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "evaluate the cases of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			var st *storage.Store
			if !noSave {
				st = storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
			}

			results, err := automation.RunScenario(context.Background(), sc, log, st)
			if err != nil {
				return err
			}

			fmt.Printf("scenario: %s\n", sc.Name)
			if sc.Description != "" {
				fmt.Printf("  %s\n", sc.Description)
			}
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CASE\tTHRUST [N]\tTORQUE [N m]\tCP\tETA\tRUN")
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", r.Case.Name, r.Err)
					continue
				}
				p := r.Result.Performance
				fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.5f\t%.4f\t%s\n",
					r.Case.Name, p.NetThrust, p.NetTorque, p.CP, p.Eta, r.RunID)
			}
			w.Flush()

			if failed > 0 {
				return fmt.Errorf("%d of %d cases failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store cases marked save")
	return cmd
}
