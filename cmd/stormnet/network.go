package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/stormnet/pkg/report"
)

func newNetworkCmd(a *app) *cobra.Command {
	var (
		tables  bool
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Print the network structure and its CPTs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			summary, err := a.renderer().Summary(a.network)
			if err != nil {
				return err
			}
			fmt.Fprint(out, summary)
			if !tables {
				return nil
			}

			text, err := report.New(report.WithPlaces(a.places), report.WithMaxRows(maxRows)).Network(a.network)
			if err != nil {
				return err
			}
			fmt.Fprint(out, "\n", text)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&tables, "tables", "t", true, "print every CPT")
	cmd.Flags().IntVar(&maxRows, "max-rows", report.DefaultMaxRows, "rows printed per CPT, 0 for all")
	return cmd
}
