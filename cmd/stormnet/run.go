package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/stormnet/pkg/inference"
	"github.com/dd0wney/stormnet/pkg/logging"
)

func newRunCmd(a *app) *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer the queries listed in the scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			queries := a.scenario.Queries
			if len(names) > 0 {
				queries = nil
				for _, name := range names {
					q, ok := a.scenario.Find(name)
					if !ok {
						return fmt.Errorf("no query named %q", name)
					}
					queries = append(queries, q)
				}
			}
			if len(queries) == 0 {
				a.logger.Warn("scenario has no queries")
				return nil
			}

			out := cmd.OutOrStdout()
			r := a.renderer()
			failed := 0
			for i, q := range queries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				ev := inference.Evidence(q.Evidence)
				dist, err := a.engine.Ask(q.Query, ev)
				if err != nil {
					failed++
					a.logger.Error("query failed", logging.String("name", q.Name), logging.Error(err))
					fmt.Fprintf(out, "%s: %v\n", q.Name, err)
					continue
				}
				fmt.Fprint(out, r.Posterior(q.Name, dist, ev))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d queries failed", failed, len(queries))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "run only the named queries")
	return cmd
}
