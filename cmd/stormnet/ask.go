package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/stormnet/pkg/inference"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		query    []string
		evidence []string
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Compute P(query | evidence)",
		Example: `  stormnet ask -s square.yaml -q Weather -e "Evacuee(1)=false"
  stormnet ask -s square.yaml -q Weather -q "Breakage(2)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := parseEvidence(evidence)
			if err != nil {
				return err
			}
			dist, err := a.engine.Ask(query, ev)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.renderer().Posterior("P("+strings.Join(query, ", ")+")", dist, ev))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query variable (repeatable)")
	cmd.Flags().StringArrayVarP(&evidence, "evidence", "e", nil, "observation as Variable=state (repeatable)")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

// parseEvidence turns Variable=state pairs into evidence; the state is
// everything after the last '=' since names may not contain one
func parseEvidence(pairs []string) (inference.Evidence, error) {
	ev := make(inference.Evidence, len(pairs))
	for _, pair := range pairs {
		i := strings.LastIndex(pair, "=")
		if i <= 0 || i == len(pair)-1 {
			return nil, fmt.Errorf("evidence %q: want Variable=state", pair)
		}
		name, state := strings.TrimSpace(pair[:i]), strings.TrimSpace(pair[i+1:])
		if prev, ok := ev[name]; ok && prev != state {
			return nil, fmt.Errorf("evidence %q: %s already observed as %s", pair, name, prev)
		}
		ev[name] = state
	}
	return ev, nil
}
