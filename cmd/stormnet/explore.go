package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/stormnet/pkg/explorer"
)

func newExploreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Browse posteriors interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return explorer.Run(a.engine)
		},
	}
}
