package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/stormnet/pkg/visualization"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		what   string
		layout string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export the input graph or the network as DOT or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layoutFor(layout)
			if err != nil {
				return err
			}

			var v *visualization.Visualization
			switch what {
			case "graph":
				g, err := a.scenario.Graph()
				if err != nil {
					return err
				}
				v, err = visualization.ForGraph(g, l)
				if err != nil {
					return err
				}
			case "network":
				v, err = visualization.ForNetwork(a.network, l)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("--what must be graph or network, got %q", what)
			}

			if format != "dot" && format != "json" {
				return fmt.Errorf("--format must be dot or json, got %q", format)
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if format == "dot" {
				return v.WriteDOT(w)
			}
			data, err := v.ExportJSON()
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&what, "what", "network", "graph or network")
	cmd.Flags().StringVar(&layout, "layout", "", "circular, force or hierarchical (default depends on --what)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "dot or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if layout == "" {
			layout = "hierarchical"
			if what == "graph" {
				layout = "circular"
			}
		}
		return nil
	}
	return cmd
}

func layoutFor(name string) (visualization.Layout, error) {
	config := visualization.DefaultLayoutConfig()
	switch name {
	case "circular":
		return visualization.NewCircularLayout(config), nil
	case "force":
		return visualization.NewForceDirectedLayout(config), nil
	case "hierarchical":
		return visualization.NewHierarchicalLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}
