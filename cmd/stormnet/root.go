package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/inference"
	"github.com/dd0wney/stormnet/pkg/logging"
	"github.com/dd0wney/stormnet/pkg/metrics"
	"github.com/dd0wney/stormnet/pkg/report"
	"github.com/dd0wney/stormnet/pkg/scenario"
	"github.com/dd0wney/stormnet/pkg/stormnet"
	"github.com/dd0wney/stormnet/pkg/validation"
)

// app holds flag values and everything built from the scenario
type app struct {
	scenarioPath string
	logConfig    logging.Config
	workers      int
	dumpMetrics  bool
	places       int32

	session  string
	logger   logging.Logger
	metrics  *metrics.Registry
	scenario *scenario.Scenario
	network  *bayes.Network
	engine   *inference.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{logConfig: logging.DefaultConfig()}

	root := &cobra.Command{
		Use:   "stormnet",
		Short: "Storm damage and evacuation risk over a grid graph",
		Long: `stormnet builds a Bayesian network from a weighted location graph:
one Weather variable, a Breakage and an Evacuee variable per vertex, with
noisy-OR evacuation tables, and answers exact posterior queries over it.

Examples:
  stormnet network -s square.yaml
  stormnet ask -s square.yaml -q Weather -e "Evacuee(1)=false"
  stormnet run -s square.yaml
  stormnet render -s square.yaml --what network | neato -n -Tsvg > net.svg`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.dumpMetrics {
				return nil
			}
			return a.writeMetrics(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.scenarioPath, "scenario", "s", "", "scenario file (YAML or JSON)")
	flags.StringVar(&a.logConfig.Level, "log-level", a.logConfig.Level, "log level (debug, info, warn, error)")
	flags.StringVar(&a.logConfig.Format, "log-format", a.logConfig.Format, "log format (json, console)")
	flags.StringVar(&a.logConfig.Output, "log-output", a.logConfig.Output, "log output (stderr, stdout or a file)")
	flags.IntVarP(&a.workers, "workers", "w", 1, "goroutines per query")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "print collected metrics to stderr on exit")
	flags.Int32Var(&a.places, "places", report.DefaultPlaces, "decimal places for probabilities")
	_ = root.MarkPersistentFlagRequired("scenario")

	root.AddCommand(
		newNetworkCmd(a),
		newAskCmd(a),
		newRunCmd(a),
		newRenderCmd(a),
		newExploreCmd(a),
	)
	return root
}

// setup builds logger, scenario, network and engine for every subcommand
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := validation.Struct(&a.logConfig); err != nil {
		return err
	}
	logger, err := logging.New(a.logConfig)
	if err != nil {
		return err
	}

	a.session = uuid.NewString()
	a.logger = logger.With(logging.Session(a.session), logging.String("command", cmd.Name()))
	a.metrics = metrics.NewRegistry()

	a.scenario, err = scenario.Load(a.scenarioPath)
	if err != nil {
		a.logger.Error("scenario rejected", logging.String("path", a.scenarioPath), logging.Error(err))
		return err
	}

	g, err := a.scenario.Graph()
	if err != nil {
		return err
	}
	a.network, err = stormnet.Build(g, a.scenario.Config(),
		stormnet.WithLogger(a.logger),
		stormnet.WithMetrics(a.metrics),
	)
	if err != nil {
		a.logger.Error("network build failed", logging.Error(err))
		return err
	}

	a.engine, err = inference.NewEngine(a.network,
		inference.WithLogger(a.logger),
		inference.WithMetrics(a.metrics),
		inference.WithWorkers(a.workers),
	)
	return err
}

func (a *app) renderer() *report.Renderer {
	return report.New(report.WithPlaces(a.places))
}

func (a *app) writeMetrics(cmd *cobra.Command) error {
	samples, err := a.metrics.Snapshot()
	if err != nil {
		return err
	}
	w := cmd.ErrOrStderr()
	for _, s := range samples {
		fmt.Fprintf(w, "%s%s %g\n", s.Name, formatLabels(s.Labels), s.Value)
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
