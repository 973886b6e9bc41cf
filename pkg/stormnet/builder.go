// Package stormnet builds the storm Bayesian network over a weighted
// location graph: one Weather variable, and a Breakage and an Evacuee
// variable per vertex.
package stormnet

import (
	"errors"
	"fmt"

	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/logging"
	"github.com/dd0wney/stormnet/pkg/metrics"
	"github.com/dd0wney/stormnet/pkg/validation"
)

// Graph is the read-only view of the location graph the builder needs.
// Neighbors must return the same order on every call.
type Graph interface {
	Vertices() []string
	Neighbors(v string) []string
	Weight(u, v string) (float64, bool)
}

type builder struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures Build
type Option func(*builder)

// WithLogger sets the logger used during the build
func WithLogger(l logging.Logger) Option {
	return func(b *builder) { b.logger = logging.OrNop(l) }
}

// WithMetrics records build metrics into r
func WithMetrics(r *metrics.Registry) Option {
	return func(b *builder) { b.metrics = r }
}

// Build constructs the network for g under cfg. All inputs are validated
// before any table is created.
func Build(g Graph, cfg Config, opts ...Option) (*bayes.Network, error) {
	b := &builder{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(b)
	}
	logger := b.logger.With(logging.Component("stormnet"))

	timer := logging.StartTimer(logger, "network built")
	net, err := b.build(g, cfg, logger)
	if err != nil {
		elapsed := timer.EndError(err)
		if b.metrics != nil {
			b.metrics.RecordBuild("error", elapsed, 0)
		}
		return nil, err
	}

	elapsed := timer.End(logging.Count(net.Len()))
	if b.metrics != nil {
		b.metrics.RecordBuild("success", elapsed, net.Len())
	}
	return net, nil
}

func (b *builder) build(g Graph, cfg Config, logger logging.Logger) (*bayes.Network, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	vertices := g.Vertices()

	if err := cfg.validateRates(vertices); err != nil {
		return nil, &BuildError{Cause: ErrInvalidRate, Detail: err}
	}
	neighbors, weights, err := collectWeights(g, vertices)
	if err != nil {
		return nil, err
	}

	prior, err := cfg.priorTable()
	if err != nil {
		return nil, err
	}
	tables := make([]*bayes.Table, 0, 1+2*len(vertices))
	tables = append(tables, prior)

	breakage := make(map[string]*bayes.Variable, len(vertices))
	for _, v := range vertices {
		bv, err := boolVariable(BreakageName(v))
		if err != nil {
			return nil, err
		}
		t, err := bayes.NewTable(bv, []*bayes.Variable{Weather}, breakageRows(cfg.BaseRates[v]))
		if err != nil {
			return nil, err
		}
		breakage[v] = bv
		tables = append(tables, t)
		b.recordTable(t)
	}

	for _, v := range vertices {
		t, err := b.evacueeTable(v, neighbors[v], weights[v], breakage, cfg)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
		b.recordTable(t)
		logger.Debug("evacuee table built",
			logging.Vertex(v),
			logging.Int("causes", len(neighbors[v])+1),
			logging.Bool("lazy", t.Lazy()))
	}

	return bayes.NewNetwork(tables...)
}

// evacueeTable wires Breakage(v) then each neighbour's Breakage as parents
// and fills the CPT by the noisy-OR rule
func (b *builder) evacueeTable(v string, neighbors []string, weights []float64, breakage map[string]*bayes.Variable, cfg Config) (*bayes.Table, error) {
	ev, err := boolVariable(EvacueeName(v))
	if err != nil {
		return nil, err
	}

	parents := make([]*bayes.Variable, 0, len(neighbors)+1)
	suppression := make([]float64, 0, len(neighbors)+1)

	parents = append(parents, breakage[v])
	suppression = append(suppression, cfg.P2)
	for i, u := range neighbors {
		parents = append(parents, breakage[u])
		suppression = append(suppression, NeighborSuppression(cfg.P1, weights[i]))
	}

	gen := NoisyOR(suppression)
	if len(parents) > cfg.lazyThreshold() {
		return bayes.NewLazyTable(ev, parents, gen)
	}
	return bayes.NewTableFunc(ev, parents, gen)
}

// collectWeights reads every neighbour list once, so the order used for
// parents is the order that was validated
func collectWeights(g Graph, vertices []string) (map[string][]string, map[string][]float64, error) {
	known := make(map[string]bool, len(vertices))
	for _, v := range vertices {
		known[v] = true
	}

	neighbors := make(map[string][]string, len(vertices))
	weights := make(map[string][]float64, len(vertices))
	for _, v := range vertices {
		ns := g.Neighbors(v)
		ws := make([]float64, len(ns))
		for i, u := range ns {
			if !known[u] {
				return nil, nil, &BuildError{Vertex: v, Neighbor: u, Cause: ErrInvalidWeight,
					Detail: fmt.Errorf("neighbor %s is not a vertex", u)}
			}
			w, ok := g.Weight(v, u)
			if !ok {
				return nil, nil, &BuildError{Vertex: v, Neighbor: u, Cause: ErrInvalidWeight,
					Detail: errors.New("missing weight")}
			}
			field := "weight[" + v + "-" + u + "]"
			err := validation.NewConfigValidator("graph").
				Finite(field, w).
				NonNegativeFloat(field, w).
				Validate()
			if err != nil {
				return nil, nil, &BuildError{Vertex: v, Neighbor: u, Cause: ErrInvalidWeight, Detail: err}
			}
			ws[i] = w
		}
		neighbors[v] = ns
		weights[v] = ws
	}
	return neighbors, weights, nil
}

func (b *builder) recordTable(t *bayes.Table) {
	if b.metrics != nil {
		b.metrics.RecordTable(t.Lazy(), t.RowCount())
	}
}
