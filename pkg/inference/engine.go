// Package inference answers exact probability queries over a bayes.Network
// by enumeration: the joint probability of every query assignment is summed
// over all hidden variables in topological order, then normalised.
package inference

import (
	"errors"
	"math"
	"time"

	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/logging"
	"github.com/dd0wney/stormnet/pkg/metrics"
	"github.com/dd0wney/stormnet/pkg/parallel"
)

var (
	ErrZeroEvidenceProbability = errors.New("evidence has zero probability")
	ErrEmptyQuery              = errors.New("empty query")
	ErrDuplicateQuery          = errors.New("duplicate query variable")
	ErrQueryTooLarge           = errors.New("query has too many joint states")
	ErrNilNetwork              = errors.New("nil network")
)

// Evidence maps variable names to observed states
type Evidence map[string]string

// Engine evaluates queries against one network. It keeps no state between
// calls, so Ask is safe for concurrent use.
type Engine struct {
	net       *bayes.Network
	vars      []*bayes.Variable // topological order
	tables    []*bayes.Table
	parentPos [][]int // per position, parent positions in CPT order
	pos       map[string]int

	logger  logging.Logger
	metrics *metrics.Registry
	workers int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine's logger
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithMetrics records query metrics into r
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithWorkers evaluates query branches on n goroutines when n > 1
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// NewEngine compiles the network's topological order into an evaluation plan
func NewEngine(net *bayes.Network, opts ...Option) (*Engine, error) {
	if net == nil {
		return nil, bayes.NewError("NewEngine").Cause(ErrNilNetwork).Err()
	}

	order := net.TopologicalOrder()
	e := &Engine{
		net:       net,
		vars:      order,
		tables:    make([]*bayes.Table, len(order)),
		parentPos: make([][]int, len(order)),
		pos:       make(map[string]int, len(order)),
		logger:    logging.NopLogger{},
		workers:   1,
	}
	for i, v := range order {
		e.pos[v.Name()] = i
	}

	for i, v := range order {
		t, err := net.Table(v.Name())
		if err != nil {
			return nil, err
		}
		e.tables[i] = t

		parents := t.Parents()
		e.parentPos[i] = make([]int, len(parents))
		for j, p := range parents {
			e.parentPos[i][j] = e.pos[p.Name()]
		}
	}

	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logging.Component("inference"))
	return e, nil
}

// Ask is a convenience wrapper for a one-off query
func Ask(net *bayes.Network, query []string, evidence Evidence) (*Distribution, error) {
	e, err := NewEngine(net)
	if err != nil {
		return nil, err
	}
	return e.Ask(query, evidence)
}

// Network returns the network the engine was built for
func (e *Engine) Network() *bayes.Network {
	return e.net
}

// Ask returns P(query | evidence) as a normalised distribution over the
// joint states of the query variables.
//
// A query variable may also appear in the evidence; assignments that
// contradict it get probability zero.
func (e *Engine) Ask(query []string, evidence Evidence) (*Distribution, error) {
	timer := logging.StartTimer(e.logger, "query answered", logging.Query(query))

	dist, branches, err := e.ask(query, evidence)
	if err != nil {
		elapsed := timer.EndError(err)
		e.recordQuery(statusOf(err), elapsed, branches)
		return nil, err
	}

	elapsed := timer.End(logging.Count(branches))
	e.recordQuery("success", elapsed, branches)
	return dist, nil
}

func (e *Engine) ask(query []string, evidence Evidence) (*Distribution, int, error) {
	qpos, qvars, err := e.resolveQuery(query)
	if err != nil {
		return nil, 0, err
	}
	base, err := e.resolveEvidence(evidence)
	if err != nil {
		return nil, 0, err
	}

	branches := 1
	for _, v := range qvars {
		card := v.Cardinality()
		if branches > math.MaxInt/card {
			return nil, 0, bayes.NewError("Ask").Variable(v.Name()).Context("%d query variables", len(qvars)).Cause(ErrQueryTooLarge).Err()
		}
		branches *= card
	}

	joint, err := e.evaluate(branches, func(b int) (float64, error) {
		a, consistent := base.extendQuery(qpos, qvars, b)
		if !consistent {
			return 0, nil
		}
		return e.enumerateAll(0, a)
	})
	if err != nil {
		return nil, branches, err
	}

	total := 0.0
	for _, p := range joint {
		total += p
	}
	if total == 0 {
		return nil, branches, ErrZeroEvidenceProbability
	}

	entries := make([]Entry, branches)
	for b, p := range joint {
		entries[b] = Entry{States: branchStates(qvars, b), P: p / total}
	}
	return &Distribution{vars: qvars, entries: entries}, branches, nil
}

// evaluate computes the joint of every branch, in parallel when configured
func (e *Engine) evaluate(branches int, fn func(int) (float64, error)) ([]float64, error) {
	if e.workers > 1 && branches > 1 {
		return parallel.Map(e.workers, branches, fn)
	}

	out := make([]float64, branches)
	for b := range out {
		p, err := fn(b)
		if err != nil {
			return nil, err
		}
		out[b] = p
	}
	return out, nil
}

// enumerateAll returns the probability of assignment a summed over every
// unassigned variable from position k onwards
func (e *Engine) enumerateAll(k int, a assignment) (float64, error) {
	if k == len(e.vars) {
		return 1, nil
	}

	if a[k] != unassigned {
		p, err := e.prob(k, a)
		if err != nil || p == 0 {
			return 0, err
		}
		rest, err := e.enumerateAll(k+1, a)
		if err != nil {
			return 0, err
		}
		return p * rest, nil
	}

	sum := 0.0
	for s := 0; s < e.vars[k].Cardinality(); s++ {
		ext := a.with(k, s)
		p, err := e.prob(k, ext)
		if err != nil {
			return 0, err
		}
		if p == 0 {
			continue
		}
		rest, err := e.enumerateAll(k+1, ext)
		if err != nil {
			return 0, err
		}
		sum += p * rest
	}
	return sum, nil
}

// prob looks up P(vars[k] = a[k] | parents) with parent states taken from a
func (e *Engine) prob(k int, a assignment) (float64, error) {
	pp := e.parentPos[k]
	states := make([]int, len(pp))
	for j, p := range pp {
		states[j] = a[p]
	}
	return e.tables[k].LookupIndex(states, a[k])
}

func (e *Engine) resolveQuery(query []string) ([]int, []*bayes.Variable, error) {
	if len(query) == 0 {
		return nil, nil, ErrEmptyQuery
	}

	seen := make(map[string]bool, len(query))
	qpos := make([]int, len(query))
	qvars := make([]*bayes.Variable, len(query))
	for i, name := range query {
		if seen[name] {
			return nil, nil, bayes.NewError("Ask").Variable(name).Cause(ErrDuplicateQuery).Err()
		}
		seen[name] = true

		p, ok := e.pos[name]
		if !ok {
			return nil, nil, bayes.NewError("Ask").Variable(name).Context("query").Cause(bayes.ErrUnknownVariable).Err()
		}
		qpos[i] = p
		qvars[i] = e.vars[p]
	}
	return qpos, qvars, nil
}

func (e *Engine) resolveEvidence(evidence Evidence) (assignment, error) {
	a := newAssignment(len(e.vars))
	for name, state := range evidence {
		p, ok := e.pos[name]
		if !ok {
			return nil, bayes.NewError("Ask").Variable(name).Context("evidence").Cause(bayes.ErrUnknownVariable).Err()
		}
		s, ok := e.vars[p].StateIndex(state)
		if !ok {
			return nil, bayes.NewError("Ask").Variable(name).State(state).Context("evidence").Cause(bayes.ErrUnknownState).Err()
		}
		a[p] = s
	}
	return a, nil
}

func (e *Engine) recordQuery(status string, elapsed time.Duration, branches int) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordQuery(status, elapsed, branches)
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, ErrZeroEvidenceProbability):
		return "zero_evidence"
	case errors.Is(err, bayes.ErrUnknownVariable),
		errors.Is(err, bayes.ErrUnknownState),
		errors.Is(err, ErrEmptyQuery),
		errors.Is(err, ErrDuplicateQuery),
		errors.Is(err, ErrQueryTooLarge):
		return "invalid"
	default:
		return "error"
	}
}
