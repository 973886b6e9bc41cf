package inference

import (
	"github.com/dd0wney/stormnet/pkg/bayes"
)

// Entry is one joint assignment of the query variables and its probability
type Entry struct {
	States []string
	P      float64
}

// Distribution is a normalised distribution over joint query assignments.
// Entries enumerate the Cartesian product of the query variables' states
// with the first variable varying slowest.
type Distribution struct {
	vars    []*bayes.Variable
	entries []Entry
}

// Variables returns the query variable names in query order
func (d *Distribution) Variables() []string {
	names := make([]string, len(d.vars))
	for i, v := range d.vars {
		names[i] = v.Name()
	}
	return names
}

// Len returns the number of joint assignments
func (d *Distribution) Len() int {
	return len(d.entries)
}

// Entries returns a copy of all entries
func (d *Distribution) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	for i, e := range d.entries {
		out[i] = Entry{States: append([]string(nil), e.States...), P: e.P}
	}
	return out
}

// Probability returns the probability of the joint assignment given as one
// state per query variable, in query order
func (d *Distribution) Probability(states ...string) (float64, error) {
	if len(states) != len(d.vars) {
		return 0, bayes.NewError("Probability").
			Context("expected %d states, got %d", len(d.vars), len(states)).
			Cause(bayes.ErrUnknownState).Err()
	}

	idx := 0
	for k, v := range d.vars {
		s, ok := v.StateIndex(states[k])
		if !ok {
			return 0, bayes.NewError("Probability").Variable(v.Name()).State(states[k]).
				Cause(bayes.ErrUnknownState).Err()
		}
		idx = idx*v.Cardinality() + s
	}
	return d.entries[idx].P, nil
}

// Marginal sums out every query variable except name
func (d *Distribution) Marginal(name string) (map[string]float64, error) {
	k := -1
	for i, v := range d.vars {
		if v.Name() == name {
			k = i
			break
		}
	}
	if k < 0 {
		return nil, bayes.NewError("Marginal").Variable(name).
			Context("not a query variable").Cause(bayes.ErrUnknownVariable).Err()
	}

	out := make(map[string]float64, d.vars[k].Cardinality())
	for _, s := range d.vars[k].States() {
		out[s] = 0
	}
	for _, e := range d.entries {
		out[e.States[k]] += e.P
	}
	return out, nil
}

// MostLikely returns the entry with the highest probability; ties go to
// the earliest entry
func (d *Distribution) MostLikely() Entry {
	best := 0
	for i, e := range d.entries {
		if e.P > d.entries[best].P {
			best = i
		}
	}
	e := d.entries[best]
	return Entry{States: append([]string(nil), e.States...), P: e.P}
}

// Sum returns the total probability mass (1 up to rounding)
func (d *Distribution) Sum() float64 {
	sum := 0.0
	for _, e := range d.entries {
		sum += e.P
	}
	return sum
}
