package bayes

// Variable is a discrete random variable with a fixed, ordered state set.
// Variables are immutable once created.
type Variable struct {
	name   string
	states []string
	index  map[string]int
}

// NewVariable creates a variable with at least two distinct, non-empty states
func NewVariable(name string, states ...string) (*Variable, error) {
	if name == "" {
		return nil, NewError("NewVariable").Context("empty name").Cause(ErrInvalidVariable).Err()
	}
	if len(states) < 2 {
		return nil, NewError("NewVariable").Variable(name).
			Context("need at least 2 states, got %d", len(states)).Cause(ErrInvalidVariable).Err()
	}

	index := make(map[string]int, len(states))
	for i, s := range states {
		if s == "" {
			return nil, NewError("NewVariable").Variable(name).
				Context("empty state label at position %d", i).Cause(ErrInvalidVariable).Err()
		}
		if _, dup := index[s]; dup {
			return nil, NewError("NewVariable").Variable(name).State(s).
				Context("duplicate state").Cause(ErrInvalidVariable).Err()
		}
		index[s] = i
	}

	return &Variable{
		name:   name,
		states: append([]string(nil), states...),
		index:  index,
	}, nil
}

// MustVariable is like NewVariable but panics on error.
// Intended for package-level variables with literal state sets.
func MustVariable(name string, states ...string) *Variable {
	v, err := NewVariable(name, states...)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the variable's unique identifier
func (v *Variable) Name() string {
	return v.name
}

// States returns a copy of the ordered state labels
func (v *Variable) States() []string {
	return append([]string(nil), v.states...)
}

// State returns the label at position i
func (v *Variable) State(i int) string {
	return v.states[i]
}

// Cardinality returns the number of states
func (v *Variable) Cardinality() int {
	return len(v.states)
}

// StateIndex returns the position of state s
func (v *Variable) StateIndex(s string) (int, bool) {
	i, ok := v.index[s]
	return i, ok
}

// HasState reports whether s is one of the variable's states
func (v *Variable) HasState(s string) bool {
	_, ok := v.index[s]
	return ok
}

func (v *Variable) String() string {
	return v.name
}
