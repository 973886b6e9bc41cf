package bayes

import (
	"math"
	"sync"
)

// Tolerance is the allowed deviation of a CPT row sum from 1
const Tolerance = 1e-6

// ParentAssignment holds one state per parent, in the table's parent order.
type ParentAssignment []string

// RowFunc produces the distribution over the child's states for the parent
// assignment given as state indices in parent order.
type RowFunc func(parentStates []int) []float64

// Table is the conditional probability table of a single child variable.
//
// Rows are addressed by a mixed-radix index over the parents' state
// indices, the last parent varying fastest. Rows are either materialised at
// construction (NewTable, NewTableFunc) or generated on first use
// (NewLazyTable); both paths apply the same validation.
type Table struct {
	child    *Variable
	parents  []*Variable
	strides  []int
	rowCount int

	rows [][]float64

	gen  RowFunc
	lazy sync.Map // row index -> validated []float64
}

// NewTable creates a table from explicit rows in row-index order
func NewTable(child *Variable, parents []*Variable, rows [][]float64) (*Table, error) {
	t, err := newTable("NewTable", child, parents)
	if err != nil {
		return nil, err
	}
	if len(rows) != t.rowCount {
		return nil, NewError("NewTable").Variable(child.name).
			Context("expected %d rows, got %d", t.rowCount, len(rows)).Cause(ErrMalformedCPT).Err()
	}

	t.rows = make([][]float64, len(rows))
	for i, row := range rows {
		if err := t.validateRow(i, row); err != nil {
			return nil, err
		}
		t.rows[i] = append([]float64(nil), row...)
	}
	return t, nil
}

// NewTableFunc materialises and validates every row produced by gen
func NewTableFunc(child *Variable, parents []*Variable, gen RowFunc) (*Table, error) {
	t, err := newTable("NewTableFunc", child, parents)
	if err != nil {
		return nil, err
	}

	t.rows = make([][]float64, t.rowCount)
	for i := range t.rows {
		row := gen(t.decode(i))
		if err := t.validateRow(i, row); err != nil {
			return nil, err
		}
		t.rows[i] = row
	}
	return t, nil
}

// NewLazyTable creates a table whose rows are generated, validated and
// memoised the first time they are looked up.
func NewLazyTable(child *Variable, parents []*Variable, gen RowFunc) (*Table, error) {
	t, err := newTable("NewLazyTable", child, parents)
	if err != nil {
		return nil, err
	}
	t.gen = gen
	return t, nil
}

// NewPrior creates the single-row table of a root variable
func NewPrior(child *Variable, dist map[string]float64) (*Table, error) {
	if child == nil {
		return nil, NewError("NewPrior").Context("nil child").Cause(ErrInvalidVariable).Err()
	}
	for s := range dist {
		if !child.HasState(s) {
			return nil, NewError("NewPrior").Variable(child.name).State(s).Cause(ErrUnknownState).Err()
		}
	}

	row := make([]float64, child.Cardinality())
	for i, s := range child.states {
		p, ok := dist[s]
		if !ok {
			return nil, NewError("NewPrior").Variable(child.name).State(s).
				Context("missing probability").Cause(ErrMalformedCPT).Err()
		}
		row[i] = p
	}
	return NewTable(child, nil, [][]float64{row})
}

func newTable(op string, child *Variable, parents []*Variable) (*Table, error) {
	if child == nil {
		return nil, NewError(op).Context("nil child").Cause(ErrInvalidVariable).Err()
	}

	seen := make(map[string]bool, len(parents))
	for _, p := range parents {
		if p == nil {
			return nil, NewError(op).Variable(child.name).Context("nil parent").Cause(ErrInvalidVariable).Err()
		}
		if p.name == child.name {
			return nil, NewError(op).Variable(child.name).Context("variable is its own parent").Cause(ErrCyclicDependency).Err()
		}
		if seen[p.name] {
			return nil, NewError(op).Variable(child.name).Context("parent %s listed twice", p.name).Cause(ErrDuplicateVariable).Err()
		}
		seen[p.name] = true
	}

	strides := make([]int, len(parents))
	count := 1
	for i := len(parents) - 1; i >= 0; i-- {
		strides[i] = count
		card := parents[i].Cardinality()
		if count > math.MaxInt/card {
			return nil, NewError(op).Variable(child.name).Context("parent space too large").Cause(ErrMalformedCPT).Err()
		}
		count *= card
	}

	return &Table{
		child:    child,
		parents:  append([]*Variable(nil), parents...),
		strides:  strides,
		rowCount: count,
	}, nil
}

// Child returns the variable this table belongs to
func (t *Table) Child() *Variable {
	return t.child
}

// Parents returns the parents in key order
func (t *Table) Parents() []*Variable {
	return append([]*Variable(nil), t.parents...)
}

// RowCount returns the size of the parent-assignment space
func (t *Table) RowCount() int {
	return t.rowCount
}

// Lazy reports whether rows are generated on demand
func (t *Table) Lazy() bool {
	return t.gen != nil
}

// Lookup returns P(child = childState | parents = pa)
func (t *Table) Lookup(pa ParentAssignment, childState string) (float64, error) {
	ci, ok := t.child.StateIndex(childState)
	if !ok {
		return 0, NewError("Lookup").Variable(t.child.name).State(childState).Cause(ErrUnknownState).Err()
	}
	idx, err := t.indexOf(pa)
	if err != nil {
		return 0, err
	}
	row, err := t.row(idx)
	if err != nil {
		return 0, err
	}
	return row[ci], nil
}

// Distribution returns the row for pa as a state -> probability map
func (t *Table) Distribution(pa ParentAssignment) (map[string]float64, error) {
	idx, err := t.indexOf(pa)
	if err != nil {
		return nil, err
	}
	row, err := t.row(idx)
	if err != nil {
		return nil, err
	}

	dist := make(map[string]float64, len(row))
	for i, p := range row {
		dist[t.child.states[i]] = p
	}
	return dist, nil
}

// LookupIndex is the index-based form of Lookup used by inference.
// parentStates holds state indices in parent order.
func (t *Table) LookupIndex(parentStates []int, childState int) (float64, error) {
	if childState < 0 || childState >= t.child.Cardinality() {
		return 0, NewError("LookupIndex").Variable(t.child.name).
			Context("state index %d", childState).Cause(ErrUnknownState).Err()
	}
	if len(parentStates) != len(t.parents) {
		return 0, NewError("LookupIndex").Variable(t.child.name).
			Context("expected %d parent states, got %d", len(t.parents), len(parentStates)).
			Cause(ErrUnknownParentAssignment).Err()
	}

	idx := 0
	for k, s := range parentStates {
		if s < 0 || s >= t.parents[k].Cardinality() {
			return 0, NewError("LookupIndex").Variable(t.child.name).
				Context("parent %s state index %d", t.parents[k].name, s).
				Cause(ErrUnknownParentAssignment).Err()
		}
		idx += s * t.strides[k]
	}

	row, err := t.row(idx)
	if err != nil {
		return 0, err
	}
	return row[childState], nil
}

// EachRow calls fn for every row in row-index order until fn returns false.
// The slices passed to fn must not be modified.
func (t *Table) EachRow(fn func(pa ParentAssignment, dist []float64) bool) error {
	for i := 0; i < t.rowCount; i++ {
		row, err := t.row(i)
		if err != nil {
			return err
		}
		states := t.decode(i)
		pa := make(ParentAssignment, len(states))
		for k, s := range states {
			pa[k] = t.parents[k].states[s]
		}
		if !fn(pa, row) {
			return nil
		}
	}
	return nil
}

func (t *Table) indexOf(pa ParentAssignment) (int, error) {
	if len(pa) != len(t.parents) {
		return 0, NewError("Lookup").Variable(t.child.name).
			Context("expected %d parent states, got %d", len(t.parents), len(pa)).
			Cause(ErrUnknownParentAssignment).Err()
	}

	idx := 0
	for k, state := range pa {
		s, ok := t.parents[k].StateIndex(state)
		if !ok {
			return 0, NewError("Lookup").Variable(t.child.name).State(state).
				Context("parent %s", t.parents[k].name).Cause(ErrUnknownParentAssignment).Err()
		}
		idx += s * t.strides[k]
	}
	return idx, nil
}

// decode converts a row index back to parent state indices
func (t *Table) decode(idx int) []int {
	states := make([]int, len(t.parents))
	for k, p := range t.parents {
		states[k] = (idx / t.strides[k]) % p.Cardinality()
	}
	return states
}

func (t *Table) row(idx int) ([]float64, error) {
	if t.gen == nil {
		return t.rows[idx], nil
	}
	if cached, ok := t.lazy.Load(idx); ok {
		return cached.([]float64), nil
	}

	row := t.gen(t.decode(idx))
	if err := t.validateRow(idx, row); err != nil {
		return nil, err
	}
	actual, _ := t.lazy.LoadOrStore(idx, row)
	return actual.([]float64), nil
}

func (t *Table) validateRow(idx int, row []float64) error {
	if len(row) != t.child.Cardinality() {
		return NewError("ValidateRow").Variable(t.child.name).
			Context("row %d has %d entries, want %d", idx, len(row), t.child.Cardinality()).
			Cause(ErrMalformedCPT).Err()
	}

	sum := 0.0
	for i, p := range row {
		if math.IsNaN(p) || p < -Tolerance || p > 1+Tolerance {
			return NewError("ValidateRow").Variable(t.child.name).State(t.child.states[i]).
				Context("row %d probability %g outside [0,1]", idx, p).Cause(ErrMalformedCPT).Err()
		}
		sum += p
	}
	if math.Abs(sum-1) > Tolerance {
		return NewError("ValidateRow").Variable(t.child.name).
			Context("row %d sums to %g", idx, sum).Cause(ErrMalformedCPT).Err()
	}
	return nil
}
