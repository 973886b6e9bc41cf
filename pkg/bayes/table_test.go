package bayes

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherVar(t *testing.T) *Variable {
	t.Helper()
	v, err := NewVariable("Weather", "mild", "stormy", "extreme")
	require.NoError(t, err)
	return v
}

func boolVar(t *testing.T, name string) *Variable {
	t.Helper()
	v, err := NewVariable(name, "true", "false")
	require.NoError(t, err)
	return v
}

func TestNewVariable(t *testing.T) {
	tests := []struct {
		name   string
		vname  string
		states []string
		ok     bool
	}{
		{"valid", "A", []string{"x", "y"}, true},
		{"empty name", "", []string{"x", "y"}, false},
		{"single state", "A", []string{"x"}, false},
		{"duplicate state", "A", []string{"x", "x"}, false},
		{"empty state", "A", []string{"x", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVariable(tt.vname, tt.states...)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.states, v.States())
				assert.Equal(t, len(tt.states), v.Cardinality())
				return
			}
			assert.ErrorIs(t, err, ErrInvalidVariable)
		})
	}
}

func TestVariableStatesIsCopy(t *testing.T) {
	v := MustVariable("A", "x", "y")
	states := v.States()
	states[0] = "mutated"
	assert.Equal(t, "x", v.State(0))
}

func TestNewPrior(t *testing.T) {
	w := weatherVar(t)

	tbl, err := NewPrior(w, map[string]float64{"mild": 0.6, "stormy": 0.3, "extreme": 0.1})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.RowCount())

	p, err := tbl.Lookup(nil, "stormy")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p, 1e-12)

	_, err = NewPrior(w, map[string]float64{"mild": 0.6, "stormy": 0.4})
	assert.ErrorIs(t, err, ErrMalformedCPT)

	_, err = NewPrior(w, map[string]float64{"mild": 0.5, "stormy": 0.3, "extreme": 0.1, "calm": 0.1})
	assert.ErrorIs(t, err, ErrUnknownState)

	_, err = NewPrior(w, map[string]float64{"mild": 0.5, "stormy": 0.3, "extreme": 0.1})
	assert.ErrorIs(t, err, ErrMalformedCPT)
}

func TestNewTableValidation(t *testing.T) {
	w := weatherVar(t)
	b := boolVar(t, "B")

	t.Run("wrong row count", func(t *testing.T) {
		_, err := NewTable(b, []*Variable{w}, [][]float64{{0.1, 0.9}})
		assert.ErrorIs(t, err, ErrMalformedCPT)
	})

	t.Run("row does not sum to one", func(t *testing.T) {
		_, err := NewTable(b, []*Variable{w}, [][]float64{{0.1, 0.9}, {0.2, 0.7}, {0.3, 0.7}})
		assert.ErrorIs(t, err, ErrMalformedCPT)
	})

	t.Run("within tolerance", func(t *testing.T) {
		_, err := NewTable(b, []*Variable{w}, [][]float64{{0.1, 0.9 + 5e-7}, {0.2, 0.8}, {0.3, 0.7}})
		assert.NoError(t, err)
	})

	t.Run("negative probability", func(t *testing.T) {
		_, err := NewTable(b, []*Variable{w}, [][]float64{{-0.1, 1.1}, {0.2, 0.8}, {0.3, 0.7}})
		assert.ErrorIs(t, err, ErrMalformedCPT)
	})

	t.Run("self parent", func(t *testing.T) {
		_, err := NewTable(b, []*Variable{b}, [][]float64{{0.5, 0.5}, {0.5, 0.5}})
		assert.ErrorIs(t, err, ErrCyclicDependency)
	})
}

func TestLookup(t *testing.T) {
	w := weatherVar(t)
	b := boolVar(t, "B")
	tbl, err := NewTable(b, []*Variable{w}, [][]float64{{0.1, 0.9}, {0.2, 0.8}, {0.3, 0.7}})
	require.NoError(t, err)

	p, err := tbl.Lookup(ParentAssignment{"extreme"}, "true")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p, 1e-12)

	dist, err := tbl.Distribution(ParentAssignment{"stormy"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"true": 0.2, "false": 0.8}, dist)

	_, err = tbl.Lookup(ParentAssignment{"mild"}, "maybe")
	assert.ErrorIs(t, err, ErrUnknownState)

	_, err = tbl.Lookup(ParentAssignment{"calm"}, "true")
	assert.ErrorIs(t, err, ErrUnknownParentAssignment)

	_, err = tbl.Lookup(ParentAssignment{"mild", "mild"}, "true")
	assert.ErrorIs(t, err, ErrUnknownParentAssignment)

	_, err = tbl.Distribution(nil)
	assert.ErrorIs(t, err, ErrUnknownParentAssignment)

	var me *ModelError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "B", me.Variable)
}

func TestRowOrderLastParentFastest(t *testing.T) {
	a := boolVar(t, "A")
	b := boolVar(t, "B")
	c := boolVar(t, "C")

	// rows: (A,B) = (t,t) (t,f) (f,t) (f,f)
	tbl, err := NewTable(c, []*Variable{a, b}, [][]float64{
		{0.9, 0.1},
		{0.7, 0.3},
		{0.5, 0.5},
		{0.0, 1.0},
	})
	require.NoError(t, err)

	p, err := tbl.Lookup(ParentAssignment{"true", "false"}, "true")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, p, 1e-12)

	p, err = tbl.LookupIndex([]int{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	var seen []ParentAssignment
	require.NoError(t, tbl.EachRow(func(pa ParentAssignment, dist []float64) bool {
		seen = append(seen, pa)
		return true
	}))
	assert.Equal(t, []ParentAssignment{
		{"true", "true"}, {"true", "false"}, {"false", "true"}, {"false", "false"},
	}, seen)
}

func TestLookupIndexErrors(t *testing.T) {
	a := boolVar(t, "A")
	c := boolVar(t, "C")
	tbl, err := NewTable(c, []*Variable{a}, [][]float64{{0.5, 0.5}, {0.5, 0.5}})
	require.NoError(t, err)

	_, err = tbl.LookupIndex([]int{0}, 2)
	assert.ErrorIs(t, err, ErrUnknownState)
	_, err = tbl.LookupIndex([]int{2}, 0)
	assert.ErrorIs(t, err, ErrUnknownParentAssignment)
	_, err = tbl.LookupIndex(nil, 0)
	assert.ErrorIs(t, err, ErrUnknownParentAssignment)
}

func TestLazyTable(t *testing.T) {
	a := boolVar(t, "A")
	b := boolVar(t, "B")
	c := boolVar(t, "C")

	calls := 0
	tbl, err := NewLazyTable(c, []*Variable{a, b}, func(states []int) []float64 {
		calls++
		if states[0] == 1 && states[1] == 1 {
			return []float64{0.6, 0.6} // invalid row, only hit on demand
		}
		return []float64{0.25, 0.75}
	})
	require.NoError(t, err)
	assert.True(t, tbl.Lazy())
	assert.Equal(t, 0, calls)

	p, err := tbl.Lookup(ParentAssignment{"true", "false"}, "false")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, p, 1e-12)

	_, err = tbl.Lookup(ParentAssignment{"true", "false"}, "true")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "rows are memoised")

	_, err = tbl.Lookup(ParentAssignment{"false", "false"}, "true")
	assert.ErrorIs(t, err, ErrMalformedCPT)

	err = tbl.EachRow(func(ParentAssignment, []float64) bool { return true })
	assert.ErrorIs(t, err, ErrMalformedCPT)
}

func TestTableFuncMatchesLazy(t *testing.T) {
	parents := []*Variable{boolVar(t, "A"), weatherVar(t), boolVar(t, "B")}
	child := boolVar(t, "C")
	gen := func(states []int) []float64 {
		p := 0.1*float64(states[0]) + 0.2*float64(states[1]) + 0.05*float64(states[2])
		return []float64{p, 1 - p}
	}

	eager, err := NewTableFunc(child, parents, gen)
	require.NoError(t, err)
	lazy, err := NewLazyTable(child, parents, gen)
	require.NoError(t, err)
	require.Equal(t, 12, eager.RowCount())

	require.NoError(t, eager.EachRow(func(pa ParentAssignment, dist []float64) bool {
		got, err := lazy.Distribution(pa)
		require.NoError(t, err)
		assert.InDelta(t, dist[0], got["true"], 1e-12)
		return true
	}))
}

func TestTableRowsSumToOne(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	w := MustVariable("Weather", "mild", "stormy", "extreme")
	b := MustVariable("B", "true", "false")

	properties.Property("every accepted row sums to one", prop.ForAll(
		func(x float64) bool {
			tbl, err := NewTableFunc(b, []*Variable{w}, func(states []int) []float64 {
				p := float64(states[0]+1) * x
				return []float64{p, 1 - p}
			})
			if err != nil {
				return false
			}
			ok := true
			_ = tbl.EachRow(func(_ ParentAssignment, dist []float64) bool {
				s := dist[0] + dist[1]
				ok = ok && s > 1-Tolerance && s < 1+Tolerance
				return ok
			})
			return ok
		},
		gen.Float64Range(0, 1.0/3),
	))

	properties.TestingRun(t)
}
