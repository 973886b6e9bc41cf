package inference

import "github.com/dd0wney/stormnet/pkg/bayes"

const unassigned = -1

// assignment holds a state index per topological position, or unassigned.
// It is never modified after construction; with returns an extended copy,
// so sibling branches of the summation cannot see each other's choices.
type assignment []int

func newAssignment(n int) assignment {
	a := make(assignment, n)
	for i := range a {
		a[i] = unassigned
	}
	return a
}

func (a assignment) with(pos, state int) assignment {
	ext := make(assignment, len(a))
	copy(ext, a)
	ext[pos] = state
	return ext
}

// extendQuery assigns the b-th joint query assignment on top of a. It
// reports false when the query states contradict existing evidence.
func (a assignment) extendQuery(qpos []int, qvars []*bayes.Variable, b int) (assignment, bool) {
	states := branchIndices(qvars, b)
	ext := a
	for i, p := range qpos {
		if a[p] != unassigned {
			if a[p] != states[i] {
				return nil, false
			}
			continue
		}
		ext = ext.with(p, states[i])
	}
	return ext, true
}

// branchIndices decodes branch b into state indices, first variable slowest
func branchIndices(vars []*bayes.Variable, b int) []int {
	out := make([]int, len(vars))
	for i := len(vars) - 1; i >= 0; i-- {
		c := vars[i].Cardinality()
		out[i] = b % c
		b /= c
	}
	return out
}

func branchStates(vars []*bayes.Variable, b int) []string {
	idx := branchIndices(vars, b)
	out := make([]string, len(vars))
	for i, s := range idx {
		out[i] = vars[i].State(s)
	}
	return out
}
