package bayes

// Edge is a parent -> child dependency derived from a CPT
type Edge struct {
	From string
	To   string
}

// Network is a discrete Bayesian network. Its edge structure is derived
// from the parents declared by each variable's table, and its topological
// order is computed once at construction. A Network is read-only after
// NewNetwork returns and safe for concurrent use.
type Network struct {
	variables []*Variable
	byName    map[string]int
	tables    []*Table
	children  [][]int
	order     []int
}

// NewNetwork assembles a network from one table per variable
func NewNetwork(tables ...*Table) (*Network, error) {
	n := &Network{
		variables: make([]*Variable, 0, len(tables)),
		byName:    make(map[string]int, len(tables)),
		tables:    make([]*Table, 0, len(tables)),
	}

	for _, t := range tables {
		if t == nil {
			return nil, NewError("NewNetwork").Context("nil table").Cause(ErrMalformedCPT).Err()
		}
		name := t.child.name
		if _, dup := n.byName[name]; dup {
			return nil, NewError("NewNetwork").Variable(name).Cause(ErrDuplicateVariable).Err()
		}
		n.byName[name] = len(n.variables)
		n.variables = append(n.variables, t.child)
		n.tables = append(n.tables, t)
	}

	// Derive edges from declared parents
	n.children = make([][]int, len(n.variables))
	for i, t := range n.tables {
		for _, p := range t.parents {
			pi, ok := n.byName[p.name]
			if !ok {
				return nil, NewError("NewNetwork").Variable(t.child.name).
					Context("parent %s has no table", p.name).Cause(ErrUnknownVariable).Err()
			}
			if n.variables[pi] != p {
				return nil, NewError("NewNetwork").Variable(t.child.name).
					Context("parent %s is not the registered variable of that name", p.name).
					Cause(ErrUnknownVariable).Err()
			}
			n.children[pi] = append(n.children[pi], i)
		}
	}

	order, err := n.topologicalSort()
	if err != nil {
		return nil, err
	}
	n.order = order
	return n, nil
}

// topologicalSort orders variables with Kahn's algorithm.
// Ties are broken by insertion order so the result is deterministic.
func (n *Network) topologicalSort() ([]int, error) {
	inDegree := make([]int, len(n.variables))
	for i, t := range n.tables {
		inDegree[i] = len(t.parents)
	}

	queue := make([]int, 0, len(n.variables))
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	sorted := make([]int, 0, len(n.variables))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, c := range n.children[current] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(sorted) != len(n.variables) {
		var stuck []string
		for i, d := range inDegree {
			if d > 0 {
				stuck = append(stuck, n.variables[i].name)
			}
		}
		return nil, NewError("NewNetwork").Context("variables on a cycle: %v", stuck).Cause(ErrCyclicDependency).Err()
	}
	return sorted, nil
}

// Len returns the number of variables
func (n *Network) Len() int {
	return len(n.variables)
}

// Variables returns all variables in insertion order
func (n *Network) Variables() []*Variable {
	return append([]*Variable(nil), n.variables...)
}

// Variable looks a variable up by name
func (n *Network) Variable(name string) (*Variable, error) {
	i, ok := n.byName[name]
	if !ok {
		return nil, NewError("Variable").Variable(name).Cause(ErrUnknownVariable).Err()
	}
	return n.variables[i], nil
}

// Table returns the CPT owned by the named variable
func (n *Network) Table(name string) (*Table, error) {
	i, ok := n.byName[name]
	if !ok {
		return nil, NewError("Table").Variable(name).Cause(ErrUnknownVariable).Err()
	}
	return n.tables[i], nil
}

// Parents returns the named variable's parents in CPT key order
func (n *Network) Parents(name string) ([]*Variable, error) {
	t, err := n.Table(name)
	if err != nil {
		return nil, err
	}
	return t.Parents(), nil
}

// Children returns the variables that list name as a parent
func (n *Network) Children(name string) ([]*Variable, error) {
	i, ok := n.byName[name]
	if !ok {
		return nil, NewError("Children").Variable(name).Cause(ErrUnknownVariable).Err()
	}
	out := make([]*Variable, len(n.children[i]))
	for k, c := range n.children[i] {
		out[k] = n.variables[c]
	}
	return out, nil
}

// Edges returns every parent -> child edge, grouped by child in insertion order
func (n *Network) Edges() []Edge {
	var edges []Edge
	for _, t := range n.tables {
		for _, p := range t.parents {
			edges = append(edges, Edge{From: p.name, To: t.child.name})
		}
	}
	return edges
}

// TopologicalOrder returns the cached order; every parent precedes its children
func (n *Network) TopologicalOrder() []*Variable {
	out := make([]*Variable, len(n.order))
	for k, i := range n.order {
		out[k] = n.variables[i]
	}
	return out
}
