package visualization

// HierarchicalLayout arranges nodes in layers, parents above children
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout assigns every node of a DAG to the layer of its longest
// path from a root. Topologies without roots fall back to BFS layers from
// the first node.
func (hl *HierarchicalLayout) ComputeLayout(t Topology) (map[string]Position, error) {
	nodes := t.Nodes()
	positions := make(map[string]Position, len(nodes))

	if len(nodes) == 0 {
		return positions, nil
	}

	levels, ok := longestPathLevels(t, nodes)
	if !ok {
		levels = bfsLevels(t, nodes)
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))
	levelWidth := hl.config.Width - 2*hl.config.Padding

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)

		for nodeIdx, id := range level {
			x := hl.config.Padding + spacing*float64(nodeIdx+1)
			positions[id] = Position{X: x, Y: y}
		}
	}

	return positions, nil
}

// longestPathLevels layers a DAG with Kahn's algorithm. It reports false
// when some node is never released, i.e. the topology has a cycle.
func longestPathLevels(t Topology, nodes []string) ([][]string, bool) {
	indegree := make(map[string]int, len(nodes))
	depth := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for _, id := range nodes {
		indegree[id] = len(t.In(id))
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	released := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		released++
		for _, child := range t.Out(id) {
			depth[child] = max(depth[child], depth[id]+1)
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	if released != len(nodes) {
		return nil, false
	}

	maxDepth := 0
	for _, d := range depth {
		maxDepth = max(maxDepth, d)
	}
	levels := make([][]string, maxDepth+1)
	for _, id := range nodes {
		levels[depth[id]] = append(levels[depth[id]], id)
	}
	return levels, true
}

// bfsLevels layers nodes by hop distance; each unreached component starts
// a new BFS on the next layer after the deepest one so far
func bfsLevels(t Topology, nodes []string) [][]string {
	var levels [][]string
	visited := make(map[string]bool, len(nodes))

	for _, start := range nodes {
		if visited[start] {
			continue
		}
		visited[start] = true
		base := len(levels)
		current := []string{start}

		for depth := base; len(current) > 0; depth++ {
			if depth == len(levels) {
				levels = append(levels, nil)
			}
			levels[depth] = append(levels[depth], current...)

			var next []string
			for _, id := range current {
				for _, n := range adjacency(t, id) {
					if !visited[n] {
						visited[n] = true
						next = append(next, n)
					}
				}
			}
			current = next
		}
	}
	return levels
}
