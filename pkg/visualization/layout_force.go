package visualization

import (
	"math"
	"math/rand"
)

// ForceDirectedLayout implements force-directed graph layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout runs a Fruchterman-Reingold style simulation. The initial
// placement comes from config.Seed, so equal inputs give equal layouts.
func (fdl *ForceDirectedLayout) ComputeLayout(t Topology) (map[string]Position, error) {
	nodes := t.Nodes()
	if len(nodes) == 0 {
		return make(map[string]Position), nil
	}

	// Single node - center it
	if len(nodes) == 1 {
		return map[string]Position{
			nodes[0]: {X: fdl.config.Width / 2, Y: fdl.config.Height / 2},
		}, nil
	}

	rng := rand.New(rand.NewSource(fdl.config.Seed))
	index := make(map[string]int, len(nodes))
	pos := make([]Position, len(nodes))
	for i, id := range nodes {
		index[id] = i
		pos[i] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	adj := make([][]int, len(nodes))
	for i, id := range nodes {
		for _, n := range adjacency(t, id) {
			if j, ok := index[n]; ok {
				adj[i] = append(adj[i], j)
			}
		}
	}

	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(nodes))) // Optimal distance
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make([]Position, len(nodes))

		// Repulsion between all nodes
		for i := range nodes {
			for j := i + 1; j < len(nodes); j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction between connected nodes
		for i := range nodes {
			for _, j := range adj[i] {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[i].X -= (dx / dist) * force
				forces[i].Y -= (dy / dist) * force
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for i := range nodes {
			fx, fy := forces[i].X, forces[i].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				pos[i].X += (fx / force) * step
				pos[i].Y += (fy / force) * step
			}
		}

		temperature *= 0.95
	}

	positions := make(map[string]Position, len(nodes))
	for i, id := range nodes {
		positions[id] = pos[i]
	}
	return normalizePositions(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}
