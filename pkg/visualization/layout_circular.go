package visualization

import "math"

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout places nodes counter-clockwise in topology order, the
// first one at angle zero
func (cl *CircularLayout) ComputeLayout(t Topology) (map[string]Position, error) {
	nodes := t.Nodes()
	positions := make(map[string]Position, len(nodes))

	if len(nodes) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	if len(nodes) == 1 {
		positions[nodes[0]] = Position{X: centerX, Y: centerY}
		return positions, nil
	}

	radius := math.Min(centerX, centerY) - cl.config.Padding
	angleStep := 2 * math.Pi / float64(len(nodes))

	for i, id := range nodes {
		angle := float64(i) * angleStep
		positions[id] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
