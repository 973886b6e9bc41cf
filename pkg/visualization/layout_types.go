package visualization

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for the initial force-directed placement
}

// DefaultLayoutConfig fits a small grid on an 800x600 canvas
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{Width: 800, Height: 600, Iterations: 50, Padding: 50, Seed: 1}
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(t Topology) (map[string]Position, error)
}

// Topology is the view of a graph a layout needs. Undirected graphs report
// every neighbour in both Out and In.
type Topology interface {
	Nodes() []string
	Out(id string) []string
	In(id string) []string
}
