// Package visualization lays out the input graph and the derived Bayesian
// network and exports them as JSON or Graphviz DOT.
package visualization

import (
	"encoding/json"
	"strings"

	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/graph"
)

// Node is a drawable vertex or variable
type Node struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	States []string `json:"states,omitempty"`
}

// Edge connects two nodes; Weight is zero for network edges
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight,omitempty"`
}

// Visualization represents a graph visualization with layout
type Visualization struct {
	Name      string
	Directed  bool
	Nodes     []Node
	Edges     []Edge
	Positions map[string]Position
}

// ForGraph lays out the undirected input graph
func ForGraph(g *graph.Graph, layout Layout) (*Visualization, error) {
	positions, err := layout.ComputeLayout(GraphTopology(g))
	if err != nil {
		return nil, err
	}

	v := &Visualization{Name: "grid", Positions: positions}
	for _, id := range g.Vertices() {
		v.Nodes = append(v.Nodes, Node{ID: id, Label: id})
	}
	for _, e := range g.Edges() {
		v.Edges = append(v.Edges, Edge{From: e.From, To: e.To, Weight: e.Weight})
	}
	return v, nil
}

// ForNetwork lays out the network's dependency DAG
func ForNetwork(net *bayes.Network, layout Layout) (*Visualization, error) {
	positions, err := layout.ComputeLayout(NetworkTopology(net))
	if err != nil {
		return nil, err
	}

	v := &Visualization{Name: "network", Directed: true, Positions: positions}
	for _, variable := range net.Variables() {
		states := variable.States()
		v.Nodes = append(v.Nodes, Node{
			ID:     variable.Name(),
			Label:  variable.Name() + "\n" + strings.Join(states, "|"),
			States: states,
		})
	}
	for _, e := range net.Edges() {
		v.Edges = append(v.Edges, Edge{From: e.From, To: e.To})
	}
	return v, nil
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	type NodeViz struct {
		Node
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	type VizData struct {
		Name     string    `json:"name"`
		Directed bool      `json:"directed"`
		Nodes    []NodeViz `json:"nodes"`
		Edges    []Edge    `json:"edges"`
	}

	data := VizData{
		Name:     v.Name,
		Directed: v.Directed,
		Nodes:    make([]NodeViz, 0, len(v.Nodes)),
		Edges:    make([]Edge, 0, len(v.Edges)),
	}

	for _, n := range v.Nodes {
		pos := v.Positions[n.ID]
		data.Nodes = append(data.Nodes, NodeViz{Node: n, X: pos.X, Y: pos.Y})
	}
	data.Edges = append(data.Edges, v.Edges...)

	return json.Marshal(data)
}
