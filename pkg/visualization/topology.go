package visualization

import (
	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/graph"
)

type graphTopology struct {
	g *graph.Graph
}

// GraphTopology exposes an undirected input graph to the layouts
func GraphTopology(g *graph.Graph) Topology {
	return graphTopology{g: g}
}

func (t graphTopology) Nodes() []string { return t.g.Vertices() }
func (t graphTopology) Out(id string) []string { return t.g.Neighbors(id) }
func (t graphTopology) In(id string) []string { return t.g.Neighbors(id) }

type networkTopology struct {
	net *bayes.Network
}

// NetworkTopology exposes a network's parent to child edges to the layouts
func NetworkTopology(net *bayes.Network) Topology {
	return networkTopology{net: net}
}

func (t networkTopology) Nodes() []string {
	vars := t.net.Variables()
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name()
	}
	return out
}

func (t networkTopology) Out(id string) []string {
	children, _ := t.net.Children(id)
	return names(children)
}

func (t networkTopology) In(id string) []string {
	parents, _ := t.net.Parents(id)
	return names(parents)
}

func names(vars []*bayes.Variable) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name()
	}
	return out
}
