// Package graph holds the weighted undirected location graph the storm
// network is built over. Neighbour iteration follows edge insertion order,
// so everything derived from it is reproducible.
package graph

import (
	"errors"
	"fmt"
)

var (
	ErrSelfLoop      = errors.New("self loop")
	ErrDuplicateEdge = errors.New("duplicate edge")
	ErrEmptyVertexID = errors.New("empty vertex id")
)

// Edge is an undirected weighted edge
type Edge struct {
	From   string
	To     string
	Weight float64
}

type edgeKey struct {
	a, b string
}

func keyOf(u, v string) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// Graph is a weighted undirected graph. It is not safe for concurrent
// mutation; once built it is only read.
type Graph struct {
	vertices  []string
	adjacency map[string][]string
	weights   map[edgeKey]float64
	edges     []Edge
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		weights:   make(map[edgeKey]float64),
	}
}

// AddVertex adds a vertex if it is not present yet
func (g *Graph) AddVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}
	if _, ok := g.adjacency[id]; ok {
		return nil
	}
	g.vertices = append(g.vertices, id)
	g.adjacency[id] = nil
	return nil
}

// AddEdge connects u and v, creating either vertex on demand.
// Weights are stored as given; range checks belong to the consumer.
func (g *Graph) AddEdge(u, v string, weight float64) error {
	if u == v {
		return fmt.Errorf("%w: %s", ErrSelfLoop, u)
	}
	k := keyOf(u, v)
	if _, ok := g.weights[k]; ok {
		return fmt.Errorf("%w: %s-%s", ErrDuplicateEdge, u, v)
	}
	if err := g.AddVertex(u); err != nil {
		return err
	}
	if err := g.AddVertex(v); err != nil {
		return err
	}

	g.weights[k] = weight
	g.adjacency[u] = append(g.adjacency[u], v)
	g.adjacency[v] = append(g.adjacency[v], u)
	g.edges = append(g.edges, Edge{From: u, To: v, Weight: weight})
	return nil
}

// Vertices returns vertex ids in insertion order
func (g *Graph) Vertices() []string {
	return append([]string(nil), g.vertices...)
}

// Neighbors returns v's neighbours in edge insertion order
func (g *Graph) Neighbors(v string) []string {
	return append([]string(nil), g.adjacency[v]...)
}

// Weight returns the weight of edge u-v
func (g *Graph) Weight(u, v string) (float64, bool) {
	w, ok := g.weights[keyOf(u, v)]
	return w, ok
}

// HasVertex reports whether id is a vertex
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.adjacency[id]
	return ok
}

func (g *Graph) Degree(v string) int {
	return len(g.adjacency[v])
}

// Len returns the number of vertices
func (g *Graph) Len() int {
	return len(g.vertices)
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}
