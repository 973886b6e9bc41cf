package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeCreatesVertices(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("1", "2", 1.5))
	require.NoError(t, g.AddEdge("1", "4", 2))

	assert.Equal(t, []string{"1", "2", "4"}, g.Vertices())
	assert.Equal(t, []string{"2", "4"}, g.Neighbors("1"))
	assert.Equal(t, []string{"1"}, g.Neighbors("4"))
	assert.Equal(t, 2, g.Degree("1"))
	assert.Equal(t, 3, g.Len())

	w, ok := g.Weight("2", "1")
	require.True(t, ok)
	assert.Equal(t, 1.5, w)

	_, ok = g.Weight("2", "4")
	assert.False(t, ok)
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	assert.ErrorIs(t, g.AddEdge("1", "1", 1), ErrSelfLoop)

	require.NoError(t, g.AddEdge("1", "2", 1))
	assert.ErrorIs(t, g.AddEdge("2", "1", 3), ErrDuplicateEdge)
	assert.ErrorIs(t, g.AddEdge("", "3", 1), ErrEmptyVertexID)
}

func TestAddVertexIdempotent(t *testing.T) {
	g := New()
	require.NoError(t, g.AddVertex("a"))
	require.NoError(t, g.AddVertex("a"))
	assert.Equal(t, []string{"a"}, g.Vertices())
	assert.True(t, g.HasVertex("a"))
	assert.Empty(t, g.Neighbors("a"))
}

func TestEdgesInInsertionOrder(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("b", "a", 2))
	require.NoError(t, g.AddEdge("a", "c", 3))

	assert.Equal(t, []Edge{{"b", "a", 2}, {"a", "c", 3}}, g.Edges())
}
