package search

import (
	"testing"

	"github.com/poiesic/quaero/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFTS(t *testing.T) {
	matches := []core.FTSMatch{
		{GID: "a", PageNo: 1, Title: "A", Snippet: "<b>hit</b>", Score: 0.95},
		{GID: "b", Title: "B", Score: 0.4},
	}

	results := FromFTS(matches)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].GID)
	assert.Equal(t, 1, results[0].PageNo)
	assert.Equal(t, "<b>hit</b>", results[0].Snippet)
	assert.Equal(t, 0.95, results[0].Scores.FTS)
	assert.Equal(t, 0.95, results[0].Scores.Final)
	assert.Zero(t, results[0].Scores.Vector)
	assert.Zero(t, results[0].Scores.Graph)

	assert.Equal(t, 0.4, results[1].Scores.Final)
}

func TestFromFTSEmpty(t *testing.T) {
	results := FromFTS(nil)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFuseGraph(t *testing.T) {
	seeds := []core.FTSMatch{
		{GID: "seed", Title: "Seed", Snippet: "<b>seed</b>", Score: 0.8},
	}
	hood := &core.GraphNeighborhood{
		Nodes: []core.GraphNode{
			{GID: "seed", Title: "Seed"},
			{GID: "near", Title: "Near"},
			{GID: "far", Title: "Far"},
		},
		Distances: map[string]int{"seed": 0, "near": 1, "far": 2},
	}

	results := FuseGraph(seeds, hood)
	require.Len(t, results, 3)

	// Seed: distance 0 gives graph score 1.0, fused with its seed score
	assert.Equal(t, "seed", results[0].GID)
	assert.InDelta(t, 1.0, results[0].Scores.Graph, 1e-9)
	assert.InDelta(t, 0.8*0.3+1.0*0.7, results[0].Scores.Final, 1e-9)
	assert.Equal(t, "<b>seed</b>", results[0].Snippet)

	// One hop out: graph score 0.5, no lexical component
	assert.Equal(t, "near", results[1].GID)
	assert.InDelta(t, 0.5, results[1].Scores.Graph, 1e-9)
	assert.InDelta(t, 0.0*0.3+0.5*0.7, results[1].Scores.Final, 1e-9)
	assert.Empty(t, results[1].Snippet)

	// Two hops out: graph score 1/3
	assert.Equal(t, "far", results[2].GID)
	assert.InDelta(t, 1.0/3.0, results[2].Scores.Graph, 1e-9)
}

func TestFuseGraphOrdering(t *testing.T) {
	// A strong seed's direct neighbor can outrank a weak seed
	seeds := []core.FTSMatch{
		{GID: "strong", Score: 1.0},
		{GID: "weak", Score: 0.1},
	}
	hood := &core.GraphNeighborhood{
		Nodes: []core.GraphNode{
			{GID: "strong"},
			{GID: "weak"},
			{GID: "neighbor"},
		},
		Distances: map[string]int{"strong": 0, "weak": 0, "neighbor": 1},
	}

	results := FuseGraph(seeds, hood)
	require.Len(t, results, 3)
	assert.Equal(t, "strong", results[0].GID)
	assert.Equal(t, "weak", results[1].GID)
	assert.Equal(t, "neighbor", results[2].GID)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Scores.Final, results[i].Scores.Final)
	}
}

func TestFuseGraphEmptyNeighborhood(t *testing.T) {
	results := FuseGraph([]core.FTSMatch{{GID: "seed", Score: 1}}, nil)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results = FuseGraph(nil, &core.GraphNeighborhood{})
	assert.Empty(t, results)
}
