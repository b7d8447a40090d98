package genemodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIntervalTree_Empty(t *testing.T) {
	tree := BuildIntervalTree(nil)
	assert.Empty(t, tree.FindOverlaps(100, 200))
}

func TestIntervalTree_SingleGene(t *testing.T) {
	g := &Gene{ID: "ENSG001", Start: 100, End: 200}
	tree := BuildIntervalTree([]*Gene{g})

	assert.Len(t, tree.FindOverlaps(150, 160), 1, "query inside gene")
	assert.Len(t, tree.FindOverlaps(50, 100), 1, "start boundary inclusive")
	assert.Len(t, tree.FindOverlaps(200, 300), 1, "end boundary inclusive")
	assert.Len(t, tree.FindOverlaps(50, 300), 1, "query spanning gene")
	assert.Empty(t, tree.FindOverlaps(10, 99), "before start")
	assert.Empty(t, tree.FindOverlaps(201, 300), "after end")
}

func TestIntervalTree_Overlapping(t *testing.T) {
	genes := []*Gene{
		{ID: "A", Start: 100, End: 300},
		{ID: "B", Start: 150, End: 250},
		{ID: "C", Start: 200, End: 400},
	}
	tree := BuildIntervalTree(genes)

	results := tree.FindOverlaps(160, 175)
	ids := map[string]bool{}
	for _, g := range results {
		ids[g.ID] = true
	}
	assert.Len(t, results, 2, "query hits A and B")
	assert.True(t, ids["A"])
	assert.True(t, ids["B"])

	assert.Len(t, tree.FindOverlaps(250, 260), 3)
	assert.Len(t, tree.FindOverlaps(350, 360), 1)
}

func TestIntervalTree_MaxEndPruning(t *testing.T) {
	genes := []*Gene{
		{ID: "short", Start: 100, End: 110},
		{ID: "long", Start: 105, End: 500},
	}
	tree := BuildIntervalTree(genes)

	results := tree.FindOverlaps(400, 410)
	assert.Len(t, results, 1)
	assert.Equal(t, "long", results[0].ID)
}

func TestIntervalTree_ContainingGeneBeforeShort(t *testing.T) {
	// A long gene sorted ahead of a short nested one: the scan must not
	// stop at the short gene's end before inspecting the long one.
	genes := []*Gene{
		{ID: "long", Start: 1, End: 100},
		{ID: "short", Start: 2, End: 3},
	}
	tree := BuildIntervalTree(genes)

	results := tree.FindOverlaps(50, 60)
	require.Len(t, results, 1)
	assert.Equal(t, "long", results[0].ID)

	results = tree.FindOverlaps(2, 2)
	assert.Len(t, results, 2, "query inside both genes")
}

func TestIntervalTree_NestedIntervalsPastInnerEnds(t *testing.T) {
	genes := []*Gene{
		{ID: "outer", Start: 100, End: 1000},
		{ID: "inner1", Start: 110, End: 120},
		{ID: "inner2", Start: 130, End: 140},
		{ID: "inner3", Start: 150, End: 160},
	}
	tree := BuildIntervalTree(genes)

	results := tree.FindOverlaps(500, 510)
	require.Len(t, results, 1)
	assert.Equal(t, "outer", results[0].ID)
}

func TestGene_Overlaps(t *testing.T) {
	g := &Gene{Start: 100, End: 200}
	assert.True(t, g.Overlaps(200, 250))
	assert.True(t, g.Overlaps(50, 100))
	assert.False(t, g.Overlaps(201, 250))
	assert.False(t, g.Overlaps(1, 99))
}
