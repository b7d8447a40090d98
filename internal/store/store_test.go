package store

import (
	"testing"

	"github.com/clark-lab/dmrcall/internal/dmr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig() dmr.Config {
	return dmr.Config{SigCutoff: 0.05, MaxGap: 1000, MinSites: 3, MinAbsDelta: 0.1}
}

func testRegions() []dmr.Region {
	return []dmr.Region{
		{Chrom: "chr1", Start: 1000, End: 1500, NSites: 4, Score: 1e-5, MeanDelta: 0.3, Genes: []string{"ALPHA", "BETA"}},
		{Chrom: "chr2", Start: 200, End: 260, NSites: 3, Score: 0.001, MeanDelta: -0.25},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAndQueryRun(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteRegions("tumor_vs_normal", testConfig(), testRegions()))

	got, err := s.QueryRun("tumor_vs_normal")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "chr1", got[0].Chrom)
	assert.Equal(t, int64(1000), got[0].Start)
	assert.Equal(t, int64(1500), got[0].End)
	assert.Equal(t, 4, got[0].NSites)
	assert.InDelta(t, 1e-5, got[0].Score, 1e-12)
	assert.Equal(t, []string{"ALPHA", "BETA"}, got[0].Genes)
	assert.InDelta(t, 0.05, got[0].SigCutoff, 1e-12)
	assert.Equal(t, int64(1000), got[0].MaxGap)
	assert.Equal(t, 3, got[0].MinSites)
	assert.False(t, got[0].CalledAt.IsZero())

	assert.Nil(t, got[1].Genes, "unannotated region round-trips without genes")
}

func TestWriteRegions_Deduplicates(t *testing.T) {
	s := openInMemory(t)

	regions := testRegions()
	regions = append(regions, regions[0]) // duplicate key
	require.NoError(t, s.WriteRegions("r", testConfig(), regions))

	got, err := s.QueryRun("r")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestWriteRegions_Empty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRegions("r", testConfig(), nil))

	got, err := s.QueryRun("r")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryByGene(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRegions("r1", testConfig(), testRegions()))

	got, err := s.QueryByGene("BETA")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1000), got[0].Start)

	// Whole-symbol match, not substring
	got, err = s.QueryByGene("BET")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunsAndDeleteRun(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRegions("b_run", testConfig(), testRegions()[:1]))
	require.NoError(t, s.WriteRegions("a_run", testConfig(), testRegions()[1:]))

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a_run", "b_run"}, runs)

	require.NoError(t, s.DeleteRun("a_run"))
	runs, err = s.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"b_run"}, runs)
}
