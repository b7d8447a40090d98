package dmr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepAll_OrderMatchesChroms(t *testing.T) {
	byChrom := make(map[string][]Site)
	var chroms []string
	for i := 1; i <= 20; i++ {
		chrom := fmt.Sprintf("chr%d", i)
		chroms = append(chroms, chrom)
		byChrom[chrom] = []Site{
			site(chrom, int64(100*i), 0.01),
			site(chrom, int64(100*i+10), 0.01),
		}
	}
	cfg := Config{SigCutoff: 0.05, MaxGap: 100, MinSites: 2}

	for _, workers := range []int{1, 4, 0} {
		ordered := sweepAll(chroms, byChrom, cfg, workers)
		require.Len(t, ordered, len(chroms), "workers=%d", workers)
		for i, rs := range ordered {
			require.Len(t, rs, 1)
			assert.Equal(t, chroms[i], rs[0].Chrom)
		}
	}
}

func TestSweepAll_ParallelMatchesSerial(t *testing.T) {
	chr1 := []Site{
		site("chr1", 1000, 0.001),
		site("chr1", 1050, 0.003),
		site("chr1", 1100, 0.3),
		site("chr1", 1400, 0.002),
		site("chr1", 1450, 0.04),
	}
	byChrom := map[string][]Site{
		"chr1": chr1,
		"chr2": {site("chr2", 100, 0.01), site("chr2", 5000, 0.01)},
	}
	chroms := []string{"chr1", "chr2"}
	cfg := Config{SigCutoff: 0.05, MaxGap: 200, MinSites: 1}

	serial := sweepAll(chroms, byChrom, cfg, 1)
	parallel := sweepAll(chroms, byChrom, cfg, 8)
	assert.Equal(t, serial, parallel)
}

func TestSweepAll_Empty(t *testing.T) {
	assert.Nil(t, sweepAll(nil, nil, Config{SigCutoff: 0.05, MinSites: 1}, 4))
}
