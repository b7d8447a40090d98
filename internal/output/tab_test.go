package output

import (
	"strings"
	"testing"

	"github.com/clark-lab/dmrcall/internal/dmr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegion() *dmr.Region {
	return &dmr.Region{
		Chrom:     "chr1",
		Start:     1000,
		End:       1500,
		NSites:    4,
		Score:     0.00012,
		MeanDelta: -0.2345,
		Genes:     []string{"ALPHA", "BETA"},
	}
}

func TestTabWriter_HeaderAndRow(t *testing.T) {
	var buf strings.Builder
	tw := NewTabWriter(&buf)

	require.NoError(t, tw.WriteHeader())
	require.NoError(t, tw.Write(testRegion()))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "#chrom\tstart\tend\tn_sites\tscore\tmean_delta\tgenes", lines[0])
	assert.Equal(t, "chr1\t1000\t1500\t4\t0.00012\t-0.2345\tALPHA,BETA", lines[1])
}

func TestTabWriter_NoGenesPlaceholder(t *testing.T) {
	var buf strings.Builder
	tw := NewTabWriter(&buf)

	r := testRegion()
	r.Genes = nil
	require.NoError(t, tw.Write(r))
	require.NoError(t, tw.Flush())

	assert.True(t, strings.HasSuffix(strings.TrimRight(buf.String(), "\n"), "\t-"))
}
