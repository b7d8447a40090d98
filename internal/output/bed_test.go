package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBEDWriter_HalfOpenCoordinates(t *testing.T) {
	var buf strings.Builder
	bw := NewBEDWriter(&buf)

	require.NoError(t, bw.WriteHeader())
	require.NoError(t, bw.Write(testRegion()))
	require.NoError(t, bw.Flush())

	// p = 0.00012 -> -10*log10 = 39.2 -> 39
	assert.Equal(t, "chr1\t999\t1500\tALPHA,BETA\t39\t.\n", buf.String())
}

func TestBEDWriter_FallbackName(t *testing.T) {
	var buf strings.Builder
	bw := NewBEDWriter(&buf)

	r := testRegion()
	r.Genes = nil
	require.NoError(t, bw.Write(r))
	require.NoError(t, bw.Flush())

	assert.Contains(t, buf.String(), "\tchr1:1000-1500\t")
}

func TestBEDScore_Bounds(t *testing.T) {
	assert.Equal(t, 1000, bedScore(0))
	assert.Equal(t, 1000, bedScore(1e-200))
	assert.Equal(t, 0, bedScore(1))
	assert.Equal(t, 13, bedScore(0.05))
}
