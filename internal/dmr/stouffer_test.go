package dmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoufferCombine_SingleValue(t *testing.T) {
	// With one p-value the combination is the identity.
	assert.InDelta(t, 0.05, stoufferCombine([]float64{0.05}), 1e-9)
	assert.InDelta(t, 0.5, stoufferCombine([]float64{0.5}), 1e-9)
}

func TestStoufferCombine_ConcordantEvidenceStrengthens(t *testing.T) {
	one := stoufferCombine([]float64{0.05})
	two := stoufferCombine([]float64{0.05, 0.05})
	four := stoufferCombine([]float64{0.05, 0.05, 0.05, 0.05})
	assert.Less(t, two, one, "two concordant p-values combine below either")
	assert.Less(t, four, two)
}

func TestStoufferCombine_NullCenter(t *testing.T) {
	// p = 0.5 maps to z = 0, so any number of them combines to 0.5.
	assert.InDelta(t, 0.5, stoufferCombine([]float64{0.5, 0.5, 0.5}), 1e-9)
}

func TestStoufferCombine_Empty(t *testing.T) {
	assert.Equal(t, 1.0, stoufferCombine(nil))
}

func TestStoufferCombine_ExtremeValuesFinite(t *testing.T) {
	got := stoufferCombine([]float64{0, 1e-320, 1})
	assert.False(t, got < 0 || got > 1, "combined p stays in [0,1], got %g", got)
}
