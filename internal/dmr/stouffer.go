package dmr

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// pClamp keeps p-values away from 0 and 1 so the normal quantile stays
// finite.
const pClamp = 1e-300

// stoufferCombine combines per-site p-values with equal weights:
// z_i = Phi^-1(1-p_i), Z = sum(z_i)/sqrt(n), combined p = 1 - Phi(Z).
// The lower-tail quantile is negated rather than evaluated at 1-p,
// which would round to 1 for very small p.
func stoufferCombine(pvalues []float64) float64 {
	if len(pvalues) == 0 {
		return 1
	}
	var sum float64
	for _, p := range pvalues {
		if p < pClamp {
			p = pClamp
		} else if p > 1-1e-16 {
			p = 1 - 1e-16
		}
		sum -= distuv.UnitNormal.Quantile(p)
	}
	z := sum / math.Sqrt(float64(len(pvalues)))
	return distuv.UnitNormal.Survival(z)
}
