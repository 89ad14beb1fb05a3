package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Significance tiers for the two-sample mean-difference test.
const (
	TierStrongest = "***" // p < 0.001
	TierStrong    = "**"  // p < 0.01
	TierWeak      = "*"   // p < 0.05
	TierNone      = "ns"
)

func tier(p float64) string {
	switch {
	case p < 0.001:
		return TierStrongest
	case p < 0.01:
		return TierStrong
	case p < 0.05:
		return TierWeak
	default:
		return TierNone
	}
}

// welchTTest runs Welch's unequal-variance two-sample t-test and returns
// the two-sided p-value. Missing (NaN) observations are dropped first.
// The test is undefined (ok=false) with fewer than two observations on
// either side or zero pooled variance.
func welchTTest(x, y []float64) (float64, bool) {
	x = dropMissing(x)
	y = dropMissing(y)
	nx, ny := float64(len(x)), float64(len(y))
	if len(x) < 2 || len(y) < 2 {
		return 0, false
	}

	meanX := stat.Mean(x, nil)
	meanY := stat.Mean(y, nil)
	varX := stat.Variance(x, nil)
	varY := stat.Variance(y, nil)

	se2 := varX/nx + varY/ny
	if se2 == 0 {
		if meanX == meanY {
			return 1, true
		}
		return 0, false
	}

	t := (meanX - meanY) / math.Sqrt(se2)

	// Welch-Satterthwaite degrees of freedom.
	num := se2 * se2
	den := (varX/nx)*(varX/nx)/(nx-1) + (varY/ny)*(varY/ny)/(ny-1)
	df := num / den

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	return p, true
}

func dropMissing(values []float64) []float64 {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	return kept
}
