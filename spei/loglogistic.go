package spei

import (
	"math"
	"sort"
)

// Coefficients hold a fitted three-parameter log-logistic distribution
type Coefficients struct {
	// Location is the origin of the distribution
	Location float64
	// Scale stretches the distribution above its origin
	Scale float64
	// Shape controls the tail weight
	Shape float64
}

// CDF evaluates the cumulative distribution at x. Values at or below the
// origin have probability zero.
func (c Coefficients) CDF(x float64) float64 {
	if x <= c.Location {
		return 0
	}
	return 1.0 / (1.0 + math.Pow(c.Scale/(x-c.Location), c.Shape))
}

// fitLogLogistic estimates log-logistic parameters from a sample using
// unbiased probability-weighted moments. It reports false when the sample
// does not pin down a finite distribution.
func fitLogLogistic(sample []float64) (Coefficients, bool) {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	b0, b1, b2 := probabilityWeightedMoments(sorted)

	shape := (b0 - 2.0*b1) / (6.0*b1 - b0 - 6.0*b2)
	gammaProduct := math.Gamma(1.0+1.0/shape) * math.Gamma(1.0-1.0/shape)
	scale := (2.0*b1 - b0) * shape / gammaProduct
	location := b0 - scale*gammaProduct

	coeffs := Coefficients{Location: location, Scale: scale, Shape: shape}
	for _, v := range []float64{location, scale, shape} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return coeffs, false
		}
	}
	return coeffs, true
}

// probabilityWeightedMoments computes the first three unbiased PWMs of an
// ascending-sorted sample
func probabilityWeightedMoments(sorted []float64) (b0, b1, b2 float64) {
	n := float64(len(sorted))
	for j, x := range sorted {
		i := float64(j + 1)
		b0 += x
		b1 += x * (i - 1) / (n - 1)
		b2 += x * (i - 1) * (i - 2) / ((n - 1) * (n - 2))
	}
	return b0 / n, b1 / n, b2 / n
}
