// Package scoring converts accuracy tallies into ranking scores.
//
// The ranking uses the Wilson score interval lower bound instead of the
// raw hit percentage, so a predictor who got lucky on a couple of fights
// does not outrank one with a long consistent record.
package scoring

import "math"

// DefaultConfidence is the two-sided confidence level used by Score.
const DefaultConfidence = 0.95

// zDefault is the critical value for DefaultConfidence. Kept as a
// literal so the default path matches the published tables exactly.
const zDefault = 1.96

// Score returns the Wilson lower bound for hits out of total at the
// default 95% confidence. A zero total scores 0, never NaN.
func Score(hits, total int) float64 {
	return ScoreAt(hits, total, DefaultConfidence)
}

// ScoreAt computes the Wilson score interval lower bound for a binomial
// proportion at an arbitrary confidence level in (0, 1). The result is
// in [0, 1] and monotonic in hits for a fixed total.
func ScoreAt(hits, total int, confidence float64) float64 {
	if total <= 0 {
		return 0
	}

	z := zDefault
	if confidence != DefaultConfidence {
		z = criticalValue(confidence)
	}

	n := float64(total)
	p := float64(hits) / n

	denominator := 1 + z*z/n
	center := p + z*z/(2*n)
	spread := z * math.Sqrt((p*(1-p)+z*z/(4*n))/n)

	s := (center - spread) / denominator
	// Rounding can leave a tiny negative residue (or -0) when p is 0.
	if s < 0 {
		return 0
	}
	return s
}

// criticalValue returns the two-sided z critical value for the given
// confidence level. Out-of-range inputs fall back to the default.
func criticalValue(confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		return zDefault
	}
	return inverseNormalCDF(1 - (1-confidence)/2)
}

// Coefficients for Acklam's rational approximation of the inverse
// normal CDF. Relative error is below 1.15e-9 over the full range,
// far tighter than the ranking needs.
var (
	invNormA = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02,
		-2.759285104469687e+02, 1.383577518672690e+02,
		-3.066479806614716e+01, 2.506628277459239e+00,
	}
	invNormB = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02,
		-1.556989798598866e+02, 6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	invNormC = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01,
		-2.400758277161838e+00, -2.549732539343734e+00,
		4.374664141464968e+00, 2.938163982698783e+00,
	}
	invNormD = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}
)

// inverseNormalCDF returns z such that P(Z <= z) = p for a standard
// normal Z, for p in (0, 1).
func inverseNormalCDF(p float64) float64 {
	const plow, phigh = 0.02425, 1 - 0.02425

	a, b, c, d := invNormA, invNormB, invNormC, invNormD

	switch {
	case p < plow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p > phigh:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	}
}
