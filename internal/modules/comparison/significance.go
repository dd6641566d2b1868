package comparison

import "math"

// significanceLevel is the p-value below which the mean difference is
// reported as significant.
const significanceLevel = 0.05

// welchTest runs a two-sample Welch t-test on the outcome distributions.
// Degrees of freedom follow Welch–Satterthwaite; the p-value uses a
// normal approximation of the t distribution, adequate at Monte Carlo
// sample sizes.
func welchTest(a, b []float64) SignificanceTest {
	nA, nB := float64(len(a)), float64(len(b))
	if nA < 2 || nB < 2 {
		return SignificanceTest{PValue: 1}
	}

	meanA, varA := meanVar(a)
	meanB, varB := meanVar(b)

	seA := varA / nA
	seB := varB / nB
	se := seA + seB
	if se == 0 {
		return SignificanceTest{PValue: 1}
	}

	t := (meanA - meanB) / math.Sqrt(se)
	df := se * se / (seA*seA/(nA-1) + seB*seB/(nB-1))
	p := 2 * (1 - normalCDF(math.Abs(t)))

	return SignificanceTest{
		TStatistic:       t,
		DegreesOfFreedom: df,
		PValue:           p,
		Significant:      p < significanceLevel,
	}
}

func meanVar(xs []float64) (mean, variance float64) {
	n := float64(len(xs))
	for _, x := range xs {
		mean += x
	}
	mean /= n

	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= n - 1
	return mean, variance
}

// normalCDF is the standard normal CDF built on the error function
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
