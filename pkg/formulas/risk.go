package formulas

import "math"

// ValueAtRisk returns the 5th-percentile return of a return distribution.
// Negative values indicate a loss at the 95% confidence level.
func ValueAtRisk(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return Percentile(returns, 5)
}

// ConditionalValueAtRisk returns the mean of all returns at or below the
// VaR cutoff (expected shortfall of the worst 5% tail).
func ConditionalValueAtRisk(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	cutoff := ValueAtRisk(returns)
	var sum float64
	count := 0
	for _, r := range returns {
		if r <= cutoff {
			sum += r
			count++
		}
	}
	if count == 0 {
		return cutoff
	}
	return sum / float64(count)
}

// CrossSectionalMaxDrawdown scans a value series in the order given,
// tracking the running peak and the worst peak-to-trough drop.
//
// When applied to Monte Carlo terminal values this is a distribution-order
// statistic, not a path measure: the input is not a time series and the
// result depends on iteration order. Callers relying on it should treat it
// as a dispersion heuristic.
func CrossSectionalMaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// SharpeRatio calculates mean return over total volatility with the
// risk-free rate taken as zero. Returns 0 for zero-variance input.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := StdDev(returns)
	if sd == 0 {
		return 0
	}
	return Mean(returns) / sd
}

// SortinoRatio calculates mean return over the standard deviation of the
// negative-return subset only. Returns 0 when there are no negative
// returns or the downside deviation is zero.
func SortinoRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) < 2 {
		return 0
	}

	downside := StdDev(negatives)
	if downside == 0 || math.IsNaN(downside) {
		return 0
	}
	return Mean(returns) / downside
}
