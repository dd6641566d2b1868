package evolution

import (
	"math"

	"github.com/quantforge/macrosim/internal/domain"
)

// applyDrift advances one parameter by dt years:
// rate·dt plus noise scaled by volatility·√dt plus an optional pull toward
// the long-run mean, clamped to the configured bounds. Returns the new value
// and whether the parameter was known.
func (e *Engine) applyDrift(params *domain.ScenarioParameters, spec DriftSpec, dt float64) (float64, bool) {
	current, ok := params.Value(spec.Parameter)
	if !ok {
		return 0, false
	}

	next := current + spec.RatePerYear*dt
	if spec.Volatility > 0 {
		next += e.gen.Normal(0, spec.Volatility*math.Sqrt(dt))
	}
	if spec.ReversionSpeed > 0 {
		next += spec.ReversionSpeed * (spec.LongRunMean - current) * dt
	}

	next = clamp(next, spec.Min, spec.Max)
	params.SetValue(spec.Parameter, next)
	return next, true
}

func clamp(v, lo, hi float64) float64 {
	if lo < hi {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
	}
	return v
}
