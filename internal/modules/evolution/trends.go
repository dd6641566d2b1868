package evolution

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/quantforge/macrosim/internal/domain"
)

// stableRateThreshold is the annualized slope below which a trend is
// reported as stable.
const stableRateThreshold = 1e-4

// computeTrends regresses each tracked parameter over the most recent
// smoothing-window snapshots. Time is measured in years from the window's
// first snapshot; confidence is the regression R².
func (e *Engine) computeTrends() []ParameterTrend {
	window := e.recentSnapshots(e.cfg.SmoothingWindow)
	if len(window) < 2 {
		return nil
	}

	xs := make([]float64, len(window))
	origin := window[0].Timestamp
	for i, snap := range window {
		xs[i] = snap.Timestamp.Sub(origin).Hours() / hoursPerYear
	}
	if xs[len(xs)-1] == 0 {
		return nil
	}

	ids := domain.AllParameterIDs()
	trends := make([]ParameterTrend, 0, len(ids))
	ys := make([]float64, len(window))

	for _, id := range ids {
		for i, snap := range window {
			v, _ := snap.Parameters.Value(id)
			ys[i] = v
		}

		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		if math.IsNaN(alpha) || math.IsNaN(beta) {
			continue
		}

		confidence := stat.RSquared(xs, ys, nil, alpha, beta)
		if math.IsNaN(confidence) {
			// Constant series regress with zero residual variance
			confidence = 0
		}

		trends = append(trends, ParameterTrend{
			Parameter:   id,
			Direction:   trendDirection(beta),
			RatePerYear: beta,
			Confidence:  confidence,
		})
	}

	return trends
}

func (e *Engine) recentSnapshots(n int) []Snapshot {
	snaps := e.state.Snapshots
	if n <= 0 || n > len(snaps) {
		n = len(snaps)
	}
	return snaps[len(snaps)-n:]
}

func trendDirection(rate float64) TrendDirection {
	switch {
	case rate > stableRateThreshold:
		return TrendRising
	case rate < -stableRateThreshold:
		return TrendFalling
	default:
		return TrendStable
	}
}
