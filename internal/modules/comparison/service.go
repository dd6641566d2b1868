// Package comparison scores, compares, and ranks completed scenario
// results. Every operation is a pure derivation over immutable results.
package comparison

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
)

// Normalization constants for the composite sub-scores. Heuristic scales:
// an annualized return at or above fullMarksAnnualReturn scores 1, an
// annualized volatility at or above maxScoredAnnualVol scores 0.
const (
	fullMarksAnnualReturn = 0.12
	maxScoredAnnualVol    = 0.25
)

// Materiality thresholds for the human-readable difference list
const (
	returnMateriality     = 0.01 // annualized
	volatilityMateriality = 0.02 // annualized
	drawdownMateriality   = 0.05
	sharpeMateriality     = 0.25
)

// attributionWeights split the total return difference across factors.
// Fixed linear coefficients; a heuristic, not a factor model.
var attributionWeights = map[AttributionFactor]float64{
	FactorMarketReturn: 0.7,
	FactorVolatility:   0.2,
	FactorInflation:    0.1,
}

// Service is the scenario comparator
type Service struct {
	log zerolog.Logger
}

// NewService creates a comparator
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "comparison").Logger(),
	}
}

// Compare scores two scenario results and reports the winner, the
// statistical significance of the mean difference, materially large
// metric gaps, and a heuristic performance attribution. The winner is
// neutral when the composite scores differ by less than 0.05.
func (s *Service) Compare(a, b *domain.ScenarioResult, weights ScoreWeights) (*ComparisonSummary, error) {
	if a == nil || b == nil || a.Simulation == nil || b.Simulation == nil {
		return nil, fmt.Errorf("comparison requires two completed results")
	}

	w := normalizeWeights(weights)
	scoreA := compositeScore(a, w)
	scoreB := compositeScore(b, w)
	gap := math.Abs(scoreA - scoreB)

	winner := WinnerNeutral
	if gap >= neutralityThreshold {
		if scoreA > scoreB {
			winner = WinnerA
		} else {
			winner = WinnerB
		}
	}

	summary := &ComparisonSummary{
		ScenarioA:    a.ScenarioID,
		ScenarioB:    b.ScenarioID,
		ScoreA:       scoreA,
		ScoreB:       scoreB,
		Winner:       winner,
		Confidence:   math.Min(95, 50+gap*100),
		Differences:  materialDifferences(a, b),
		Significance: welchTest(a.Simulation.Outcomes, b.Simulation.Outcomes),
		Attribution:  attribution(a, b),
	}

	s.log.Debug().
		Str("a", a.ScenarioID).
		Str("b", b.ScenarioID).
		Str("winner", string(winner)).
		Float64("gap", gap).
		Msg("Compared scenarios")

	return summary, nil
}

// compositeScore blends four normalized sub-scores: return, inverse risk,
// stability (inverse drawdown), and downside protection (inverse loss
// probability).
func compositeScore(r *domain.ScenarioResult, w ScoreWeights) float64 {
	returnScore := clamp01(annualizedReturn(r) / fullMarksAnnualReturn)
	riskScore := clamp01(1 - annualizedVol(r)/maxScoredAnnualVol)
	stabilityScore := clamp01(1 - r.RiskMetrics.MaxDrawdown)
	downsideScore := clamp01(1 - r.StressTest.ProbabilityOfLoss)

	return w.Return*returnScore +
		w.Risk*riskScore +
		w.Stability*stabilityScore +
		w.DownsideProtection*downsideScore
}

// materialDifferences lists metric gaps that exceed the fixed thresholds
func materialDifferences(a, b *domain.ScenarioResult) []Difference {
	var diffs []Difference

	add := func(metric string, delta, threshold float64, format string, scale float64) {
		if math.Abs(delta) <= threshold {
			return
		}
		leader, trailer := a.ScenarioID, b.ScenarioID
		if delta < 0 {
			leader, trailer = b.ScenarioID, a.ScenarioID
		}
		diffs = append(diffs, Difference{
			Metric:      metric,
			Delta:       delta,
			Description: fmt.Sprintf(format, leader, math.Abs(delta)*scale, trailer),
		})
	}

	add("annualized_return",
		annualizedReturn(a)-annualizedReturn(b), returnMateriality,
		"%s returns %.2f%% more per year than %s", 100)
	add("annualized_volatility",
		annualizedVol(a)-annualizedVol(b), volatilityMateriality,
		"%s carries %.2f%% more annualized volatility than %s", 100)
	add("max_drawdown",
		a.RiskMetrics.MaxDrawdown-b.RiskMetrics.MaxDrawdown, drawdownMateriality,
		"%s shows a %.1f%% deeper worst drawdown than %s", 100)
	add("sharpe_ratio",
		a.RiskMetrics.SharpeRatio-b.RiskMetrics.SharpeRatio, sharpeMateriality,
		"%s has a %.2f higher Sharpe ratio than %s", 1)

	return diffs
}

// attribution splits the mean return difference with fixed coefficients
func attribution(a, b *domain.ScenarioResult) PerformanceAttribution {
	delta := a.MeanReturn() - b.MeanReturn()
	out := make(PerformanceAttribution, len(attributionWeights))
	for factor, weight := range attributionWeights {
		out[factor] = weight * delta
	}
	return out
}

// annualizedReturn converts the mean total return to a per-year rate
func annualizedReturn(r *domain.ScenarioResult) float64 {
	total := r.MeanReturn()
	horizon := r.Simulation.Scenario.TimeHorizonYears
	if horizon <= 0 {
		return total
	}
	base := 1 + total
	if base <= 0 {
		return -1
	}
	return math.Pow(base, 1/float64(horizon)) - 1
}

// annualizedVol scales total-return volatility by √horizon
func annualizedVol(r *domain.ScenarioResult) float64 {
	horizon := r.Simulation.Scenario.TimeHorizonYears
	if horizon <= 0 {
		return r.RiskMetrics.Volatility
	}
	return r.RiskMetrics.Volatility / math.Sqrt(float64(horizon))
}

func normalizeWeights(w ScoreWeights) ScoreWeights {
	sum := w.Return + w.Risk + w.Stability + w.DownsideProtection
	if sum <= 0 {
		w = DefaultWeights()
		sum = w.Return + w.Risk + w.Stability + w.DownsideProtection
	}
	return ScoreWeights{
		Return:             w.Return / sum,
		Risk:               w.Risk / sum,
		Stability:          w.Stability / sum,
		DownsideProtection: w.DownsideProtection / sum,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
