package comparison

import (
	"fmt"
	"sort"

	"github.com/quantforge/macrosim/internal/domain"
)

// drawdownPenaltyMultiplier scales the drawdown penalty by tolerance
var drawdownPenaltyMultiplier = map[domain.RiskTolerance]float64{
	domain.ToleranceConservative: 2.0,
	domain.ToleranceModerate:     1.0,
	domain.ToleranceAggressive:   0.5,
}

// drawdownPenaltyScale converts the drawdown fraction into score units
const drawdownPenaltyScale = 0.25

// suitabilityThresholds are the tolerance-specific ceilings a scenario is
// judged against.
type suitabilityThresholds struct {
	MaxAnnualVol       float64
	MaxLossProbability float64
}

var suitabilityByTolerance = map[domain.RiskTolerance]suitabilityThresholds{
	domain.ToleranceConservative: {MaxAnnualVol: 0.12, MaxLossProbability: 0.10},
	domain.ToleranceModerate:     {MaxAnnualVol: 0.20, MaxLossProbability: 0.25},
	domain.ToleranceAggressive:   {MaxAnnualVol: 0.35, MaxLossProbability: 0.40},
}

// Blend of the three ranking components
const (
	blendBase         = 0.4
	blendRiskAdjusted = 0.4
	blendSuitability  = 0.2
)

// Rank orders scenario results for an investor with the given risk
// tolerance: composite score, a drawdown-penalized risk-adjusted score,
// and a tolerance-threshold suitability score, blended 0.4/0.4/0.2.
func (s *Service) Rank(results []*domain.ScenarioResult, weights ScoreWeights, tolerance domain.RiskTolerance) ([]RankedScenario, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("ranking requires at least one result")
	}
	for _, r := range results {
		if r == nil || r.Simulation == nil {
			return nil, fmt.Errorf("ranking requires completed results")
		}
	}

	if _, ok := drawdownPenaltyMultiplier[tolerance]; !ok {
		tolerance = domain.ToleranceModerate
	}
	w := normalizeWeights(weights)
	multiplier := drawdownPenaltyMultiplier[tolerance]
	thresholds := suitabilityByTolerance[tolerance]

	ranked := make([]RankedScenario, len(results))
	for i, r := range results {
		base := compositeScore(r, w)
		penalty := r.RiskMetrics.MaxDrawdown * multiplier * drawdownPenaltyScale
		riskAdjusted := clamp01(base - penalty)
		suitability := suitabilityScore(r, thresholds)

		ranked[i] = RankedScenario{
			ScenarioID:        r.ScenarioID,
			BaseScore:         base,
			RiskAdjustedScore: riskAdjusted,
			SuitabilityScore:  suitability,
			FinalScore:        blendBase*base + blendRiskAdjusted*riskAdjusted + blendSuitability*suitability,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	s.log.Debug().
		Str("tolerance", string(tolerance)).
		Int("scenarios", len(ranked)).
		Str("top", ranked[0].ScenarioID).
		Msg("Ranked scenarios")

	return ranked, nil
}

// suitabilityScore grants full credit per metric under its ceiling and
// proportional partial credit above it, averaged over both metrics.
func suitabilityScore(r *domain.ScenarioResult, t suitabilityThresholds) float64 {
	return (withinThreshold(annualizedVol(r), t.MaxAnnualVol) +
		withinThreshold(r.StressTest.ProbabilityOfLoss, t.MaxLossProbability)) / 2
}

func withinThreshold(value, ceiling float64) float64 {
	if value <= ceiling {
		return 1
	}
	if value <= 0 {
		return 1
	}
	return ceiling / value
}
