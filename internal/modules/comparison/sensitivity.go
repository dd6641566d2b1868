package comparison

import (
	"math"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/pkg/formulas"
)

// Impact buckets on the absolute parameter/return correlation
const (
	highImpactThreshold   = 0.7
	mediumImpactThreshold = 0.3
)

// AnalyzeSensitivity correlates each input parameter with the mean
// returns across the result set and buckets the strength of its impact.
// Needs at least three results with parameter variation to say anything.
func (s *Service) AnalyzeSensitivity(results []*domain.ScenarioResult) []ParameterImpact {
	type extractor struct {
		name string
		get  func(domain.InvestmentScenario) float64
	}
	extractors := []extractor{
		{"expected_return", func(sc domain.InvestmentScenario) float64 { return sc.ExpectedReturn }},
		{"volatility", func(sc domain.InvestmentScenario) float64 { return sc.Volatility }},
		{"inflation_rate", func(sc domain.InvestmentScenario) float64 { return sc.InflationRate }},
	}

	var usable []*domain.ScenarioResult
	for _, r := range results {
		if r != nil && r.Simulation != nil {
			usable = append(usable, r)
		}
	}
	if len(usable) < 3 {
		return nil
	}

	returns := make([]float64, len(usable))
	for i, r := range usable {
		returns[i] = r.MeanReturn()
	}

	impacts := make([]ParameterImpact, 0, len(extractors))
	values := make([]float64, len(usable))
	for _, ex := range extractors {
		for i, r := range usable {
			values[i] = ex.get(r.Simulation.Scenario)
		}

		corr := 0.0
		if formulas.StdDev(values) > 0 && formulas.StdDev(returns) > 0 {
			corr = formulas.Correlation(values, returns)
		}
		if math.IsNaN(corr) {
			corr = 0
		}

		impacts = append(impacts, ParameterImpact{
			Parameter:   ex.name,
			Correlation: corr,
			Impact:      impactLevel(math.Abs(corr)),
		})
	}

	return impacts
}

func impactLevel(absCorr float64) ImpactLevel {
	switch {
	case absCorr > highImpactThreshold:
		return ImpactHigh
	case absCorr > mediumImpactThreshold:
		return ImpactMedium
	default:
		return ImpactLow
	}
}
