package scenarios

import (
	"math"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/pkg/formulas"
)

// buildScenarioResult derives the risk and stress views from a completed
// simulation run.
func buildScenarioResult(econ domain.EconomicScenario, sim *domain.SimulationResult) *domain.ScenarioResult {
	result := &domain.ScenarioResult{
		ScenarioID: econ.ID,
		Category:   econ.Category,
		Simulation: sim,
	}

	returns := result.Returns()

	result.RiskMetrics = domain.RiskMetrics{
		ValueAtRisk:    formulas.ValueAtRisk(returns),
		ConditionalVaR: formulas.ConditionalValueAtRisk(returns),
		// Iteration-order scan over terminal values; a distribution-order
		// statistic, not a path drawdown.
		MaxDrawdown:  formulas.CrossSectionalMaxDrawdown(sim.Outcomes),
		SharpeRatio:  formulas.SharpeRatio(returns),
		SortinoRatio: formulas.SortinoRatio(returns),
		Volatility:   formulas.StdDev(returns),
	}

	lossCount := 0
	for _, v := range sim.Outcomes {
		if v < sim.Scenario.InitialValue {
			lossCount++
		}
	}

	result.StressTest = domain.StressTestResults{
		WorstCase:         sim.Statistics.Min,
		BestCase:          sim.Statistics.Max,
		MedianCase:        sim.Statistics.Median,
		ProbabilityOfLoss: float64(lossCount) / float64(len(sim.Outcomes)),
	}

	return result
}

// compareToBaseline pairs outcomes index-for-index. Both runs must share
// the iteration count; the pairing assumes comparably seeded generators
// and is documented as a correlation assumption, not a guarantee.
func compareToBaseline(result, baseline *domain.ScenarioResult) *domain.BaselineComparison {
	scenarioReturns := result.Returns()
	baselineReturns := baseline.Returns()

	outperform := 0
	pairs := len(scenarioReturns)
	if len(baselineReturns) < pairs {
		pairs = len(baselineReturns)
	}
	for i := 0; i < pairs; i++ {
		if scenarioReturns[i] > baselineReturns[i] {
			outperform++
		}
	}

	probability := 0.0
	if pairs > 0 {
		probability = float64(outperform) / float64(pairs)
	}

	return &domain.BaselineComparison{
		BaselineID:                baseline.ScenarioID,
		ReturnDifference:          result.MeanReturn() - baseline.MeanReturn(),
		RiskDifference:            result.RiskMetrics.Volatility - baseline.RiskMetrics.Volatility,
		ProbabilityOutperformance: probability,
	}
}

// diversificationBenefit measures how much an equal-weight portfolio of
// the scenarios' return streams reduces volatility versus holding them
// individually: (avgVol - portfolioVol) / avgVol.
func diversificationBenefit(returnSets [][]float64) float64 {
	n := len(returnSets)
	if n < 2 {
		return 0
	}

	avgVol := 0.0
	for _, rs := range returnSets {
		avgVol += formulas.StdDev(rs)
	}
	avgVol /= float64(n)
	if avgVol == 0 {
		return 0
	}

	// Equal-weight portfolio variance: (1/n²) ΣΣ cov(i,j)
	w := 1.0 / float64(n)
	portfolioVar := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				portfolioVar += w * w * formulas.Variance(returnSets[i])
			} else {
				portfolioVar += w * w * formulas.Covariance(returnSets[i], returnSets[j])
			}
		}
	}
	if portfolioVar < 0 {
		portfolioVar = 0
	}

	portfolioVol := math.Sqrt(portfolioVar)
	return (avgVol - portfolioVol) / avgVol
}
