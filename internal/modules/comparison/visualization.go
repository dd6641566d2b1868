package comparison

import (
	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/pkg/formulas"
)

// GenerateRiskReturnProfiles places each result in annualized risk/return
// space for scatter plotting.
func (s *Service) GenerateRiskReturnProfiles(results []*domain.ScenarioResult) []RiskReturnPoint {
	points := make([]RiskReturnPoint, 0, len(results))
	for _, r := range results {
		if r == nil || r.Simulation == nil {
			continue
		}
		points = append(points, RiskReturnPoint{
			ScenarioID:       r.ScenarioID,
			AnnualizedReturn: annualizedReturn(r),
			AnnualizedVol:    annualizedVol(r),
			SharpeRatio:      r.RiskMetrics.SharpeRatio,
		})
	}
	return points
}

// PrepareVisualizationData derives chart-ready series from a result set:
// risk/return points, percentile bands, pairwise correlations, and
// simplified probability cones.
func (s *Service) PrepareVisualizationData(results []*domain.ScenarioResult) *VisualizationData {
	data := &VisualizationData{
		RiskReturn: s.GenerateRiskReturnProfiles(results),
	}

	for _, r := range results {
		if r == nil || r.Simulation == nil {
			continue
		}
		data.PercentileSeries = append(data.PercentileSeries, PercentileSeries{
			ScenarioID:  r.ScenarioID,
			Percentiles: r.Simulation.Statistics.Percentiles,
			Median:      r.Simulation.Statistics.Median,
		})
		data.Cones = append(data.Cones, probabilityCone(r))
	}

	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if results[i] == nil || results[i].Simulation == nil ||
				results[j] == nil || results[j].Simulation == nil {
				continue
			}
			a, b := results[i].Simulation.Outcomes, results[j].Simulation.Outcomes
			n := len(a)
			if len(b) < n {
				n = len(b)
			}
			if n < 2 {
				continue
			}
			data.Correlations = append(data.Correlations, CorrelationPair{
				ScenarioA:   results[i].ScenarioID,
				ScenarioB:   results[j].ScenarioID,
				Correlation: formulas.Correlation(a[:n], b[:n]),
			})
		}
	}

	return data
}

// probabilityCone projects a yearly band by compounding the annualized
// return plus or minus one annualized volatility. A simplified cone, not
// a quantile path.
func probabilityCone(r *domain.ScenarioResult) ProbabilityCone {
	initial := r.Simulation.Scenario.InitialValue
	rate := annualizedReturn(r)
	vol := annualizedVol(r)
	horizon := r.Simulation.Scenario.TimeHorizonYears

	cone := ProbabilityCone{
		ScenarioID: r.ScenarioID,
		Points:     make([]ConePoint, 0, horizon+1),
	}

	expected, upper, lower := initial, initial, initial
	for year := 0; year <= horizon; year++ {
		cone.Points = append(cone.Points, ConePoint{
			Year:     year,
			Lower:    lower,
			Expected: expected,
			Upper:    upper,
		})
		expected *= 1 + rate
		upper *= 1 + rate + vol
		lower *= 1 + rate - vol
		if lower < 0 {
			lower = 0
		}
	}

	return cone
}
