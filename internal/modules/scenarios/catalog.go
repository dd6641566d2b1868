package scenarios

import "github.com/quantforge/macrosim/internal/domain"

// BaselineScenarioID identifies the catalog scenario other scenarios are
// compared against.
const BaselineScenarioID = "baseline-expansion"

// DefaultCatalog returns the built-in economic scenario set. Probability
// weights sum to 1 across the catalog.
func DefaultCatalog() []domain.EconomicScenario {
	return []domain.EconomicScenario{
		{
			ID:                BaselineScenarioID,
			Name:              "Baseline expansion",
			Category:          domain.CategoryBaseline,
			ProbabilityWeight: 0.40,
			DurationYearsMin:  3,
			DurationYearsMax:  8,
			Parameters: domain.ScenarioParameters{
				MarketReturn:      domain.Distribution{Mean: 0.07, Volatility: 0.15},
				Inflation:         domain.BoundedDistribution{Mean: 0.025, Volatility: 0.01, Min: 0.0, Max: 0.06},
				InterestRate:      0.03,
				GDPGrowth:         domain.Distribution{Mean: 0.025, Volatility: 0.01},
				UnemploymentTrend: 0.0,
			},
		},
		{
			ID:                "recession",
			Name:              "Cyclical recession",
			Category:          domain.CategoryRecession,
			ProbabilityWeight: 0.20,
			DurationYearsMin:  1,
			DurationYearsMax:  3,
			Parameters: domain.ScenarioParameters{
				MarketReturn:      domain.Distribution{Mean: -0.02, Volatility: 0.22},
				Inflation:         domain.BoundedDistribution{Mean: 0.015, Volatility: 0.01, Min: -0.01, Max: 0.04},
				InterestRate:      0.015,
				GDPGrowth:         domain.Distribution{Mean: -0.01, Volatility: 0.015},
				UnemploymentTrend: 0.015,
				ShockEvents: []domain.ShockEvent{
					{Name: "credit squeeze", ProbabilityPerYear: 0.15, Impact: -0.20},
				},
			},
		},
		{
			ID:                "boom",
			Name:              "Expansion boom",
			Category:          domain.CategoryBoom,
			ProbabilityWeight: 0.15,
			DurationYearsMin:  2,
			DurationYearsMax:  5,
			Parameters: domain.ScenarioParameters{
				MarketReturn:      domain.Distribution{Mean: 0.12, Volatility: 0.18},
				Inflation:         domain.BoundedDistribution{Mean: 0.035, Volatility: 0.015, Min: 0.01, Max: 0.08},
				InterestRate:      0.045,
				GDPGrowth:         domain.Distribution{Mean: 0.04, Volatility: 0.012},
				UnemploymentTrend: -0.01,
			},
		},
		{
			ID:                "stagflation",
			Name:              "Stagflation",
			Category:          domain.CategoryStagflation,
			ProbabilityWeight: 0.10,
			DurationYearsMin:  2,
			DurationYearsMax:  6,
			Parameters: domain.ScenarioParameters{
				MarketReturn:      domain.Distribution{Mean: 0.01, Volatility: 0.20},
				Inflation:         domain.BoundedDistribution{Mean: 0.07, Volatility: 0.02, Min: 0.04, Max: 0.14},
				InterestRate:      0.08,
				GDPGrowth:         domain.Distribution{Mean: 0.005, Volatility: 0.01},
				UnemploymentTrend: 0.01,
				ShockEvents: []domain.ShockEvent{
					{Name: "energy shock", ProbabilityPerYear: 0.20, Impact: -0.15},
				},
			},
		},
		{
			ID:                "financial-crisis",
			Name:              "Financial crisis",
			Category:          domain.CategoryCrisis,
			ProbabilityWeight: 0.10,
			DurationYearsMin:  1,
			DurationYearsMax:  2,
			Parameters: domain.ScenarioParameters{
				MarketReturn:      domain.Distribution{Mean: -0.10, Volatility: 0.35},
				Inflation:         domain.BoundedDistribution{Mean: 0.01, Volatility: 0.02, Min: -0.02, Max: 0.05},
				InterestRate:      0.005,
				GDPGrowth:         domain.Distribution{Mean: -0.03, Volatility: 0.02},
				UnemploymentTrend: 0.03,
				ShockEvents: []domain.ShockEvent{
					{Name: "bank failure cascade", ProbabilityPerYear: 0.30, Impact: -0.35},
					{Name: "liquidity freeze", ProbabilityPerYear: 0.20, Impact: -0.15},
				},
			},
		},
		{
			ID:                "deflationary-slump",
			Name:              "Deflationary slump",
			Category:          domain.CategoryDeflation,
			ProbabilityWeight: 0.05,
			DurationYearsMin:  3,
			DurationYearsMax:  10,
			Parameters: domain.ScenarioParameters{
				MarketReturn:      domain.Distribution{Mean: 0.01, Volatility: 0.10},
				Inflation:         domain.BoundedDistribution{Mean: -0.01, Volatility: 0.008, Min: -0.03, Max: 0.01},
				InterestRate:      0.0,
				GDPGrowth:         domain.Distribution{Mean: 0.0, Volatility: 0.008},
				UnemploymentTrend: 0.005,
			},
		},
	}
}

// FindScenario returns the catalog entry with the given id
func FindScenario(catalog []domain.EconomicScenario, id string) (domain.EconomicScenario, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return domain.EconomicScenario{}, false
}
