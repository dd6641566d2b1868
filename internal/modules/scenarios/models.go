package scenarios

import "github.com/quantforge/macrosim/internal/domain"

// Ranking pairs a scenario id with the value it was ranked by
type Ranking struct {
	ScenarioID string  `json:"scenario_id"`
	Value      float64 `json:"value"`
}

// Recommendations selects one scenario id per risk appetite:
// minimum volatility, maximum Sharpe, maximum mean return.
type Recommendations struct {
	Conservative string `json:"conservative"`
	Moderate     string `json:"moderate"`
	Aggressive   string `json:"aggressive"`
}

// CorrelationMatrix holds pairwise Pearson correlations over the outcome
// vectors of the analyzed scenarios. Symmetric with a unit diagonal.
type CorrelationMatrix struct {
	ScenarioIDs []string    `json:"scenario_ids"`
	Values      [][]float64 `json:"values"`
}

// ScenarioComparison is the result of analyzing a set of economic
// scenarios against one base investment.
type ScenarioComparison struct {
	Results                []*domain.ScenarioResult `json:"results"`
	ByMeanReturn           []Ranking                `json:"by_mean_return"` // descending
	ByVolatility           []Ranking                `json:"by_volatility"`  // ascending
	BySharpe               []Ranking                `json:"by_sharpe"`      // descending
	Correlations           CorrelationMatrix        `json:"correlations"`
	DiversificationBenefit float64                  `json:"diversification_benefit"`
	Recommendations        Recommendations          `json:"recommendations"`
}
