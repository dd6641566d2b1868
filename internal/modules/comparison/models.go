package comparison

import "github.com/quantforge/macrosim/internal/domain"

// Winner identifies the outcome of a pairwise comparison
type Winner string

const (
	WinnerA       Winner = "A"
	WinnerB       Winner = "B"
	WinnerNeutral Winner = "neutral"
)

// neutralityThreshold is the composite-score gap below which no winner is
// declared.
const neutralityThreshold = 0.05

// ScoreWeights weight the four composite sub-scores. Zero-value weights
// fall back to the defaults; weights are normalized before use.
type ScoreWeights struct {
	Return             float64 `json:"return"`
	Risk               float64 `json:"risk"`
	Stability          float64 `json:"stability"`
	DownsideProtection float64 `json:"downside_protection"`
}

// DefaultWeights returns the standard sub-score weighting
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		Return:             0.35,
		Risk:               0.25,
		Stability:          0.20,
		DownsideProtection: 0.20,
	}
}

// SignificanceTest reports the Welch two-sample test of mean outcomes
type SignificanceTest struct {
	TStatistic       float64 `json:"t_statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	Significant      bool    `json:"significant"` // p < 0.05
}

// AttributionFactor names one contributor of the return difference
type AttributionFactor string

const (
	FactorMarketReturn AttributionFactor = "market_return"
	FactorVolatility   AttributionFactor = "volatility"
	FactorInflation    AttributionFactor = "inflation"
)

// PerformanceAttribution splits the total return difference across
// factors with fixed linear coefficients. A heuristic decomposition, not
// a factor model.
type PerformanceAttribution map[AttributionFactor]float64

// Difference is one materially large metric gap, described for humans
type Difference struct {
	Metric      string  `json:"metric"`
	Delta       float64 `json:"delta"`
	Description string  `json:"description"`
}

// ComparisonSummary is the result of comparing two scenario results
type ComparisonSummary struct {
	ScenarioA    string                 `json:"scenario_a"`
	ScenarioB    string                 `json:"scenario_b"`
	ScoreA       float64                `json:"score_a"`
	ScoreB       float64                `json:"score_b"`
	Winner       Winner                 `json:"winner"`
	Confidence   float64                `json:"confidence"` // percent, capped at 95
	Differences  []Difference           `json:"differences"`
	Significance SignificanceTest       `json:"significance"`
	Attribution  PerformanceAttribution `json:"attribution"`
}

// RankedScenario is one entry of a risk-tolerance-aware ranking
type RankedScenario struct {
	ScenarioID        string  `json:"scenario_id"`
	Rank              int     `json:"rank"`
	BaseScore         float64 `json:"base_score"`
	RiskAdjustedScore float64 `json:"risk_adjusted_score"`
	SuitabilityScore  float64 `json:"suitability_score"`
	FinalScore        float64 `json:"final_score"`
}

// RiskReturnPoint locates one scenario in risk/return space
type RiskReturnPoint struct {
	ScenarioID       string  `json:"scenario_id"`
	AnnualizedReturn float64 `json:"annualized_return"`
	AnnualizedVol    float64 `json:"annualized_vol"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
}

// PercentileSeries carries a scenario's outcome percentiles for charting
type PercentileSeries struct {
	ScenarioID  string             `json:"scenario_id"`
	Percentiles domain.Percentiles `json:"percentiles"`
	Median      float64            `json:"median"`
}

// CorrelationPair is one off-diagonal correlation entry
type CorrelationPair struct {
	ScenarioA   string  `json:"scenario_a"`
	ScenarioB   string  `json:"scenario_b"`
	Correlation float64 `json:"correlation"`
}

// ConePoint is one year of a probability cone
type ConePoint struct {
	Year     int     `json:"year"`
	Lower    float64 `json:"lower"`
	Expected float64 `json:"expected"`
	Upper    float64 `json:"upper"`
}

// ProbabilityCone is a simplified projection band for one scenario
type ProbabilityCone struct {
	ScenarioID string      `json:"scenario_id"`
	Points     []ConePoint `json:"points"`
}

// VisualizationData aggregates chart-ready derivations of a result set
type VisualizationData struct {
	RiskReturn       []RiskReturnPoint  `json:"risk_return"`
	PercentileSeries []PercentileSeries `json:"percentile_series"`
	Correlations     []CorrelationPair  `json:"correlations"`
	Cones            []ProbabilityCone  `json:"cones"`
}

// ImpactLevel buckets a parameter's influence on outcomes
type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "high"
	ImpactMedium ImpactLevel = "medium"
	ImpactLow    ImpactLevel = "low"
)

// ParameterImpact reports how strongly one input parameter moves mean
// returns across the analyzed scenarios.
type ParameterImpact struct {
	Parameter   string      `json:"parameter"`
	Correlation float64     `json:"correlation"`
	Impact      ImpactLevel `json:"impact"`
}
