package comparison

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/modules/scenarios"
	"github.com/quantforge/macrosim/pkg/logger"
)

func econWith(id string, mean, vol float64) domain.EconomicScenario {
	return domain.EconomicScenario{
		ID: id,
		Parameters: domain.ScenarioParameters{
			MarketReturn: domain.Distribution{Mean: mean, Volatility: vol},
			Inflation:    domain.BoundedDistribution{Mean: 0.02},
		},
	}
}

// simResults runs the real scenario pipeline with a fixed seed
func simResults(t *testing.T, econs ...domain.EconomicScenario) []*domain.ScenarioResult {
	t.Helper()
	seed := int64(42)
	svc := scenarios.NewService(scenarios.Config{Iterations: 2000, Seed: &seed}, nil, logger.Discard())
	base := domain.InvestmentScenario{
		InitialValue:     100000,
		TimeHorizonYears: 20,
		TargetValue:      300000,
	}

	results := make([]*domain.ScenarioResult, len(econs))
	for i, econ := range econs {
		result, err := svc.RunScenarioSimulation(econ, base)
		require.NoError(t, err)
		results[i] = result
	}
	return results
}

func TestCompareIdenticalResultsIsNeutral(t *testing.T) {
	results := simResults(t, econWith("only", 0.07, 0.15))
	svc := NewService(logger.Discard())

	summary, err := svc.Compare(results[0], results[0], DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, WinnerNeutral, summary.Winner)
	assert.Equal(t, summary.ScoreA, summary.ScoreB)
	assert.Equal(t, 50.0, summary.Confidence)
	assert.Empty(t, summary.Differences)
	assert.False(t, summary.Significance.Significant)
	for _, contribution := range summary.Attribution {
		assert.Equal(t, 0.0, contribution)
	}
}

// Winner is neutral exactly when the composite scores differ by less
// than 0.05.
func TestCompareNeutralityThreshold(t *testing.T) {
	results := simResults(t,
		econWith("steady", 0.07, 0.12),
		econWith("wild", 0.07, 0.35),
	)
	svc := NewService(logger.Discard())

	summary, err := svc.Compare(results[0], results[1], DefaultWeights())
	require.NoError(t, err)

	gap := math.Abs(summary.ScoreA - summary.ScoreB)
	if gap < neutralityThreshold {
		assert.Equal(t, WinnerNeutral, summary.Winner)
	} else {
		assert.NotEqual(t, WinnerNeutral, summary.Winner)
		if summary.ScoreA > summary.ScoreB {
			assert.Equal(t, WinnerA, summary.Winner)
		} else {
			assert.Equal(t, WinnerB, summary.Winner)
		}
	}
	assert.InDelta(t, math.Min(95, 50+gap*100), summary.Confidence, 1e-12)
	assert.LessOrEqual(t, summary.Confidence, 95.0)
}

func TestCompareReportsMaterialDifferences(t *testing.T) {
	results := simResults(t,
		econWith("steady", 0.07, 0.10),
		econWith("wild", 0.07, 0.35),
	)
	svc := NewService(logger.Discard())

	summary, err := svc.Compare(results[0], results[1], DefaultWeights())
	require.NoError(t, err)

	metrics := make(map[string]bool)
	for _, d := range summary.Differences {
		metrics[d.Metric] = true
		assert.NotEmpty(t, d.Description)
	}
	assert.True(t, metrics["annualized_volatility"],
		"a 25-point volatility gap must surface as a material difference")
}

func TestCompareRejectsNilResults(t *testing.T) {
	svc := NewService(logger.Discard())
	_, err := svc.Compare(nil, nil, DefaultWeights())
	assert.Error(t, err)
}

// Two scenarios identical except volatility 0.10 vs 0.30: a conservative
// ranking must place the lower-volatility scenario first.
func TestRankConservativePrefersLowVolatility(t *testing.T) {
	results := simResults(t,
		econWith("high-vol", 0.07, 0.30),
		econWith("low-vol", 0.07, 0.10),
	)
	svc := NewService(logger.Discard())

	ranked, err := svc.Rank(results, DefaultWeights(), domain.ToleranceConservative)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "low-vol", ranked[0].ScenarioID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.GreaterOrEqual(t, ranked[0].FinalScore, ranked[1].FinalScore)
}

func TestRankToleranceScalesDrawdownPenalty(t *testing.T) {
	results := simResults(t, econWith("risky", 0.07, 0.30))
	svc := NewService(logger.Discard())

	conservative, err := svc.Rank(results, DefaultWeights(), domain.ToleranceConservative)
	require.NoError(t, err)
	aggressive, err := svc.Rank(results, DefaultWeights(), domain.ToleranceAggressive)
	require.NoError(t, err)

	assert.Equal(t, conservative[0].BaseScore, aggressive[0].BaseScore)
	assert.LessOrEqual(t, conservative[0].RiskAdjustedScore, aggressive[0].RiskAdjustedScore)
}

func TestRankUnknownToleranceFallsBackToModerate(t *testing.T) {
	results := simResults(t, econWith("only", 0.07, 0.15))
	svc := NewService(logger.Discard())

	moderate, err := svc.Rank(results, DefaultWeights(), domain.ToleranceModerate)
	require.NoError(t, err)
	unknown, err := svc.Rank(results, DefaultWeights(), domain.RiskTolerance("bold"))
	require.NoError(t, err)

	assert.Equal(t, moderate[0].FinalScore, unknown[0].FinalScore)
}

func TestRankRejectsEmptyInput(t *testing.T) {
	svc := NewService(logger.Discard())
	_, err := svc.Rank(nil, DefaultWeights(), domain.ToleranceModerate)
	assert.Error(t, err)
}

func TestVisualizationData(t *testing.T) {
	results := simResults(t,
		econWith("a", 0.05, 0.12),
		econWith("b", 0.07, 0.18),
		econWith("c", 0.09, 0.25),
	)
	svc := NewService(logger.Discard())

	data := svc.PrepareVisualizationData(results)

	require.Len(t, data.RiskReturn, 3)
	require.Len(t, data.PercentileSeries, 3)
	require.Len(t, data.Correlations, 3)
	require.Len(t, data.Cones, 3)

	for _, cone := range data.Cones {
		horizon := 20
		require.Len(t, cone.Points, horizon+1)
		first := cone.Points[0]
		assert.Equal(t, 100000.0, first.Expected)
		assert.Equal(t, first.Lower, first.Expected)
		assert.Equal(t, first.Upper, first.Expected)
		for _, p := range cone.Points {
			assert.LessOrEqual(t, p.Lower, p.Expected)
			assert.LessOrEqual(t, p.Expected, p.Upper)
			assert.GreaterOrEqual(t, p.Lower, 0.0)
		}
	}

	for _, pair := range data.Correlations {
		assert.GreaterOrEqual(t, pair.Correlation, -1.0-1e-9)
		assert.LessOrEqual(t, pair.Correlation, 1.0+1e-9)
	}
}

// A result that carries risk metrics but no simulation payload (as a
// cache round-trip can produce) must be skipped by every series, the
// correlation pairs included.
func TestVisualizationSkipsResultsWithoutSimulation(t *testing.T) {
	results := simResults(t,
		econWith("a", 0.05, 0.12),
		econWith("b", 0.07, 0.18),
	)
	stripped := *results[1]
	stripped.Simulation = nil
	mixed := []*domain.ScenarioResult{results[0], &stripped, nil}

	svc := NewService(logger.Discard())
	data := svc.PrepareVisualizationData(mixed)

	require.Len(t, data.RiskReturn, 1)
	require.Len(t, data.PercentileSeries, 1)
	require.Len(t, data.Cones, 1)
	assert.Empty(t, data.Correlations)
	assert.Equal(t, "a", data.RiskReturn[0].ScenarioID)
}

func TestSensitivityBucketsParameterImpact(t *testing.T) {
	results := simResults(t,
		econWith("r2", 0.02, 0.15),
		econWith("r5", 0.05, 0.15),
		econWith("r8", 0.08, 0.15),
		econWith("r11", 0.11, 0.15),
	)
	svc := NewService(logger.Discard())

	impacts := svc.AnalyzeSensitivity(results)
	require.NotEmpty(t, impacts)

	byName := make(map[string]ParameterImpact)
	for _, impact := range impacts {
		byName[impact.Parameter] = impact
	}

	expectedReturn, ok := byName["expected_return"]
	require.True(t, ok)
	assert.Equal(t, ImpactHigh, expectedReturn.Impact)
	assert.Greater(t, expectedReturn.Correlation, 0.9)

	volatility, ok := byName["volatility"]
	require.True(t, ok)
	assert.Equal(t, ImpactLow, volatility.Impact, "a constant parameter cannot drive returns")
}

func TestSensitivityNeedsThreeResults(t *testing.T) {
	results := simResults(t, econWith("a", 0.05, 0.12), econWith("b", 0.09, 0.25))
	svc := NewService(logger.Discard())
	assert.Nil(t, svc.AnalyzeSensitivity(results))
}
