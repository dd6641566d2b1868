// Package domain holds the value objects shared by the simulation engines.
// Result records are created once per run and treated as immutable by every
// consumer, including the result store and the HTTP layer.
package domain

import (
	"fmt"
	"math"
	"time"
)

// MarketCondition classifies the current market regime as reported by the
// market-data collaborator.
type MarketCondition string

const (
	MarketBull     MarketCondition = "bull"
	MarketBear     MarketCondition = "bear"
	MarketSideways MarketCondition = "sideways"
	MarketVolatile MarketCondition = "volatile"
)

// RiskTolerance expresses an investor's appetite for drawdown and loss
type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "conservative"
	ToleranceModerate     RiskTolerance = "moderate"
	ToleranceAggressive   RiskTolerance = "aggressive"
)

// ScenarioCategory groups economic scenarios by macro regime
type ScenarioCategory string

const (
	CategoryBaseline    ScenarioCategory = "baseline"
	CategoryRecession   ScenarioCategory = "recession"
	CategoryBoom        ScenarioCategory = "boom"
	CategoryStagflation ScenarioCategory = "stagflation"
	CategoryCrisis      ScenarioCategory = "crisis"
	CategoryDeflation   ScenarioCategory = "deflation"
)

// ShockEvent is a rare event that multiplies a period return by (1+Impact)
// when its per-year Bernoulli trial fires.
type ShockEvent struct {
	Name               string  `json:"name,omitempty"`
	ProbabilityPerYear float64 `json:"probability_per_year"`
	Impact             float64 `json:"impact"` // fractional, e.g. -0.30 for a 30% hit
}

// InvestmentScenario describes one investment to simulate. Immutable value
// object; engines never modify it.
type InvestmentScenario struct {
	InitialValue     float64      `json:"initial_value"`
	ExpectedReturn   float64      `json:"expected_return"`
	Volatility       float64      `json:"volatility"`
	TimeHorizonYears int          `json:"time_horizon_years"`
	InflationRate    float64      `json:"inflation_rate"`
	TargetValue      float64      `json:"target_value"`
	ShockEvents      []ShockEvent `json:"shock_events,omitempty"`
}

// Validate fails fast on configurations that would make a run meaningless
// or produce non-finite arithmetic.
func (s InvestmentScenario) Validate() error {
	if s.TimeHorizonYears <= 0 {
		return fmt.Errorf("invalid scenario: time horizon must be positive, got %d", s.TimeHorizonYears)
	}
	if s.InitialValue <= 0 {
		return fmt.Errorf("invalid scenario: initial value must be positive, got %v", s.InitialValue)
	}
	for name, v := range map[string]float64{
		"initial_value":   s.InitialValue,
		"expected_return": s.ExpectedReturn,
		"volatility":      s.Volatility,
		"inflation_rate":  s.InflationRate,
		"target_value":    s.TargetValue,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid scenario: %s is not finite", name)
		}
	}
	if s.Volatility < 0 {
		return fmt.Errorf("invalid scenario: volatility must be non-negative, got %v", s.Volatility)
	}
	for i, ev := range s.ShockEvents {
		if ev.ProbabilityPerYear < 0 || ev.ProbabilityPerYear > 1 {
			return fmt.Errorf("invalid scenario: shock event %d probability %v outside [0,1]", i, ev.ProbabilityPerYear)
		}
		if math.IsNaN(ev.Impact) || math.IsInf(ev.Impact, 0) {
			return fmt.Errorf("invalid scenario: shock event %d impact is not finite", i)
		}
	}
	return nil
}

// ProgressFunc reports advisory completion; it must not influence results.
type ProgressFunc func(completed int, fraction float64)

// SimulationConfig controls a Monte Carlo run
type SimulationConfig struct {
	Iterations int          `json:"iterations"`
	Seed       *int64       `json:"seed,omitempty"`
	OnProgress ProgressFunc `json:"-"`
}

// Percentiles of an outcome distribution, non-decreasing by rank
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Statistics summarizes a terminal-value distribution
type Statistics struct {
	Mean        float64     `json:"mean"`
	Median      float64     `json:"median"`
	StdDev      float64     `json:"std_dev"`
	Variance    float64     `json:"variance"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Skewness    float64     `json:"skewness"`
	Kurtosis    float64     `json:"kurtosis"` // excess kurtosis
	Percentiles Percentiles `json:"percentiles"`
}

// ConfidenceInterval is non-parametric, taken directly from the sorted
// outcome distribution.
type ConfidenceInterval struct {
	Level float64 `json:"level"` // 0.90, 0.95, 0.99
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// RunMetadata identifies a completed run
type RunMetadata struct {
	RunID      string        `json:"run_id"`
	Seed       int64         `json:"seed"`
	StartedAt  time.Time     `json:"started_at"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Iterations int           `json:"iterations"`
}

// SimulationResult is the immutable record of one Monte Carlo run
type SimulationResult struct {
	Scenario               InvestmentScenario   `json:"scenario"`
	IterationCount         int                  `json:"iteration_count"`
	Outcomes               []float64            `json:"outcomes"`
	Statistics             Statistics           `json:"statistics"`
	GoalSuccessProbability float64              `json:"goal_success_probability"`
	ConfidenceIntervals    []ConfidenceInterval `json:"confidence_intervals"`
	Metadata               RunMetadata          `json:"metadata"`
}

// Distribution is a (mean, volatility) pair for a macro quantity
type Distribution struct {
	Mean       float64 `json:"mean"`
	Volatility float64 `json:"volatility"`
}

// BoundedDistribution adds hard bounds, used for inflation
type BoundedDistribution struct {
	Mean       float64 `json:"mean"`
	Volatility float64 `json:"volatility"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// ScenarioParameters holds the macro distributions of an economic scenario
type ScenarioParameters struct {
	MarketReturn      Distribution        `json:"market_return"`
	Inflation         BoundedDistribution `json:"inflation"`
	InterestRate      float64             `json:"interest_rate"`
	GDPGrowth         Distribution        `json:"gdp_growth"`
	UnemploymentTrend float64             `json:"unemployment_trend"` // drift per year
	ShockEvents       []ShockEvent        `json:"shock_events,omitempty"`
}

// EconomicScenario is a named set of macroeconomic assumptions
type EconomicScenario struct {
	ID                string             `json:"id"`
	Name              string             `json:"name,omitempty"`
	Category          ScenarioCategory   `json:"category"`
	ProbabilityWeight float64            `json:"probability_weight"`
	DurationYearsMin  float64            `json:"duration_years_min"`
	DurationYearsMax  float64            `json:"duration_years_max"`
	Parameters        ScenarioParameters `json:"parameters"`
}

// RiskMetrics derived from a return distribution
type RiskMetrics struct {
	ValueAtRisk    float64 `json:"value_at_risk"`
	ConditionalVaR float64 `json:"conditional_var"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	SortinoRatio   float64 `json:"sortino_ratio"`
	Volatility     float64 `json:"volatility"`
}

// StressTestResults summarizes distribution extremes
type StressTestResults struct {
	WorstCase         float64 `json:"worst_case"`
	BestCase          float64 `json:"best_case"`
	MedianCase        float64 `json:"median_case"`
	ProbabilityOfLoss float64 `json:"probability_of_loss"`
}

// BaselineComparison pairs a scenario's outcomes index-for-index against a
// baseline run under identical configuration. The pairing is meaningful
// only when both runs share iteration count and comparably seeded
// generators; it is a correlation assumption, not a guarantee.
type BaselineComparison struct {
	BaselineID                string  `json:"baseline_id"`
	ReturnDifference          float64 `json:"return_difference"`
	RiskDifference            float64 `json:"risk_difference"`
	ProbabilityOutperformance float64 `json:"probability_outperformance"`
}

// ScenarioResult wraps one simulation run with its derived risk views
type ScenarioResult struct {
	ScenarioID  string              `json:"scenario_id"`
	Category    ScenarioCategory    `json:"category"`
	Simulation  *SimulationResult   `json:"simulation"`
	RiskMetrics RiskMetrics         `json:"risk_metrics"`
	StressTest  StressTestResults   `json:"stress_test"`
	Baseline    *BaselineComparison `json:"baseline_comparison,omitempty"`
}

// Returns converts the terminal outcomes to total returns relative to the
// initial value, preserving iteration order.
func (r *ScenarioResult) Returns() []float64 {
	if r.Simulation == nil || r.Simulation.Scenario.InitialValue == 0 {
		return nil
	}
	initial := r.Simulation.Scenario.InitialValue
	returns := make([]float64, len(r.Simulation.Outcomes))
	for i, v := range r.Simulation.Outcomes {
		returns[i] = (v - initial) / initial
	}
	return returns
}

// MeanReturn is the mean total return of the run
func (r *ScenarioResult) MeanReturn() float64 {
	if r.Simulation == nil || r.Simulation.Scenario.InitialValue == 0 {
		return 0
	}
	initial := r.Simulation.Scenario.InitialValue
	return (r.Simulation.Statistics.Mean - initial) / initial
}
