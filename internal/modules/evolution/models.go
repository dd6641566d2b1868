package evolution

import (
	"time"

	"github.com/quantforge/macrosim/internal/domain"
)

// Cadence is how often the evolution tick runs
type Cadence string

const (
	CadenceDaily     Cadence = "daily"
	CadenceWeekly    Cadence = "weekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
)

// Interval converts the cadence to a scheduler interval. Months and
// quarters use mean calendar lengths.
func (c Cadence) Interval() time.Duration {
	switch c {
	case CadenceWeekly:
		return 7 * 24 * time.Hour
	case CadenceMonthly:
		return 730 * time.Hour
	case CadenceQuarterly:
		return 2190 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// TransitionSpeed controls how a regime change takes effect
type TransitionSpeed string

const (
	SpeedImmediate TransitionSpeed = "immediate"
	SpeedGradual   TransitionSpeed = "gradual"
	SpeedSmooth    TransitionSpeed = "smooth"
)

// ThresholdComparison is the operator of a parameter trigger
type ThresholdComparison string

const (
	CompareGreater ThresholdComparison = "greater"
	CompareLess    ThresholdComparison = "less"
	CompareEqual   ThresholdComparison = "equal"
)

// equalTolerance is the band within which an equal comparison holds
const equalTolerance = 0.001

// ParameterThreshold is one parameter trigger of a regime rule
type ParameterThreshold struct {
	Parameter  domain.ParameterID  `json:"parameter"`
	Comparison ThresholdComparison `json:"comparison"`
	Value      float64             `json:"value"`
}

// TriggerConditions gate a regime rule. All configured conditions must
// hold before the rule's Bernoulli trial runs.
type TriggerConditions struct {
	TimeThresholdYears    *float64                 `json:"time_threshold_years,omitempty"`
	ParameterThresholds   []ParameterThreshold     `json:"parameter_thresholds,omitempty"`
	MarketConditionFilter []domain.MarketCondition `json:"market_condition_filter,omitempty"`
}

// RegimeChangeRule describes one possible regime transition
type RegimeChangeRule struct {
	FromScenarioID               string            `json:"from_scenario_id"`
	ToScenarioID                 string            `json:"to_scenario_id"`
	TransitionProbabilityPerTick float64           `json:"transition_probability_per_tick"`
	Triggers                     TriggerConditions `json:"triggers"`
	TransitionSpeed              TransitionSpeed   `json:"transition_speed"`
}

// DriftSpec configures gradual, noisy change of one parameter. Mean
// reversion applies when ReversionSpeed is positive.
type DriftSpec struct {
	Parameter      domain.ParameterID `json:"parameter"`
	RatePerYear    float64            `json:"rate_per_year"`
	Volatility     float64            `json:"volatility"` // annualized noise scale
	Min            float64            `json:"min"`
	Max            float64            `json:"max"`
	ReversionSpeed float64            `json:"reversion_speed,omitempty"`
	LongRunMean    float64            `json:"long_run_mean,omitempty"`
}

// Snapshot is one historical record of the evolution state
type Snapshot struct {
	Timestamp       time.Time                 `json:"timestamp"`
	ScenarioID      string                    `json:"scenario_id"`
	Parameters      domain.ScenarioParameters `json:"parameters"`
	MarketCondition domain.MarketCondition    `json:"market_condition,omitempty"`
	RegimeAgeYears  float64                   `json:"regime_age_years"`
}

// TrendDirection classifies a parameter's recent movement
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// ParameterTrend is a regression-estimated trend for one parameter
type ParameterTrend struct {
	Parameter   domain.ParameterID `json:"parameter"`
	Direction   TrendDirection     `json:"direction"`
	RatePerYear float64            `json:"rate_per_year"`
	Confidence  float64            `json:"confidence"` // regression R²
}

// ScenarioTransition is an in-flight gradual or smooth regime change.
// Reason names the triggers of the rule that fired.
type ScenarioTransition struct {
	FromScenarioID     string          `json:"from_scenario_id"`
	ToScenarioID       string          `json:"to_scenario_id"`
	Speed              TransitionSpeed `json:"speed"`
	Reason             string          `json:"reason"`
	StartedAt          time.Time       `json:"started_at"`
	DurationTicks      int             `json:"duration_ticks"`
	ElapsedTicks       int             `json:"elapsed_ticks"`
	CompletionProgress float64         `json:"completion_progress"` // [0,1)

	startParams domain.ScenarioParameters
	target      domain.EconomicScenario
}

// ScenarioEvolution is the engine's long-lived mutable aggregate. Copies
// handed to observers and callers are detached from engine state.
type ScenarioEvolution struct {
	CurrentScenario   domain.EconomicScenario   `json:"current_scenario"`
	CurrentParameters domain.ScenarioParameters `json:"current_parameters"`
	LastUpdate        time.Time                 `json:"last_update"`
	RegimeAgeYears    float64                   `json:"regime_age_years"`
	Snapshots         []Snapshot                `json:"snapshots"`
	ActiveTransition  *ScenarioTransition       `json:"active_transition,omitempty"`
	Trends            []ParameterTrend          `json:"trends"`
}

// Config controls the evolution engine
type Config struct {
	Cadence                Cadence
	RetentionYears         float64
	SmoothingWindow        int
	DriftEnabled           bool
	RegimeDetectionEnabled bool
	TransitionDuration     time.Duration // wall time for gradual/smooth completion
	Seed                   *int64
}
