package montecarlo

import (
	"errors"
	"math"
	"testing"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/pkg/logger"
)

func seedPtr(s int64) *int64 { return &s }

func referenceScenario() domain.InvestmentScenario {
	return domain.InvestmentScenario{
		InitialValue:     100000,
		ExpectedReturn:   0.07,
		Volatility:       0.12,
		TimeHorizonYears: 30,
		InflationRate:    0.02,
		TargetValue:      500000,
	}
}

func TestRunDeterminism(t *testing.T) {
	cfg := domain.SimulationConfig{Iterations: 1000, Seed: seedPtr(42)}

	first, err := New(cfg, logger.Discard()).Run(referenceScenario())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := New(cfg, logger.Discard()).Run(referenceScenario())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.GoalSuccessProbability != second.GoalSuccessProbability {
		t.Errorf("goal probability differs: %v vs %v", first.GoalSuccessProbability, second.GoalSuccessProbability)
	}
	for i := range first.Outcomes {
		if first.Outcomes[i] != second.Outcomes[i] {
			t.Fatalf("outcome %d differs: %v vs %v", i, first.Outcomes[i], second.Outcomes[i])
		}
	}
}

func TestRunResetReproduces(t *testing.T) {
	engine := New(domain.SimulationConfig{Iterations: 500, Seed: seedPtr(7)}, logger.Discard())

	first, err := engine.Run(referenceScenario())
	if err != nil {
		t.Fatal(err)
	}

	engine.Reset()
	second, err := engine.Run(referenceScenario())
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Outcomes {
		if first.Outcomes[i] != second.Outcomes[i] {
			t.Fatalf("outcome %d differs after Reset", i)
		}
	}
}

func TestRunInvariants(t *testing.T) {
	engine := New(domain.SimulationConfig{Iterations: 2000, Seed: seedPtr(11)}, logger.Discard())
	result, err := engine.Run(referenceScenario())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Outcomes) != result.IterationCount {
		t.Errorf("outcomes length %d != iteration count %d", len(result.Outcomes), result.IterationCount)
	}

	// Percentile ordering
	p := result.Statistics.Percentiles
	ordered := []float64{p.P5, p.P10, p.P25, result.Statistics.Median, p.P75, p.P90, p.P95}
	for i := 1; i < len(ordered); i++ {
		if ordered[i] < ordered[i-1] {
			t.Errorf("percentiles out of order at rank %d: %v < %v", i, ordered[i], ordered[i-1])
		}
	}

	// Exact goal probability
	hits := 0
	for _, v := range result.Outcomes {
		if v >= result.Scenario.TargetValue {
			hits++
		}
	}
	want := float64(hits) / float64(result.IterationCount)
	if result.GoalSuccessProbability != want {
		t.Errorf("goal probability %v, want exactly %v", result.GoalSuccessProbability, want)
	}

	// Confidence interval validity and widening
	if len(result.ConfidenceIntervals) != 3 {
		t.Fatalf("expected 3 confidence intervals, got %d", len(result.ConfidenceIntervals))
	}
	var prevWidth float64
	for _, ci := range result.ConfidenceIntervals {
		if ci.Lower > ci.Upper {
			t.Errorf("interval at level %v has lower %v > upper %v", ci.Level, ci.Lower, ci.Upper)
		}
		width := ci.Upper - ci.Lower
		if width < prevWidth {
			t.Errorf("interval at level %v narrower than lower level", ci.Level)
		}
		prevWidth = width
	}

	if result.Statistics.Min > result.Statistics.Percentiles.P5 {
		t.Error("min exceeds p5")
	}
	if result.Statistics.Max < result.Statistics.Percentiles.P95 {
		t.Error("max below p95")
	}
}

func TestRunProgressCallback(t *testing.T) {
	var checkpoints []int
	var fractions []float64

	cfg := domain.SimulationConfig{
		Iterations: 3500,
		Seed:       seedPtr(3),
		OnProgress: func(completed int, fraction float64) {
			checkpoints = append(checkpoints, completed)
			fractions = append(fractions, fraction)
		},
	}

	withCallback, err := New(cfg, logger.Discard()).Run(referenceScenario())
	if err != nil {
		t.Fatal(err)
	}

	wantCheckpoints := []int{1000, 2000, 3000}
	if len(checkpoints) != len(wantCheckpoints) {
		t.Fatalf("got %d checkpoints, want %d", len(checkpoints), len(wantCheckpoints))
	}
	for i, want := range wantCheckpoints {
		if checkpoints[i] != want {
			t.Errorf("checkpoint %d = %d, want %d", i, checkpoints[i], want)
		}
		if math.Abs(fractions[i]-float64(want)/3500) > 1e-12 {
			t.Errorf("fraction at checkpoint %d = %v", i, fractions[i])
		}
	}

	// Callback must not change results
	silent, err := New(domain.SimulationConfig{Iterations: 3500, Seed: seedPtr(3)}, logger.Discard()).Run(referenceScenario())
	if err != nil {
		t.Fatal(err)
	}
	for i := range silent.Outcomes {
		if silent.Outcomes[i] != withCallback.Outcomes[i] {
			t.Fatal("progress callback altered outcomes")
		}
	}
}

func TestRunShockEventsLowerOutcomes(t *testing.T) {
	base := referenceScenario()

	shocked := base
	shocked.ShockEvents = []domain.ShockEvent{
		{Name: "market crash", ProbabilityPerYear: 0.10, Impact: -0.40},
	}

	baseResult, err := New(domain.SimulationConfig{Iterations: 2000, Seed: seedPtr(21)}, logger.Discard()).Run(base)
	if err != nil {
		t.Fatal(err)
	}
	shockedResult, err := New(domain.SimulationConfig{Iterations: 2000, Seed: seedPtr(21)}, logger.Discard()).Run(shocked)
	if err != nil {
		t.Fatal(err)
	}

	if shockedResult.Statistics.Mean >= baseResult.Statistics.Mean {
		t.Errorf("shocked mean %v should be below base mean %v", shockedResult.Statistics.Mean, baseResult.Statistics.Mean)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	if _, err := New(domain.SimulationConfig{Iterations: 0}, logger.Discard()).Run(referenceScenario()); err == nil {
		t.Error("expected error for zero iterations")
	}

	bad := referenceScenario()
	bad.TimeHorizonYears = -1
	if _, err := New(domain.SimulationConfig{Iterations: 100, Seed: seedPtr(1)}, logger.Discard()).Run(bad); err == nil {
		t.Error("expected error for negative horizon")
	}
}

func TestRunWrapsComputationFailure(t *testing.T) {
	// An absurd volatility overflows the compounding product to +Inf
	bad := domain.InvestmentScenario{
		InitialValue:     1e300,
		ExpectedReturn:   1e6,
		Volatility:       0,
		TimeHorizonYears: 50,
		TargetValue:      1,
	}

	_, err := New(domain.SimulationConfig{Iterations: 10, Seed: seedPtr(1)}, logger.Discard()).Run(bad)
	if err == nil {
		t.Fatal("expected SimulationError")
	}

	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("error %v is not a SimulationError", err)
	}
}
