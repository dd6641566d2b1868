package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvestmentScenarioValidate(t *testing.T) {
	valid := InvestmentScenario{
		InitialValue:     100000,
		ExpectedReturn:   0.07,
		Volatility:       0.12,
		TimeHorizonYears: 30,
		InflationRate:    0.02,
		TargetValue:      500000,
	}

	tests := []struct {
		name    string
		mutate  func(*InvestmentScenario)
		wantErr string
	}{
		{"valid", func(s *InvestmentScenario) {}, ""},
		{"zero horizon", func(s *InvestmentScenario) { s.TimeHorizonYears = 0 }, "time horizon"},
		{"negative horizon", func(s *InvestmentScenario) { s.TimeHorizonYears = -5 }, "time horizon"},
		{"zero initial", func(s *InvestmentScenario) { s.InitialValue = 0 }, "initial value"},
		{"NaN return", func(s *InvestmentScenario) { s.ExpectedReturn = math.NaN() }, "not finite"},
		{"Inf volatility", func(s *InvestmentScenario) { s.Volatility = math.Inf(1) }, "not finite"},
		{"negative volatility", func(s *InvestmentScenario) { s.Volatility = -0.1 }, "non-negative"},
		{"shock probability out of range", func(s *InvestmentScenario) {
			s.ShockEvents = []ShockEvent{{ProbabilityPerYear: 1.5, Impact: -0.3}}
		}, "probability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParameterAccessorsRoundTrip(t *testing.T) {
	var p ScenarioParameters

	for i, id := range AllParameterIDs() {
		want := float64(i) + 0.5
		if !p.SetValue(id, want) {
			t.Fatalf("SetValue(%s) returned false", id)
		}
		got, ok := p.Value(id)
		if !ok || got != want {
			t.Errorf("Value(%s) = %v, %v; want %v, true", id, got, ok, want)
		}
	}

	if _, ok := p.Value(ParameterID("bogus")); ok {
		t.Error("Value on unknown id should return false")
	}
	if p.SetValue(ParameterID("bogus"), 1) {
		t.Error("SetValue on unknown id should return false")
	}
}

func TestScenarioParametersClone(t *testing.T) {
	p := ScenarioParameters{
		MarketReturn: Distribution{Mean: 0.07, Volatility: 0.15},
		ShockEvents:  []ShockEvent{{ProbabilityPerYear: 0.05, Impact: -0.25}},
	}

	cp := p.Clone()
	cp.MarketReturn.Mean = 0.01
	cp.ShockEvents[0].Impact = -0.99

	assert.Equal(t, 0.07, p.MarketReturn.Mean)
	assert.Equal(t, -0.25, p.ShockEvents[0].Impact)
}

func TestScenarioResultReturns(t *testing.T) {
	r := &ScenarioResult{
		Simulation: &SimulationResult{
			Scenario: InvestmentScenario{InitialValue: 100},
			Outcomes: []float64{110, 90, 150},
		},
	}

	returns := r.Returns()
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)
	assert.InDelta(t, 0.50, returns[2], 1e-12)
}
