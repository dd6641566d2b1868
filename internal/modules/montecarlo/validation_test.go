package montecarlo

import (
	"testing"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/pkg/logger"
)

func TestValidateGeneratorPassesForHealthyRNG(t *testing.T) {
	engine := New(domain.SimulationConfig{Iterations: 1, Seed: seedPtr(42)}, logger.Discard())

	check, err := engine.ValidateGenerator(10000)
	if err != nil {
		t.Fatal(err)
	}

	if !check.Valid {
		t.Errorf("uniformity check failed: chi-square %v", check.ChiSquare)
	}
	if !check.Approximate {
		t.Error("check must be flagged approximate")
	}
	if check.PValue < 0 || check.PValue > 1 {
		t.Errorf("p-value %v outside [0,1]", check.PValue)
	}
	if check.PValueLow > check.PValueHigh {
		t.Errorf("p-value bracket inverted: [%v, %v]", check.PValueLow, check.PValueHigh)
	}
}

func TestValidateGeneratorRejectsSmallSample(t *testing.T) {
	engine := New(domain.SimulationConfig{Iterations: 1, Seed: seedPtr(1)}, logger.Discard())

	if _, err := engine.ValidateGenerator(10); err == nil {
		t.Error("expected error for tiny sample")
	}
}

func TestBracketPValue(t *testing.T) {
	tests := []struct {
		name      string
		chiSquare float64
		wantLow   float64
		wantHigh  float64
	}{
		{"below table", 1.0, 0.995, 1.0},
		{"middle of table", 10.0, 0.10, 0.50},
		{"near rejection", 17.5, 0.025, 0.05},
		{"above table", 30.0, 0, 0.005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low, high, estimate := bracketPValue(tt.chiSquare)
			if low != tt.wantLow || high != tt.wantHigh {
				t.Errorf("bracket = [%v, %v], want [%v, %v]", low, high, tt.wantLow, tt.wantHigh)
			}
			if estimate < low || estimate > high {
				t.Errorf("estimate %v outside bracket [%v, %v]", estimate, low, high)
			}
		})
	}
}
