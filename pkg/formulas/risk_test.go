package formulas

import (
	"math"
	"testing"
)

func TestValueAtRisk(t *testing.T) {
	// 100 returns from -0.50 up in steps of 0.01; p5 is the 5th value
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = -0.50 + float64(i)*0.01
	}

	got := ValueAtRisk(returns)
	want := -0.46 // ceil(0.05*100)-1 = index 4
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ValueAtRisk = %v, want %v", got, want)
	}
}

func TestConditionalValueAtRiskIsTailMean(t *testing.T) {
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = -0.50 + float64(i)*0.01
	}

	cvar := ConditionalValueAtRisk(returns)
	// Tail is the 5 worst returns: -0.50 .. -0.46
	want := (-0.50 + -0.49 + -0.48 + -0.47 + -0.46) / 5
	if math.Abs(cvar-want) > 1e-12 {
		t.Errorf("ConditionalValueAtRisk = %v, want %v", cvar, want)
	}

	if cvar > ValueAtRisk(returns) {
		t.Error("CVaR must not exceed VaR")
	}
}

func TestCrossSectionalMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"monotonic rise", []float64{100, 110, 120}, 0},
		{"single drop", []float64{100, 120, 90}, 0.25},
		{"recovers", []float64{100, 50, 200}, 0.5},
		{"too short", []float64{100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CrossSectionalMaxDrawdown(tt.values)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CrossSectionalMaxDrawdown = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSharpeRatioZeroVarianceGuard(t *testing.T) {
	if got := SharpeRatio([]float64{0.05, 0.05, 0.05}); got != 0 {
		t.Errorf("SharpeRatio zero-variance = %v, want 0", got)
	}
}

func TestSharpeRatioSign(t *testing.T) {
	up := []float64{0.01, 0.05, 0.03, 0.07}
	if got := SharpeRatio(up); got <= 0 {
		t.Errorf("SharpeRatio positive returns = %v, want > 0", got)
	}

	down := []float64{-0.01, -0.05, -0.03, -0.07}
	if got := SharpeRatio(down); got >= 0 {
		t.Errorf("SharpeRatio negative returns = %v, want < 0", got)
	}
}

func TestSortinoRatioNoDownside(t *testing.T) {
	if got := SortinoRatio([]float64{0.01, 0.02, 0.03}); got != 0 {
		t.Errorf("SortinoRatio all-positive = %v, want 0", got)
	}
}

func TestSortinoRatioUsesDownsideOnly(t *testing.T) {
	returns := []float64{0.10, 0.20, -0.02, -0.06, 0.15, -0.04}

	sortino := SortinoRatio(returns)
	sharpe := SharpeRatio(returns)

	if sortino == 0 {
		t.Fatal("SortinoRatio = 0, want non-zero")
	}
	// Downside deviation over {-0.02,-0.06,-0.04} is smaller than total
	// volatility here, so Sortino should exceed Sharpe.
	if sortino <= sharpe {
		t.Errorf("SortinoRatio (%v) should exceed SharpeRatio (%v) for this data", sortino, sharpe)
	}
}
