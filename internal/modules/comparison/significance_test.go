package comparison

import (
	"math"
	"testing"
)

func TestWelchTestIdenticalSamples(t *testing.T) {
	sample := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	result := welchTest(sample, sample)

	if result.TStatistic != 0 {
		t.Errorf("TStatistic = %v, want 0", result.TStatistic)
	}
	if math.Abs(result.PValue-1) > 1e-12 {
		t.Errorf("PValue = %v, want 1", result.PValue)
	}
	if result.Significant {
		t.Error("identical samples must not be significant")
	}
}

func TestWelchTestSeparatedSamples(t *testing.T) {
	a := make([]float64, 100)
	b := make([]float64, 100)
	for i := range a {
		a[i] = 10 + float64(i%7)*0.1
		b[i] = 5 + float64(i%7)*0.1
	}

	result := welchTest(a, b)
	if result.TStatistic <= 0 {
		t.Errorf("TStatistic = %v, want positive for meanA > meanB", result.TStatistic)
	}
	if !result.Significant {
		t.Errorf("clearly separated means should be significant, p = %v", result.PValue)
	}
	if result.DegreesOfFreedom <= 0 {
		t.Errorf("DegreesOfFreedom = %v, want positive", result.DegreesOfFreedom)
	}
}

func TestWelchTestDegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"empty", nil, nil},
		{"single element", []float64{1}, []float64{2}},
		{"zero variance both", []float64{3, 3, 3}, []float64{3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := welchTest(tt.a, tt.b)
			if result.Significant {
				t.Error("degenerate input must not be significant")
			}
			if result.PValue != 1 {
				t.Errorf("PValue = %v, want 1", result.PValue)
			}
		})
	}
}

func TestNormalCDF(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.96, 0.975},
		{-1.96, 0.025},
		{3, 0.99865},
	}

	for _, tt := range tests {
		if got := normalCDF(tt.x); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("normalCDF(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
