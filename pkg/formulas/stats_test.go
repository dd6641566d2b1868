package formulas

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMeanAndStdDev(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Mean(data); !almostEqual(got, 5.0, 1e-12) {
		t.Errorf("Mean = %v, want 5", got)
	}

	// Unbiased (n-1) standard deviation
	want := math.Sqrt(32.0 / 7.0)
	if got := StdDev(data); !almostEqual(got, want, 1e-12) {
		t.Errorf("StdDev = %v, want %v", got, want)
	}
}

func TestMeanEmpty(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := StdDev([]float64{1}); got != 0 {
		t.Errorf("StdDev single value = %v, want 0", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{"odd length", []float64{3, 1, 2}, 2},
		{"even length", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.data); got != tt.want {
				t.Errorf("Median = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentileNearestRankAbove(t *testing.T) {
	// 1..10 sorted; p-th percentile is value at ceil(p/100*10)-1
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    float64
		want float64
	}{
		{5, 1},
		{10, 1},
		{25, 3},
		{50, 5},
		{75, 8},
		{90, 9},
		{95, 10},
		{0, 1},
		{100, 10},
	}

	for _, tt := range tests {
		if got := Percentile(data, tt.p); got != tt.want {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPercentileOrdering(t *testing.T) {
	data := []float64{12.3, -4.5, 8.8, 0.1, 99.2, 3.3, 3.3, -20, 41, 17}
	sorted := SortedCopy(data)

	levels := []float64{5, 10, 25, 50, 75, 90, 95}
	prev := math.Inf(-1)
	for _, p := range levels {
		v := PercentileSorted(sorted, p)
		if v < prev {
			t.Errorf("percentile %v (%v) < previous (%v)", p, v, prev)
		}
		prev = v
	}
}

func TestSkewnessSymmetric(t *testing.T) {
	// Symmetric distribution has (near) zero skewness
	data := []float64{-3, -2, -1, 0, 1, 2, 3}
	if got := Skewness(data); !almostEqual(got, 0, 1e-12) {
		t.Errorf("Skewness symmetric = %v, want 0", got)
	}
}

func TestSkewnessRightTail(t *testing.T) {
	data := []float64{1, 1, 1, 1, 10}
	if got := Skewness(data); got <= 0 {
		t.Errorf("Skewness right-tailed = %v, want > 0", got)
	}
}

func TestSkewnessDegenerate(t *testing.T) {
	if got := Skewness([]float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("Skewness zero-variance = %v, want 0", got)
	}
	if got := Skewness([]float64{1, 2}); got != 0 {
		t.Errorf("Skewness n<3 = %v, want 0", got)
	}
}

func TestExcessKurtosisDegenerate(t *testing.T) {
	if got := ExcessKurtosis([]float64{5, 5, 5, 5, 5}); got != 0 {
		t.Errorf("ExcessKurtosis zero-variance = %v, want 0", got)
	}
	if got := ExcessKurtosis([]float64{1, 2, 3}); got != 0 {
		t.Errorf("ExcessKurtosis n<4 = %v, want 0", got)
	}
}

func TestExcessKurtosisHeavyTails(t *testing.T) {
	// A distribution with a large outlier has positive excess kurtosis
	data := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 50}
	if got := ExcessKurtosis(data); got <= 0 {
		t.Errorf("ExcessKurtosis heavy-tailed = %v, want > 0", got)
	}
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	if got := Correlation(x, y); !almostEqual(got, 1, 1e-12) {
		t.Errorf("Correlation perfect positive = %v, want 1", got)
	}

	yInv := []float64{10, 8, 6, 4, 2}
	if got := Correlation(x, yInv); !almostEqual(got, -1, 1e-12) {
		t.Errorf("Correlation perfect negative = %v, want -1", got)
	}

	if got := Correlation(x, []float64{1, 2}); got != 0 {
		t.Errorf("Correlation length mismatch = %v, want 0", got)
	}
}
