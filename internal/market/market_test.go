package market

import (
	"errors"
	"math"
	"testing"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/pkg/logger"
)

// series builds n chronological closes from a per-step growth rate plus an
// alternating wiggle of the given amplitude.
func series(n int, growth, wiggle float64) []float64 {
	closes := make([]float64, n)
	price := 100.0
	for i := 0; i < n; i++ {
		price *= 1 + growth
		sign := 1.0
		if i%2 == 1 {
			sign = -1
		}
		closes[i] = price * (1 + sign*wiggle)
	}
	return closes
}

func TestClassifierConditions(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   domain.MarketCondition
	}{
		{"steady rise is bull", series(60, 0.004, 0.0005), domain.MarketBull},
		{"steady fall is bear", series(60, -0.004, 0.0005), domain.MarketBear},
		{"flat is sideways", series(60, 0.0, 0.0005), domain.MarketSideways},
		{"large swings are volatile", series(60, 0.0, 0.04), domain.MarketVolatile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(func() ([]float64, error) { return tt.closes, nil }, logger.Discard())
			got, err := c.Condition()
			if err != nil {
				t.Fatalf("Condition() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Condition() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifierErrors(t *testing.T) {
	t.Run("source error propagates", func(t *testing.T) {
		srcErr := errors.New("feed down")
		c := NewClassifier(func() ([]float64, error) { return nil, srcErr }, logger.Discard())
		if _, err := c.Condition(); !errors.Is(err, srcErr) {
			t.Errorf("expected wrapped source error, got %v", err)
		}
	})

	t.Run("short series rejected", func(t *testing.T) {
		c := NewClassifier(func() ([]float64, error) { return series(10, 0.001, 0), nil }, logger.Discard())
		if _, err := c.Condition(); err == nil {
			t.Error("expected error for short series")
		}
	})

	t.Run("zero price rejected", func(t *testing.T) {
		closes := series(60, 0.001, 0)
		closes[30] = 0
		c := NewClassifier(func() ([]float64, error) { return closes, nil }, logger.Discard())
		if _, err := c.Condition(); err == nil {
			t.Error("expected error for zero price")
		}
	})
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{Value: domain.MarketBear}
	got, err := p.Condition()
	if err != nil {
		t.Fatalf("Condition() error: %v", err)
	}
	if got != domain.MarketBear {
		t.Errorf("Condition() = %q, want %q", got, domain.MarketBear)
	}
}

func TestSeriesHelperGrows(t *testing.T) {
	closes := series(60, 0.004, 0)
	if closes[len(closes)-1] <= closes[0] {
		t.Error("growth series should rise")
	}
	if math.IsNaN(closes[len(closes)-1]) {
		t.Error("series produced NaN")
	}
}
