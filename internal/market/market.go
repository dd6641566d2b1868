// Package market supplies the current market condition to regime trigger
// evaluation. It is a boundary collaborator: the engines only consume the
// classification and never depend on where the prices came from.
package market

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
)

// Provider reports the current market condition
type Provider interface {
	Condition() (domain.MarketCondition, error)
}

// Classification thresholds on the SMA trend and return volatility
const (
	trendPeriod        = 20
	bullTrendThreshold = 0.02
	bearTrendThreshold = -0.02
	volatileThreshold  = 0.025
)

// Classifier derives a market condition from a recent close-price series
// using an SMA trend and the stddev of daily returns.
type Classifier struct {
	prices func() ([]float64, error)
	log    zerolog.Logger
}

// NewClassifier creates a classifier over a price source. The source must
// return closes in chronological order.
func NewClassifier(prices func() ([]float64, error), log zerolog.Logger) *Classifier {
	return &Classifier{
		prices: prices,
		log:    log.With().Str("component", "market").Logger(),
	}
}

// Condition classifies the current regime as bull, bear, sideways, or
// volatile. Volatility dominates direction.
func (c *Classifier) Condition() (domain.MarketCondition, error) {
	closes, err := c.prices()
	if err != nil {
		return "", fmt.Errorf("market: fetching prices: %w", err)
	}
	if len(closes) < trendPeriod*2 {
		return "", fmt.Errorf("market: need at least %d closes, got %d", trendPeriod*2, len(closes))
	}

	sma := talib.Sma(closes, trendPeriod)
	latest := sma[len(sma)-1]
	prior := sma[len(sma)-1-trendPeriod]
	if prior == 0 {
		return "", fmt.Errorf("market: degenerate price series")
	}
	trend := (latest - prior) / prior

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return "", fmt.Errorf("market: degenerate price series")
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	vol := talib.StdDev(returns, len(returns), 1.0)
	dailyVol := vol[len(vol)-1]

	condition := domain.MarketSideways
	switch {
	case dailyVol > volatileThreshold:
		condition = domain.MarketVolatile
	case trend > bullTrendThreshold:
		condition = domain.MarketBull
	case trend < bearTrendThreshold:
		condition = domain.MarketBear
	}

	c.log.Debug().
		Float64("trend", trend).
		Float64("daily_vol", dailyVol).
		Str("condition", string(condition)).
		Msg("Classified market condition")

	return condition, nil
}

// StaticProvider always reports a fixed condition. Used by tests and as a
// stand-in when no price feed is configured.
type StaticProvider struct {
	Value domain.MarketCondition
}

func (p StaticProvider) Condition() (domain.MarketCondition, error) {
	return p.Value, nil
}
