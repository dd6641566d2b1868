package domain

// ParameterID enumerates the scenario parameters that drift, trigger regime
// rules, and get trend-tracked. Replaces string-path lookups with an
// exhaustive, typed identifier.
type ParameterID string

const (
	ParamMarketReturnMean       ParameterID = "market_return_mean"
	ParamMarketReturnVolatility ParameterID = "market_return_volatility"
	ParamInflationMean          ParameterID = "inflation_mean"
	ParamInflationVolatility    ParameterID = "inflation_volatility"
	ParamInterestRate           ParameterID = "interest_rate"
	ParamGDPGrowthMean          ParameterID = "gdp_growth_mean"
	ParamGDPGrowthVolatility    ParameterID = "gdp_growth_volatility"
	ParamUnemploymentTrend      ParameterID = "unemployment_trend"
)

// AllParameterIDs lists every tracked parameter in stable order
func AllParameterIDs() []ParameterID {
	return []ParameterID{
		ParamMarketReturnMean,
		ParamMarketReturnVolatility,
		ParamInflationMean,
		ParamInflationVolatility,
		ParamInterestRate,
		ParamGDPGrowthMean,
		ParamGDPGrowthVolatility,
		ParamUnemploymentTrend,
	}
}

// Value returns the named parameter. The bool is false for an unknown id.
func (p *ScenarioParameters) Value(id ParameterID) (float64, bool) {
	switch id {
	case ParamMarketReturnMean:
		return p.MarketReturn.Mean, true
	case ParamMarketReturnVolatility:
		return p.MarketReturn.Volatility, true
	case ParamInflationMean:
		return p.Inflation.Mean, true
	case ParamInflationVolatility:
		return p.Inflation.Volatility, true
	case ParamInterestRate:
		return p.InterestRate, true
	case ParamGDPGrowthMean:
		return p.GDPGrowth.Mean, true
	case ParamGDPGrowthVolatility:
		return p.GDPGrowth.Volatility, true
	case ParamUnemploymentTrend:
		return p.UnemploymentTrend, true
	}
	return 0, false
}

// SetValue assigns the named parameter. Returns false for an unknown id.
func (p *ScenarioParameters) SetValue(id ParameterID, v float64) bool {
	switch id {
	case ParamMarketReturnMean:
		p.MarketReturn.Mean = v
	case ParamMarketReturnVolatility:
		p.MarketReturn.Volatility = v
	case ParamInflationMean:
		p.Inflation.Mean = v
	case ParamInflationVolatility:
		p.Inflation.Volatility = v
	case ParamInterestRate:
		p.InterestRate = v
	case ParamGDPGrowthMean:
		p.GDPGrowth.Mean = v
	case ParamGDPGrowthVolatility:
		p.GDPGrowth.Volatility = v
	case ParamUnemploymentTrend:
		p.UnemploymentTrend = v
	default:
		return false
	}
	return true
}

// Clone returns a deep copy, including shock events
func (p ScenarioParameters) Clone() ScenarioParameters {
	cp := p
	if len(p.ShockEvents) > 0 {
		cp.ShockEvents = make([]ShockEvent, len(p.ShockEvents))
		copy(cp.ShockEvents, p.ShockEvents)
	}
	return cp
}
