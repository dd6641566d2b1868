package montecarlo

import "fmt"

// uniformityBins is the fixed bin count of the goodness-of-fit test
const uniformityBins = 10

// GeneratorCheck reports a chi-square goodness-of-fit test of the engine's
// generator against the uniform distribution.
//
// The p-value is interpolated from a small fixed critical-value table for
// df = 9 instead of a full chi-square CDF, so it is a coarse estimate;
// Approximate is always true and PValueLow/PValueHigh carry the bracketing
// table bounds.
type GeneratorCheck struct {
	SampleSize  int     `json:"sample_size"`
	ChiSquare   float64 `json:"chi_square"`
	PValue      float64 `json:"p_value"`
	PValueLow   float64 `json:"p_value_low"`
	PValueHigh  float64 `json:"p_value_high"`
	Valid       bool    `json:"valid"`
	Approximate bool    `json:"approximate"`
}

// criticalValue pairs an upper-tail probability with the chi-square value
// that bounds it at df = 9.
type criticalValue struct {
	TailProbability float64
	Value           float64
}

// chiSquareTableDF9 holds upper-tail critical values for 9 degrees of
// freedom (10 bins - 1), ordered by descending tail probability.
var chiSquareTableDF9 = []criticalValue{
	{0.995, 1.735},
	{0.99, 2.088},
	{0.975, 2.700},
	{0.95, 3.325},
	{0.90, 4.168},
	{0.50, 8.343},
	{0.10, 14.684},
	{0.05, 16.919},
	{0.025, 19.023},
	{0.01, 21.666},
	{0.005, 23.589},
}

// rejectionThreshold is the alpha=0.05 critical value; a generator whose
// statistic exceeds it fails the uniformity check.
const rejectionThreshold = 16.919

// ValidateGenerator draws sampleSize uniforms from the engine's generator
// and tests them against uniformity over 10 fixed bins.
//
// Running the check advances the generator stream; validate before a
// simulation run or on a dedicated engine when reproducibility matters.
func (e *Engine) ValidateGenerator(sampleSize int) (*GeneratorCheck, error) {
	if sampleSize < uniformityBins*5 {
		return nil, fmt.Errorf("sample size %d too small for a %d-bin chi-square test", sampleSize, uniformityBins)
	}

	observed := make([]int, uniformityBins)
	for i := 0; i < sampleSize; i++ {
		bin := int(e.gen.Uniform() * uniformityBins)
		if bin >= uniformityBins {
			bin = uniformityBins - 1
		}
		observed[bin]++
	}

	expected := float64(sampleSize) / uniformityBins
	chiSquare := 0.0
	for _, obs := range observed {
		diff := float64(obs) - expected
		chiSquare += diff * diff / expected
	}

	low, high, estimate := bracketPValue(chiSquare)

	check := &GeneratorCheck{
		SampleSize:  sampleSize,
		ChiSquare:   chiSquare,
		PValue:      estimate,
		PValueLow:   low,
		PValueHigh:  high,
		Valid:       chiSquare < rejectionThreshold,
		Approximate: true,
	}

	e.log.Debug().
		Float64("chi_square", chiSquare).
		Float64("p_value", estimate).
		Bool("valid", check.Valid).
		Msg("Generator uniformity check")

	return check, nil
}

// bracketPValue locates the statistic between adjacent table entries and
// linearly interpolates a p-value estimate between their tail
// probabilities.
func bracketPValue(chiSquare float64) (low, high, estimate float64) {
	table := chiSquareTableDF9

	if chiSquare <= table[0].Value {
		return table[0].TailProbability, 1.0, table[0].TailProbability
	}
	last := table[len(table)-1]
	if chiSquare >= last.Value {
		return 0, last.TailProbability, last.TailProbability
	}

	for i := 1; i < len(table); i++ {
		if chiSquare < table[i].Value {
			upper := table[i-1] // larger tail probability, smaller value
			lower := table[i]
			frac := (chiSquare - upper.Value) / (lower.Value - upper.Value)
			estimate = upper.TailProbability + frac*(lower.TailProbability-upper.TailProbability)
			return lower.TailProbability, upper.TailProbability, estimate
		}
	}
	return 0, 1, 0.5
}
