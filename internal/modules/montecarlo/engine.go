// Package montecarlo runs compounding-return Monte Carlo simulations for a
// single investment scenario and summarizes the resulting terminal-value
// distribution.
package montecarlo

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/rng"
	"github.com/quantforge/macrosim/pkg/formulas"
)

// progressCheckpoint is the fixed iteration interval at which the advisory
// progress callback fires.
const progressCheckpoint = 1000

// SimulationError wraps a failure that occurred inside a run
type SimulationError struct {
	Stage string
	Err   error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed during %s: %v", e.Stage, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}

// Engine owns a seeded random generator and runs independent trials.
// Not safe for concurrent use: the generator state is exclusive to this
// instance. Run concurrent simulations on separately seeded engines.
type Engine struct {
	iterations int
	seed       int64
	gen        *rng.Generator
	onProgress domain.ProgressFunc
	log        zerolog.Logger
}

// New creates an engine from a simulation config. A nil seed falls back to
// a time-derived one; the effective seed is recorded in run metadata so the
// run stays reproducible either way.
func New(cfg domain.SimulationConfig, log zerolog.Logger) *Engine {
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	return &Engine{
		iterations: cfg.Iterations,
		seed:       seed,
		gen:        rng.New(seed),
		onProgress: cfg.OnProgress,
		log:        log.With().Str("service", "montecarlo").Logger(),
	}
}

// Seed returns the effective seed of this engine
func (e *Engine) Seed() int64 {
	return e.seed
}

// Reset reseeds the generator so the next run reproduces the first
func (e *Engine) Reset() {
	e.gen.Reseed(e.seed)
}

// Run executes the configured number of independent trials for the scenario
// and returns the immutable result record.
//
// Each trial compounds yearly: a normal return draw minus inflation, then
// every shock event rolls a uniform trial against its per-year probability
// and, when triggered, multiplies the period return by (1 + impact).
func (e *Engine) Run(scenario domain.InvestmentScenario) (*domain.SimulationResult, error) {
	if e.iterations <= 0 {
		return nil, fmt.Errorf("invalid simulation config: iterations must be positive, got %d", e.iterations)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	outcomes := make([]float64, e.iterations)

	for i := 0; i < e.iterations; i++ {
		value := scenario.InitialValue

		for year := 0; year < scenario.TimeHorizonYears; year++ {
			r := e.gen.Normal(scenario.ExpectedReturn, scenario.Volatility)
			adjusted := r - scenario.InflationRate

			for _, shock := range scenario.ShockEvents {
				if e.gen.Uniform() < shock.ProbabilityPerYear {
					adjusted *= 1 + shock.Impact
				}
			}

			value *= 1 + adjusted
		}

		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &SimulationError{
				Stage: "trial",
				Err:   fmt.Errorf("non-finite value at iteration %d (initial=%v return=%v vol=%v)", i, scenario.InitialValue, scenario.ExpectedReturn, scenario.Volatility),
			}
		}
		outcomes[i] = value

		// Advisory only; results are identical with or without a callback.
		if e.onProgress != nil && (i+1)%progressCheckpoint == 0 {
			e.onProgress(i+1, float64(i+1)/float64(e.iterations))
		}
	}

	sorted := formulas.SortedCopy(outcomes)

	goalHits := 0
	for _, v := range outcomes {
		if v >= scenario.TargetValue {
			goalHits++
		}
	}

	result := &domain.SimulationResult{
		Scenario:               scenario,
		IterationCount:         e.iterations,
		Outcomes:               outcomes,
		Statistics:             summarize(outcomes, sorted),
		GoalSuccessProbability: float64(goalHits) / float64(e.iterations),
		ConfidenceIntervals:    confidenceIntervals(sorted),
		Metadata: domain.RunMetadata{
			RunID:      uuid.New().String(),
			Seed:       e.seed,
			StartedAt:  started,
			Elapsed:    time.Since(started),
			Iterations: e.iterations,
		},
	}

	e.log.Debug().
		Str("run_id", result.Metadata.RunID).
		Int64("seed", e.seed).
		Int("iterations", e.iterations).
		Float64("mean", result.Statistics.Mean).
		Float64("goal_probability", result.GoalSuccessProbability).
		Msg("Simulation completed")

	return result, nil
}

// summarize computes the distribution statistics over the outcome vector
func summarize(outcomes, sorted []float64) domain.Statistics {
	return domain.Statistics{
		Mean:     formulas.Mean(outcomes),
		Median:   formulas.PercentileSorted(sorted, 50),
		StdDev:   formulas.StdDev(outcomes),
		Variance: formulas.Variance(outcomes),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Skewness: formulas.Skewness(outcomes),
		Kurtosis: formulas.ExcessKurtosis(outcomes),
		Percentiles: domain.Percentiles{
			P5:  formulas.PercentileSorted(sorted, 5),
			P10: formulas.PercentileSorted(sorted, 10),
			P25: formulas.PercentileSorted(sorted, 25),
			P75: formulas.PercentileSorted(sorted, 75),
			P90: formulas.PercentileSorted(sorted, 90),
			P95: formulas.PercentileSorted(sorted, 95),
		},
	}
}

// confidenceIntervals reads the 90/95/99% intervals straight off the sorted
// distribution rather than a normal approximation.
func confidenceIntervals(sorted []float64) []domain.ConfidenceInterval {
	levels := []float64{0.90, 0.95, 0.99}
	intervals := make([]domain.ConfidenceInterval, 0, len(levels))
	for _, level := range levels {
		tail := (1 - level) / 2 * 100
		intervals = append(intervals, domain.ConfidenceInterval{
			Level: level,
			Lower: formulas.PercentileSorted(sorted, tail),
			Upper: formulas.PercentileSorted(sorted, 100-tail),
		})
	}
	return intervals
}
