// Package scenarios maps macroeconomic scenarios onto investment
// simulations and derives risk, stress, and cross-scenario views.
package scenarios

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/events"
	"github.com/quantforge/macrosim/internal/modules/montecarlo"
	"github.com/quantforge/macrosim/pkg/formulas"
)

// Defaults applied when the base investment leaves fields unset
const (
	defaultInitialValue = 100000.0
	defaultHorizonYears = 30
	defaultIterations   = 10000
)

// Config controls the scenario engine
type Config struct {
	Iterations int
	Seed       *int64
	Baseline   *domain.EconomicScenario // nil disables baseline comparison
	OnProgress domain.ProgressFunc      // overall analysis progress, advisory
}

// Service is the scenario engine: it converts economic scenarios into
// investment scenarios, drives the Monte Carlo engine, and derives risk
// and comparison views.
type Service struct {
	cfg    Config
	events *events.Manager
	log    zerolog.Logger
}

// NewService creates a scenario engine
func NewService(cfg Config, ev *events.Manager, log zerolog.Logger) *Service {
	if cfg.Iterations <= 0 {
		cfg.Iterations = defaultIterations
	}
	return &Service{
		cfg:    cfg,
		events: ev,
		log:    log.With().Str("service", "scenarios").Logger(),
	}
}

// SimulationConfig returns the engine configuration the service runs
// with. Used by callers that key caches on it.
func (s *Service) SimulationConfig() domain.SimulationConfig {
	return domain.SimulationConfig{
		Iterations: s.cfg.Iterations,
		Seed:       s.cfg.Seed,
	}
}

// ConvertToInvestmentScenario maps an economic scenario's macro
// distributions onto an investment scenario: market return mean/volatility
// become expected return/volatility, inflation mean becomes the inflation
// rate, and shock events pass through unchanged. Initial and target values
// come from the base investment, with defaults where absent.
func (s *Service) ConvertToInvestmentScenario(econ domain.EconomicScenario, base domain.InvestmentScenario) domain.InvestmentScenario {
	inv := domain.InvestmentScenario{
		InitialValue:     base.InitialValue,
		ExpectedReturn:   econ.Parameters.MarketReturn.Mean,
		Volatility:       econ.Parameters.MarketReturn.Volatility,
		TimeHorizonYears: base.TimeHorizonYears,
		InflationRate:    econ.Parameters.Inflation.Mean,
		TargetValue:      base.TargetValue,
	}

	if inv.InitialValue <= 0 {
		inv.InitialValue = defaultInitialValue
	}
	if inv.TimeHorizonYears <= 0 {
		inv.TimeHorizonYears = defaultHorizonYears
	}
	if inv.TargetValue <= 0 {
		inv.TargetValue = inv.InitialValue * 2
	}

	if len(econ.Parameters.ShockEvents) > 0 {
		inv.ShockEvents = make([]domain.ShockEvent, len(econ.Parameters.ShockEvents))
		copy(inv.ShockEvents, econ.Parameters.ShockEvents)
	} else if len(base.ShockEvents) > 0 {
		inv.ShockEvents = make([]domain.ShockEvent, len(base.ShockEvents))
		copy(inv.ShockEvents, base.ShockEvents)
	}

	return inv
}

// RunScenarioSimulation simulates one economic scenario and derives its
// risk metrics, stress results, and, for non-baseline scenarios when a
// baseline is configured, an index-paired baseline comparison run with
// the same iteration count on an independent stream.
func (s *Service) RunScenarioSimulation(econ domain.EconomicScenario, base domain.InvestmentScenario) (*domain.ScenarioResult, error) {
	return s.runOne(econ, base, nil)
}

// runOne runs a single scenario with an optional per-run progress callback
func (s *Service) runOne(econ domain.EconomicScenario, base domain.InvestmentScenario, progress domain.ProgressFunc) (*domain.ScenarioResult, error) {
	sim, err := s.simulate(econ, base, s.cfg.Seed, progress)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", econ.ID, err)
	}
	result := buildScenarioResult(econ, sim)

	if s.cfg.Baseline != nil && econ.ID != s.cfg.Baseline.ID {
		// The same iteration count keeps the runs index-comparable. The
		// baseline draws from its own stream: sharing a fixed seed would
		// tie every index pair and pin outperformance at zero.
		baselineSim, err := s.simulate(*s.cfg.Baseline, base, s.baselineSeed(), nil)
		if err != nil {
			return nil, fmt.Errorf("baseline %q: %w", s.cfg.Baseline.ID, err)
		}
		baselineResult := buildScenarioResult(*s.cfg.Baseline, baselineSim)
		result.Baseline = compareToBaseline(result, baselineResult)
	}

	if s.events != nil {
		s.events.Emit(events.SimulationCompleted, "scenarios", map[string]interface{}{
			"scenario_id": econ.ID,
			"run_id":      sim.Metadata.RunID,
			"iterations":  sim.IterationCount,
		})
	}

	return result, nil
}

// simulate runs the Monte Carlo engine for a converted scenario
func (s *Service) simulate(econ domain.EconomicScenario, base domain.InvestmentScenario, seed *int64, progress domain.ProgressFunc) (*domain.SimulationResult, error) {
	inv := s.ConvertToInvestmentScenario(econ, base)
	engine := montecarlo.New(domain.SimulationConfig{
		Iterations: s.cfg.Iterations,
		Seed:       seed,
		OnProgress: progress,
	}, s.log)
	return engine.Run(inv)
}

// baselineSeed derives the baseline run's seed. A configured fixed seed
// is offset so the baseline stream stays independent of the scenario
// stream; an unset seed stays unset.
func (s *Service) baselineSeed() *int64 {
	if s.cfg.Seed == nil {
		return nil
	}
	derived := *s.cfg.Seed + 1
	return &derived
}

// RunScenarioAnalysis sequentially simulates every scenario, reporting
// overall fractional progress, then builds rankings, the pairwise
// correlation matrix, the diversification benefit, and the per-appetite
// recommendations.
func (s *Service) RunScenarioAnalysis(scenarioSet []domain.EconomicScenario, base domain.InvestmentScenario) (*ScenarioComparison, error) {
	if len(scenarioSet) == 0 {
		return nil, fmt.Errorf("scenario analysis requires at least one scenario")
	}

	total := len(scenarioSet)
	results := make([]*domain.ScenarioResult, 0, total)

	for i, econ := range scenarioSet {
		idx := i
		inner := func(completed int, fraction float64) {
			if s.cfg.OnProgress != nil {
				s.cfg.OnProgress(completed, (float64(idx)+fraction)/float64(total))
			}
		}

		result, err := s.runOne(econ, base, inner)
		if err != nil {
			return nil, err
		}
		results = append(results, result)

		if s.cfg.OnProgress != nil {
			s.cfg.OnProgress(s.cfg.Iterations*(i+1), float64(i+1)/float64(total))
		}
	}

	comparison := &ScenarioComparison{
		Results:      results,
		ByMeanReturn: rankBy(results, func(r *domain.ScenarioResult) float64 { return r.MeanReturn() }, true),
		ByVolatility: rankBy(results, func(r *domain.ScenarioResult) float64 { return r.RiskMetrics.Volatility }, false),
		BySharpe:     rankBy(results, func(r *domain.ScenarioResult) float64 { return r.RiskMetrics.SharpeRatio }, true),
	}

	comparison.Correlations = correlationMatrix(results)

	returnSets := make([][]float64, len(results))
	for i, r := range results {
		returnSets[i] = r.Returns()
	}
	comparison.DiversificationBenefit = diversificationBenefit(returnSets)

	comparison.Recommendations = Recommendations{
		Conservative: comparison.ByVolatility[0].ScenarioID,
		Moderate:     comparison.BySharpe[0].ScenarioID,
		Aggressive:   comparison.ByMeanReturn[0].ScenarioID,
	}

	if s.events != nil {
		s.events.Emit(events.AnalysisCompleted, "scenarios", map[string]interface{}{
			"scenarios": total,
		})
	}

	return comparison, nil
}

// rankBy builds a ranking over the results; descending when desc is true
func rankBy(results []*domain.ScenarioResult, value func(*domain.ScenarioResult) float64, desc bool) []Ranking {
	rankings := make([]Ranking, len(results))
	for i, r := range results {
		rankings[i] = Ranking{ScenarioID: r.ScenarioID, Value: value(r)}
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		if desc {
			return rankings[i].Value > rankings[j].Value
		}
		return rankings[i].Value < rankings[j].Value
	})
	return rankings
}

// correlationMatrix computes pairwise Pearson correlations over the raw
// outcome vectors.
func correlationMatrix(results []*domain.ScenarioResult) CorrelationMatrix {
	n := len(results)
	matrix := CorrelationMatrix{
		ScenarioIDs: make([]string, n),
		Values:      make([][]float64, n),
	}

	for i, r := range results {
		matrix.ScenarioIDs[i] = r.ScenarioID
		matrix.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		matrix.Values[i][i] = 1
		for j := i + 1; j < n; j++ {
			c := correlationOf(results[i].Simulation.Outcomes, results[j].Simulation.Outcomes)
			matrix.Values[i][j] = c
			matrix.Values[j][i] = c
		}
	}

	return matrix
}

func correlationOf(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	return formulas.Correlation(a[:n], b[:n])
}
