// Package evolution advances economic scenarios through time: periodic
// parameter drift, rule-triggered regime transitions, historical
// snapshotting, and trend estimation.
package evolution

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/events"
	"github.com/quantforge/macrosim/internal/market"
	"github.com/quantforge/macrosim/internal/rng"
	"github.com/quantforge/macrosim/internal/scheduler"
)

const hoursPerYear = 24 * 365.25

// Defaults applied when Config fields are unset
const (
	defaultRetentionYears     = 10.0
	defaultSmoothingWindow    = 10
	defaultTransitionDuration = 90 * 24 * time.Hour
)

// Options holds the engine's collaborators. Market, Events, Clock, and
// Scheduler are optional; nil Clock/Scheduler get system-backed defaults.
type Options struct {
	Catalog   []domain.EconomicScenario
	Rules     []RegimeChangeRule
	Drifts    []DriftSpec
	Market    market.Provider
	Events    *events.Manager
	Clock     scheduler.Clock
	Scheduler scheduler.Scheduler
}

// Engine is the time-based scenario engine. A single mutex guards the
// evolution aggregate; Tick acquires it with TryLock so a tick never
// begins while a prior tick is still executing.
type Engine struct {
	mu    sync.Mutex
	state ScenarioEvolution

	cfg       Config
	catalog   []domain.EconomicScenario
	rules     []RegimeChangeRule
	drifts    []DriftSpec
	gen       *rng.Generator
	market    market.Provider
	clock     scheduler.Clock
	sched     scheduler.Scheduler
	observers *observerRegistry
	events    *events.Manager
	log       zerolog.Logger

	runMu      sync.Mutex
	running    bool
	registered bool
}

// New creates an evolution engine starting in the given scenario
func New(cfg Config, initial domain.EconomicScenario, opts Options, log zerolog.Logger) *Engine {
	if cfg.Cadence == "" {
		cfg.Cadence = CadenceDaily
	}
	if cfg.RetentionYears <= 0 {
		cfg.RetentionYears = defaultRetentionYears
	}
	if cfg.SmoothingWindow <= 0 {
		cfg.SmoothingWindow = defaultSmoothingWindow
	}
	if cfg.TransitionDuration <= 0 {
		cfg.TransitionDuration = defaultTransitionDuration
	}

	clock := opts.Clock
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = scheduler.NewCron(log)
	}

	var gen *rng.Generator
	if cfg.Seed != nil {
		gen = rng.New(*cfg.Seed)
	} else {
		gen = rng.NewFromClock()
	}

	scopedLog := log.With().Str("service", "evolution").Logger()

	return &Engine{
		state: ScenarioEvolution{
			CurrentScenario:   initial,
			CurrentParameters: initial.Parameters.Clone(),
			LastUpdate:        clock.Now(),
		},
		cfg:       cfg,
		catalog:   opts.Catalog,
		rules:     opts.Rules,
		drifts:    opts.Drifts,
		gen:       gen,
		market:    opts.Market,
		clock:     clock,
		sched:     sched,
		observers: newObserverRegistry(scopedLog),
		events:    opts.Events,
		log:       scopedLog,
	}
}

// Start begins the periodic tick. Calling Start while running is a no-op.
func (e *Engine) Start() error {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if e.running {
		return nil
	}

	if !e.registered {
		task := scheduler.TaskFunc{TaskName: "evolution-tick", Fn: e.Tick}
		if err := e.sched.Every(e.cfg.Cadence.Interval(), task); err != nil {
			return fmt.Errorf("evolution: registering tick: %w", err)
		}
		e.registered = true
	}

	e.sched.Start()
	e.running = true
	e.log.Info().Str("cadence", string(e.cfg.Cadence)).Msg("Evolution started")
	return nil
}

// Stop halts the periodic tick. Calling Stop while stopped is a no-op.
func (e *Engine) Stop() {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if !e.running {
		return
	}
	e.sched.Stop()
	e.running = false
	e.log.Info().Msg("Evolution stopped")
}

// Running reports whether the periodic tick is active
func (e *Engine) Running() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.running
}

// Subscribe registers an observer of post-tick state. Returns an id for
// Unsubscribe.
func (e *Engine) Subscribe(obs Observer) int {
	return e.observers.subscribe(obs)
}

// Unsubscribe removes an observer
func (e *Engine) Unsubscribe(id int) {
	e.observers.unsubscribe(id)
}

// Evolution returns a detached copy of the current state
func (e *Engine) Evolution() ScenarioEvolution {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyState()
}

// Tick runs one pass of the evolution pipeline: advance regime age, apply
// drift, evaluate regime rules or advance the active transition, record
// and prune snapshots, recompute trends, notify observers. A tick that
// arrives while a prior tick is still executing is skipped.
func (e *Engine) Tick() error {
	if !e.mu.TryLock() {
		e.log.Warn().Msg("Tick skipped, previous tick still executing")
		return nil
	}

	var update ScenarioEvolution
	func() {
		defer e.mu.Unlock()

		now := e.clock.Now()
		dt := now.Sub(e.state.LastUpdate).Hours() / hoursPerYear
		if dt < 0 {
			dt = 0
		}
		e.state.LastUpdate = now
		e.state.RegimeAgeYears += dt

		// Interpolation owns the parameters while a transition is active
		if e.cfg.DriftEnabled && e.state.ActiveTransition == nil {
			e.driftParameters(dt)
		}

		condition, haveCondition := e.marketCondition()

		if e.state.ActiveTransition != nil {
			e.advanceTransition()
		} else if e.cfg.RegimeDetectionEnabled {
			if rule := e.evaluateRules(condition, haveCondition); rule != nil {
				e.beginTransition(rule, now)
			}
		}

		e.recordSnapshot(now, condition)
		e.pruneSnapshots(now)
		e.state.Trends = e.computeTrends()

		update = e.copyState()
	}()

	e.observers.notify(update)
	return nil
}

func (e *Engine) driftParameters(dt float64) {
	if dt == 0 {
		return
	}
	applied := 0
	for _, spec := range e.drifts {
		if _, ok := e.applyDrift(&e.state.CurrentParameters, spec, dt); ok {
			applied++
		} else {
			e.log.Warn().Str("parameter", string(spec.Parameter)).Msg("Unknown drift parameter")
		}
	}
	if applied > 0 && e.events != nil {
		e.events.Emit(events.ParameterDriftApplied, "evolution", map[string]interface{}{
			"scenario_id": e.state.CurrentScenario.ID,
			"parameters":  applied,
			"dt_years":    dt,
		})
	}
}

func (e *Engine) marketCondition() (domain.MarketCondition, bool) {
	if e.market == nil {
		return "", false
	}
	condition, err := e.market.Condition()
	if err != nil {
		e.log.Warn().Err(err).Msg("Market condition unavailable")
		return "", false
	}
	return condition, true
}

// beginTransition opens (or, for immediate rules, completes) the regime
// change described by a fired rule.
func (e *Engine) beginTransition(rule *RegimeChangeRule, now time.Time) {
	target, ok := e.findScenario(rule.ToScenarioID)
	if !ok {
		e.log.Error().Str("scenario_id", rule.ToScenarioID).Msg("Rule targets unknown scenario")
		return
	}

	transition := &ScenarioTransition{
		FromScenarioID: rule.FromScenarioID,
		ToScenarioID:   rule.ToScenarioID,
		Speed:          rule.TransitionSpeed,
		Reason:         transitionReason(rule),
		StartedAt:      now,
		startParams:    e.state.CurrentParameters.Clone(),
		target:         target,
	}

	if e.events != nil {
		e.events.Emit(events.RegimeTransitionStarted, "evolution", map[string]interface{}{
			"from":   rule.FromScenarioID,
			"to":     rule.ToScenarioID,
			"speed":  string(rule.TransitionSpeed),
			"reason": transition.Reason,
		})
	}

	if rule.TransitionSpeed == SpeedImmediate {
		transition.DurationTicks = 1
		transition.ElapsedTicks = 1
		e.completeTransition(transition)
		return
	}

	transition.DurationTicks = e.transitionTicks()
	e.state.ActiveTransition = transition
	e.log.Info().
		Str("from", rule.FromScenarioID).
		Str("to", rule.ToScenarioID).
		Int("duration_ticks", transition.DurationTicks).
		Msg("Regime transition opened")
}

// transitionTicks derives the tick count of a gradual/smooth transition
// from the configured duration and the cadence.
func (e *Engine) transitionTicks() int {
	ticks := int(e.cfg.TransitionDuration / e.cfg.Cadence.Interval())
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}

// advanceTransition moves the active transition forward one tick,
// interpolating parameters by completion progress: linearly for gradual,
// by smoothstep for smooth.
func (e *Engine) advanceTransition() {
	tr := e.state.ActiveTransition
	tr.ElapsedTicks++

	progress := float64(tr.ElapsedTicks) / float64(tr.DurationTicks)
	if progress >= 1 {
		e.completeTransition(tr)
		return
	}
	tr.CompletionProgress = progress

	f := progress
	if tr.Speed == SpeedSmooth {
		f = progress * progress * (3 - 2*progress)
	}

	for _, id := range domain.AllParameterIDs() {
		start, _ := tr.startParams.Value(id)
		end, _ := tr.target.Parameters.Value(id)
		e.state.CurrentParameters.SetValue(id, start+(end-start)*f)
	}
}

// completeTransition swaps in the target regime. Regime age resets to 0
// exactly here.
func (e *Engine) completeTransition(tr *ScenarioTransition) {
	e.state.CurrentScenario = tr.target
	e.state.CurrentParameters = tr.target.Parameters.Clone()
	e.state.RegimeAgeYears = 0
	e.state.ActiveTransition = nil

	e.log.Info().
		Str("from", tr.FromScenarioID).
		Str("to", tr.ToScenarioID).
		Msg("Regime transition completed")

	if e.events != nil {
		e.events.Emit(events.RegimeTransitionCompleted, "evolution", map[string]interface{}{
			"from":   tr.FromScenarioID,
			"to":     tr.ToScenarioID,
			"reason": tr.Reason,
		})
	}
}

func (e *Engine) recordSnapshot(now time.Time, condition domain.MarketCondition) {
	e.state.Snapshots = append(e.state.Snapshots, Snapshot{
		Timestamp:       now,
		ScenarioID:      e.state.CurrentScenario.ID,
		Parameters:      e.state.CurrentParameters.Clone(),
		MarketCondition: condition,
		RegimeAgeYears:  e.state.RegimeAgeYears,
	})
}

// pruneSnapshots drops snapshots older than the retention window
func (e *Engine) pruneSnapshots(now time.Time) {
	cutoff := now.Add(-time.Duration(e.cfg.RetentionYears * hoursPerYear * float64(time.Hour)))
	keepFrom := 0
	for keepFrom < len(e.state.Snapshots) && e.state.Snapshots[keepFrom].Timestamp.Before(cutoff) {
		keepFrom++
	}
	if keepFrom > 0 {
		e.state.Snapshots = append([]Snapshot(nil), e.state.Snapshots[keepFrom:]...)
	}
}

func (e *Engine) findScenario(id string) (domain.EconomicScenario, bool) {
	for _, s := range e.catalog {
		if s.ID == id {
			return s, true
		}
	}
	return domain.EconomicScenario{}, false
}

// copyState deep-copies the aggregate so callers and observers cannot
// reach engine-owned memory. Caller holds e.mu.
func (e *Engine) copyState() ScenarioEvolution {
	cp := e.state
	cp.CurrentParameters = e.state.CurrentParameters.Clone()
	cp.Snapshots = make([]Snapshot, len(e.state.Snapshots))
	for i, s := range e.state.Snapshots {
		cp.Snapshots[i] = s
		cp.Snapshots[i].Parameters = s.Parameters.Clone()
	}
	cp.Trends = append([]ParameterTrend(nil), e.state.Trends...)
	if e.state.ActiveTransition != nil {
		tr := *e.state.ActiveTransition
		cp.ActiveTransition = &tr
	}
	return cp
}
