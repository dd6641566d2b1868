package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	appconfig "github.com/quantforge/macrosim/internal/config"
	"github.com/quantforge/macrosim/internal/modules/evolution"
	"github.com/quantforge/macrosim/internal/modules/results"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	startedAt time.Time
	cfg       *appconfig.Config
	engine    *evolution.Engine
	repo      *results.Repository
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(cfg *appconfig.Config, engine *evolution.Engine, repo *results.Repository, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		startedAt: time.Now(),
		cfg:       cfg,
		engine:    engine,
		repo:      repo,
	}
}

// HandleStatus reports uptime, engine defaults, and evolution state
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"defaults": map[string]interface{}{
			"iterations":        h.cfg.Iterations,
			"seed_fixed":        h.cfg.SeedSet,
			"evolution_cadence": h.cfg.EvolutionCadence,
		},
	}

	if h.engine != nil {
		state := h.engine.Evolution()
		evo := map[string]interface{}{
			"running":          h.engine.Running(),
			"current_scenario": state.CurrentScenario.ID,
			"regime_age_years": state.RegimeAgeYears,
			"snapshots":        len(state.Snapshots),
			"transitioning":    state.ActiveTransition != nil,
		}
		if state.ActiveTransition != nil {
			evo["transition_progress"] = state.ActiveTransition.CompletionProgress
		}
		status["evolution"] = evo
	}

	if h.repo != nil {
		if n, err := h.repo.Count(); err == nil {
			status["stored_results"] = n
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode status response")
	}
}
