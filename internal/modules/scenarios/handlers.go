package scenarios

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/modules/results"
)

// Handler handles scenario HTTP requests
type Handler struct {
	service *Service
	catalog []domain.EconomicScenario
	cache   *results.Repository // nil disables result caching
	log     zerolog.Logger
}

// NewHandler creates a new scenario handler
func NewHandler(service *Service, catalog []domain.EconomicScenario, cache *results.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		catalog: catalog,
		cache:   cache,
		log:     log.With().Str("handler", "scenarios").Logger(),
	}
}

// Routes mounts the scenario routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleListScenarios)
	r.Post("/{id}/simulate", h.HandleSimulateScenario)
	r.Post("/analyze", h.HandleAnalyze)
}

// HandleListScenarios returns the scenario catalog
func (h *Handler) HandleListScenarios(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": h.catalog,
		"baseline":  BaselineScenarioID,
	})
}

// HandleSimulateScenario runs one catalog scenario against a base
// investment supplied in the request body.
func (h *Handler) HandleSimulateScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	econ, ok := FindScenario(h.catalog, id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Unknown scenario: "+id)
		return
	}

	var base domain.InvestmentScenario
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cacheKey := ""
	if h.cache != nil {
		key, err := results.Key(econ, base, h.service.SimulationConfig())
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to derive cache key")
		} else {
			cacheKey = key
			if cached, ok, err := h.cache.Get(key); err != nil {
				h.log.Warn().Err(err).Msg("Result cache read failed")
			} else if ok {
				h.writeJSON(w, http.StatusOK, cached)
				return
			}
		}
	}

	result, err := h.service.RunScenarioSimulation(econ, base)
	if err != nil {
		h.log.Error().Err(err).Str("scenario", id).Msg("Scenario simulation failed")
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if h.cache != nil && cacheKey != "" {
		if err := h.cache.Save(cacheKey, result); err != nil {
			h.log.Warn().Err(err).Msg("Result cache write failed")
		}
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleAnalyze simulates a set of scenarios (all catalog scenarios when
// no ids are given) and returns rankings, correlations, and
// recommendations.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioIDs []string                  `json:"scenario_ids"`
		Base        domain.InvestmentScenario `json:"base"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	selected := h.catalog
	if len(req.ScenarioIDs) > 0 {
		selected = make([]domain.EconomicScenario, 0, len(req.ScenarioIDs))
		for _, id := range req.ScenarioIDs {
			econ, ok := FindScenario(h.catalog, id)
			if !ok {
				h.writeError(w, http.StatusNotFound, "Unknown scenario: "+id)
				return
			}
			selected = append(selected, econ)
		}
	}

	comparison, err := h.service.RunScenarioAnalysis(selected, req.Base)
	if err != nil {
		h.log.Error().Err(err).Msg("Scenario analysis failed")
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, comparison)
}

// Helper methods

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
