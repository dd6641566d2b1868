package comparison

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/modules/scenarios"
)

// Handler handles comparison HTTP requests
type Handler struct {
	service   *Service
	scenarios *scenarios.Service
	catalog   []domain.EconomicScenario
	log       zerolog.Logger
}

// NewHandler creates a comparison handler
func NewHandler(service *Service, scenarioSvc *scenarios.Service, catalog []domain.EconomicScenario, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		scenarios: scenarioSvc,
		catalog:   catalog,
		log:       log.With().Str("handler", "comparison").Logger(),
	}
}

// Routes mounts the comparison routes
func (h *Handler) Routes(r chi.Router) {
	r.Post("/compare", h.HandleCompare)
	r.Post("/rank", h.HandleRank)
	r.Post("/visualization", h.HandleVisualization)
	r.Post("/sensitivity", h.HandleSensitivity)
}

// HandleCompare simulates two catalog scenarios and compares them
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioA string                    `json:"scenario_a"`
		ScenarioB string                    `json:"scenario_b"`
		Base      domain.InvestmentScenario `json:"base"`
		Weights   ScoreWeights              `json:"weights"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, ok := h.simulateAll(w, []string{req.ScenarioA, req.ScenarioB}, req.Base)
	if !ok {
		return
	}

	summary, err := h.service.Compare(results[0], results[1], req.Weights)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// HandleRank simulates the requested scenarios and ranks them for the
// given risk tolerance.
func (h *Handler) HandleRank(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioIDs   []string                  `json:"scenario_ids"`
		Base          domain.InvestmentScenario `json:"base"`
		Weights       ScoreWeights              `json:"weights"`
		RiskTolerance domain.RiskTolerance      `json:"risk_tolerance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ids := req.ScenarioIDs
	if len(ids) == 0 {
		for _, s := range h.catalog {
			ids = append(ids, s.ID)
		}
	}

	results, ok := h.simulateAll(w, ids, req.Base)
	if !ok {
		return
	}

	ranked, err := h.service.Rank(results, req.Weights, req.RiskTolerance)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"risk_tolerance": req.RiskTolerance,
		"rankings":       ranked,
	})
}

// HandleVisualization returns chart-ready derivations for a scenario set
func (h *Handler) HandleVisualization(w http.ResponseWriter, r *http.Request) {
	results, ok := h.decodeAndSimulate(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.PrepareVisualizationData(results))
}

// HandleSensitivity returns parameter-impact buckets for a scenario set
func (h *Handler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	results, ok := h.decodeAndSimulate(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"impacts": h.service.AnalyzeSensitivity(results),
	})
}

// Helper methods

func (h *Handler) decodeAndSimulate(w http.ResponseWriter, r *http.Request) ([]*domain.ScenarioResult, bool) {
	var req struct {
		ScenarioIDs []string                  `json:"scenario_ids"`
		Base        domain.InvestmentScenario `json:"base"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	ids := req.ScenarioIDs
	if len(ids) == 0 {
		for _, s := range h.catalog {
			ids = append(ids, s.ID)
		}
	}

	return h.simulateAll(w, ids, req.Base)
}

func (h *Handler) simulateAll(w http.ResponseWriter, ids []string, base domain.InvestmentScenario) ([]*domain.ScenarioResult, bool) {
	results := make([]*domain.ScenarioResult, 0, len(ids))
	for _, id := range ids {
		econ, ok := scenarios.FindScenario(h.catalog, id)
		if !ok {
			h.writeError(w, http.StatusNotFound, "Unknown scenario: "+id)
			return nil, false
		}
		result, err := h.scenarios.RunScenarioSimulation(econ, base)
		if err != nil {
			h.log.Error().Err(err).Str("scenario", id).Msg("Simulation failed")
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return nil, false
		}
		results = append(results, result)
	}
	return results, true
}

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
