package montecarlo

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/domain"
)

// Handler handles raw simulation HTTP requests
type Handler struct {
	defaults domain.SimulationConfig
	log      zerolog.Logger
}

// NewHandler creates a simulation handler with the given default config
func NewHandler(defaults domain.SimulationConfig, log zerolog.Logger) *Handler {
	return &Handler{
		defaults: defaults,
		log:      log.With().Str("handler", "montecarlo").Logger(),
	}
}

// Routes mounts the simulation routes
func (h *Handler) Routes(r chi.Router) {
	r.Post("/run", h.HandleRun)
	r.Get("/validate", h.HandleValidateGenerator)
}

// HandleRun runs a single Monte Carlo simulation of an investment
// scenario supplied in the request body.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario   domain.InvestmentScenario `json:"scenario"`
		Iterations int                       `json:"iterations,omitempty"`
		Seed       *int64                    `json:"seed,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg := h.defaults
	if req.Iterations > 0 {
		cfg.Iterations = req.Iterations
	}
	if req.Seed != nil {
		cfg.Seed = req.Seed
	}

	engine := New(cfg, h.log)
	result, err := engine.Run(req.Scenario)
	if err != nil {
		h.log.Error().Err(err).Msg("Simulation failed")
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleValidateGenerator runs the chi-square uniformity check on a
// fresh generator.
func (h *Handler) HandleValidateGenerator(w http.ResponseWriter, r *http.Request) {
	sampleSize := 10000
	if raw := r.URL.Query().Get("samples"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "samples must be an integer")
			return
		}
		sampleSize = parsed
	}

	engine := New(h.defaults, h.log)
	check, err := engine.ValidateGenerator(sampleSize)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, check)
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
