package evolution

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler exposes evolution engine control and state
type Handler struct {
	engine *Engine
	log    zerolog.Logger
}

// NewHandler creates an evolution handler
func NewHandler(engine *Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "evolution").Logger(),
	}
}

// Routes mounts the evolution routes
func (h *Handler) Routes(r chi.Router) {
	r.Post("/start", h.HandleStart)
	r.Post("/stop", h.HandleStop)
	r.Post("/tick", h.HandleTick)
	r.Get("/state", h.HandleState)
	r.Get("/trends", h.HandleTrends)
}

// HandleStart begins the periodic tick. Idempotent.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Start(); err != nil {
		h.log.Error().Err(err).Msg("Failed to start evolution")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"running": true})
}

// HandleStop halts the periodic tick. Idempotent.
func (h *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	h.engine.Stop()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"running": false})
}

// HandleTick runs one evolution pass immediately, outside the schedule
func (h *Handler) HandleTick(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Tick(); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, h.engine.Evolution())
}

// HandleState returns the full evolution aggregate
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	state := h.engine.Evolution()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.engine.Running(),
		"state":   state,
	})
}

// HandleTrends returns only the parameter trends
func (h *Handler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"trends": h.engine.Evolution().Trends,
	})
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
