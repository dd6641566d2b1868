package results

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler exposes the result store
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a results handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "results").Logger(),
	}
}

// Routes mounts the result store routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{key}", h.HandleGet)
	r.Post("/prune", h.HandlePrune)
}

// HandleGet returns a stored result by its cache key
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	result, ok, err := h.repo.Get(key)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Result lookup failed")
		h.writeError(w, http.StatusInternalServerError, "Result lookup failed")
		return
	}
	if !ok {
		h.writeError(w, http.StatusNotFound, "No result for key")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandlePrune deletes expired records and reports the count
func (h *Handler) HandlePrune(w http.ResponseWriter, r *http.Request) {
	pruned, err := h.repo.PruneExpired()
	if err != nil {
		h.log.Error().Err(err).Msg("Prune failed")
		h.writeError(w, http.StatusInternalServerError, "Prune failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"pruned": pruned})
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
