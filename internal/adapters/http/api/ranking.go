// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// RankingHandler handles ranking requests.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleGet handles GET /api/ranking. The endpoint takes no input, so
// its only failure mode is an internal one.
func (h *RankingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.Ranking(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranking": entries})
}
