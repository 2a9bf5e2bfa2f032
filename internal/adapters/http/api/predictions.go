// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/kohrong/pronosticos-mma/internal/adapters/identity"
	"github.com/kohrong/pronosticos-mma/internal/app"
)

// PredictionsHandler handles the per-user prediction endpoints.
type PredictionsHandler struct {
	deps Dependencies
	auth identity.Provider
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps Dependencies, auth identity.Provider) *PredictionsHandler {
	return &PredictionsHandler{deps: deps, auth: auth}
}

// predictionRequest mirrors the POST /api/predictions body. FightIndex
// is a pointer so a missing field is distinguishable from index 0.
type predictionRequest struct {
	EventID    string `json:"eventoId"`
	FightIndex *int   `json:"peleaIndex"`
	Fighter    string `json:"peleadorElegido"`
}

// HandleGet handles GET /api/predictions: the caller's own rows.
func (h *PredictionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.auth.FromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", app.ErrUnauthorized)
		return
	}

	rows, err := h.deps.Predictions(r.Context(), ident.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]predictionView, len(rows))
	for i, row := range rows {
		views[i] = toPredictionView(row)
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": views})
}

// HandlePost handles POST /api/predictions: validate and upsert one pick.
func (h *PredictionsHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.auth.FromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", app.ErrUnauthorized)
		return
	}

	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", ErrMalformedBody)
		return
	}
	if req.EventID == "" || req.FightIndex == nil || req.Fighter == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", ErrMissingFields)
		return
	}

	row, err := h.deps.Submit(r.Context(), app.SubmitInput{
		UserID:     ident.ID,
		UserName:   ident.Name,
		UserAvatar: ident.Avatar,
		EventID:    req.EventID,
		FightIndex: *req.FightIndex,
		Fighter:    req.Fighter,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prediction": toPredictionView(row)})
}
