// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kohrong/pronosticos-mma/internal/adapters/identity"
	"github.com/kohrong/pronosticos-mma/internal/app"
	"github.com/kohrong/pronosticos-mma/internal/domain/model"
	"github.com/kohrong/pronosticos-mma/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Submit(ctx context.Context, in app.SubmitInput) (model.Prediction, error)
	Predictions(ctx context.Context, userID string) ([]model.Prediction, error)
	Ranking(ctx context.Context) ([]model.RankingEntry, error)
	Events(ctx context.Context) ([]app.EventStatus, error)
	Fighters(ctx context.Context) (map[string]model.Fighter, error)
	ReloadCorpus(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	predictionsHandler *PredictionsHandler
	rankingHandler     *RankingHandler
	eventsHandler      *EventsHandler
	adminHandler       *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, auth identity.Provider, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		predictionsHandler: NewPredictionsHandler(deps, auth),
		rankingHandler:     NewRankingHandler(deps),
		eventsHandler:      NewEventsHandler(deps),
		adminHandler:       NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/predictions", MetricsMiddleware(s.predictionsHandler.HandleGet, "predictions")).Methods(http.MethodGet)
	api.HandleFunc("/predictions", MetricsMiddleware(s.predictionsHandler.HandlePost, "predictions")).Methods(http.MethodPost)
	api.HandleFunc("/ranking", MetricsMiddleware(s.rankingHandler.HandleGet, "ranking")).Methods(http.MethodGet)
	api.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleGet, "events")).Methods(http.MethodGet)
	api.HandleFunc("/admin/reload", MetricsMiddleware(s.adminHandler.HandleReload, "admin_reload")).Methods(http.MethodPost)
}

// predictionView is the wire shape of one stored prediction row.
type predictionView struct {
	EventID    string `json:"eventoId"`
	FightIndex int    `json:"peleaIndex"`
	Fighter    string `json:"peleadorElegido"`
}

func toPredictionView(p model.Prediction) predictionView {
	return predictionView{EventID: p.EventID, FightIndex: p.FightIndex, Fighter: p.Fighter}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service failures into the stable reason
// codes of the API. Validation kinds map one to one; anything else is an
// internal error with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, app.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrEventClosed):
		writeError(w, http.StatusForbidden, "forbidden", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
