// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/kohrong/pronosticos-mma/internal/domain/model"
)

// EventsHandler serves the event cards: fights with resolved fighter
// display data plus the open/closed flag for the prediction form.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type fighterView struct {
	ID       string `json:"id"`
	Name     string `json:"nombre"`
	Nickname string `json:"apodo,omitempty"`
	Photo    string `json:"foto,omitempty"`
}

type fightView struct {
	Fighter1 fighterView       `json:"peleador1"`
	Fighter2 fighterView       `json:"peleador2"`
	Winner   string            `json:"ganador,omitempty"`
	Picks    map[string]string `json:"pronosticos"`
}

type eventView struct {
	Name     string      `json:"nombre"`
	Date     string      `json:"fecha"`
	Time     string      `json:"hora,omitempty"`
	Timezone string      `json:"timezone,omitempty"`
	Open     bool        `json:"abierto"`
	Fights   []fightView `json:"peleas"`
}

// HandleGet handles GET /api/events.
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.Events(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	fighters, err := h.deps.Fighters(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]eventView, len(events))
	for i, ev := range events {
		fights := make([]fightView, len(ev.Fights))
		for j, fight := range ev.Fights {
			fights[j] = fightView{
				Fighter1: toFighterView(fighters, fight.Fighter1),
				Fighter2: toFighterView(fighters, fight.Fighter2),
				Winner:   fight.Winner,
				Picks:    fight.Picks,
			}
		}
		views[i] = eventView{
			Name:     ev.Name,
			Date:     ev.Date,
			Time:     ev.Time,
			Timezone: ev.Timezone,
			Open:     ev.Open,
			Fights:   fights,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"eventos": views})
}

// toFighterView resolves display data, falling back to the raw id for
// fighters missing from the corpus.
func toFighterView(fighters map[string]model.Fighter, id string) fighterView {
	v := fighterView{ID: id, Name: id}
	if f, ok := fighters[id]; ok {
		if f.Name != "" {
			v.Name = f.Name
		}
		v.Nickname = f.Nickname
		v.Photo = f.Photo
	}
	return v
}
