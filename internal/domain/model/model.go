// Package model contains domain models passed between layers.
package model

// DefaultAvatar is served whenever a participant or user has no avatar
// of their own.
const DefaultAvatar = "assets/logo.jpeg"

// Fighter describes one fighter from the static corpus.
// JSON field names follow the corpus wire format.
type Fighter struct {
	Name     string `json:"nombre"`
	Nickname string `json:"apodo,omitempty"`
	Photo    string `json:"foto,omitempty"`
}

// Participant is a pre-seeded predictor shipped with the static corpus,
// not backed by a user account.
type Participant struct {
	Name   string `json:"nombre"`
	Avatar string `json:"avatar,omitempty"`
}

// Fight pairs two fighters. Winner stays empty until the fight is
// decided; when set it equals Fighter1 or Fighter2, never a third id.
// Picks maps special-participant id to the fighter that participant chose.
type Fight struct {
	Fighter1 string            `json:"peleador1"`
	Fighter2 string            `json:"peleador2"`
	Winner   string            `json:"ganador,omitempty"`
	Picks    map[string]string `json:"pronosticos"`
}

// HasFighter reports whether id is one of the fight's two slots.
func (f Fight) HasFighter(id string) bool {
	return id == f.Fighter1 || id == f.Fighter2
}

// Decided reports whether the fight has an official winner.
func (f Fight) Decided() bool { return f.Winner != "" }

// Event is one card of fights. Name is unique across the corpus and is
// used as the foreign key on stored predictions. Time and Timezone are
// optional; see the gating package for how the cutoff is derived.
type Event struct {
	Name     string  `json:"nombre"`
	Date     string  `json:"fecha"`
	Time     string  `json:"hora,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
	Fights   []Fight `json:"peleas"`
}

// Prediction is one registered user's stored pick. The triple
// (UserID, EventID, FightIndex) identifies the slot; resubmissions
// overwrite Fighter in place. UserName and UserAvatar carry the owner's
// display identity so ranking reads need no second lookup.
type Prediction struct {
	ID         string
	UserID     string
	UserName   string
	UserAvatar string
	EventID    string
	FightIndex int
	Fighter    string
}

// RankingEntry is one row of the merged ranking. Derived on every read,
// never persisted.
type RankingEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"nombre"`
	Avatar     string  `json:"avatar"`
	Hits       int     `json:"aciertos"`
	Total      int     `json:"total"`
	Percentage float64 `json:"porcentaje"`
	Score      float64 `json:"score"`
	Special    bool    `json:"isSpecial"`
}
