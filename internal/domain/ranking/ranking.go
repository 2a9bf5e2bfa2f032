// Package ranking aggregates prediction outcomes across the static
// corpus and user-submitted predictions, and assembles the merged
// leaderboard ordered by Wilson score.
package ranking

import (
	"sort"

	"github.com/kohrong/pronosticos-mma/internal/domain/model"
	"github.com/kohrong/pronosticos-mma/internal/domain/scoring"
)

// Tally counts decided predictions for one predictor.
type Tally struct {
	Hits  int
	Total int
}

// Tallies maps predictor id to its tally while preserving the order in
// which predictors were first seen. The ranking's stable sort depends on
// that order, so it must be deterministic: callers seed special
// participants first, then user predictions are counted in input order.
type Tallies struct {
	order []string
	byID  map[string]*Tally
}

// NewTallies returns an empty tally set.
func NewTallies() *Tallies {
	return &Tallies{byID: make(map[string]*Tally)}
}

// Seed ensures id is present with a zero tally.
func (t *Tallies) Seed(id string) {
	t.tally(id)
}

// Add counts one decided prediction for id.
func (t *Tallies) Add(id string, hit bool) {
	tl := t.tally(id)
	tl.Total++
	if hit {
		tl.Hits++
	}
}

// Get returns the tally for id.
func (t *Tallies) Get(id string) (Tally, bool) {
	tl, ok := t.byID[id]
	if !ok {
		return Tally{}, false
	}
	return *tl, true
}

// IDs returns predictor ids in first-seen order.
func (t *Tallies) IDs() []string { return t.order }

// Len returns the number of known predictors, including zero tallies.
func (t *Tallies) Len() int { return len(t.order) }

func (t *Tallies) tally(id string) *Tally {
	if tl, ok := t.byID[id]; ok {
		return tl
	}
	tl := &Tally{}
	t.byID[id] = tl
	t.order = append(t.order, id)
	return tl
}

type fightKey struct {
	event string
	index int
}

// Aggregate walks every fight of every event and tallies the static
// baked-in picks together with the user predictions addressed to that
// exact event and fight index.
//
// Undecided fights contribute nothing to anyone's total. seeds are
// registered up front with zero tallies so special participants who
// never hit a decided fight still exist (they are dropped later, at the
// ranking stage). A user prediction whose fight index is out of range
// for its event, or whose event is not in the corpus, simply never
// matches a fight and is ignored.
func Aggregate(events []model.Event, seeds []string, predictions []model.Prediction) *Tallies {
	t := NewTallies()
	for _, id := range seeds {
		t.Seed(id)
	}

	byFight := make(map[fightKey][]model.Prediction, len(predictions))
	for _, p := range predictions {
		k := fightKey{event: p.EventID, index: p.FightIndex}
		byFight[k] = append(byFight[k], p)
	}

	for _, ev := range events {
		for i, fight := range ev.Fights {
			if !fight.Decided() {
				continue
			}
			// Map iteration order is random; walk picks sorted so a
			// non-seeded id always lands in the same slot.
			for _, id := range sortedPickIDs(fight.Picks) {
				t.Add(id, fight.Picks[id] == fight.Winner)
			}
			for _, p := range byFight[fightKey{event: ev.Name, index: i}] {
				t.Add(p.UserID, p.Fighter == fight.Winner)
			}
		}
	}
	return t
}

func sortedPickIDs(picks map[string]string) []string {
	ids := make([]string, 0, len(picks))
	for id := range picks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Identity supplies display data for a ranked predictor.
type Identity struct {
	Name    string
	Avatar  string
	Special bool
}

// Rank converts tallies into the ordered ranking. Predictors with zero
// decided predictions are excluded entirely. The sort is stable and
// descending by score, so equal scores keep first-seen order and two
// calls over the same inputs yield the same sequence.
func Rank(t *Tallies, confidence float64, resolve func(id string) Identity) []model.RankingEntry {
	entries := make([]model.RankingEntry, 0, t.Len())
	for _, id := range t.IDs() {
		tally, _ := t.Get(id)
		if tally.Total == 0 {
			continue
		}
		who := resolve(id)
		if who.Avatar == "" {
			who.Avatar = model.DefaultAvatar
		}
		entries = append(entries, model.RankingEntry{
			ID:         id,
			Name:       who.Name,
			Avatar:     who.Avatar,
			Hits:       tally.Hits,
			Total:      tally.Total,
			Percentage: 100 * float64(tally.Hits) / float64(tally.Total),
			Score:      scoring.ScoreAt(tally.Hits, tally.Total, confidence),
			Special:    who.Special,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
