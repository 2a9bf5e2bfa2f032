// Package corpus loads and caches the static event, fighter and
// participant data consumed by the ranking and validation paths.
//
// The corpus is immutable per snapshot; a deployment replaces the files
// wholesale and calls Invalidate so subsequent reads pick up the new
// data. The cache is explicit state owned by the caller, not a package
// singleton, so tests can run isolated corpora side by side.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kohrong/pronosticos-mma/internal/domain/model"
)

// Corpus file names inside the data directory.
const (
	eventsFile       = "pronosticos.json"
	fightersFile     = "peleadores.json"
	participantsFile = "participantes.json"
)

// Corpus is one immutable snapshot of the static content.
type Corpus struct {
	Events       []model.Event
	Fighters     map[string]model.Fighter
	Participants map[string]model.Participant

	eventsByName   map[string]int
	participantIDs []string
}

// EventByName looks an event up by its unique name.
func (c *Corpus) EventByName(name string) (model.Event, bool) {
	i, ok := c.eventsByName[name]
	if !ok {
		return model.Event{}, false
	}
	return c.Events[i], true
}

// ParticipantIDs returns the special-participant ids in sorted order.
// This is the seed order for ranking, which keeps tie-breaks
// deterministic across runs.
func (c *Corpus) ParticipantIDs() []string { return c.participantIDs }

// FighterName returns the display name for a fighter id, falling back
// to the id itself for fighters missing from the corpus.
func (c *Corpus) FighterName(id string) string {
	if f, ok := c.Fighters[id]; ok && f.Name != "" {
		return f.Name
	}
	return id
}

// FighterPhoto returns the photo reference for a fighter id, or empty.
func (c *Corpus) FighterPhoto(id string) string {
	return c.Fighters[id].Photo
}

// Cache holds the current corpus snapshot, loading lazily on first use
// and reloading after Invalidate.
type Cache struct {
	mu  sync.RWMutex
	dir string
	cur *Corpus
}

// NewCache creates a cache reading from the given data directory.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Load reads the corpus from disk and replaces the cached snapshot.
func (c *Cache) Load(ctx context.Context) error {
	snap, err := loadDir(ctx, c.dir)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cur = snap
	c.mu.Unlock()
	return nil
}

// Get returns the cached snapshot, loading it first if necessary.
func (c *Cache) Get(ctx context.Context) (*Corpus, error) {
	c.mu.RLock()
	cur := c.cur
	c.mu.RUnlock()
	if cur != nil {
		return cur, nil
	}
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur, nil
}

// Invalidate drops the cached snapshot. Idempotent; the next Get
// reloads from disk.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cur = nil
	c.mu.Unlock()
}

func loadDir(ctx context.Context, dir string) (*Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	var events struct {
		Events []model.Event `json:"eventos"`
	}
	if err := readJSON(filepath.Join(dir, eventsFile), &events); err != nil {
		return nil, err
	}

	var fighters struct {
		Fighters map[string]model.Fighter `json:"peleadores"`
	}
	if err := readJSON(filepath.Join(dir, fightersFile), &fighters); err != nil {
		return nil, err
	}

	var participants struct {
		Participants map[string]model.Participant `json:"participantes"`
	}
	if err := readJSON(filepath.Join(dir, participantsFile), &participants); err != nil {
		return nil, err
	}

	snap := &Corpus{
		Events:       events.Events,
		Fighters:     fighters.Fighters,
		Participants: participants.Participants,
		eventsByName: make(map[string]int, len(events.Events)),
	}
	if snap.Fighters == nil {
		snap.Fighters = map[string]model.Fighter{}
	}
	if snap.Participants == nil {
		snap.Participants = map[string]model.Participant{}
	}
	for i, ev := range snap.Events {
		snap.eventsByName[ev.Name] = i
	}
	snap.participantIDs = make([]string, 0, len(snap.Participants))
	for id := range snap.Participants {
		snap.participantIDs = append(snap.participantIDs, id)
	}
	sort.Strings(snap.participantIDs)
	return snap, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoad, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoad, filepath.Base(path), err)
	}
	return nil
}
