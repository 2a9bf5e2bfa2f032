// Package app wires the static corpus, the prediction store and the
// domain rules into the service backing the HTTP API.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kohrong/pronosticos-mma/internal/adapters/corpus"
	"github.com/kohrong/pronosticos-mma/internal/adapters/repository"
	"github.com/kohrong/pronosticos-mma/internal/domain/gating"
	"github.com/kohrong/pronosticos-mma/internal/domain/model"
	"github.com/kohrong/pronosticos-mma/internal/domain/ranking"
	"github.com/kohrong/pronosticos-mma/internal/domain/scoring"
	"github.com/kohrong/pronosticos-mma/pkg/logger"
	"github.com/kohrong/pronosticos-mma/pkg/metrics"
)

// fallbackUserName labels users whose identity carries no display name.
const fallbackUserName = "Usuario"

// Service implements the API dependencies for the prediction system.
type Service struct {
	mu sync.RWMutex

	// Core components
	corpus *corpus.Cache
	store  repository.Store
	gate   *gating.Checker

	// Configuration
	dataDir     string
	databaseURL string
	defaultZone string
	confidence  float64
	now         func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the static corpus directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithDatabaseURL sets the Postgres connection string. Empty keeps the
// in-memory store.
func WithDatabaseURL(url string) Option {
	return func(s *Service) {
		s.databaseURL = url
	}
}

// WithDefaultZone sets the fallback timezone for timed events.
func WithDefaultZone(zone string) Option {
	return func(s *Service) {
		if zone != "" {
			s.defaultZone = zone
		}
	}
}

// WithConfidence sets the Wilson score confidence level.
func WithConfidence(confidence float64) Option {
	return func(s *Service) {
		if confidence > 0 && confidence < 1 {
			s.confidence = confidence
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock injects the time source consulted by event gating. Tests
// pin it to exercise the cutoff boundary deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStore injects a prediction store, bypassing the database_url
// selection. Used by tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:     "datos",
		defaultZone: gating.DefaultZone,
		confidence:  scoring.DefaultConfidence,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the corpus and connects the prediction store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.gate = gating.New(gating.WithDefaultZone(s.defaultZone))

	s.corpus = corpus.NewCache(s.dataDir)
	if err := s.corpus.Load(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	snap, err := s.corpus.Get(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	metrics.UpdateCorpusStats(len(snap.Events), len(snap.Participants))

	if s.store == nil {
		if s.databaseURL != "" {
			store, err := repository.OpenPostgres(ctx, s.databaseURL)
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using postgres prediction store")
		} else {
			s.store = repository.NewMemoryStore()
			s.logger.Warn(ctx, "no database_url configured; predictions are not persisted")
		}
	}

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.String("dataDir", s.dataDir),
		logger.Int("events", len(snap.Events)),
		logger.Int("participants", len(snap.Participants)),
	)
	return nil
}

// Stop releases the prediction store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "closing prediction store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

// SubmitInput carries one prediction submission.
type SubmitInput struct {
	UserID     string
	UserName   string
	UserAvatar string
	EventID    string
	FightIndex int
	Fighter    string
}

// Submit validates one incoming prediction against the live corpus and
// performs the idempotent upsert. Validation order and failure kinds:
//
//	no user            -> ErrUnauthorized
//	missing fields     -> ErrInvalidInput
//	unknown event      -> ErrNotFound
//	event closed       -> ErrEventClosed
//	fight index bounds -> ErrNotFound
//	fighter not in bout-> ErrInvalidInput
//
// On success exactly one row reflects the user's latest choice for the
// fight; no history of prior choices is kept.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (model.Prediction, error) {
	if in.UserID == "" {
		return model.Prediction{}, s.reject(ctx, "unauthorized", ErrUnauthorized)
	}
	if in.EventID == "" || in.Fighter == "" {
		return model.Prediction{}, s.reject(ctx, "invalid_input",
			fmt.Errorf("%w: eventoId and peleadorElegido are required", ErrInvalidInput))
	}

	snap, err := s.corpus.Get(ctx)
	if err != nil {
		metrics.RecordPredictionRejected("internal")
		return model.Prediction{}, err
	}

	ev, ok := snap.EventByName(in.EventID)
	if !ok {
		return model.Prediction{}, s.reject(ctx, "not_found",
			fmt.Errorf("%w: event %q", ErrNotFound, in.EventID))
	}
	if !s.gate.IsOpen(ev, s.now()) {
		return model.Prediction{}, s.reject(ctx, "forbidden",
			fmt.Errorf("%w: %q", ErrEventClosed, in.EventID))
	}
	if in.FightIndex < 0 || in.FightIndex >= len(ev.Fights) {
		return model.Prediction{}, s.reject(ctx, "not_found",
			fmt.Errorf("%w: fight %d in event %q", ErrNotFound, in.FightIndex, in.EventID))
	}
	fight := ev.Fights[in.FightIndex]
	if !fight.HasFighter(in.Fighter) {
		return model.Prediction{}, s.reject(ctx, "invalid_input",
			fmt.Errorf("%w: fighter %q is not part of this fight", ErrInvalidInput, in.Fighter))
	}

	start := time.Now()
	row, err := s.store.Upsert(ctx, model.Prediction{
		UserID:     in.UserID,
		UserName:   in.UserName,
		UserAvatar: in.UserAvatar,
		EventID:    in.EventID,
		FightIndex: in.FightIndex,
		Fighter:    in.Fighter,
	})
	metrics.RecordStoreUpsertLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordPredictionRejected("internal")
		return model.Prediction{}, err
	}

	metrics.RecordPredictionSubmitted()
	s.logger.Debug(ctx, "prediction stored",
		logger.String("user", in.UserID),
		logger.String("event", in.EventID),
		logger.Int("fight", in.FightIndex),
		logger.String("fighter", in.Fighter),
	)
	return row, nil
}

func (s *Service) reject(ctx context.Context, reason string, err error) error {
	metrics.RecordPredictionRejected(reason)
	s.logger.Debug(ctx, "prediction rejected", logger.String("reason", reason), logger.Error(err))
	return err
}

// Predictions returns the caller's own stored rows.
func (s *Service) Predictions(ctx context.Context, userID string) ([]model.Prediction, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	start := time.Now()
	rows, err := s.store.ListByUser(ctx, userID)
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ranking recomputes the merged ranking across special participants and
// registered users. Nothing is persisted; the result reflects whatever
// the store returned at call time.
func (s *Service) Ranking(ctx context.Context) ([]model.RankingEntry, error) {
	start := time.Now()

	snap, err := s.corpus.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	tallies := ranking.Aggregate(snap.Events, snap.ParticipantIDs(), rows)

	// First row per user wins for display identity, matching row order.
	users := make(map[string]ranking.Identity, len(rows))
	for _, row := range rows {
		if _, ok := users[row.UserID]; ok {
			continue
		}
		name := row.UserName
		if name == "" {
			name = fallbackUserName
		}
		users[row.UserID] = ranking.Identity{Name: name, Avatar: row.UserAvatar}
	}

	entries := ranking.Rank(tallies, s.confidence, func(id string) ranking.Identity {
		if p, ok := snap.Participants[id]; ok {
			return ranking.Identity{Name: p.Name, Avatar: p.Avatar, Special: true}
		}
		if who, ok := users[id]; ok {
			return who
		}
		return ranking.Identity{Name: fallbackUserName}
	})

	metrics.RecordRankingComputed(float64(time.Since(start).Milliseconds()), len(entries))
	return entries, nil
}

// EventStatus is an event plus its gating state at read time.
type EventStatus struct {
	model.Event
	Open bool `json:"abierto"`
}

// Events returns the corpus events with their current open flag.
func (s *Service) Events(ctx context.Context) ([]EventStatus, error) {
	snap, err := s.corpus.Get(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]EventStatus, len(snap.Events))
	for i, ev := range snap.Events {
		out[i] = EventStatus{Event: ev, Open: s.gate.IsOpen(ev, now)}
	}
	return out, nil
}

// Fighters returns the corpus fighter collection.
func (s *Service) Fighters(ctx context.Context) (map[string]model.Fighter, error) {
	snap, err := s.corpus.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Fighters, nil
}

// ReloadCorpus drops the cached corpus and loads the current files.
// Idempotent; meant to be called after a deployment replaces the data
// directory.
func (s *Service) ReloadCorpus(ctx context.Context) error {
	s.corpus.Invalidate()
	metrics.RecordCorpusReload()
	if err := s.corpus.Load(ctx); err != nil {
		return err
	}
	snap, err := s.corpus.Get(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateCorpusStats(len(snap.Events), len(snap.Participants))
	s.logger.Info(ctx, "corpus reloaded",
		logger.Int("events", len(snap.Events)),
		logger.Int("participants", len(snap.Participants)),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"dataDir": s.dataDir,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	if snap, err := s.corpus.Get(ctx); err == nil {
		stats["events"] = len(snap.Events)
		stats["participants"] = len(snap.Participants)
	}
	if n, err := s.store.Count(ctx); err == nil {
		stats["predictions"] = n
		metrics.UpdateStoreRows(n)
	}
	return stats
}
