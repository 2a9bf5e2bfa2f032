package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kohrong/pronosticos-mma/internal/domain/model"
)

type predictionKey struct {
	userID  string
	eventID string
	index   int
}

// MemoryStore is an in-process Store used by tests and store-less dev
// runs. A single mutex serializes upserts, which satisfies the
// last-writer-wins requirement on the composite key.
type MemoryStore struct {
	mu    sync.RWMutex
	rows  map[predictionKey]model.Prediction
	order []predictionKey
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[predictionKey]model.Prediction)}
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(_ context.Context, row model.Prediction) (model.Prediction, error) {
	k := predictionKey{userID: row.UserID, eventID: row.EventID, index: row.FightIndex}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rows[k]; ok {
		row.ID = existing.ID
	} else {
		row.ID = uuid.NewString()
		s.order = append(s.order, k)
	}
	s.rows[k] = row
	return row, nil
}

// ListByUser implements Store.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]model.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Prediction
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventID != out[j].EventID {
			return out[i].EventID < out[j].EventID
		}
		return out[i].FightIndex < out[j].FightIndex
	})
	return out, nil
}

// ListAll implements Store. Rows come back in first-insert order.
func (s *MemoryStore) ListAll(_ context.Context) ([]model.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Prediction, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.rows[k])
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
