// Package repository persists user predictions.
package repository

import (
	"context"

	"github.com/kohrong/pronosticos-mma/internal/domain/model"
)

// Store provides read/write access to stored prediction rows. The
// composite key is (UserID, EventID, FightIndex); writes to the same key
// must serialize, with the last writer winning and no duplicate rows.
type Store interface {
	// Upsert writes the user's latest choice for one fight, creating
	// the row on first submission and overwriting Fighter (and the
	// owner's display identity) on every later one. Returns the stored
	// row.
	Upsert(ctx context.Context, row model.Prediction) (model.Prediction, error)

	// ListByUser returns the caller's own rows, ordered by event id
	// then fight index.
	ListByUser(ctx context.Context, userID string) ([]model.Prediction, error)

	// ListAll returns every row with its owner's display identity, in
	// first-insert order. Ranking reads depend on that order being
	// stable across calls.
	ListAll(ctx context.Context) ([]model.Prediction, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int, error)

	// Close releases store resources.
	Close() error
}
