package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // postgres driver

	"github.com/kohrong/pronosticos-mma/internal/domain/model"
)

// Connection pool settings.
const (
	maxOpenConns = 25
	maxIdleConns = 5
)

// PostgresStore is the production Store. The UNIQUE constraint on
// (user_id, event_id, fight_index) plus INSERT ... ON CONFLICT gives the
// atomic last-writer-wins upsert the composite key requires; concurrent
// submissions for the same slot serialize inside the database.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the database and runs migrations.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			avatar TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			event_id TEXT NOT NULL,
			fight_index INTEGER NOT NULL,
			fighter TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, event_id, fight_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user_id ON predictions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_event_id ON predictions(event_id)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
		}
	}
	return nil
}

// Upsert implements Store.
func (s *PostgresStore) Upsert(ctx context.Context, row model.Prediction) (model.Prediction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: begin: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, avatar)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, avatar = EXCLUDED.avatar, updated_at = now()`,
		row.UserID, row.UserName, row.UserAvatar,
	)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: upsert user: %v", ErrUnavailable, err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO predictions (id, user_id, event_id, fight_index, fighter)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, event_id, fight_index) DO UPDATE
		SET fighter = EXCLUDED.fighter, updated_at = now()
		RETURNING id`,
		uuid.NewString(), row.UserID, row.EventID, row.FightIndex, row.Fighter,
	).Scan(&row.ID)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: upsert prediction: %v", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: commit: %v", ErrUnavailable, err)
	}
	return row, nil
}

// ListByUser implements Store.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]model.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, u.name, u.avatar, p.event_id, p.fight_index, p.fighter
		FROM predictions p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.event_id, p.fight_index`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list by user: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// ListAll implements Store. ORDER BY created_at keeps ranking reads on a
// stable first-insert order.
func (s *PostgresStore) ListAll(ctx context.Context) ([]model.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, u.name, u.avatar, p.event_id, p.fight_index, p.fighter
		FROM predictions p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at, p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list all: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM predictions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error { return s.db.Close() }

func scanPredictions(rows *sql.Rows) ([]model.Prediction, error) {
	var out []model.Prediction
	for rows.Next() {
		var p model.Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserName, &p.UserAvatar, &p.EventID, &p.FightIndex, &p.Fighter); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrUnavailable, err)
	}
	return out, nil
}
