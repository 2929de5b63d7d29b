// internal/database/database.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil means the audit store is disabled.
var DB *pgxpool.Pool

// ErrNoDB is returned by the audit writers when no pool is connected.
var ErrNoDB = errors.New("database not connected")

const schema = `
CREATE TABLE IF NOT EXISTS sabacc_games (
	id            UUID PRIMARY KEY,
	initial_state JSONB,
	final_state   JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at   TIMESTAMPTZ
)`

// ConnectDB opens the pool, pings it and ensures the audit table exists.
func ConnectDB(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	DB = pool
	logrus.Info("connected to postgres")
	return nil
}

// UpsertInitialGameState records the state of a table right after a deal.
// A later deal on the same table overwrites the earlier record.
// Failures are logged as well as returned, so callers may run it in a goroutine.
func UpsertInitialGameState(ctx context.Context, gameID uuid.UUID, state interface{}) error {
	if DB == nil {
		return ErrNoDB
	}
	data, err := json.Marshal(state)
	if err != nil {
		logrus.WithError(err).WithField("game", gameID).Error("marshal initial state")
		return fmt.Errorf("marshal initial state: %w", err)
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO sabacc_games (id, initial_state)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET initial_state = EXCLUDED.initial_state, final_state = NULL, finished_at = NULL`,
		gameID, data)
	if err != nil {
		logrus.WithError(err).WithField("game", gameID).Error("upsert initial state")
		return fmt.Errorf("upsert initial state: %w", err)
	}
	return nil
}

// StoreFinalGameStateInDB records the revealed hands and winner of a table.
// Failures are logged as well as returned, so callers may run it in a goroutine.
func StoreFinalGameStateInDB(ctx context.Context, gameID uuid.UUID, state interface{}) error {
	if DB == nil {
		return ErrNoDB
	}
	data, err := json.Marshal(state)
	if err != nil {
		logrus.WithError(err).WithField("game", gameID).Error("marshal final state")
		return fmt.Errorf("marshal final state: %w", err)
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO sabacc_games (id, final_state, finished_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET final_state = EXCLUDED.final_state, finished_at = now()`,
		gameID, data)
	if err != nil {
		logrus.WithError(err).WithField("game", gameID).Error("store final state")
		return fmt.Errorf("store final state: %w", err)
	}
	return nil
}
