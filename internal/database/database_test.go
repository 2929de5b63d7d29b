// internal/database/database_test.go
package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWritersWithoutDB(t *testing.T) {
	DB = nil
	ctx := context.Background()
	id := uuid.New()

	assert.ErrorIs(t, UpsertInitialGameState(ctx, id, map[string]int{"round": 1}), ErrNoDB)
	assert.ErrorIs(t, StoreFinalGameStateInDB(ctx, id, map[string]int{"round": 3}), ErrNoDB)
}

func TestConnectDBBadURL(t *testing.T) {
	DB = nil
	err := ConnectDB(context.Background(), "postgres://%zz:5432/db")
	assert.Error(t, err)
	assert.Nil(t, DB)
}
