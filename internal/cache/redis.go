// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil means the action historian is disabled.
var Rdb *redis.Client

// ErrNoRedis is returned by helpers when Rdb has not been connected.
var ErrNoRedis = errors.New("redis client not initialized")

// GameActionRecord is one entry in a table's action history.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"`
}

// ConnectRedis dials addr and verifies the connection with PING.
func ConnectRedis(ctx context.Context, addr, password string) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}
	Rdb = client
	logrus.WithField("addr", addr).Info("connected to redis")
	return nil
}

// HistoryKey is the list holding every action of a table in order.
func HistoryKey(gameID uuid.UUID) string {
	return "sabacc:game:" + gameID.String() + ":actions"
}

// ActionChannel is the pub/sub channel live action records are published on.
const ActionChannel = "sabacc:actions"

// PublishGameAction appends rec to the table's history list and publishes it.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return ErrNoRedis
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	pipe := Rdb.TxPipeline()
	pipe.RPush(ctx, HistoryKey(rec.GameID), data)
	pipe.Publish(ctx, ActionChannel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish action %d: %w", rec.ActionIndex, err)
	}
	return nil
}

// LoadGameActions returns the stored history of a table, oldest first.
func LoadGameActions(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	if Rdb == nil {
		return nil, ErrNoRedis
	}
	raw, err := Rdb.LRange(ctx, HistoryKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load actions for %s: %w", gameID, err)
	}
	out := make([]GameActionRecord, 0, len(raw))
	for _, s := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decode action record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
