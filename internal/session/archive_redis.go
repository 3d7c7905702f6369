package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisHistoryKey = "coursedesk:history"

// RedisArchive stores the history snapshot as a single JSON blob in
// Redis/Dragonfly, for setups where history should be shared across
// machines.
type RedisArchive struct {
	client *redis.Client
	key    string
}

// NewRedisArchive creates an archive on an existing client.
func NewRedisArchive(client *redis.Client) *RedisArchive {
	return &RedisArchive{client: client, key: redisHistoryKey}
}

func (a *RedisArchive) Load(ctx context.Context) (snapshot, error) {
	data, err := a.client.Get(ctx, a.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return snapshot{}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("read history key: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("history key is corrupt, starting empty", "key", a.key, "error", err)
		return snapshot{}, nil
	}
	return snap, nil
}

func (a *RedisArchive) Save(ctx context.Context, snap snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := a.client.Set(ctx, a.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write history key: %w", err)
	}
	return nil
}
