package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"visionchat-backend/internal/chat"
)

const redisKeyPrefix = "chat_"

// RedisStore keeps each session as a JSON-encoded record list in Redis. A
// zero TTL means sessions never expire; otherwise every save refreshes it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, ttl: ttl}
}

// Ping verifies the Redis connection at startup.
func (r *RedisStore) Ping() error {
	return r.client.Ping(context.Background()).Err()
}

func (r *RedisStore) Load(sessionID string) ([]chat.Turn, error) {
	ctx := context.Background()
	raw, err := r.client.Get(ctx, redisKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return []chat.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var recs []chat.Record
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		log.Warnf("dropping corrupt redis session %s: %v", sessionID, err)
		return []chat.Turn{}, nil
	}
	turns, err := chat.FromRecords(recs)
	if err != nil {
		log.Warnf("dropping corrupt redis session %s: %v", sessionID, err)
		return []chat.Turn{}, nil
	}
	return turns, nil
}

func (r *RedisStore) Save(sessionID string, turns []chat.Turn) error {
	recs, err := chat.ToRecords(turns)
	if err != nil {
		return err
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ctx := context.Background()
	if err := r.client.Set(ctx, redisKeyPrefix+sessionID, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(sessionID string) error {
	ctx := context.Background()
	if err := r.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
