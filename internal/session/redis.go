package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/pkg/config"
	"github.com/gamingrealm/backend/pkg/logging"
)

const redisKeyPrefix = "gamingrealm"

// RedisStorage keeps sessions in Redis so logins survive restarts and are
// shared across server processes.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage creates a Redis-backed session storage
func NewRedisStorage(cfg *config.RedisConfig, ttl time.Duration) (*RedisStorage, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &RedisStorage{client: client, ttl: ttl}, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", redisKeyPrefix, id)
}

func userKey(userID string) string {
	return fmt.Sprintf("%s:user-session:%s", redisKeyPrefix, userID)
}

// Get returns the session, or (nil, nil) when absent or expired
func (r *RedisStorage) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable(err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &s, nil
}

// Create stores a session for the user, evicting any prior one
func (r *RedisStorage) Create(ctx context.Context, userID string) (*Session, error) {
	s := newSession(userID)

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	// Evict the user's previous session before installing the new one.
	oldID, err := r.client.Get(ctx, userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, apperr.Unavailable(err)
	}

	pipe := r.client.TxPipeline()
	if oldID != "" {
		pipe.Del(ctx, sessionKey(oldID))
	}
	pipe.Set(ctx, sessionKey(s.ID), raw, r.ttl)
	pipe.Set(ctx, userKey(userID), s.ID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, apperr.Unavailable(err)
	}

	return s, nil
}

// Delete removes a session
func (r *RedisStorage) Delete(ctx context.Context, id string) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return errSessionNotFound(id)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.Del(ctx, userKey(s.UserID))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

// Health checks Redis health
func (r *RedisStorage) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
