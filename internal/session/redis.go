package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions in Redis with native TTL expiry, so a
// restart or another instance sees the same sessions.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session"}
}

func (r *RedisStore) key(userID string, kind Kind) string {
	return r.prefix + ":" + userID + ":" + string(kind)
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := s.marshal()
	if err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, s.UserID, s.Kind)
	}
	return r.client.Set(ctx, r.key(s.UserID, s.Kind), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, userID string, kind Kind) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(userID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalSession(data)
}

func (r *RedisStore) Delete(ctx context.Context, userID string, kind Kind) error {
	return r.client.Del(ctx, r.key(userID, kind)).Err()
}

// Sweep is a no-op: Redis expires keys natively.
func (r *RedisStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
