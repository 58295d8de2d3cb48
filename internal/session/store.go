// Package session resolves bearer session ids against Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shop-project/catalog/pkg/middleware"
)

// DefaultPrefix namespaces session keys when none is configured.
const DefaultPrefix = "session"

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore reads session claims stored as JSON under "<prefix>:<sid>".
// Sessions are written by the identity service; this store only reads them.
type RedisStore struct {
	client getter
	prefix string
}

// NewRedisStore creates a store over client. An empty prefix uses
// DefaultPrefix.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Key returns the Redis key holding sessionID.
func (s *RedisStore) Key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

// Resolve implements middleware.SessionResolver.
func (s *RedisStore) Resolve(ctx context.Context, sessionID string) (*middleware.Claims, error) {
	raw, err := s.client.Get(ctx, s.Key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, middleware.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var claims middleware.Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if claims.UserID == "" {
		return nil, middleware.ErrSessionNotFound
	}
	return &claims, nil
}
