package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop-project/catalog/pkg/middleware"
)

type mapGetter struct {
	values map[string]string
	err    error
	keys   []string
}

func (m *mapGetter) Get(_ context.Context, key string) *redis.StringCmd {
	m.keys = append(m.keys, key)
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func newStore(g *mapGetter, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: g, prefix: prefix}
}

func TestResolve(t *testing.T) {
	g := &mapGetter{values: map[string]string{
		"admin:abc":   `{"user_id":"u-1","email":"ops@example.com"}`,
		"admin:empty": `{}`,
		"admin:junk":  `not json`,
	}}
	store := newStore(g, "admin")

	claims, err := store.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, &middleware.Claims{UserID: "u-1", Email: "ops@example.com"}, claims)
	assert.Equal(t, []string{"admin:abc"}, g.keys)

	_, err = store.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, middleware.ErrSessionNotFound)

	_, err = store.Resolve(context.Background(), "empty")
	assert.ErrorIs(t, err, middleware.ErrSessionNotFound)

	_, err = store.Resolve(context.Background(), "junk")
	require.Error(t, err)
	assert.NotErrorIs(t, err, middleware.ErrSessionNotFound)
}

func TestResolve_BackendError(t *testing.T) {
	store := newStore(&mapGetter{err: errors.New("i/o timeout")}, "")

	_, err := store.Resolve(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read session")
	assert.NotErrorIs(t, err, middleware.ErrSessionNotFound)
}

func TestNewRedisStore_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	store := NewRedisStore(client, "")
	assert.Equal(t, "session:xyz", store.Key("xyz"))
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "admin"), mr
}

func TestRedisStore_ResolvesAgainstServer(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, mr.Set("admin:s-1", `{"user_id":"u-7"}`))

	claims, err := store.Resolve(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "u-7", claims.UserID)

	_, err = store.Resolve(context.Background(), "s-2")
	assert.ErrorIs(t, err, middleware.ErrSessionNotFound)
}

func TestRedisStore_ExpiredSession(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, mr.Set("admin:s-1", `{"user_id":"u-7"}`))
	mr.SetTTL("admin:s-1", time.Minute)

	mr.FastForward(2 * time.Minute)

	_, err := store.Resolve(context.Background(), "s-1")
	assert.ErrorIs(t, err, middleware.ErrSessionNotFound)
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Close()

	_, err := store.Resolve(context.Background(), "s-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read session")
}
