package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepositories(t *testing.T) (*RedisRepositories, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepositories(client, nil), srv
}

func TestRedisRepositories_SetGetDel(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepositories(t)

	require.NoError(t, repo.Set(ctx, "greeting", []byte("hello"), time.Minute))

	value, err := repo.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	exists, err := repo.Exists(ctx, "greeting")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Del(ctx, "greeting"))

	_, err = repo.Get(ctx, "greeting")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	exists, err = repo.Exists(ctx, "greeting")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisRepositories_Expiration(t *testing.T) {
	ctx := context.Background()
	repo, srv := newTestRepositories(t)

	require.NoError(t, repo.Set(ctx, "session", []byte("1"), time.Minute))

	assert.Equal(t, time.Minute, srv.TTL("session"))

	srv.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "session")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisRepositories_ServerDown(t *testing.T) {
	ctx := context.Background()
	repo, srv := newTestRepositories(t)
	srv.Close()

	_, err := repo.Get(ctx, "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisClient_Connects(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := RedisClient(context.Background(), RedisConfigModel{Host: srv.Host(), Port: srv.Port()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
}
