package redis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamlog/pkg/adapters/redis"
	"github.com/aretw0/dreamlog/pkg/core"
)

func setupTestRedis(t *testing.T, readOnly bool) (*redis.Storage, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := redis.NewWithClient(client, "", readOnly)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Initialize(context.Background()))
	return s, mr
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t, false)

	_, ok, err := s.Get(ctx, "@dreams")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "@dreams", []byte(`[]`)))

	got, ok, err := s.Get(ctx, "@dreams")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(got))

	raw, err := mr.Get(redis.DefaultPrefix + "@dreams")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestStorage_Remove(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t, false)

	require.NoError(t, s.Set(ctx, "@dreams", []byte("x")))
	require.NoError(t, s.Remove(ctx, "@dreams"))
	require.NoError(t, s.Remove(ctx, "@dreams"))

	assert.False(t, mr.Exists(redis.DefaultPrefix+"@dreams"))
}

func TestStorage_ReadOnly(t *testing.T) {
	s, _ := setupTestRedis(t, true)

	err := s.Set(context.Background(), "@dreams", []byte("x"))
	assert.True(t, errors.Is(err, core.ErrReadOnly))
}

func TestStorage_InitializeFailsWhenUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	s := redis.New(redis.Config{Addr: addr})
	defer s.Close()
	assert.Error(t, s.Initialize(context.Background()))
}
