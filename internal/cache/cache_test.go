package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedis(db)
	ctx := context.Background()

	t.Run("Hit", func(t *testing.T) {
		mock.ExpectGet("k").SetVal("v")
		val, err := c.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, "v", val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		mock.ExpectGet("k").SetErr(redis.Nil)
		val, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet("k").SetErr(redisErr)
		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_SetDeletePing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedis(db)
	ctx := context.Background()

	mock.ExpectSet("k", "v", time.Hour).SetVal("OK")
	assert.NoError(t, c.Set(ctx, "k", "v", time.Hour))

	mock.ExpectDel("k").SetVal(1)
	assert.NoError(t, c.Delete(ctx, "k"))

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, c.Ping(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisClient_EmptyAddress(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisConfig{})
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, m.Set(ctx, "forever", "x", 0))

	val, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss, "entries expire at their deadline")

	val, err = m.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "x", val)

	require.NoError(t, m.Delete(ctx, "forever"))
	_, err = m.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, m.Ping(ctx))
}
