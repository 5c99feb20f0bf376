package selection

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

// ==========================
// Memory Seen Store
// ==========================

func TestMemorySeen_AddIsAtMostOnce(t *testing.T) {
	s := NewMemorySeen()

	added, err := s.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.False(t, added)

	added, err = s.Add(context.Background(), "p2")
	assert.NoError(t, err)
	assert.True(t, added)
}

func TestMemorySeen_CloseDiscardsState(t *testing.T) {
	s := NewMemorySeen()

	_, err := s.Add(context.Background(), "p1")
	assert.NoError(t, err)

	assert.NoError(t, s.Close(context.Background()))

	// A new session starts from an empty set.
	added, err := s.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, added)
}

// ==========================
// Redis Seen Store
// ==========================

func TestRedisSeen_AddIsAtMostOnce(t *testing.T) {
	rdb := setupRedis(t)
	s := NewRedisSeen(rdb, "session-1", time.Hour)

	added, err := s.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.False(t, added)
}

func TestRedisSeen_SessionsAreIsolated(t *testing.T) {
	rdb := setupRedis(t)
	first := NewRedisSeen(rdb, "session-1", time.Hour)
	second := NewRedisSeen(rdb, "session-2", time.Hour)

	added, err := first.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, added)

	// The same identifier is fresh in another session.
	added, err = second.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, added)
}

func TestRedisSeen_CloseDeletesKey(t *testing.T) {
	rdb := setupRedis(t)
	s := NewRedisSeen(rdb, "session-1", time.Hour)

	_, err := s.Add(context.Background(), "p1")
	assert.NoError(t, err)

	assert.NoError(t, s.Close(context.Background()))

	exists, err := rdb.Exists(context.Background(), "intake:seen:session-1").Result()
	assert.NoError(t, err)
	assert.Zero(t, exists)
}

func TestRedisSeen_AddErrorSurfaces(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectSAdd("intake:seen:session-1", "p1").SetErr(assert.AnError)

	s := NewRedisSeen(rdb, "session-1", 0)

	added, err := s.Add(context.Background(), "p1")
	assert.Error(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}
