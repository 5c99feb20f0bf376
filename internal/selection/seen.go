// internal/selection/seen.go
package selection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenStore is the session-scoped deduplication set. Add reports whether
// key was newly inserted; the check-and-insert must be atomic so an
// identifier is accepted at most once per session. Close discards the
// set at session teardown.
type SeenStore interface {
	Add(ctx context.Context, key string) (bool, error)
	Close(ctx context.Context) error
}

// MemorySeen is the single-instance seen-set: empty at installation,
// growing monotonically for the session lifetime.
type MemorySeen struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemorySeen() *MemorySeen {
	return &MemorySeen{keys: make(map[string]struct{})}
}

func (s *MemorySeen) Add(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *MemorySeen) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{})
	return nil
}

// RedisSeen keeps the seen-set in a session-scoped Redis set so multiple
// intake instances share one view of a session. The key expires with the
// session idle TTL.
type RedisSeen struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewRedisSeen(client redis.Cmdable, sessionID string, ttl time.Duration) *RedisSeen {
	return &RedisSeen{
		client: client,
		key:    "intake:seen:" + sessionID,
		ttl:    ttl,
	}
}

func (s *RedisSeen) Add(ctx context.Context, key string) (bool, error) {
	added, err := s.client.SAdd(ctx, s.key, key).Result()
	if err != nil {
		return false, fmt.Errorf("seen store add: %w", err)
	}
	if s.ttl > 0 {
		s.client.Expire(ctx, s.key, s.ttl)
	}
	return added == 1, nil
}

func (s *RedisSeen) Close(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("seen store close: %w", err)
	}
	return nil
}
