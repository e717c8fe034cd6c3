package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 10 * time.Minute

// StateStore holds single-use OAuth anti-forgery state values in Redis.
// Key format: oauth_state:<state>
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a StateStore wrapping the given Redis client.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Save records a freshly issued state value (expires after stateTTL).
func (s *StateStore) Save(ctx context.Context, state string) error {
	if err := s.client.Set(ctx, s.key(state), "1", stateTTL).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume removes the state and reports whether it was present. A state can
// authorise exactly one callback.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	n, err := s.client.Del(ctx, s.key(state)).Result()
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return n > 0, nil
}

func (s *StateStore) key(state string) string {
	return "oauth_state:" + state
}
