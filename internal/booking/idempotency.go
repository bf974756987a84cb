package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers the outcome of completed workflow
// invocations keyed by a caller-supplied idempotency key, so a retry
// after an indeterminate outcome replays the stored result instead of
// executing the workflow again.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) key(op, key string) string {
	return "idem:" + op + ":" + key
}

// Lookup loads a stored outcome into dest. The second return is false
// when the key has never completed.
func (s *IdempotencyStore) Lookup(ctx context.Context, op, key string, dest interface{}) (bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(op, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode stored outcome: %w", err)
	}
	return true, nil
}

// Remember stores an outcome, overwriting any earlier record for the
// key (a re-executed workflow supersedes an aborted attempt).
func (s *IdempotencyStore) Remember(ctx context.Context, op, key string, outcome interface{}) error {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(op, key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency store: %w", err)
	}
	return nil
}

// Forget drops a record whose workflow failed in-band, so a retry with
// the same key re-executes instead of replaying a dead attempt.
func (s *IdempotencyStore) Forget(ctx context.Context, op, key string) error {
	if err := s.rdb.Del(ctx, s.key(op, key)).Err(); err != nil {
		return fmt.Errorf("idempotency forget: %w", err)
	}
	return nil
}
