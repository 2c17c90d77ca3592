package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/campusmarket/campus-market/internal/core/domain"
)

// scanBatch is the COUNT hint passed to SCAN during prefix iteration.
const scanBatch = 200

// Store implements ports.KVStore on a Redis client. Values are stored as
// plain string payloads; callers own the encoding.
type Store struct {
	client *redis.Client
}

// NewStore wraps the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get returns the value at key, reporting absence via the second result.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, unavailable("kv get", err)
	}
	return val, true, nil
}

// Set stores value at key with no expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return unavailable("kv set", err)
	}
	return nil
}

// GetByPrefix scans all keys under prefix and multi-gets their values.
// Order is unspecified.
func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable("kv scan", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.MultiGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	// Keys can expire between SCAN and MGET; drop the holes.
	out := values[:0]
	for _, v := range values {
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

// MultiGet returns one entry per key in the same order, nil for absent keys.
func (s *Store) MultiGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("kv mget", err)
	}
	out := make([][]byte, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, unavailable("kv mget", fmt.Errorf("unexpected value type %T at %s", v, keys[i]))
		}
		out[i] = []byte(str)
	}
	return out, nil
}

// unavailable wraps a driver error into the retryable storage sentinel while
// keeping the cause in the message.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
}
