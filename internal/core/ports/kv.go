package ports

import "context"

// KVStore is the flat, durable key-value substrate every entity and index is
// persisted in. Values are opaque byte payloads (JSON in practice).
//
// There are no transactions and no compare-and-swap: every read-modify-write
// sequence built on top of this contract is subject to lost updates under
// concurrency. Callers tolerate that; see the index maintainer.
type KVStore interface {
	// Get returns the value at key. The second result is false when the key
	// is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value at key, overwriting any previous value. A failed Set
	// returns an error; it never silently drops the write.
	Set(ctx context.Context, key string, value []byte) error

	// GetByPrefix returns the values of all keys starting with prefix, in
	// unspecified order.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)

	// MultiGet returns one entry per key, in the same order. Absent keys
	// yield a nil entry.
	MultiGet(ctx context.Context, keys []string) ([][]byte, error)
}
