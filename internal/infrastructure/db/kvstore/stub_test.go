package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub key-value store
// ---------------------------------------------------------------------------

type stubKV struct {
	mu   sync.Mutex
	data map[string][]byte

	// setErrFor makes Set fail for keys containing the given substring.
	setErrFor string
	setErr    error
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string][]byte)}
}

func (s *stubKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	clone := make([]byte, len(raw))
	copy(clone, raw)
	return clone, true, nil
}

func (s *stubKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil && strings.Contains(key, s.setErrFor) {
		return s.setErr
	}
	clone := make([]byte, len(value))
	copy(clone, value)
	s.data[key] = clone
	return nil
}

func (s *stubKV) GetByPrefix(_ context.Context, prefix string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.data[k])
	}
	return out, nil
}

func (s *stubKV) MultiGet(_ context.Context, keys []string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if raw, ok := s.data[k]; ok {
			out[i] = raw
		}
	}
	return out, nil
}
