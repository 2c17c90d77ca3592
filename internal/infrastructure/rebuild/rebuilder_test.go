package rebuild

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/infrastructure/db/kvstore"
)

var discardLogger = zerolog.Nop()

type stubKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string][]byte)}
}

func (s *stubKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return raw, ok, nil
}

func (s *stubKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *stubKV) GetByPrefix(_ context.Context, prefix string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out [][]byte
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubKV) MultiGet(_ context.Context, keys []string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = s.data[k]
	}
	return out, nil
}

func seedListing(t *testing.T, kv *stubKV, id, owner string, status domain.ListingStatus, created time.Time) {
	t.Helper()
	raw, err := json.Marshal(domain.Listing{
		ID: id, Type: domain.TypeHousing, Title: "Room", UserID: owner,
		Status: status, CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("marshal listing: %v", err)
	}
	kv.data[id] = raw
}

func seedMessage(t *testing.T, kv *stubKV, id, sender, recipient, listingID string, created time.Time) {
	t.Helper()
	raw, err := json.Marshal(domain.Message{
		ID: id, SenderID: sender, RecipientID: recipient, ListingID: listingID,
		Content: "hi", CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	kv.data[id] = raw
}

func TestRebuilder_RebuildsListingIndexes(t *testing.T) {
	kv := newStubKV()
	idx := kvstore.NewIndexMaintainer(kv, discardLogger)
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// Seed entities but leave the owner index stale: one dangling id, one
	// missing live listing.
	seedListing(t, kv, "listing:a", "user-1", domain.StatusActive, base)
	seedListing(t, kv, "listing:b", "user-1", domain.StatusSold, base.AddDate(0, 0, 1))
	seedListing(t, kv, "listing:c", "user-1", domain.StatusDeleted, base.AddDate(0, 0, 2))
	seedListing(t, kv, "listing:d", "user-2", domain.StatusActive, base)
	_ = idx.ReplaceListingIDs(context.Background(), "user-1", []string{"listing:dangling"})

	rebuilt, err := NewRebuilder(kv, idx, 4, discardLogger).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rebuilt != 2 {
		t.Fatalf("expected 2 rebuilt indexes, got %d", rebuilt)
	}

	ids, _ := idx.ListingIDs(context.Background(), "user-1")
	// Sold stays indexed (still the owner's listing); deleted does not.
	if len(ids) != 2 || ids[0] != "listing:a" || ids[1] != "listing:b" {
		t.Fatalf("user-1 index wrong: %v", ids)
	}

	ids, _ = idx.ListingIDs(context.Background(), "user-2")
	if len(ids) != 1 || ids[0] != "listing:d" {
		t.Fatalf("user-2 index wrong: %v", ids)
	}
}

func TestRebuilder_RebuildsConversationIndexesInOrder(t *testing.T) {
	kv := newStubKV()
	idx := kvstore.NewIndexMaintainer(kv, discardLogger)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Two messages in one thread, opposite directions, plus an unrelated
	// thread about another listing.
	seedMessage(t, kv, "message:2", "user-b", "user-a", "listing:x", base.Add(time.Minute))
	seedMessage(t, kv, "message:1", "user-a", "user-b", "listing:x", base)
	seedMessage(t, kv, "message:3", "user-a", "user-c", "listing:y", base)

	rebuilt, err := NewRebuilder(kv, idx, 4, discardLogger).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rebuilt != 2 {
		t.Fatalf("expected 2 rebuilt indexes, got %d", rebuilt)
	}

	ids, _ := idx.MessageIDs(context.Background(), "user-a", "user-b", "listing:x")
	if len(ids) != 2 || ids[0] != "message:1" || ids[1] != "message:2" {
		t.Fatalf("thread must be oldest-first, got %v", ids)
	}

	ids, _ = idx.MessageIDs(context.Background(), "user-c", "user-a", "listing:y")
	if len(ids) != 1 || ids[0] != "message:3" {
		t.Fatalf("other thread wrong: %v", ids)
	}
}

func TestRebuilder_EmptyStore(t *testing.T) {
	kv := newStubKV()
	idx := kvstore.NewIndexMaintainer(kv, discardLogger)

	rebuilt, err := NewRebuilder(kv, idx, 0, discardLogger).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rebuilt != 0 {
		t.Fatalf("expected no rebuilt indexes, got %d", rebuilt)
	}
}

func TestRebuilder_SkipsUndecodableRecords(t *testing.T) {
	kv := newStubKV()
	idx := kvstore.NewIndexMaintainer(kv, discardLogger)

	kv.data["listing:broken"] = []byte("{not json")
	seedListing(t, kv, "listing:ok", "user-1", domain.StatusActive, time.Now().UTC())

	rebuilt, err := NewRebuilder(kv, idx, 2, discardLogger).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rebuilt != 1 {
		t.Fatalf("expected 1 rebuilt index, got %d", rebuilt)
	}

	ids, _ := idx.ListingIDs(context.Background(), "user-1")
	if len(ids) != 1 || ids[0] != "listing:ok" {
		t.Fatalf("index wrong: %v", ids)
	}
}
