package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/ports"
)

// IndexMaintainer keeps the two derived indexes append-consistent with entity
// creation: user-listings:<owner> and conversation:<pair>:<listing>.
//
// Appends are read-modify-write with no isolation: two concurrent appends to
// the same index key can lose one id. That window is accepted; indexes are
// treated as candidate sets re-validated against entity status at read time,
// and a full rebuild pass can restore them from an entity scan.
type IndexMaintainer struct {
	kv  ports.KVStore
	log zerolog.Logger
}

func NewIndexMaintainer(kv ports.KVStore, log zerolog.Logger) *IndexMaintainer {
	return &IndexMaintainer{kv: kv, log: log}
}

// AppendListing appends listingID to the owner's listing index.
func (m *IndexMaintainer) AppendListing(ctx context.Context, ownerID, listingID string) error {
	return m.append(ctx, userListingsKey(ownerID), listingID)
}

// AppendMessage appends messageID to the conversation index of the
// participant pair and listing.
func (m *IndexMaintainer) AppendMessage(ctx context.Context, senderID, recipientID, listingID, messageID string) error {
	return m.append(ctx, ConversationKey(senderID, recipientID, listingID), messageID)
}

// ListingIDs returns the owner's listing index, empty when absent.
func (m *IndexMaintainer) ListingIDs(ctx context.Context, ownerID string) ([]string, error) {
	return m.read(ctx, userListingsKey(ownerID))
}

// MessageIDs returns the conversation index for the pair and listing, empty
// when absent.
func (m *IndexMaintainer) MessageIDs(ctx context.Context, userA, userB, listingID string) ([]string, error) {
	return m.read(ctx, ConversationKey(userA, userB, listingID))
}

// ReplaceListingIDs overwrites the owner's listing index with the given id
// list. Used by the rebuild pass.
func (m *IndexMaintainer) ReplaceListingIDs(ctx context.Context, ownerID string, ids []string) error {
	return m.write(ctx, userListingsKey(ownerID), ids)
}

// ReplaceMessageIDs overwrites the conversation index for the pair and
// listing. Used by the rebuild pass.
func (m *IndexMaintainer) ReplaceMessageIDs(ctx context.Context, userA, userB, listingID string, ids []string) error {
	return m.write(ctx, ConversationKey(userA, userB, listingID), ids)
}

func (m *IndexMaintainer) append(ctx context.Context, key, id string) error {
	ids, err := m.read(ctx, key)
	if err != nil {
		return err
	}
	return m.write(ctx, key, append(ids, id))
}

func (m *IndexMaintainer) read(ctx context.Context, key string) ([]string, error) {
	raw, found, err := m.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		// A corrupt index is recoverable by rebuild; treat it as empty
		// rather than wedging every append on the key.
		m.log.Warn().Err(err).Str("key", key).Msg("corrupt index entry, treating as empty")
		return nil, nil
	}
	return ids, nil
}

func (m *IndexMaintainer) write(ctx context.Context, key string, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode index %s: %w", key, err)
	}
	if err := m.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write index %s: %w", key, err)
	}
	return nil
}
