package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// MessageRepository implements ports.MessageRepository on the key-value
// store. Message ids double as their storage keys.
type MessageRepository struct {
	kv  ports.KVStore
	idx *IndexMaintainer
	log zerolog.Logger
}

func NewMessageRepository(kv ports.KVStore, idx *IndexMaintainer, log zerolog.Logger) *MessageRepository {
	return &MessageRepository{kv: kv, idx: idx, log: log}
}

// Create persists the message, then appends it to the conversation index.
// Same partial-failure window and failure policy as listing creation: the
// entity write is the contract, a failed index append is logged and the
// message stays recoverable by rebuild.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message %s: %w", msg.ID, err)
	}
	if err := r.kv.Set(ctx, msg.ID, raw); err != nil {
		return err
	}

	if err := r.idx.AppendMessage(ctx, msg.SenderID, msg.RecipientID, msg.ListingID, msg.ID); err != nil {
		indexAppendFailuresTotal.WithLabelValues("conversation").Inc()
		r.log.Error().Err(err).
			Str("message_id", msg.ID).
			Str("listing_id", msg.ListingID).
			Msg("conversation index append failed")
	}
	return nil
}

// Conversation resolves the thread index and multi-gets the messages,
// dropping ids that no longer resolve. Ordering is the caller's concern.
func (r *MessageRepository) Conversation(ctx context.Context, userA, userB, listingID string) ([]domain.Message, error) {
	ids, err := r.idx.MessageIDs(ctx, userA, userB, listingID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := r.kv.MultiGet(ctx, ids)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(values))
	for i, raw := range values {
		if raw == nil {
			continue
		}
		var m domain.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			r.log.Warn().Err(err).Str("message_id", ids[i]).Msg("skipping undecodable message record")
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

var _ ports.MessageRepository = (*MessageRepository)(nil)
