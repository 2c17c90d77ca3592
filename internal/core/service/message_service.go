package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// MessageService handles contact messages between users about a listing.
type MessageService struct {
	messages ports.MessageRepository
	listings ports.ListingRepository
	log      zerolog.Logger
}

func NewMessageService(messages ports.MessageRepository, listings ports.ListingRepository, log zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, listings: listings, log: log}
}

// Send persists a new message and its conversation index entry. The target
// listing must exist (tombstoned listings still accept messages so buyers
// can wrap up a thread).
func (s *MessageService) Send(ctx context.Context, senderID string, in ports.SendMessageInput) (*domain.Message, error) {
	if in.RecipientID == "" || in.ListingID == "" || in.Content == "" {
		return nil, fmt.Errorf("%w: recipientId, listingId and content are required", domain.ErrValidation)
	}
	if in.RecipientID == senderID {
		return nil, fmt.Errorf("%w: cannot message yourself", domain.ErrValidation)
	}
	listing, err := s.listings.Get(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}

	// Store the listing's canonical id, not the caller's spelling of it, so
	// the conversation key is the same no matter which id form was sent.
	msg := &domain.Message{
		ID:             "message:" + uuid.NewString(),
		SenderID:       senderID,
		RecipientID:    in.RecipientID,
		ListingID:      listing.ID,
		Content:        in.Content,
		MeetupLocation: in.MeetupLocation,
		CreatedAt:      time.Now().UTC(),
		Read:           false,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("message_id", msg.ID).
		Str("listing_id", msg.ListingID).
		Str("sender_id", senderID).
		Msg("message sent")
	return msg, nil
}

// Conversation returns the two-party thread for a listing, oldest-first.
// The key derivation is symmetric in the participants, so either side gets
// the same thread.
func (s *MessageService) Conversation(ctx context.Context, userID, otherUserID, listingID string) ([]domain.Message, error) {
	messages, err := s.messages.Conversation(ctx, userID, otherUserID, domain.NormalizeListingID(listingID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

var _ ports.MessageService = (*MessageService)(nil)
