package ports

import (
	"context"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/query"
)

// BrowseInput carries the public browse parameters: repository narrowing
// (type, category) plus the full query-engine parameter set.
type BrowseInput struct {
	Type     domain.ListingType // empty = all types
	Category string             // empty = all categories
	Query    query.Params
}

// ListingService defines the use-case operations for listings.
type ListingService interface {
	Create(ctx context.Context, ownerID string, draft domain.ListingDraft) (*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	// Update enforces the status state machine on top of the repository's
	// unrestricted merge, stamping soldDate on entry to sold and clearing it
	// on exit.
	Update(ctx context.Context, id, requesterID string, patch domain.ListingPatch) (*domain.Listing, error)
	Delete(ctx context.Context, id, requesterID string) error
	Browse(ctx context.Context, in BrowseInput) ([]domain.Listing, error)
	// Mine returns the caller's non-deleted listings newest-first, excluding
	// sold ones unless includeSold.
	Mine(ctx context.Context, ownerID string, includeSold bool) ([]domain.Listing, error)
}

// SendMessageInput carries the data for one contact message.
type SendMessageInput struct {
	RecipientID    string
	ListingID      string
	Content        string
	MeetupLocation string
}

// MessageService defines the use-case operations for contact messages.
type MessageService interface {
	Send(ctx context.Context, senderID string, in SendMessageInput) (*domain.Message, error)
	// Conversation returns the two-party thread for a listing, oldest-first.
	Conversation(ctx context.Context, userID, otherUserID, listingID string) ([]domain.Message, error)
}

// AuthService implements signup and login against the identity collaborator.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*domain.UserProfile, error)
	Login(ctx context.Context, email, password string) (string, *domain.UserProfile, error)
}

// ProfileService exposes profile reads and subscription tier changes.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	SetTier(ctx context.Context, userID, tier string) (*domain.UserProfile, error)
}
