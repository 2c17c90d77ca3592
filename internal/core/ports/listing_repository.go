package ports

import (
	"context"

	"github.com/campusmarket/campus-market/internal/core/domain"
)

// ListingRepository defines typed persistence operations for listings on top
// of the key-value store, including maintenance of the owner's listing index.
type ListingRepository interface {
	// Create validates the draft, assigns a fresh "listing:<uuid>" id, stamps
	// createdAt, sets status active, persists the record and appends it to
	// the owner's listing index before returning.
	Create(ctx context.Context, ownerID string, draft domain.ListingDraft) (*domain.Listing, error)

	// Get returns the listing with the given id, tombstoned or not.
	Get(ctx context.Context, id string) (*domain.Listing, error)

	// Update merges patch onto the existing record after an ownership check
	// and stamps updatedAt. Status transitions are unrestricted here; the
	// state machine is enforced by the listing service.
	Update(ctx context.Context, id, requesterID string, patch domain.ListingPatch) (*domain.Listing, error)

	// SoftDelete marks the listing deleted after an ownership check. The
	// record and its index entries are retained.
	SoftDelete(ctx context.Context, id, requesterID string) error

	// List prefix-scans all listings and keeps those with status != deleted,
	// optionally narrowed by type. Whether sold is shown is a caller concern.
	List(ctx context.Context, filterType domain.ListingType) ([]domain.Listing, error)

	// ListByOwner resolves the owner's index to ids, multi-gets them and
	// drops entries that are missing or deleted.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error)
}

// MessageRepository defines persistence for contact messages and their
// conversation index.
type MessageRepository interface {
	// Create persists the message and appends its id to the conversation
	// index derived from the participant pair and listing.
	Create(ctx context.Context, msg *domain.Message) error

	// Conversation resolves the two-party thread for a listing. Missing ids
	// are dropped; ordering is left to the caller.
	Conversation(ctx context.Context, userA, userB, listingID string) ([]domain.Message, error)
}

// ProfileRepository defines persistence for user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Update(ctx context.Context, profile *domain.UserProfile) error
}

// AccountRepository is the identity collaborator's credential store.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}
