package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
	"github.com/campusmarket/campus-market/internal/core/query"
)

// ListingService orchestrates listing creation, status transitions,
// ownership-checked mutation and retrieval.
type ListingService struct {
	repo ports.ListingRepository
	log  zerolog.Logger
}

func NewListingService(repo ports.ListingRepository, log zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, log: log}
}

// Create validates and persists a new listing owned by ownerID.
func (s *ListingService) Create(ctx context.Context, ownerID string, draft domain.ListingDraft) (*domain.Listing, error) {
	listing, err := s.repo.Create(ctx, ownerID, draft)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("listing_id", listing.ID).
		Str("owner_id", ownerID).
		Str("type", string(listing.Type)).
		Msg("listing created")
	return listing, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.repo.Get(ctx, id)
}

// Update applies an owner-only partial update. When the patch carries a
// status change the transition table is enforced here, and soldDate is
// stamped on entry to sold and cleared on exit.
func (s *ListingService) Update(ctx context.Context, id, requesterID string, patch domain.ListingPatch) (*domain.Listing, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	if patch.Status != nil && *patch.Status != current.Status {
		next := *patch.Status
		if !current.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current.Status, next)
		}
		if next == domain.StatusSold {
			now := time.Now().UTC()
			patch.SoldDate = &now
		} else if current.Status == domain.StatusSold {
			patch.ClearSoldDate = true
		}
	}

	// Revalidate the merged result before writing: a partial update must not
	// be able to smuggle in fields of the other listing type or bad values.
	merged := *current
	patch.Apply(&merged)
	if err := merged.Draft().Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, requesterID, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		s.log.Info().
			Str("listing_id", updated.ID).
			Str("from", string(current.Status)).
			Str("to", string(updated.Status)).
			Msg("listing status changed")
	}
	return updated, nil
}

// Delete soft-deletes the listing; the tombstone and its index entries are
// retained.
func (s *ListingService) Delete(ctx context.Context, id, requesterID string) error {
	if err := s.repo.SoftDelete(ctx, id, requesterID); err != nil {
		return err
	}
	s.log.Info().Str("listing_id", id).Str("owner_id", requesterID).Msg("listing soft-deleted")
	return nil
}

// Browse returns the public view: a snapshot narrowed by type/category and
// run through the query engine. Sold listings are hidden unless the caller
// opts in; deleted ones never appear.
func (s *ListingService) Browse(ctx context.Context, in ports.BrowseInput) ([]domain.Listing, error) {
	listings, err := s.repo.List(ctx, in.Type)
	if err != nil {
		return nil, err
	}

	if in.Category != "" {
		kept := listings[:0]
		for _, l := range listings {
			if l.Category == in.Category {
				kept = append(kept, l)
			}
		}
		listings = kept
	}

	qp := in.Query
	if qp.Sort == "" {
		qp.Sort = query.SortNewest
	}
	return query.Apply(listings, qp), nil
}

// Mine returns the owner's listings newest-first, dropping sold ones unless
// includeSold.
func (s *ListingService) Mine(ctx context.Context, ownerID string, includeSold bool) ([]domain.Listing, error) {
	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return query.Apply(listings, query.Params{Sort: query.SortNewest, IncludeSold: includeSold}), nil
}

var _ ports.ListingService = (*ListingService)(nil)
