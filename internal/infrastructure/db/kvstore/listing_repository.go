package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// ListingRepository implements ports.ListingRepository on the key-value
// store. Listing ids double as their storage keys.
type ListingRepository struct {
	kv  ports.KVStore
	idx *IndexMaintainer
	log zerolog.Logger
}

func NewListingRepository(kv ports.KVStore, idx *IndexMaintainer, log zerolog.Logger) *ListingRepository {
	return &ListingRepository{kv: kv, idx: idx, log: log}
}

// Create validates the draft, persists the new listing and appends it to the
// owner's index. The entity write and the index append are two sequential
// writes with no rollback: a crash between them leaves the listing reachable
// by scan but absent from the owner's index until the next rebuild. An index
// append failure after a successful entity write is logged, not returned;
// the entity write is the primary contract.
func (r *ListingRepository) Create(ctx context.Context, ownerID string, draft domain.ListingDraft) (*domain.Listing, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		ID:          ListingPrefix + uuid.NewString(),
		Type:        draft.Type,
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		UserID:      ownerID,
		Status:      domain.StatusActive,
		CreatedAt:   time.Now().UTC(),

		Location:           draft.Location,
		Bedrooms:           draft.Bedrooms,
		Bathrooms:          draft.Bathrooms,
		MoveInDate:         draft.MoveInDate,
		MoveOutDate:        draft.MoveOutDate,
		Gender:             draft.Gender,
		HousingType:        draft.HousingType,
		DistanceFromCampus: draft.DistanceFromCampus,

		Category:  draft.Category,
		Condition: draft.Condition,
	}
	if listing.Type == domain.TypeHousing && listing.Gender == "" {
		listing.Gender = domain.GenderAny
	}

	if err := r.put(ctx, listing); err != nil {
		return nil, err
	}
	if err := r.idx.AppendListing(ctx, ownerID, listing.ID); err != nil {
		indexAppendFailuresTotal.WithLabelValues("user-listings").Inc()
		r.log.Error().Err(err).
			Str("listing_id", listing.ID).
			Str("owner_id", ownerID).
			Msg("listing index append failed")
	}
	return listing, nil
}

// Get returns the listing with the given id, including tombstoned records.
func (r *ListingRepository) Get(ctx context.Context, id string) (*domain.Listing, error) {
	key := domain.NormalizeListingID(id)
	raw, found, err := r.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrListingNotFound
	}
	var listing domain.Listing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, fmt.Errorf("decode listing %s: %w", key, err)
	}
	return &listing, nil
}

// Update merges patch onto the stored record after an ownership check and
// stamps updatedAt. No status restrictions here; the service owns the state
// machine.
func (r *ListingRepository) Update(ctx context.Context, id, requesterID string, patch domain.ListingPatch) (*domain.Listing, error) {
	listing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	patch.Apply(listing)
	now := time.Now().UTC()
	listing.UpdatedAt = &now

	if err := r.put(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// SoftDelete tombstones the listing. Idempotent: deleting an already-deleted
// listing succeeds without a second write. Index entries are retained;
// readers filter by status.
func (r *ListingRepository) SoftDelete(ctx context.Context, id, requesterID string) error {
	listing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if listing.UserID != requesterID {
		return domain.ErrForbidden
	}
	if listing.Status == domain.StatusDeleted {
		return nil
	}

	listing.Status = domain.StatusDeleted
	now := time.Now().UTC()
	listing.UpdatedAt = &now
	return r.put(ctx, listing)
}

// List prefix-scans all listings, dropping tombstones and optionally
// narrowing by type.
func (r *ListingRepository) List(ctx context.Context, filterType domain.ListingType) ([]domain.Listing, error) {
	values, err := r.kv.GetByPrefix(ctx, ListingPrefix)
	if err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(values))
	for _, raw := range values {
		var l domain.Listing
		if err := json.Unmarshal(raw, &l); err != nil {
			r.log.Warn().Err(err).Msg("skipping undecodable listing record")
			continue
		}
		if l.Status == domain.StatusDeleted {
			continue
		}
		if filterType != "" && l.Type != filterType {
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// ListByOwner resolves the owner's index and multi-gets the records. Ids
// that resolve to nothing or to a tombstone are dropped: the index is a
// candidate set, not a liveness proof.
func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	ids, err := r.idx.ListingIDs(ctx, ownerID)
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

	listings := make([]domain.Listing, 0, len(values))
	for i, raw := range values {
		if raw == nil {
			continue
		}
		var l domain.Listing
		if err := json.Unmarshal(raw, &l); err != nil {
			r.log.Warn().Err(err).Str("listing_id", ids[i]).Msg("skipping undecodable listing record")
			continue
		}
		if l.Status == domain.StatusDeleted {
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func (r *ListingRepository) put(ctx context.Context, listing *domain.Listing) error {
	raw, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("encode listing %s: %w", listing.ID, err)
	}
	return r.kv.Set(ctx, listing.ID, raw)
}

var _ ports.ListingRepository = (*ListingRepository)(nil)
