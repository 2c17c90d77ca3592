package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// ProfileRepository implements ports.ProfileRepository on the key-value
// store under user:<id> keys.
type ProfileRepository struct {
	kv ports.KVStore
}

func NewProfileRepository(kv ports.KVStore) *ProfileRepository {
	return &ProfileRepository{kv: kv}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	return r.put(ctx, profile)
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	raw, found, err := r.kv.Get(ctx, profileKey(userID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	return r.put(ctx, profile)
}

func (r *ProfileRepository) put(ctx context.Context, profile *domain.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.ID, err)
	}
	return r.kv.Set(ctx, profileKey(profile.ID), raw)
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)
