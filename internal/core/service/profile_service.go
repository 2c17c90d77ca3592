package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// ProfileService exposes profile reads and subscription tier changes.
type ProfileService struct {
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewProfileService(profiles ports.ProfileRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, log: log}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

// SetTier updates the caller's subscription tier.
func (s *ProfileService) SetTier(ctx context.Context, userID, tier string) (*domain.UserProfile, error) {
	if !domain.ValidTier(tier) {
		return nil, fmt.Errorf("%w: tier must be free, poster or premium", domain.ErrValidation)
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.SubscriptionTier = tier
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("tier", tier).Msg("subscription tier updated")
	return profile, nil
}

var _ ports.ProfileService = (*ProfileService)(nil)
