package domain

import "time"

// Subscription tiers.
const (
	TierFree    = "free"
	TierPoster  = "poster"
	TierPremium = "premium"
)

// ValidTier reports whether tier is a known subscription tier.
func ValidTier(tier string) bool {
	return tier == TierFree || tier == TierPoster || tier == TierPremium
}

// UserProfile is the public profile record kept in the key-value store.
type UserProfile struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	SubscriptionTier string    `json:"subscriptionTier"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Account is the identity collaborator's credential record. It lives in the
// credential store, not the key-value store, and shares its ID with the
// user's profile.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
