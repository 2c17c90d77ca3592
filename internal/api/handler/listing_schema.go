package handler

import (
	"time"

	"github.com/campusmarket/campus-market/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// createListingRequest is the type-discriminated listing draft. Cross-field
// rules (exactly one type-specific group populated, date ordering, 0.5
// bathroom granularity) are enforced by the domain draft validation; the
// tags here catch the shallow mistakes early.
type createListingRequest struct {
	Type        string  `json:"type"        validate:"required,oneof=housing marketplace"`
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`

	// Housing-only fields.
	Location           string     `json:"location,omitempty"`
	Bedrooms           int        `json:"bedrooms,omitempty"           validate:"gte=0"`
	Bathrooms          float64    `json:"bathrooms,omitempty"          validate:"gte=0"`
	MoveInDate         *time.Time `json:"moveInDate,omitempty"`
	MoveOutDate        *time.Time `json:"moveOutDate,omitempty"`
	Gender             string     `json:"gender,omitempty"             validate:"omitempty,oneof=any male female"`
	HousingType        string     `json:"housingType,omitempty"        validate:"omitempty,oneof=Apartment House Dorm Studio"`
	DistanceFromCampus *float64   `json:"distanceFromCampus,omitempty"`

	// Marketplace-only fields.
	Category  string `json:"category,omitempty"`
	Condition string `json:"condition,omitempty"`
}

func (r createListingRequest) toDraft() domain.ListingDraft {
	return domain.ListingDraft{
		Type:        domain.ListingType(r.Type),
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,

		Location:           r.Location,
		Bedrooms:           r.Bedrooms,
		Bathrooms:          r.Bathrooms,
		MoveInDate:         r.MoveInDate,
		MoveOutDate:        r.MoveOutDate,
		Gender:             r.Gender,
		HousingType:        r.HousingType,
		DistanceFromCampus: r.DistanceFromCampus,

		Category:  r.Category,
		Condition: r.Condition,
	}
}

// updateListingRequest is a partial update; nil fields are left untouched.
type updateListingRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"       validate:"omitempty,gte=0"`
	Status      *string  `json:"status,omitempty"      validate:"omitempty,oneof=active pending sold deleted"`

	Location           *string    `json:"location,omitempty"`
	Bedrooms           *int       `json:"bedrooms,omitempty"  validate:"omitempty,gte=0"`
	Bathrooms          *float64   `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	MoveInDate         *time.Time `json:"moveInDate,omitempty"`
	MoveOutDate        *time.Time `json:"moveOutDate,omitempty"`
	Gender             *string    `json:"gender,omitempty"      validate:"omitempty,oneof=any male female"`
	HousingType        *string    `json:"housingType,omitempty" validate:"omitempty,oneof=Apartment House Dorm Studio"`
	DistanceFromCampus *float64   `json:"distanceFromCampus,omitempty"`

	Category  *string `json:"category,omitempty"`
	Condition *string `json:"condition,omitempty"`
}

func (r updateListingRequest) toPatch() domain.ListingPatch {
	patch := domain.ListingPatch{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,

		Location:           r.Location,
		Bedrooms:           r.Bedrooms,
		Bathrooms:          r.Bathrooms,
		MoveInDate:         r.MoveInDate,
		MoveOutDate:        r.MoveOutDate,
		Gender:             r.Gender,
		HousingType:        r.HousingType,
		DistanceFromCampus: r.DistanceFromCampus,

		Category:  r.Category,
		Condition: r.Condition,
	}
	if r.Status != nil {
		status := domain.ListingStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

type listingResponse struct {
	Listing *domain.Listing `json:"listing"`
}

type listingsResponse struct {
	Listings []domain.Listing `json:"listings"`
}

type okResponse struct {
	Success bool `json:"success"`
}
