package domain

import (
	"fmt"
	"strings"
	"time"
)

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

const (
	StatusActive  ListingStatus = "active"
	StatusPending ListingStatus = "pending"
	StatusSold    ListingStatus = "sold"
	StatusDeleted ListingStatus = "deleted"
)

// validTransitions defines the allowed state machine transitions.
// Deleted is terminal: it appears only as a target, never as a source.
var validTransitions = map[ListingStatus][]ListingStatus{
	StatusActive:  {StatusPending, StatusSold, StatusDeleted},
	StatusPending: {StatusActive, StatusSold, StatusDeleted},
	StatusSold:    {StatusActive, StatusDeleted},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ListingIDPrefix prefixes every listing id. Ids double as storage keys.
const ListingIDPrefix = "listing:"

// NormalizeListingID accepts either a bare uuid or a full "listing:<uuid>"
// id and returns the canonical form. Callers that key derived data on a
// listing id must normalize first so both id forms land on the same record.
func NormalizeListingID(id string) string {
	if strings.HasPrefix(id, ListingIDPrefix) {
		return id
	}
	return ListingIDPrefix + id
}

// ListingType discriminates the two listing flavours.
type ListingType string

const (
	TypeHousing     ListingType = "housing"
	TypeMarketplace ListingType = "marketplace"
)

// Gender preference values for housing listings.
const (
	GenderAny    = "any"
	GenderMale   = "male"
	GenderFemale = "female"
)

var housingTypes = map[string]struct{}{
	"Apartment": {},
	"House":     {},
	"Dorm":      {},
	"Studio":    {},
}

// Listing is the core aggregate. Exactly one of the housing or marketplace
// field groups is populated, matching Type.
type Listing struct {
	ID          string        `json:"id"`
	Type        ListingType   `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	UserID      string        `json:"userId"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
	SoldDate    *time.Time    `json:"soldDate,omitempty"`

	// Housing-only fields.
	Location           string     `json:"location,omitempty"`
	Bedrooms           int        `json:"bedrooms,omitempty"`
	Bathrooms          float64    `json:"bathrooms,omitempty"`
	MoveInDate         *time.Time `json:"moveInDate,omitempty"`
	MoveOutDate        *time.Time `json:"moveOutDate,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	HousingType        string     `json:"housingType,omitempty"`
	DistanceFromCampus *float64   `json:"distanceFromCampus,omitempty"`

	// Marketplace-only fields.
	Category  string `json:"category,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// ListingDraft carries the user-settable fields of a new listing.
type ListingDraft struct {
	Type        ListingType
	Title       string
	Description string
	Price       float64

	Location           string
	Bedrooms           int
	Bathrooms          float64
	MoveInDate         *time.Time
	MoveOutDate        *time.Time
	Gender             string
	HousingType        string
	DistanceFromCampus *float64

	Category  string
	Condition string
}

// Validate checks the draft against the declared type's required fields.
// All failures wrap ErrValidation.
func (d ListingDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if d.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if d.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	switch d.Type {
	case TypeHousing:
		if d.Category != "" || d.Condition != "" {
			return fmt.Errorf("%w: marketplace fields not allowed on a housing listing", ErrValidation)
		}
		if d.Location == "" {
			return fmt.Errorf("%w: location is required for housing listings", ErrValidation)
		}
		if d.Bedrooms < 0 {
			return fmt.Errorf("%w: bedrooms must not be negative", ErrValidation)
		}
		if d.Bathrooms < 0 {
			return fmt.Errorf("%w: bathrooms must not be negative", ErrValidation)
		}
		if r := d.Bathrooms * 2; r != float64(int(r)) {
			return fmt.Errorf("%w: bathrooms must be a multiple of 0.5", ErrValidation)
		}
		if d.Gender != "" && d.Gender != GenderAny && d.Gender != GenderMale && d.Gender != GenderFemale {
			return fmt.Errorf("%w: gender must be any, male or female", ErrValidation)
		}
		if _, ok := housingTypes[d.HousingType]; !ok {
			return fmt.Errorf("%w: housingType must be one of %s", ErrValidation, housingTypeList())
		}
		if d.DistanceFromCampus != nil && *d.DistanceFromCampus < 0 {
			return fmt.Errorf("%w: distanceFromCampus must not be negative", ErrValidation)
		}
		if d.MoveInDate != nil && d.MoveOutDate != nil && d.MoveOutDate.Before(*d.MoveInDate) {
			return fmt.Errorf("%w: moveOutDate must not precede moveInDate", ErrValidation)
		}
	case TypeMarketplace:
		if d.Location != "" || d.HousingType != "" || d.Gender != "" ||
			d.Bedrooms != 0 || d.Bathrooms != 0 ||
			d.MoveInDate != nil || d.MoveOutDate != nil || d.DistanceFromCampus != nil {
			return fmt.Errorf("%w: housing fields not allowed on a marketplace listing", ErrValidation)
		}
		if d.Category == "" {
			return fmt.Errorf("%w: category is required for marketplace listings", ErrValidation)
		}
		if d.Condition == "" {
			return fmt.Errorf("%w: condition is required for marketplace listings", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: type must be housing or marketplace", ErrValidation)
	}

	return nil
}

func housingTypeList() string {
	names := make([]string, 0, len(housingTypes))
	for n := range housingTypes {
		names = append(names, n)
	}
	// map order is random; keep the message stable
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return strings.Join(names, ", ")
}

// Draft projects the user-settable fields back into a draft so a partially
// updated listing can be revalidated under the same rules as creation.
func (l *Listing) Draft() ListingDraft {
	return ListingDraft{
		Type:        l.Type,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,

		Location:           l.Location,
		Bedrooms:           l.Bedrooms,
		Bathrooms:          l.Bathrooms,
		MoveInDate:         l.MoveInDate,
		MoveOutDate:        l.MoveOutDate,
		Gender:             l.Gender,
		HousingType:        l.HousingType,
		DistanceFromCampus: l.DistanceFromCampus,

		Category:  l.Category,
		Condition: l.Condition,
	}
}

// ListingPatch is a partial update merged onto an existing listing.
// Nil fields are left untouched.
type ListingPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Status      *ListingStatus

	Location           *string
	Bedrooms           *int
	Bathrooms          *float64
	MoveInDate         *time.Time
	MoveOutDate        *time.Time
	Gender             *string
	HousingType        *string
	DistanceFromCampus *float64

	Category  *string
	Condition *string

	// SoldDate bookkeeping is driven by the listing service when the status
	// machine enters or leaves sold.
	SoldDate      *time.Time
	ClearSoldDate bool
}

// Apply merges the patch onto l.
func (p ListingPatch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.MoveInDate != nil {
		l.MoveInDate = p.MoveInDate
	}
	if p.MoveOutDate != nil {
		l.MoveOutDate = p.MoveOutDate
	}
	if p.Gender != nil {
		l.Gender = *p.Gender
	}
	if p.HousingType != nil {
		l.HousingType = *p.HousingType
	}
	if p.DistanceFromCampus != nil {
		l.DistanceFromCampus = p.DistanceFromCampus
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Condition != nil {
		l.Condition = *p.Condition
	}
	if p.SoldDate != nil {
		l.SoldDate = p.SoldDate
	}
	if p.ClearSoldDate {
		l.SoldDate = nil
	}
}
