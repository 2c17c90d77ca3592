// Package query implements the pure filter/sort pipeline applied to a
// snapshot of listings. It performs no I/O, holds no state, and is re-run
// from scratch on every parameter change; listing counts are small enough
// that incremental evaluation is not worth its complexity.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/campusmarket/campus-market/internal/core/domain"
)

// SortKey selects the ordering of the result.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortMoveIn    SortKey = "move-in"
)

// DistanceBucket is a distance-from-campus range filter.
type DistanceBucket string

const (
	DistanceWalking  DistanceBucket = "walking" // <= 0.5 mi
	DistanceUnderOne DistanceBucket = "<1"
	DistanceOneThree DistanceBucket = "1-3"
	DistanceThreeUp  DistanceBucket = "3+"
)

// Filters holds the optional filter criteria. Zero values mean "not set".
// Housing-specific filters apply only to housing listings; marketplace
// listings pass them untouched.
type Filters struct {
	PriceMin     *float64
	PriceMax     *float64
	MoveInDate   *time.Time
	MoveOutDate  *time.Time
	Distance     DistanceBucket
	Gender       string
	HousingTypes []string
	Bedrooms     string // "studio", "1", "2", ... or "3+"
}

// Params is the full input of one pipeline run.
type Params struct {
	Search      string
	Filters     Filters
	Sort        SortKey
	IncludeSold bool
}

// Apply runs visibility, search, filters and sort over listings and returns
// the resulting sequence. The input slice is never mutated.
func Apply(listings []domain.Listing, p Params) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if !p.IncludeSold && l.Status == domain.StatusSold {
			continue
		}
		if !matchesSearch(l, p.Search) {
			continue
		}
		if !matchesFilters(l, p.Filters) {
			continue
		}
		out = append(out, l)
	}
	sortListings(out, p.Sort)
	return out
}

// matchesSearch reports whether term appears, case-insensitively, in the
// title, description or location. An empty term matches everything.
func matchesSearch(l domain.Listing, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(l.Title), term) ||
		strings.Contains(strings.ToLower(l.Description), term) ||
		strings.Contains(strings.ToLower(l.Location), term)
}

func matchesFilters(l domain.Listing, f Filters) bool {
	if f.PriceMin != nil && l.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && l.Price > *f.PriceMax {
		return false
	}

	// The remaining filters are housing-specific.
	if l.Type != domain.TypeHousing {
		return true
	}

	if f.MoveInDate != nil {
		if l.MoveInDate == nil || l.MoveInDate.Before(*f.MoveInDate) {
			return false
		}
	}
	if f.MoveOutDate != nil {
		if l.MoveOutDate == nil || l.MoveOutDate.After(*f.MoveOutDate) {
			return false
		}
	}
	if f.Distance != "" && !matchesDistance(l.DistanceFromCampus, f.Distance) {
		return false
	}
	// A listing with no stated gender preference passes every gender filter.
	if f.Gender != "" && l.Gender != "" && l.Gender != f.Gender {
		return false
	}
	if len(f.HousingTypes) > 0 && !contains(f.HousingTypes, l.HousingType) {
		return false
	}
	if f.Bedrooms != "" && !matchesBedrooms(l.Bedrooms, f.Bedrooms) {
		return false
	}
	return true
}

// matchesDistance checks bucket membership. A listing with no distance value
// passes every distance filter.
func matchesDistance(distance *float64, bucket DistanceBucket) bool {
	if distance == nil {
		return true
	}
	d := *distance
	switch bucket {
	case DistanceWalking:
		return d <= 0.5
	case DistanceUnderOne:
		return d < 1
	case DistanceOneThree:
		return d >= 1 && d <= 3
	case DistanceThreeUp:
		return d > 3
	default:
		return true
	}
}

func matchesBedrooms(bedrooms int, filter string) bool {
	switch filter {
	case "studio":
		return bedrooms == 0
	case "3+":
		return bedrooms >= 3
	case "1":
		return bedrooms == 1
	case "2":
		return bedrooms == 2
	case "3":
		return bedrooms == 3
	default:
		return true
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// sortListings orders in place, stably, by the given key. Unknown keys leave
// the input order untouched.
func sortListings(listings []domain.Listing, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price < listings[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price > listings[j].Price
		})
	case SortNewest:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		})
	case SortMoveIn:
		// Listings without a move-in date sort after all dated ones.
		sort.SliceStable(listings, func(i, j int) bool {
			a, b := listings[i].MoveInDate, listings[j].MoveInDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	}
}
