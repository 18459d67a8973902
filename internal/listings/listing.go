// Package listings models the market-listings database consumed by the
// agent pipeline's database tools and the listings API.
package listings

import (
	"context"
	"strings"
)

// Status is a listing's market status.
type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
	StatusOffMarket Status = "off_market"
	StatusExpired   Status = "expired"
)

// PropertyType categorizes a listing.
type PropertyType string

const (
	TypeSingleFamily PropertyType = "single_family"
	TypeCondo        PropertyType = "condo"
	TypeTownhouse    PropertyType = "townhouse"
	TypeMultiFamily  PropertyType = "multi_family"
	TypeLand         PropertyType = "land"
	TypeCommercial   PropertyType = "commercial"
	TypeOther        PropertyType = "other"
)

// Listing is one market listing record.
type Listing struct {
	ID            string       `json:"id"`
	Address       string       `json:"address"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	ZipCode       string       `json:"zip_code"`
	Neighborhood  string       `json:"neighborhood,omitempty"`
	ListingPrice  float64      `json:"listing_price"`
	Bedrooms      int          `json:"bedrooms"`
	Bathrooms     float64      `json:"bathrooms"`
	SquareFootage int          `json:"square_footage"`
	PropertyType  PropertyType `json:"property_type"`
	Status        Status       `json:"status"`
	YearBuilt     int          `json:"year_built,omitempty"`
	URL           string       `json:"url,omitempty"`
}

// Search limits. The tools never return more than MaxSearchLimit records.
const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 100
)

// SearchFilter narrows a listing search. Zero values mean "no constraint".
type SearchFilter struct {
	City          string
	State         string
	ZipCode       string
	MinPrice      float64
	MaxPrice      float64
	PropertyType  string
	Status        string
	MinBedrooms   int
	MaxBedrooms   int
	MinBathrooms  float64
	MaxBathrooms  float64
	MinSquareFeet int
	MaxSquareFeet int
	Limit         int
}

// EffectiveLimit clamps the requested limit into [1, MaxSearchLimit].
func (f SearchFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultSearchLimit
	case f.Limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return f.Limit
	}
}

// Matches reports whether l satisfies every set constraint. City matching is
// case-insensitive substring, state and zip are exact (case-insensitive).
func (f SearchFilter) Matches(l Listing) bool {
	if f.City != "" && !strings.Contains(strings.ToLower(l.City), strings.ToLower(f.City)) {
		return false
	}
	if f.State != "" && !strings.EqualFold(l.State, f.State) {
		return false
	}
	if f.ZipCode != "" && l.ZipCode != f.ZipCode {
		return false
	}
	if f.MinPrice > 0 && l.ListingPrice < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && l.ListingPrice > f.MaxPrice {
		return false
	}
	if f.PropertyType != "" && !strings.EqualFold(string(l.PropertyType), f.PropertyType) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(l.Status), f.Status) {
		return false
	}
	if f.MinBedrooms > 0 && l.Bedrooms < f.MinBedrooms {
		return false
	}
	if f.MaxBedrooms > 0 && l.Bedrooms > f.MaxBedrooms {
		return false
	}
	if f.MinBathrooms > 0 && l.Bathrooms < f.MinBathrooms {
		return false
	}
	if f.MaxBathrooms > 0 && l.Bathrooms > f.MaxBathrooms {
		return false
	}
	if f.MinSquareFeet > 0 && l.SquareFootage < f.MinSquareFeet {
		return false
	}
	if f.MaxSquareFeet > 0 && l.SquareFootage > f.MaxSquareFeet {
		return false
	}
	return true
}

// StatsFilter narrows aggregate statistics by location and property type.
type StatsFilter struct {
	City         string
	State        string
	ZipCode      string
	PropertyType string
}

func (f StatsFilter) search() SearchFilter {
	return SearchFilter{
		City:         f.City,
		State:        f.State,
		ZipCode:      f.ZipCode,
		PropertyType: f.PropertyType,
		Limit:        MaxSearchLimit,
	}
}

// Stats aggregates listings matching a StatsFilter.
type Stats struct {
	TotalListings   int            `json:"total_listings"`
	MinPrice        float64        `json:"min_price"`
	MaxPrice        float64        `json:"max_price"`
	AvgPrice        float64        `json:"avg_price"`
	MinSquareFeet   int            `json:"min_square_feet"`
	MaxSquareFeet   int            `json:"max_square_feet"`
	AvgSquareFeet   float64        `json:"avg_square_feet"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
	TypeBreakdown   map[string]int `json:"type_breakdown"`
}

// Store is the injected listings persistence boundary. The pipeline only
// needs these three operations; the backing medium is an external decision.
type Store interface {
	Search(ctx context.Context, filter SearchFilter) ([]Listing, error)
	Stats(ctx context.Context, filter StatsFilter) (*Stats, error)
	Count(ctx context.Context) (int, error)
}
