package listings

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store. It is safe for concurrent use and
// returns copies, never internal slices.
type MemoryStore struct {
	mu       sync.RWMutex
	listings []Listing
}

// NewMemoryStore builds a store seeded with the given listings.
func NewMemoryStore(seed ...Listing) *MemoryStore {
	s := &MemoryStore{}
	s.Add(seed...)
	return s
}

// Add appends listings to the store.
func (s *MemoryStore) Add(listings ...Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = append(s.listings, listings...)
}

// Search returns up to filter.EffectiveLimit() matching listings in
// insertion order.
func (s *MemoryStore) Search(ctx context.Context, filter SearchFilter) ([]Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.EffectiveLimit()
	results := make([]Listing, 0, limit)
	for _, l := range s.listings {
		if !filter.Matches(l) {
			continue
		}
		results = append(results, l)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Stats aggregates every listing matching the filter. Unlike Search, the
// aggregation is not capped by the search limit.
func (s *MemoryStore) Stats(ctx context.Context, filter StatsFilter) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := filter.search()
	stats := &Stats{
		StatusBreakdown: map[string]int{},
		TypeBreakdown:   map[string]int{},
	}
	var priceSum float64
	var sqftSum int
	for _, l := range s.listings {
		if !match.Matches(l) {
			continue
		}
		stats.TotalListings++
		priceSum += l.ListingPrice
		sqftSum += l.SquareFootage
		if stats.TotalListings == 1 || l.ListingPrice < stats.MinPrice {
			stats.MinPrice = l.ListingPrice
		}
		if l.ListingPrice > stats.MaxPrice {
			stats.MaxPrice = l.ListingPrice
		}
		if stats.TotalListings == 1 || l.SquareFootage < stats.MinSquareFeet {
			stats.MinSquareFeet = l.SquareFootage
		}
		if l.SquareFootage > stats.MaxSquareFeet {
			stats.MaxSquareFeet = l.SquareFootage
		}
		stats.StatusBreakdown[string(l.Status)]++
		stats.TypeBreakdown[string(l.PropertyType)]++
	}
	if stats.TotalListings > 0 {
		stats.AvgPrice = priceSum / float64(stats.TotalListings)
		stats.AvgSquareFeet = float64(sqftSum) / float64(stats.TotalListings)
	}
	return stats, nil
}

// Count returns the number of stored listings.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings), nil
}
