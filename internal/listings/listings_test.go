package listings

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListings() []Listing {
	return []Listing{
		{ID: "l1", Address: "100 Main St", City: "Dallas", State: "TX", ZipCode: "75201", ListingPrice: 350000, Bedrooms: 3, Bathrooms: 2, SquareFootage: 1800, PropertyType: TypeSingleFamily, Status: StatusActive},
		{ID: "l2", Address: "200 Elm St", City: "Dallas", State: "TX", ZipCode: "75202", ListingPrice: 1400, Bedrooms: 1, Bathrooms: 1, SquareFootage: 700, PropertyType: TypeCondo, Status: StatusActive},
		{ID: "l3", Address: "300 Oak Ave", City: "Austin", State: "TX", ZipCode: "78701", ListingPrice: 520000, Bedrooms: 4, Bathrooms: 3, SquareFootage: 2400, PropertyType: TypeSingleFamily, Status: StatusPending},
		{ID: "l4", Address: "400 Pine Rd", City: "Dallas", State: "TX", ZipCode: "75203", ListingPrice: 275000, Bedrooms: 2, Bathrooms: 2, SquareFootage: 1200, PropertyType: TypeTownhouse, Status: StatusSold},
	}
}

func TestMemoryStoreSearchByCityAndPrice(t *testing.T) {
	store := NewMemoryStore(sampleListings()...)

	results, err := store.Search(context.Background(), SearchFilter{City: "dallas", MaxPrice: 300000})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "l2", results[0].ID)
	assert.Equal(t, "l4", results[1].ID)
}

func TestMemoryStoreSearchRespectsLimit(t *testing.T) {
	store := NewMemoryStore(sampleListings()...)

	results, err := store.Search(context.Background(), SearchFilter{State: "TX", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchFilterLimitClamped(t *testing.T) {
	assert.Equal(t, DefaultSearchLimit, SearchFilter{}.EffectiveLimit())
	assert.Equal(t, MaxSearchLimit, SearchFilter{Limit: 10000}.EffectiveLimit())
	assert.Equal(t, 7, SearchFilter{Limit: 7}.EffectiveLimit())
}

func TestSearchFilterBedroomsAndStatus(t *testing.T) {
	store := NewMemoryStore(sampleListings()...)

	results, err := store.Search(context.Background(), SearchFilter{MinBedrooms: 3, Status: "active"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "l1", results[0].ID)
}

func TestMemoryStoreStats(t *testing.T) {
	store := NewMemoryStore(sampleListings()...)

	stats, err := store.Stats(context.Background(), StatsFilter{City: "Dallas"})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalListings)
	assert.Equal(t, 1400.0, stats.MinPrice)
	assert.Equal(t, 350000.0, stats.MaxPrice)
	assert.InDelta(t, (350000.0+1400+275000)/3, stats.AvgPrice, 0.01)
	assert.Equal(t, 2, stats.StatusBreakdown["active"])
	assert.Equal(t, 1, stats.StatusBreakdown["sold"])
	assert.Equal(t, 1, stats.TypeBreakdown["condo"])
}

func TestMemoryStoreStatsEmpty(t *testing.T) {
	store := NewMemoryStore()

	stats, err := store.Stats(context.Background(), StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalListings)
	assert.Equal(t, 0.0, stats.AvgPrice)
}

func TestMemoryStoreCount(t *testing.T) {
	store := NewMemoryStore(sampleListings()...)
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"id,address,city,state,zip,price,beds,baths,sqft,property_type,status,year_built",
		`p1,"12 Cedar Ln",Houston,TX,77002,"$425,000",3,2.5,2100,single_family,active,2005`,
		",55 River Walk,San Antonio,TX,78205,310000,2,2,1500,condo,,1999",
	}, "\n")

	listings, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "p1", first.ID)
	assert.Equal(t, 425000.0, first.ListingPrice)
	assert.Equal(t, 2.5, first.Bathrooms)
	assert.Equal(t, TypeSingleFamily, first.PropertyType)
	assert.Equal(t, 2005, first.YearBuilt)

	second := listings[1]
	assert.NotEmpty(t, second.ID)
	assert.Equal(t, StatusActive, second.Status)
}

func TestReadCSVStripsHeaderBOM(t *testing.T) {
	input := "\uFEFFaddress,city,state,price\n1 Oak St,Dallas,TX,100000\n"

	listings, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "1 Oak St", listings[0].Address)
	assert.Equal(t, 100000.0, listings[0].ListingPrice)
}

func TestReadCSVBadNumbersKeepZero(t *testing.T) {
	input := "address,city,state,price,beds\n1 Any St,Plano,TX,not-a-price,many\n"

	listings, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 0.0, listings[0].ListingPrice)
	assert.Equal(t, 0, listings[0].Bedrooms)
}
