package listings

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// LoadCSV reads a listings CSV file and returns its records. The first row
// must be a header; column order is free.
func LoadCSV(path string) ([]Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listings csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV decodes listings from CSV. Column names are matched
// case-insensitively with common aliases (price/listing_price, zip/zip_code,
// beds/bedrooms). Rows with unparseable numbers keep zero values rather than
// failing the whole import; rows missing an id get a generated one.
func ReadCSV(r io.Reader) ([]Listing, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeColumn(name)] = i
	}

	var listings []Listing
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		field := func(names ...string) string {
			for _, name := range names {
				if idx, ok := cols[name]; ok && idx < len(record) {
					return strings.TrimSpace(record[idx])
				}
			}
			return ""
		}

		l := Listing{
			ID:            field("id", "listing_id"),
			Address:       field("address", "street_address"),
			City:          field("city"),
			State:         field("state"),
			ZipCode:       field("zip_code", "zip", "zipcode"),
			Neighborhood:  field("neighborhood"),
			ListingPrice:  parseFloat(field("listing_price", "price")),
			Bedrooms:      parseInt(field("bedrooms", "beds")),
			Bathrooms:     parseFloat(field("bathrooms", "baths")),
			SquareFootage: parseInt(field("square_footage", "sqft", "square_feet")),
			PropertyType:  PropertyType(strings.ToLower(field("property_type", "type"))),
			Status:        Status(strings.ToLower(field("status"))),
			YearBuilt:     parseInt(field("year_built")),
			URL:           field("url", "listing_url"),
		}
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if l.Status == "" {
			l.Status = StatusActive
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "\uFEFF")
	return strings.ReplaceAll(name, " ", "_")
}

func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
