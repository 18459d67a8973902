package builtin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/listings"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

// ListingSearchTool queries the listings store and formats matches as prose
// an agent can cite directly.
type ListingSearchTool struct {
	store  listings.Store
	logger logging.Logger
}

// NewListingSearchTool builds the listings search tool.
func NewListingSearchTool(store listings.Store, logger logging.Logger) *ListingSearchTool {
	return &ListingSearchTool{store: store, logger: logging.OrNop(logger)}
}

func (t *ListingSearchTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "search_listings",
		Description: "Search the property listings database. All filters are optional; combine them to narrow results.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"city":          {Type: "string", Description: "City name (substring match)"},
				"state":         {Type: "string", Description: "Two-letter state code"},
				"zip_code":      {Type: "string", Description: "ZIP code"},
				"min_price":     {Type: "number", Description: "Minimum listing price"},
				"max_price":     {Type: "number", Description: "Maximum listing price"},
				"min_bedrooms":  {Type: "integer", Description: "Minimum bedrooms"},
				"max_bedrooms":  {Type: "integer", Description: "Maximum bedrooms"},
				"min_bathrooms": {Type: "number", Description: "Minimum bathrooms"},
				"property_type": {Type: "string", Description: "Property type", Enum: []any{"single_family", "condo", "townhouse", "multi_family", "land", "commercial", "other"}},
				"status":        {Type: "string", Description: "Listing status", Enum: []any{"active", "pending", "sold", "off_market", "expired"}},
				"limit":         {Type: "integer", Description: "Maximum results (default 50, max 100)"},
			},
		},
	}
}

func (t *ListingSearchTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: "search_listings", Version: "1.0", Category: "database", Tags: []string{"listings", "search"}}
}

func (t *ListingSearchTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	filter := listings.SearchFilter{
		City:         stringArg(call.Arguments, "city"),
		State:        stringArg(call.Arguments, "state"),
		ZipCode:      stringArg(call.Arguments, "zip_code"),
		MinPrice:     floatArg(call.Arguments, "min_price"),
		MaxPrice:     floatArg(call.Arguments, "max_price"),
		MinBedrooms:  intArg(call.Arguments, "min_bedrooms", 0),
		MaxBedrooms:  intArg(call.Arguments, "max_bedrooms", 0),
		MinBathrooms: floatArg(call.Arguments, "min_bathrooms"),
		PropertyType: stringArg(call.Arguments, "property_type"),
		Status:       stringArg(call.Arguments, "status"),
		Limit:        intArg(call.Arguments, "limit", 0),
	}

	results, err := t.store.Search(ctx, filter)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: listings search failed: %v", err)}, nil
	}
	if len(results) == 0 {
		return &ports.ToolResult{CallID: call.ID, Content: "No listings match the given filters."}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d listing(s):\n", len(results))
	for i, l := range results {
		fmt.Fprintf(&sb, "%d. %s, %s, %s %s - $%.0f | %d bed / %.1f bath | %d sqft | %s | %s\n",
			i+1, l.Address, l.City, l.State, l.ZipCode,
			l.ListingPrice, l.Bedrooms, l.Bathrooms, l.SquareFootage, l.PropertyType, l.Status)
	}
	return &ports.ToolResult{
		CallID:   call.ID,
		Content:  sb.String(),
		Metadata: map[string]any{"result_count": len(results)},
	}, nil
}

// ListingStatsTool aggregates market statistics over the listings store.
type ListingStatsTool struct {
	store  listings.Store
	logger logging.Logger
}

// NewListingStatsTool builds the listings statistics tool.
func NewListingStatsTool(store listings.Store, logger logging.Logger) *ListingStatsTool {
	return &ListingStatsTool{store: store, logger: logging.OrNop(logger)}
}

func (t *ListingStatsTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "listing_stats",
		Description: "Get aggregate market statistics (price and size ranges, averages, status and type breakdowns) for listings, optionally filtered by location or property type.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"city":          {Type: "string", Description: "City name (substring match)"},
				"state":         {Type: "string", Description: "Two-letter state code"},
				"zip_code":      {Type: "string", Description: "ZIP code"},
				"property_type": {Type: "string", Description: "Property type filter"},
			},
		},
	}
}

func (t *ListingStatsTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: "listing_stats", Version: "1.0", Category: "database", Tags: []string{"listings", "stats"}}
}

func (t *ListingStatsTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	filter := listings.StatsFilter{
		City:         stringArg(call.Arguments, "city"),
		State:        stringArg(call.Arguments, "state"),
		ZipCode:      stringArg(call.Arguments, "zip_code"),
		PropertyType: stringArg(call.Arguments, "property_type"),
	}

	stats, err := t.store.Stats(ctx, filter)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: listings stats failed: %v", err)}, nil
	}
	if stats.TotalListings == 0 {
		return &ports.ToolResult{CallID: call.ID, Content: "No listings match the given filters."}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Listings: %d\n", stats.TotalListings)
	fmt.Fprintf(&sb, "Price: min $%.0f, max $%.0f, avg $%.0f\n", stats.MinPrice, stats.MaxPrice, stats.AvgPrice)
	fmt.Fprintf(&sb, "Size: min %d sqft, max %d sqft, avg %.0f sqft\n", stats.MinSquareFeet, stats.MaxSquareFeet, stats.AvgSquareFeet)
	sb.WriteString("By status: " + breakdownLine(stats.StatusBreakdown) + "\n")
	sb.WriteString("By type: " + breakdownLine(stats.TypeBreakdown) + "\n")
	return &ports.ToolResult{CallID: call.ID, Content: sb.String(), Metadata: map[string]any{"total": stats.TotalListings}}, nil
}

func breakdownLine(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}
