// Package crews assembles the agent crews: response routing (the two-stage
// router/generator pipeline), property insights, report generation, and chat.
package crews

import (
	"fmt"
	"strings"

	jsonx "github.com/armaanamatya/HackUTD2025/internal/shared/json"
)

// Valid response types for routing and final responses.
const (
	ResponseTypeAnalytics = "analytics"
	ResponseTypeDocument  = "document"
	ResponseTypeChat      = "chat"
)

// Source is one cited reference.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PriceRange holds extracted price bounds. Nil means unbounded.
type PriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// RoutingParameters are the structured parameters the router extracts from
// the user query.
type RoutingParameters struct {
	Locations       []string   `json:"locations,omitempty"`
	PriceRange      PriceRange `json:"price_range"`
	TimeRange       string     `json:"time_range,omitempty"`
	Filters         []string   `json:"filters,omitempty"`
	ForecastHorizon string     `json:"forecast_horizon,omitempty"`
}

// SearchResult is one gathered web result.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// RoutingContext carries the evidence the router gathered.
type RoutingContext struct {
	SearchResults []SearchResult `json:"search_results,omitempty"`
	Entities      []string       `json:"entities,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Raw           string         `json:"raw,omitempty"`
}

// RoutingPayload is the router task's data contract to the generator.
type RoutingPayload struct {
	ResponseType             string            `json:"response_type"`
	Query                    string            `json:"query"`
	ClassificationConfidence float64           `json:"classification_confidence"`
	Parameters               RoutingParameters `json:"parameters"`
	Context                  RoutingContext    `json:"context"`
	ToolsUsed                []string          `json:"tools_used,omitempty"`
	Sources                  []Source          `json:"sources,omitempty"`
	GeneratedAt              string            `json:"generated_at"`
}

// Block is one renderable section of a final response.
type Block struct {
	Type      string         `json:"type"`
	Heading   string         `json:"heading,omitempty"`
	Body      string         `json:"body,omitempty"`
	Columns   []string       `json:"columns,omitempty"`
	Rows      [][]string     `json:"rows,omitempty"`
	ChartType string         `json:"chart_type,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// ResponsePayload is the generator task's final frontend-facing contract.
type ResponsePayload struct {
	ResponseType string   `json:"response_type"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Blocks       []Block  `json:"blocks,omitempty"`
	Sources      []Source `json:"sources,omitempty"`
	NextActions  []string `json:"next_actions,omitempty"`
	GeneratedAt  string   `json:"generated_at"`
}

func validResponseType(t string) bool {
	switch t {
	case ResponseTypeAnalytics, ResponseTypeDocument, ResponseTypeChat:
		return true
	}
	return false
}

// ParseRoutingPayload decodes a routing payload and checks its response type.
func ParseRoutingPayload(raw string) (*RoutingPayload, error) {
	var payload RoutingPayload
	if err := jsonx.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("routing payload is not valid JSON: %w", err)
	}
	if !validResponseType(payload.ResponseType) {
		return nil, fmt.Errorf("routing payload has invalid response_type %q", payload.ResponseType)
	}
	return &payload, nil
}

// ParseResponsePayload decodes a final response payload.
func ParseResponsePayload(raw string) (*ResponsePayload, error) {
	var payload ResponsePayload
	if err := jsonx.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("response payload is not valid JSON: %w", err)
	}
	if !validResponseType(payload.ResponseType) {
		return nil, fmt.Errorf("response payload has invalid response_type %q", payload.ResponseType)
	}
	return &payload, nil
}

// ValidateRoutingJSON enforces the strict routing contract: the output must
// be a JSON object with a valid response_type and a non-empty query.
func ValidateRoutingJSON(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return fmt.Errorf("router output is not a JSON object")
	}
	payload, err := ParseRoutingPayload(trimmed)
	if err != nil {
		return err
	}
	if strings.TrimSpace(payload.Query) == "" {
		return fmt.Errorf("routing payload has empty query")
	}
	return nil
}
