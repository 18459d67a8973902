// Package builtin provides the tool executors available to agents: web
// research, local file access, and listings database queries.
package builtin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	jsonx "github.com/armaanamatya/HackUTD2025/internal/shared/json"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

const tavilyDefaultBaseURL = "https://api.tavily.com"

// WebSearchTool queries the Tavily search API and returns result snippets.
type WebSearchTool struct {
	apiKey     func() string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewWebSearchTool builds the Tavily-backed search tool. The key is read at
// call time so rotated credentials take effect without a restart.
func NewWebSearchTool(apiKey func() string, logger logging.Logger) *WebSearchTool {
	return &WebSearchTool{
		apiKey:     apiKey,
		baseURL:    tavilyDefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.OrNop(logger),
	}
}

func (t *WebSearchTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "web_search",
		Description: "Search the web for current information. Returns titles, URLs and content snippets for the top results.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"query": {
					Type:        "string",
					Description: "The search query",
				},
				"max_results": {
					Type:        "integer",
					Description: "Maximum number of results to return (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *WebSearchTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: "web_search", Version: "1.0", Category: "web", Tags: []string{"search", "research"}}
}

func (t *WebSearchTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	query, _ := call.Arguments["query"].(string)
	if strings.TrimSpace(query) == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: query is required"}, nil
	}
	maxResults := intArg(call.Arguments, "max_results", 5)

	key := t.apiKey()
	if key == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: web search is not configured (missing API key)"}, nil
	}

	body, err := jsonx.Marshal(map[string]any{
		"api_key":     key,
		"query":       query,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	t.logger.Debug("web_search query=%q max_results=%d", query, maxResults)
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: search request failed: %v", err)}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: reading search response: %v", err)}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return &ports.ToolResult{
			CallID:  call.ID,
			Content: fmt.Sprintf("Error: search API returned status %d", resp.StatusCode),
		}, nil
	}

	var parsed struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := jsonx.Unmarshal(raw, &parsed); err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: malformed search response: %v", err)}, nil
	}
	if len(parsed.Results) == 0 {
		return &ports.ToolResult{CallID: call.ID, Content: "No results found for: " + query}, nil
	}

	var sb strings.Builder
	if parsed.Answer != "" {
		fmt.Fprintf(&sb, "Answer: %s\n\n", parsed.Answer)
	}
	for i, r := range parsed.Results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Content)
	}
	return &ports.ToolResult{
		CallID:   call.ID,
		Content:  sb.String(),
		Metadata: map[string]any{"result_count": len(parsed.Results)},
	}, nil
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case jsonx.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case jsonx.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}
