package builtin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

const (
	fetchDefaultMaxChars = 8000
	fetchCacheSize       = 128
	fetchCacheTTL        = 10 * time.Minute
)

// WebPageFetchTool downloads a page and extracts its readable text. Fetched
// pages are cached with a TTL so repeated agent iterations do not
// re-download while stale pages still age out.
type WebPageFetchTool struct {
	httpClient *http.Client
	cache      *expirable.LRU[string, string]
	logger     logging.Logger
}

// NewWebPageFetchTool builds the page fetch tool.
func NewWebPageFetchTool(logger logging.Logger) *WebPageFetchTool {
	cache := expirable.NewLRU[string, string](fetchCacheSize, nil, fetchCacheTTL)
	return &WebPageFetchTool{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		logger:     logging.OrNop(logger),
	}
}

func (t *WebPageFetchTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "fetch_web_page",
		Description: "Fetch a web page and return its readable text content. Use after a search to read a promising result in full.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"url": {
					Type:        "string",
					Description: "The absolute URL to fetch (http or https)",
				},
				"max_chars": {
					Type:        "integer",
					Description: "Maximum characters of extracted text to return (default 8000)",
				},
			},
			Required: []string{"url"},
		},
	}
}

func (t *WebPageFetchTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: "fetch_web_page", Version: "1.0", Category: "web", Tags: []string{"fetch", "scrape"}}
}

func (t *WebPageFetchTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	rawURL := stringArg(call.Arguments, "url")
	if rawURL == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: url is required"}, nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: url must be absolute http(s): " + rawURL}, nil
	}
	maxChars := intArg(call.Arguments, "max_chars", fetchDefaultMaxChars)
	if maxChars <= 0 {
		maxChars = fetchDefaultMaxChars
	}

	if text, ok := t.cache.Get(rawURL); ok {
		t.logger.Debug("fetch_web_page cache hit url=%s", rawURL)
		return &ports.ToolResult{CallID: call.ID, Content: clip(text, maxChars), Metadata: map[string]any{"cached": true}}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "cura-research-bot/1.0")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: fetch failed: %v", err)}, nil
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: page returned status %d", resp.StatusCode)}, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: parsing page: %v", err)}, nil
	}
	doc.Find("script, style, noscript, iframe, nav, footer").Remove()

	text := collapseWhitespace(doc.Find("body").Text())
	if text == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "No readable text found at: " + rawURL}, nil
	}
	t.cache.Add(rawURL, text)

	return &ports.ToolResult{
		CallID:   call.ID,
		Content:  clip(text, maxChars),
		Metadata: map[string]any{"url": rawURL, "chars": len(text)},
	}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n[truncated]"
}
