package builtin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	jsonx "github.com/armaanamatya/HackUTD2025/internal/shared/json"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

const perplexityDefaultBaseURL = "https://api.perplexity.ai"

// PerplexitySearchTool asks the Perplexity online model a research question
// and returns its synthesized, citation-backed answer.
type PerplexitySearchTool struct {
	apiKey     func() string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     logging.Logger
}

// NewPerplexitySearchTool builds the Perplexity research tool.
func NewPerplexitySearchTool(apiKey func() string, logger logging.Logger) *PerplexitySearchTool {
	return &PerplexitySearchTool{
		apiKey:     apiKey,
		baseURL:    perplexityDefaultBaseURL,
		model:      "sonar",
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logging.OrNop(logger),
	}
}

func (t *PerplexitySearchTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "perplexity_search",
		Description: "Ask a research question and get a synthesized answer with citations from current web sources. Best for market trends and factual questions.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"query": {
					Type:        "string",
					Description: "The research question",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *PerplexitySearchTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: "perplexity_search", Version: "1.0", Category: "web", Tags: []string{"search", "research"}}
}

func (t *PerplexitySearchTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	query := stringArg(call.Arguments, "query")
	if query == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: query is required"}, nil
	}
	key := t.apiKey()
	if key == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: perplexity search is not configured (missing API key)"}, nil
	}

	body, err := jsonx.Marshal(map[string]any{
		"model": t.model,
		"messages": []map[string]string{
			{"role": "system", "content": "Be precise and concise. Cite sources."},
			{"role": "user", "content": query},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	t.logger.Debug("perplexity_search query=%q", query)
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: research request failed: %v", err)}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: reading research response: %v", err)}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: research API returned status %d", resp.StatusCode)}, nil
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Citations []string `json:"citations"`
	}
	if err := jsonx.Unmarshal(raw, &parsed); err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: malformed research response: %v", err)}, nil
	}
	if len(parsed.Choices) == 0 {
		return &ports.ToolResult{CallID: call.ID, Content: "No answer returned for: " + query}, nil
	}

	content := parsed.Choices[0].Message.Content
	if len(parsed.Citations) > 0 {
		content += "\n\nSources:"
		for i, c := range parsed.Citations {
			content += fmt.Sprintf("\n[%d] %s", i+1, c)
		}
	}
	return &ports.ToolResult{CallID: call.ID, Content: content}, nil
}
