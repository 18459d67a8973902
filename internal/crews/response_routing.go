package crews

import (
	"context"

	"github.com/armaanamatya/HackUTD2025/internal/agent/domain"
)

const routerTaskDescription = `You are the Insight Agent (Router). Classify the user query into one of three response types:
- analytics
- document
- chat

Use the following few-shot guidance to map queries to response_type:
- "Predict which properties might drop in value next quarter." -> analytics
- "Show me a graph of housing price trends in Austin, TX over the last 5 years." -> analytics
- "Show me apartments in downtown Dallas under $1,500." -> document
- "Find luxury homes for sale in Jakarta." -> document
- "Extract key clauses from this contract about termination." -> document
- "Hey CURA, can you help me find something?" -> chat
- "What's the weather like today?" -> chat
- "Thanks, that was helpful!" -> chat

Then prepare structured context via tool calls when helpful:
- Use perplexity_search for comprehensive web research. Prefer queries like: site:zillow.com OR site:realtor.com plus user intent.
- Use web_search if available for quick sources.
- Use fetch_web_page to pull readable content for top sources.
- Use search_listings and listing_stats to query the local listings database when the user asks about properties or market data.

Extract parameters from the query: location(s), price range, time range, filters (e.g., beds/baths), and any constraints.

OUTPUT STRICT JSON ONLY with this exact schema:
{
  "response_type": "analytics" | "document" | "chat",
  "query": "{user_query}",
  "classification_confidence": 0.0,
  "parameters": {
    "locations": ["city/state"],
    "price_range": {"min": null, "max": null},
    "time_range": "e.g., last_5_years or next_quarter",
    "filters": ["string filters"],
    "forecast_horizon": "e.g., 1_quarter or 12_months"
  },
  "context": {
    "search_results": [{"title": "...", "url": "...", "snippet": "..."}],
    "entities": ["property addresses or named entities"],
    "notes": "key points or assumptions",
    "raw": "high-level summary or combined findings"
  },
  "tools_used": ["perplexity_search", "web_search", "fetch_web_page"],
  "sources": [{"title": "...", "url": "..."}],
  "generated_at": "ISO-8601 timestamp"
}

Requirements:
- Be decisive. Choose one response_type.
- If tools are unavailable, proceed with best-effort classification and parameter extraction.
- Keep JSON minimal, valid, and free of commentary.

User query: {user_query}`

const generatorTaskDescription = `You are the Report Agent (Generator). Consume the router JSON and produce the final structured response.
Adapt output to the response_type:
- For analytics: include insights, metrics, and chart-ready blocks.
- For document: return a results list with applied filters, and source references.
- For chat: provide a concise helpful message.

OUTPUT STRICT JSON ONLY with this schema:
{
  "response_type": "analytics" | "document" | "chat",
  "title": "Short title",
  "summary": "One-paragraph summary",
  "blocks": [
    {"type": "text", "heading": "...", "body": "..."},
    {"type": "table", "columns": ["..."], "rows": [["..."]]},
    {"type": "chart", "chart_type": "line|bar|table|map", "data": {"series": []}}
  ],
  "sources": [{"title": "...", "url": "..."}],
  "next_actions": ["..."],
  "generated_at": "ISO-8601 timestamp"
}

Use the router JSON faithfully. Do not hallucinate sources.`

// ResponseRouting builds the two-stage router/generator crew. The router
// carries the web, file and database tools; the generator only reads files.
func (f *Factory) ResponseRouting() (*domain.Crew, error) {
	routerAgent := newInsightRouterAgent(f.routerTools())
	generatorAgent := newUnifiedResponseAgent(f.registry.FileTools())

	routerTask := &domain.Task{
		Name:            "route_query",
		Description:     routerTaskDescription,
		ExpectedOutput:  "Strict JSON data contract for the Report Agent",
		Agent:           routerAgent,
		OutputProcessor: f.routingOutput,
	}
	generatorTask := &domain.Task{
		Name:            "generate_response",
		Description:     generatorTaskDescription,
		ExpectedOutput:  "Strict JSON final response for frontend",
		Agent:           generatorAgent,
		Context:         []*domain.Task{routerTask},
		OutputProcessor: normalizeOutput,
	}

	return f.newCrew("response-routing", routerTask, generatorTask)
}

// RunResponseWorkflow executes the routing pipeline for a user query and
// returns the normalized final response JSON.
func (f *Factory) RunResponseWorkflow(ctx context.Context, userQuery string) (string, error) {
	crew, err := f.ResponseRouting()
	return run(ctx, crew, err, map[string]string{"user_query": userQuery})
}
