package crews

import (
	"context"

	"github.com/armaanamatya/HackUTD2025/internal/agent/domain"
)

const chatRoutingTaskDescription = `Analyze the user's query and any provided document context to classify intent and gather relevant information.

Your responsibilities:
- Classify the query type (analytics, document search, or general chat)
- Process any provided document context
- Extract key parameters like locations, dates, financial figures
- Use search_listings to query the listings database when the user asks about properties, listings, or real estate data
- Use listing_stats for market statistics and trends analysis
- Perform web research using Perplexity and web search if needed for external data
- Structure findings into clean JSON format for the response generator

User Query: {user_query}

Document Context: {document_context}

Output a structured JSON with:
- query_type: analytics/document/chat
- key_findings: relevant information from documents and web research
- parameters: extracted entities and filters
- sources: document names and web sources used
- context_summary: brief summary of available context`

const chatResponseTaskDescription = `Generate a comprehensive, user-friendly response based on the router's JSON output.

Transform the structured data into:
- For document queries: Direct answers using document content with source citations
- For analytics: Insights and metrics with clear explanations
- For general chat: Helpful responses incorporating available context

Your response should be:
- Concise but comprehensive
- Well-structured and easy to read
- Include relevant information from uploaded documents
- Cite sources when using specific document content`

// Chat builds the conversational crew used when a query carries uploaded
// document context.
func (f *Factory) Chat() (*domain.Crew, error) {
	routerAgent := newInsightRouterAgent(f.routerTools())
	responseAgent := newUnifiedResponseAgent(f.registry.FileTools())

	routingTask := &domain.Task{
		Name:            "classify_and_gather",
		Description:     chatRoutingTaskDescription,
		ExpectedOutput:  "Structured JSON with query classification, findings, and organized context information",
		Agent:           routerAgent,
		OutputProcessor: normalizeOutput,
	}
	responseTask := &domain.Task{
		Name:           "respond",
		Description:    chatResponseTaskDescription,
		ExpectedOutput: "A clear, well-structured response grounded in the gathered context",
		Agent:          responseAgent,
		Context:        []*domain.Task{routingTask},
	}

	return f.newCrew("chat", routingTask, responseTask)
}

// RunChat executes the chat crew with an optional document context block.
func (f *Factory) RunChat(ctx context.Context, userQuery, documentContext string) (string, error) {
	if documentContext == "" {
		documentContext = "(none)"
	}
	crew, err := f.Chat()
	return run(ctx, crew, err, map[string]string{
		"user_query":       userQuery,
		"document_context": documentContext,
	})
}
