// Package toolregistry assembles the tool sets handed to agents. Which tools
// exist depends on configuration: research APIs need keys, database tools
// need a listings store, and file tools are always available.
package toolregistry

import (
	"os"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/listings"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
	"github.com/armaanamatya/HackUTD2025/internal/tools/builtin"
)

// Config selects which tools the registry offers.
type Config struct {
	TavilyAPIKey     string
	PerplexityAPIKey string
	WorkspaceRoot    string
	Listings         listings.Store
}

// Registry builds tool sets for agent roles.
type Registry struct {
	config Config
	logger logging.Logger
}

// New constructs a registry.
func New(config Config, logger logging.Logger) *Registry {
	return &Registry{config: config, logger: logging.OrNop(logger)}
}

// WebTools returns the web research tools. The page fetch tool is always
// present; the search tools appear only when their API is configured, either
// in config or in the environment at call time.
func (r *Registry) WebTools() []ports.ToolExecutor {
	var tools []ports.ToolExecutor
	if r.tavilyKey() != "" {
		tools = append(tools, builtin.NewWebSearchTool(r.tavilyKey, r.logger))
	} else {
		r.logger.Info("web_search disabled: no Tavily API key")
	}
	if r.perplexityKey() != "" {
		tools = append(tools, builtin.NewPerplexitySearchTool(r.perplexityKey, r.logger))
	} else {
		r.logger.Info("perplexity_search disabled: no Perplexity API key")
	}
	tools = append(tools, builtin.NewWebPageFetchTool(r.logger))
	return tools
}

// FileTools returns the workspace file tools.
func (r *Registry) FileTools() []ports.ToolExecutor {
	return []ports.ToolExecutor{
		builtin.NewFileReadTool(r.config.WorkspaceRoot, r.logger),
		builtin.NewFileGlobTool(r.config.WorkspaceRoot, r.logger),
	}
}

// DatabaseTools returns the listings tools, or nothing when no store is
// wired.
func (r *Registry) DatabaseTools() []ports.ToolExecutor {
	if r.config.Listings == nil {
		r.logger.Info("listings tools disabled: no store configured")
		return nil
	}
	return []ports.ToolExecutor{
		builtin.NewListingSearchTool(r.config.Listings, r.logger),
		builtin.NewListingStatsTool(r.config.Listings, r.logger),
	}
}

// AllTools returns every available tool.
func (r *Registry) AllTools() []ports.ToolExecutor {
	var tools []ports.ToolExecutor
	tools = append(tools, r.WebTools()...)
	tools = append(tools, r.FileTools()...)
	tools = append(tools, r.DatabaseTools()...)
	return tools
}

func (r *Registry) tavilyKey() string {
	if r.config.TavilyAPIKey != "" {
		return r.config.TavilyAPIKey
	}
	return os.Getenv("TAVILY_API_KEY")
}

func (r *Registry) perplexityKey() string {
	if r.config.PerplexityAPIKey != "" {
		return r.config.PerplexityAPIKey
	}
	return os.Getenv("PERPLEXITY_API_KEY")
}
