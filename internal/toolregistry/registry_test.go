package toolregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/listings"
)

func toolNames(tools []ports.ToolExecutor) []string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Definition().Name)
	}
	return names
}

func TestWebToolsAlwaysIncludeFetch(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("PERPLEXITY_API_KEY", "")

	registry := New(Config{}, nil)
	assert.Equal(t, []string{"fetch_web_page"}, toolNames(registry.WebTools()))
}

func TestWebToolsGatedOnKeys(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("PERPLEXITY_API_KEY", "")

	registry := New(Config{TavilyAPIKey: "tvly", PerplexityAPIKey: "pplx"}, nil)
	assert.Equal(t, []string{"web_search", "perplexity_search", "fetch_web_page"}, toolNames(registry.WebTools()))
}

func TestWebToolsEnvFallback(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "tvly-env")
	t.Setenv("PERPLEXITY_API_KEY", "")

	registry := New(Config{}, nil)
	assert.Equal(t, []string{"web_search", "fetch_web_page"}, toolNames(registry.WebTools()))
}

func TestFileToolsAlwaysPresent(t *testing.T) {
	registry := New(Config{WorkspaceRoot: t.TempDir()}, nil)
	assert.Equal(t, []string{"file_read", "glob_files"}, toolNames(registry.FileTools()))
}

func TestDatabaseToolsNeedStore(t *testing.T) {
	assert.Empty(t, New(Config{}, nil).DatabaseTools())

	withStore := New(Config{Listings: listings.NewMemoryStore()}, nil)
	assert.Equal(t, []string{"search_listings", "listing_stats"}, toolNames(withStore.DatabaseTools()))
}

func TestAllToolsCombines(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("PERPLEXITY_API_KEY", "")

	registry := New(Config{Listings: listings.NewMemoryStore()}, nil)
	assert.Equal(t,
		[]string{"fetch_web_page", "file_read", "glob_files", "search_listings", "listing_stats"},
		toolNames(registry.AllTools()))
}
