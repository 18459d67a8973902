package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	jsonx "github.com/armaanamatya/HackUTD2025/internal/shared/json"
)

func completionJSON(content string, toolCalls ...map[string]any) string {
	message := map[string]any{"role": "assistant", "content": content}
	if len(toolCalls) > 0 {
		message["tool_calls"] = toolCalls
	}
	body, _ := jsonx.Marshal(map[string]any{
		"choices": []map[string]any{{"message": message, "finish_reason": "stop"}},
		"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(body)
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		_, _ = w.Write([]byte(completionJSON("hello there")))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(Config{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4o-mini"})
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), ports.CompletionRequest{
		Messages: []ports.Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Content)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

func TestOpenAIClientParsesToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionJSON("", map[string]any{
			"id":   "call_1",
			"type": "function",
			"function": map[string]any{
				"name":      "web_search",
				"arguments": `{"query":"dallas apartments"}`,
			},
		})))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(Config{BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), ports.CompletionRequest{
		Messages: []ports.Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "web_search", resp.ToolCalls[0].Name)
	assert.Equal(t, "dallas apartments", resp.ToolCalls[0].Arguments["query"])
}

func TestParseToolArgumentsRepairsMalformedJSON(t *testing.T) {
	// Trailing comma and single quotes, typical small-model output.
	args, err := parseToolArguments(`{'query': 'austin homes',}`)
	require.NoError(t, err)
	assert.Equal(t, "austin homes", args["query"])
}

func TestOpenAIClientMapsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(Config{BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), ports.CompletionRequest{})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestOpenAIClientAuthErrorNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(Config{BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), ports.CompletionRequest{})
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

type flakyClient struct {
	failures int32
}

func (c *flakyClient) Model() string { return "flaky" }

func (c *flakyClient) Complete(context.Context, ports.CompletionRequest) (*ports.CompletionResponse, error) {
	if atomic.AddInt32(&c.failures, -1) >= 0 {
		return nil, markTransient(errors.New("upstream hiccup"))
	}
	return &ports.CompletionResponse{Content: "eventually", StopReason: "stop"}, nil
}

func TestRetryClientRecoversFromTransientFailures(t *testing.T) {
	client := NewRetryClient(&flakyClient{failures: 2}, 3)

	resp, err := client.Complete(context.Background(), ports.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "eventually", resp.Content)
}

func TestRetryClientStopsOnPermanentError(t *testing.T) {
	calls := 0
	client := NewRetryClient(completeFunc(func() (*ports.CompletionResponse, error) {
		calls++
		return nil, errors.New("invalid api key")
	}), 3)

	_, err := client.Complete(context.Background(), ports.CompletionRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

type completeFunc func() (*ports.CompletionResponse, error)

func (f completeFunc) Model() string { return "func" }

func (f completeFunc) Complete(context.Context, ports.CompletionRequest) (*ports.CompletionResponse, error) {
	return f()
}
