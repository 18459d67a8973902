package llm

import (
	"context"
	"sync"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
)

// Script is one canned completion step for the scripted client.
type Script struct {
	Response *ports.CompletionResponse
	Err      error
}

// Answer builds a plain final-answer script step.
func Answer(content string) Script {
	return Script{Response: &ports.CompletionResponse{Content: content, StopReason: "stop"}}
}

// ScriptedClient replays canned completions in order and records every
// request. When the script is exhausted it answers "ok". Used by tests and
// by the offline demo mode.
type ScriptedClient struct {
	mu       sync.Mutex
	script   []Script
	requests []ports.CompletionRequest
}

// NewScriptedClient builds a client that replays the given steps.
func NewScriptedClient(script ...Script) *ScriptedClient {
	return &ScriptedClient{script: script}
}

func (c *ScriptedClient) Model() string { return "scripted" }

// Complete pops the next scripted step.
func (c *ScriptedClient) Complete(_ context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if len(c.script) == 0 {
		return &ports.CompletionResponse{Content: "ok", StopReason: "stop"}, nil
	}
	step := c.script[0]
	c.script = c.script[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Response, nil
}

// Requests returns a copy of every request seen so far.
func (c *ScriptedClient) Requests() []ports.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ports.CompletionRequest(nil), c.requests...)
}
