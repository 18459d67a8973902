package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
)

// scriptedLLM replays canned completions and records every request it sees.
type scriptedLLM struct {
	mu       sync.Mutex
	steps    []scriptedStep
	requests []ports.CompletionRequest
}

type scriptedStep struct {
	resp *ports.CompletionResponse
	err  error
}

func (s *scriptedLLM) Complete(_ context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.steps) == 0 {
		return &ports.CompletionResponse{Content: "done", StopReason: "stop"}, nil
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step.resp, step.err
}

func (s *scriptedLLM) Model() string { return "scripted" }

func (s *scriptedLLM) recorded() []ports.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.CompletionRequest(nil), s.requests...)
}

func answer(text string) scriptedStep {
	return scriptedStep{resp: &ports.CompletionResponse{Content: text, StopReason: "stop"}}
}

func toolStep(callName string, args map[string]any) scriptedStep {
	return scriptedStep{resp: &ports.CompletionResponse{
		ToolCalls:  []ports.ToolCall{{ID: "call-1", Name: callName, Arguments: args}},
		StopReason: "tool_calls",
	}}
}

// echoTool implements ports.ToolExecutor for tests.
type echoTool struct {
	name    string
	content string
	err     error
}

func (t *echoTool) Execute(_ context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	return &ports.ToolResult{CallID: call.ID, Content: t.content, Error: t.err}, nil
}

func (t *echoTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{Name: t.name, Parameters: ports.ParameterSchema{Type: "object"}}
}

func (t *echoTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: t.name, Version: "1.0.0", Category: "test"}
}

func simpleAgent(role string) *Agent {
	return NewAgent(AgentConfig{Role: role, Goal: "test goal", Backstory: "test persona", MaxIterations: 3})
}

func userContent(req ports.CompletionRequest) string {
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			return msg.Content
		}
	}
	return ""
}

func TestCrewRunsTasksSequentially(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{answer("first-output"), answer("second-output")}}

	first := &Task{Name: "first", Description: "analyze {topic}", Agent: simpleAgent("Analyst")}
	second := &Task{Name: "second", Description: "summarize findings", Agent: simpleAgent("Writer"), Context: []*Task{first}}

	crew, err := NewCrew(CrewConfig{Name: "test", Tasks: []*Task{first, second}, LLM: llm})
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), map[string]string{"topic": "austin market"})
	require.NoError(t, err)
	assert.Equal(t, "second-output", out)

	reqs := llm.recorded()
	require.Len(t, reqs, 2)
	assert.Contains(t, userContent(reqs[0]), "austin market")
	assert.Contains(t, userContent(reqs[1]), "first-output")
}

func TestCrewContextIsolation(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{answer("alpha-out"), answer("bravo-out"), answer("charlie-out")}}

	a := &Task{Name: "alpha", Description: "a", Agent: simpleAgent("A")}
	b := &Task{Name: "bravo", Description: "b", Agent: simpleAgent("B")}
	c := &Task{Name: "charlie", Description: "c", Agent: simpleAgent("C"), Context: []*Task{a}}

	crew, err := NewCrew(CrewConfig{Name: "iso", Tasks: []*Task{a, b, c}, LLM: llm})
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), nil)
	require.NoError(t, err)

	reqs := llm.recorded()
	require.Len(t, reqs, 3)
	third := userContent(reqs[2])
	assert.Contains(t, third, "alpha-out")
	assert.NotContains(t, third, "bravo-out", "undeclared dependency output must not leak")
}

func TestCrewStatelessAcrossRuns(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{answer("run-one-result"), answer("run-two-result")}}

	task := &Task{Name: "only", Description: "handle {query}", Agent: simpleAgent("Solo")}
	crew, err := NewCrew(CrewConfig{Name: "stateless", Tasks: []*Task{task}, LLM: llm})
	require.NoError(t, err)

	out1, err := crew.Kickoff(context.Background(), map[string]string{"query": "one"})
	require.NoError(t, err)
	out2, err := crew.Kickoff(context.Background(), map[string]string{"query": "two"})
	require.NoError(t, err)

	assert.Equal(t, "run-one-result", out1)
	assert.Equal(t, "run-two-result", out2)

	reqs := llm.recorded()
	require.Len(t, reqs, 2)
	assert.NotContains(t, userContent(reqs[1]), "run-one-result", "no output from a prior run may be observable")
	assert.NotContains(t, userContent(reqs[1]), "one")
}

func TestCrewUnresolvedPlaceholderIsConfigError(t *testing.T) {
	llm := &scriptedLLM{}
	task := &Task{Name: "bad", Description: "lookup {user_query} in {region}", Agent: simpleAgent("X")}
	crew, err := NewCrew(CrewConfig{Name: "cfg", Tasks: []*Task{task}, LLM: llm})
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), map[string]string{"user_query": "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{region}")
	assert.Empty(t, llm.recorded(), "no task may execute when placeholders are unresolved")
}

func TestCrewJSONBracesAreNotPlaceholders(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{answer("ok")}}
	task := &Task{
		Name:        "schema",
		Description: `Output JSON: {"response_type": "chat", "price_range": {"min": null}} for {user_query}`,
		Agent:       simpleAgent("R"),
	}
	crew, err := NewCrew(CrewConfig{Name: "braces", Tasks: []*Task{task}, LLM: llm})
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), map[string]string{"user_query": "hello"})
	require.NoError(t, err)
	assert.Contains(t, userContent(llm.recorded()[0]), "for hello")
}

func TestCrewRejectsForwardDependency(t *testing.T) {
	later := &Task{Name: "later", Description: "x", Agent: simpleAgent("L")}
	early := &Task{Name: "early", Description: "y", Agent: simpleAgent("E"), Context: []*Task{later}}

	_, err := NewCrew(CrewConfig{Name: "order", Tasks: []*Task{early, later}, LLM: &scriptedLLM{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not precede")
}

func TestCrewIterationSoftCap(t *testing.T) {
	tool := &echoTool{name: "probe", content: "observation"}
	agent := NewAgent(AgentConfig{Role: "Looper", MaxIterations: 2, Tools: []ports.ToolExecutor{tool}})

	// Every completion asks for another tool call; content carries partial text.
	call := func(text string) scriptedStep {
		return scriptedStep{resp: &ports.CompletionResponse{
			Content:    text,
			ToolCalls:  []ports.ToolCall{{ID: "c", Name: "probe"}},
			StopReason: "tool_calls",
		}}
	}
	llm := &scriptedLLM{steps: []scriptedStep{call("draft-1"), call("draft-2"), call("draft-3")}}

	task := &Task{Name: "loop", Description: "loop forever", Agent: agent}
	crew, err := NewCrew(CrewConfig{Name: "cap", Tasks: []*Task{task}, LLM: llm})
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), nil)
	require.NoError(t, err, "iteration exhaustion is a soft cap, not a failure")
	assert.Equal(t, "draft-3", out)
	assert.Len(t, llm.recorded(), 3, "two tool rounds plus the capped completion")
}

func TestCrewToolFailureDoesNotAbortTask(t *testing.T) {
	failing := &echoTool{name: "flaky", content: "Tool flaky error: connection refused", err: errors.New("connection refused")}
	agent := NewAgent(AgentConfig{Role: "Resilient", MaxIterations: 3, Tools: []ports.ToolExecutor{failing}})

	llm := &scriptedLLM{steps: []scriptedStep{
		toolStep("flaky", map[string]any{"q": "x"}),
		answer("recovered"),
	}}

	task := &Task{Name: "resilient", Description: "try the tool", Agent: agent}
	crew, err := NewCrew(CrewConfig{Name: "recover", Tasks: []*Task{task}, LLM: llm})
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)

	reqs := llm.recorded()
	require.Len(t, reqs, 2)
	var observation string
	for _, msg := range reqs[1].Messages {
		if msg.Role == "tool" {
			observation = msg.Content
		}
	}
	assert.Contains(t, observation, "connection refused", "failure must surface as observation text")
}

func TestCrewUnknownToolBecomesObservation(t *testing.T) {
	agent := NewAgent(AgentConfig{Role: "Lost", MaxIterations: 3})
	llm := &scriptedLLM{steps: []scriptedStep{
		toolStep("no_such_tool", nil),
		answer("fine"),
	}}

	task := &Task{Name: "missing", Description: "go", Agent: agent}
	crew, err := NewCrew(CrewConfig{Name: "missing", Tasks: []*Task{task}, LLM: llm})
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "fine", out)

	reqs := llm.recorded()
	var observation string
	for _, msg := range reqs[1].Messages {
		if msg.Role == "tool" {
			observation = msg.Content
		}
	}
	assert.Contains(t, observation, "Tool not available: no_such_tool")
}

func TestCrewLLMFailureAbortsRun(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{
		answer("router-out"),
		{err: errors.New("quota exceeded")},
	}}

	first := &Task{Name: "one", Description: "a", Agent: simpleAgent("A")}
	second := &Task{Name: "two", Description: "b", Agent: simpleAgent("B"), Context: []*Task{first}}
	crew, err := NewCrew(CrewConfig{Name: "abort", Tasks: []*Task{first, second}, LLM: llm})
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCrewOutputProcessor(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{answer("  raw  "), answer("final")}}

	first := &Task{
		Name:            "clean",
		Description:     "produce",
		Agent:           simpleAgent("P"),
		OutputProcessor: func(raw string) (string, error) { return strings.TrimSpace(raw), nil },
	}
	second := &Task{Name: "use", Description: "consume", Agent: simpleAgent("U"), Context: []*Task{first}}

	crew, err := NewCrew(CrewConfig{Name: "proc", Tasks: []*Task{first, second}, LLM: llm})
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "final", out)
	assert.Contains(t, userContent(llm.recorded()[1]), "--- Output of clean ---\nraw\n", "dependents must see the processed output")
}

func TestCrewOutputProcessorErrorAborts(t *testing.T) {
	llm := &scriptedLLM{steps: []scriptedStep{answer("garbage")}}
	task := &Task{
		Name:            "strict",
		Description:     "produce",
		Agent:           simpleAgent("S"),
		OutputProcessor: func(string) (string, error) { return "", fmt.Errorf("not valid JSON") },
	}
	crew, err := NewCrew(CrewConfig{Name: "strictcrew", Tasks: []*Task{task}, LLM: llm})
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}
