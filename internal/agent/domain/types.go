package domain

import (
	"fmt"
	"strings"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
)

// Agent is a configured persona driving one task's reasoning loop. It is
// immutable after construction except for tool attachment, which must happen
// before the owning crew runs.
type Agent struct {
	role            string
	goal            string
	backstory       string
	maxIterations   int
	allowDelegation bool
	tools           []ports.ToolExecutor
}

// AgentConfig captures everything needed to construct an Agent.
type AgentConfig struct {
	Role            string
	Goal            string
	Backstory       string
	MaxIterations   int
	AllowDelegation bool
	Tools           []ports.ToolExecutor
}

const defaultMaxIterations = 3

// NewAgent constructs an agent from config, applying the default iteration
// budget when none is given.
func NewAgent(cfg AgentConfig) *Agent {
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	return &Agent{
		role:            cfg.Role,
		goal:            cfg.Goal,
		backstory:       cfg.Backstory,
		maxIterations:   maxIter,
		allowDelegation: cfg.AllowDelegation,
		tools:           append([]ports.ToolExecutor(nil), cfg.Tools...),
	}
}

// Role returns the agent's role name.
func (a *Agent) Role() string { return a.role }

// AttachTools binds additional tools to the agent.
func (a *Agent) AttachTools(tools ...ports.ToolExecutor) {
	a.tools = append(a.tools, tools...)
}

// Tools returns the agent's bound tool set.
func (a *Agent) Tools() []ports.ToolExecutor {
	return append([]ports.ToolExecutor(nil), a.tools...)
}

func (a *Agent) systemPrompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s.\n\n%s", a.role, strings.TrimSpace(a.backstory))
	if a.goal != "" {
		fmt.Fprintf(&sb, "\n\nYour goal: %s", a.goal)
	}
	return sb.String()
}

func (a *Agent) toolDefinitions() []ports.ToolDefinition {
	if len(a.tools) == 0 {
		return nil
	}
	defs := make([]ports.ToolDefinition, 0, len(a.tools))
	for _, tool := range a.tools {
		defs = append(defs, tool.Definition())
	}
	return defs
}

func (a *Agent) findTool(name string) ports.ToolExecutor {
	for _, tool := range a.tools {
		if tool.Metadata().Name == name {
			return tool
		}
	}
	return nil
}

// Task is one unit of work bound to an agent. Description placeholders
// ({name}) are resolved from run inputs; outputs of the tasks listed in
// Context are concatenated into this task's prompt as upstream context.
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          *Agent
	Context        []*Task

	// OutputProcessor, when set, post-processes the task's raw output before
	// it is cached for dependents and returned. An error aborts the crew run.
	OutputProcessor func(raw string) (string, error)
}
