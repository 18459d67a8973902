package domain

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

// Crew executes an ordered list of tasks sequentially, passing each completed
// task's output forward as context to its declared dependents, and returns
// the final task's output. Crews hold no state across runs: every Kickoff is
// independent.
type Crew struct {
	name        string
	tasks       []*Task
	llm         ports.LLMClient
	logger      logging.Logger
	taskTimeout time.Duration
}

// CrewConfig captures the dependencies required to construct a Crew.
type CrewConfig struct {
	Name   string
	Tasks  []*Task
	LLM    ports.LLMClient
	Logger logging.Logger

	// TaskTimeout bounds the wall clock of each task run. Zero disables the
	// bound; the iteration budget is then the only runaway protection.
	TaskTimeout time.Duration
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// NewCrew validates the task graph and builds a crew. The declared task order
// must be a valid topological order of the dependency graph: every task's
// dependencies must appear earlier in the list.
func NewCrew(cfg CrewConfig) (*Crew, error) {
	if cfg.LLM == nil {
		return nil, fmt.Errorf("crew %q: llm client is required", cfg.Name)
	}
	if len(cfg.Tasks) == 0 {
		return nil, fmt.Errorf("crew %q: no tasks", cfg.Name)
	}

	seen := make(map[string]int, len(cfg.Tasks))
	for i, task := range cfg.Tasks {
		if task == nil {
			return nil, fmt.Errorf("crew %q: task %d is nil", cfg.Name, i)
		}
		if task.Name == "" {
			return nil, fmt.Errorf("crew %q: task %d has no name", cfg.Name, i)
		}
		if task.Agent == nil {
			return nil, fmt.Errorf("crew %q: task %q has no agent", cfg.Name, task.Name)
		}
		if _, dup := seen[task.Name]; dup {
			return nil, fmt.Errorf("crew %q: duplicate task name %q", cfg.Name, task.Name)
		}
		for _, dep := range task.Context {
			depIdx, ok := seen[dep.Name]
			if !ok {
				return nil, fmt.Errorf("crew %q: task %q depends on %q which does not precede it", cfg.Name, task.Name, dep.Name)
			}
			if cfg.Tasks[depIdx] != dep {
				return nil, fmt.Errorf("crew %q: task %q references a foreign task %q", cfg.Name, task.Name, dep.Name)
			}
		}
		seen[task.Name] = i
	}

	return &Crew{
		name:        cfg.Name,
		tasks:       cfg.Tasks,
		llm:         cfg.LLM,
		logger:      logging.OrNop(cfg.Logger),
		taskTimeout: cfg.TaskTimeout,
	}, nil
}

// Kickoff runs every task in declared order and returns the final task's
// output. Unresolved description placeholders are a configuration error and
// are rejected before any task executes.
func (c *Crew) Kickoff(ctx context.Context, inputs map[string]string) (string, error) {
	if err := c.checkPlaceholders(inputs); err != nil {
		return "", err
	}

	outputs := make(map[string]string, len(c.tasks))
	final := ""
	for _, task := range c.tasks {
		c.logger.Info("crew %s: executing task %s (agent=%s)", c.name, task.Name, task.Agent.Role())

		out, err := c.executeTask(ctx, task, inputs, outputs)
		if err != nil {
			return "", err
		}
		if task.OutputProcessor != nil {
			out, err = task.OutputProcessor(out)
			if err != nil {
				return "", fmt.Errorf("crew %s: task %s output rejected: %w", c.name, task.Name, err)
			}
		}
		outputs[task.Name] = out
		final = out
	}
	return final, nil
}

func (c *Crew) checkPlaceholders(inputs map[string]string) error {
	var missing []string
	for _, task := range c.tasks {
		for _, m := range placeholderPattern.FindAllStringSubmatch(task.Description, -1) {
			if _, ok := inputs[m[1]]; !ok {
				missing = append(missing, fmt.Sprintf("%s:{%s}", task.Name, m[1]))
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("crew %s: unresolved placeholders: %s", c.name, strings.Join(missing, ", "))
}

func resolveTemplate(tmpl string, inputs map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if val, ok := inputs[key]; ok {
			return val
		}
		return m
	})
}

func (c *Crew) executeTask(ctx context.Context, task *Task, inputs, outputs map[string]string) (string, error) {
	if c.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.taskTimeout)
		defer cancel()
	}

	agent := task.Agent
	prompt := resolveTemplate(task.Description, inputs)

	// Context comes only from declared dependencies, never from other tasks
	// that happen to have run earlier.
	if len(task.Context) > 0 {
		var sb strings.Builder
		sb.WriteString("\n\nContext from upstream tasks:\n")
		for _, dep := range task.Context {
			fmt.Fprintf(&sb, "\n--- Output of %s ---\n%s\n", dep.Name, outputs[dep.Name])
		}
		prompt += sb.String()
	}
	if task.ExpectedOutput != "" {
		prompt += "\n\nExpected output: " + task.ExpectedOutput
	}

	messages := []ports.Message{
		{Role: "system", Content: agent.systemPrompt()},
		{Role: "user", Content: prompt},
	}
	toolDefs := agent.toolDefinitions()

	lastContent := ""
	for iteration := 0; ; iteration++ {
		resp, err := c.llm.Complete(ctx, ports.CompletionRequest{
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			return "", fmt.Errorf("crew %s: task %s: completion failed: %w", c.name, task.Name, err)
		}
		if resp.Content != "" {
			lastContent = resp.Content
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}
		if iteration >= agent.maxIterations {
			// Soft cap: the last produced text stands in for a final answer.
			c.logger.Warn("crew %s: task %s hit iteration budget (%d), using last output", c.name, task.Name, agent.maxIterations)
			return lastContent, nil
		}

		messages = append(messages, ports.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			result := c.runTool(ctx, agent, call)
			if ctx.Err() != nil {
				return "", fmt.Errorf("crew %s: task %s: %w", c.name, task.Name, ctx.Err())
			}
			messages = append(messages, ports.Message{
				Role:       "tool",
				Content:    result.Content,
				ToolCallID: call.ID,
			})
		}
	}
}

// runTool never lets a tool failure escape: errors are folded into the
// observation text so a single failing tool cannot abort the task.
func (c *Crew) runTool(ctx context.Context, agent *Agent, call ports.ToolCall) *ports.ToolResult {
	tool := agent.findTool(call.Name)
	if tool == nil {
		return &ports.ToolResult{
			CallID:  call.ID,
			Content: fmt.Sprintf("Tool not available: %s", call.Name),
		}
	}

	result, err := tool.Execute(ctx, call)
	if err != nil {
		c.logger.Warn("crew %s: tool %s failed: %v", c.name, call.Name, err)
		return &ports.ToolResult{
			CallID:  call.ID,
			Content: fmt.Sprintf("Tool %s error: %v", call.Name, err),
		}
	}
	if result == nil {
		return &ports.ToolResult{
			CallID:  call.ID,
			Content: fmt.Sprintf("Tool %s returned no result", call.Name),
		}
	}
	if result.Error != nil {
		c.logger.Debug("crew %s: tool %s reported error: %v", c.name, call.Name, result.Error)
		if result.Content == "" {
			result.Content = fmt.Sprintf("Tool %s error: %v", call.Name, result.Error)
		}
	}
	return result
}
