package crews

import (
	"context"
	"time"

	"github.com/armaanamatya/HackUTD2025/internal/agent/domain"
	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/jsonutil"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
	"github.com/armaanamatya/HackUTD2025/internal/toolregistry"
)

// Config wires a crew factory.
type Config struct {
	LLM      ports.LLMClient
	Registry *toolregistry.Registry
	Logger   logging.Logger

	// TaskTimeout bounds each task's wall clock. Zero disables it.
	TaskTimeout time.Duration

	// StrictRouting rejects router output that does not satisfy the routing
	// contract instead of passing it through leniently.
	StrictRouting bool
}

// Factory builds the application's crews against a shared LLM client and
// tool registry.
type Factory struct {
	llm           ports.LLMClient
	registry      *toolregistry.Registry
	logger        logging.Logger
	taskTimeout   time.Duration
	strictRouting bool
}

// NewFactory constructs a crew factory.
func NewFactory(cfg Config) *Factory {
	return &Factory{
		llm:           cfg.LLM,
		registry:      cfg.Registry,
		logger:        logging.OrNop(cfg.Logger),
		taskTimeout:   cfg.TaskTimeout,
		strictRouting: cfg.StrictRouting,
	}
}

// routerTools is the router's full tool set: web research, workspace files
// and the listings database.
func (f *Factory) routerTools() []ports.ToolExecutor {
	var tools []ports.ToolExecutor
	tools = append(tools, f.registry.WebTools()...)
	tools = append(tools, f.registry.FileTools()...)
	tools = append(tools, f.registry.DatabaseTools()...)
	return tools
}

func (f *Factory) newCrew(name string, tasks ...*domain.Task) (*domain.Crew, error) {
	return domain.NewCrew(domain.CrewConfig{
		Name:        name,
		Tasks:       tasks,
		LLM:         f.llm,
		Logger:      f.logger,
		TaskTimeout: f.taskTimeout,
	})
}

// normalizeOutput wraps a task output in JSON normalization.
func normalizeOutput(raw string) (string, error) {
	return jsonutil.NormalizeResult(raw), nil
}

// routingOutput normalizes the router's output and, in strict mode, enforces
// the routing contract.
func (f *Factory) routingOutput(raw string) (string, error) {
	out := jsonutil.NormalizeResult(raw)
	if f.strictRouting {
		if err := ValidateRoutingJSON(out); err != nil {
			return "", err
		}
	}
	return out, nil
}

func run(ctx context.Context, crew *domain.Crew, err error, inputs map[string]string) (string, error) {
	if err != nil {
		return "", err
	}
	return crew.Kickoff(ctx, inputs)
}
