package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

const fileReadMaxBytes = 256 * 1024

// FileReadTool reads a file from the workspace root. Paths are resolved
// relative to the root and must not escape it.
type FileReadTool struct {
	root   string
	logger logging.Logger
}

// NewFileReadTool builds a file reader confined to root. An empty root means
// the current working directory.
func NewFileReadTool(root string, logger logging.Logger) *FileReadTool {
	if root == "" {
		root = "."
	}
	return &FileReadTool{root: root, logger: logging.OrNop(logger)}
}

func (t *FileReadTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "file_read",
		Description: "Read a text file from the workspace and return its contents.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"path": {
					Type:        "string",
					Description: "Path of the file, relative to the workspace root",
				},
			},
			Required: []string{"path"},
		},
	}
}

func (t *FileReadTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: "file_read", Version: "1.0", Category: "file", Tags: []string{"read"}}
}

func (t *FileReadTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := stringArg(call.Arguments, "path")
	if rel == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: path is required"}, nil
	}
	full, err := t.resolve(rel)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: " + err.Error()}, nil
	}

	info, err := os.Stat(full)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: cannot read %s: %v", rel, err)}, nil
	}
	if info.IsDir() {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: %s is a directory", rel)}, nil
	}
	if info.Size() > fileReadMaxBytes {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: %s is too large (%d bytes)", rel, info.Size())}, nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: fmt.Sprintf("Error: cannot read %s: %v", rel, err)}, nil
	}
	return &ports.ToolResult{CallID: call.ID, Content: string(data), Metadata: map[string]any{"path": rel, "bytes": len(data)}}, nil
}

func (t *FileReadTool) resolve(rel string) (string, error) {
	rootAbs, err := filepath.Abs(t.root)
	if err != nil {
		return "", err
	}
	full := filepath.Clean(filepath.Join(rootAbs, rel))
	if full != rootAbs && !strings.HasPrefix(full, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes workspace: %s", rel)
	}
	return full, nil
}

// FileGlobTool lists files under the workspace root matching a glob pattern.
type FileGlobTool struct {
	root   string
	logger logging.Logger
}

// NewFileGlobTool builds a glob tool confined to root.
func NewFileGlobTool(root string, logger logging.Logger) *FileGlobTool {
	if root == "" {
		root = "."
	}
	return &FileGlobTool{root: root, logger: logging.OrNop(logger)}
}

func (t *FileGlobTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "glob_files",
		Description: "List workspace files matching a glob pattern, for example *.csv or reports/*.md.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"pattern": {
					Type:        "string",
					Description: "Glob pattern, relative to the workspace root",
				},
			},
			Required: []string{"pattern"},
		},
	}
}

func (t *FileGlobTool) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{Name: "glob_files", Version: "1.0", Category: "file", Tags: []string{"glob", "list"}}
}

func (t *FileGlobTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pattern := stringArg(call.Arguments, "pattern")
	if pattern == "" {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: pattern is required"}, nil
	}
	if strings.Contains(pattern, "..") {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: pattern must not contain '..'"}, nil
	}

	rootAbs, err := filepath.Abs(t.root)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(rootAbs, pattern))
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Content: "Error: bad pattern: " + err.Error()}, nil
	}
	if len(matches) == 0 {
		return &ports.ToolResult{CallID: call.ID, Content: "No files match: " + pattern}, nil
	}

	var sb strings.Builder
	for _, m := range matches {
		rel, err := filepath.Rel(rootAbs, m)
		if err != nil {
			rel = m
		}
		sb.WriteString(rel)
		sb.WriteByte('\n')
	}
	return &ports.ToolResult{CallID: call.ID, Content: sb.String(), Metadata: map[string]any{"count": len(matches)}}, nil
}
