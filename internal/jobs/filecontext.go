package jobs

import (
	"fmt"
	"strings"

	jsonx "github.com/armaanamatya/HackUTD2025/internal/shared/json"
)

// FileContext is one uploaded document accompanying a query. Content holds
// the raw text; ExtractedText, Metrics and Clauses carry pre-processed
// structure when an upstream extractor produced it.
type FileContext struct {
	FileName      string         `json:"file_name"`
	FileType      string         `json:"file_type,omitempty"`
	Content       string         `json:"content"`
	ExtractedText string         `json:"extracted_text,omitempty"`
	Metrics       map[string]any `json:"metrics,omitempty"`
	Clauses       []string       `json:"clauses,omitempty"`
}

// BuildDocumentContext renders uploaded files into the delimited block
// appended to a user query before it reaches the crew. Returns "" when there
// are no files.
func BuildDocumentContext(files []FileContext) string {
	if len(files) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n=== DOCUMENT CONTEXT ===\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "\n--- File: %s ---\n", f.FileName)
		fmt.Fprintf(&sb, "Content: %s\n", f.Content)
		if f.ExtractedText != "" {
			fmt.Fprintf(&sb, "Extracted Text: %s\n", f.ExtractedText)
		}
		if len(f.Metrics) > 0 {
			if encoded, err := jsonx.Marshal(f.Metrics); err == nil {
				fmt.Fprintf(&sb, "Metrics: %s\n", encoded)
			}
		}
		if len(f.Clauses) > 0 {
			fmt.Fprintf(&sb, "Clauses: %s\n", strings.Join(f.Clauses, "; "))
		}
	}
	sb.WriteString("\n=== END DOCUMENT CONTEXT ===\n\n")
	return sb.String()
}

// Trailing instructions appended after the document block, one per job kind.
const (
	InstructionRespond  = "Please consider the uploaded documents in classification and generation."
	InstructionResearch = "Please consider the uploaded documents in your research and analysis."
	InstructionPlanning = "Please consider the uploaded documents in your project planning and analysis."
)

// QueryWithContext appends the rendered document block and the job kind's
// trailing instruction to the user query. Without files the query is
// returned unchanged.
func QueryWithContext(userQuery string, files []FileContext, instruction string) string {
	block := BuildDocumentContext(files)
	if block == "" {
		return userQuery
	}
	return userQuery + block + instruction
}
