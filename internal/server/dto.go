package server

import (
	"fmt"
	"sort"
	"strings"

	"github.com/armaanamatya/HackUTD2025/internal/jobs"
)

type respondRequest struct {
	UserQuery string `json:"user_query" binding:"required"`
}

type researchRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type projectPlanningRequest struct {
	ProjectDescription string `json:"project_description" binding:"required"`
}

// fileContextDTO mirrors the frontend's camelCase file payload.
type fileContextDTO struct {
	FileName      string              `json:"fileName" binding:"required"`
	Content       string              `json:"content"`
	FileType      string              `json:"fileType"`
	ExtractedText string              `json:"extractedText"`
	Metrics       map[string]any      `json:"metrics"`
	Clauses       []map[string]string `json:"clauses"`
}

type respondWithFilesRequest struct {
	UserQuery string           `json:"user_query" binding:"required"`
	Files     []fileContextDTO `json:"files"`
}

type researchWithFilesRequest struct {
	Topic string           `json:"topic" binding:"required"`
	Files []fileContextDTO `json:"files"`
}

type projectPlanningWithFilesRequest struct {
	ProjectDescription string           `json:"project_description" binding:"required"`
	Files              []fileContextDTO `json:"files"`
}

type jobResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

func toJobResponse(job *jobs.Job) jobResponse {
	return jobResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		CreatedAt: job.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Result:    job.Result,
		Error:     job.Error,
	}
}

func toFileContexts(dtos []fileContextDTO) []jobs.FileContext {
	if len(dtos) == 0 {
		return nil
	}
	files := make([]jobs.FileContext, 0, len(dtos))
	for _, dto := range dtos {
		files = append(files, jobs.FileContext{
			FileName:      dto.FileName,
			FileType:      dto.FileType,
			Content:       dto.Content,
			ExtractedText: dto.ExtractedText,
			Metrics:       dto.Metrics,
			Clauses:       flattenClauses(dto.Clauses),
		})
	}
	return files
}

// flattenClauses renders clause key/value maps as "key: value" strings.
func flattenClauses(clauses []map[string]string) []string {
	var out []string
	for _, clause := range clauses {
		keys := make([]string, 0, len(clause))
		for k := range clause {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, clause[k]))
		}
		out = append(out, strings.Join(parts, ", "))
	}
	return out
}
