// Package jobs tracks asynchronous analysis work: submission, lifecycle
// state, and results.
package jobs

import (
	"context"
	"errors"
	"time"
)

// Status is a job's lifecycle state. Jobs move pending -> running ->
// completed or failed; there are no other transitions.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Input is the payload a job runs against.
type Input struct {
	UserQuery string        `json:"user_query"`
	Files     []FileContext `json:"files,omitempty"`
}

// Job is one unit of asynchronous work.
type Job struct {
	ID          string     `json:"job_id"`
	Type        string     `json:"job_type"`
	Status      Status     `json:"status"`
	Input       Input      `json:"input"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Duration    float64    `json:"duration_seconds,omitempty"`
}

// ErrNotFound is returned for unknown job ids.
var ErrNotFound = errors.New("job not found")

// Store persists jobs.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	List(ctx context.Context) ([]*Job, error)
	Delete(ctx context.Context, id string) error
}
