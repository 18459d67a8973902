package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

// Runner executes one job and returns its result payload.
type Runner func(ctx context.Context, input Input) (string, error)

// Manager submits jobs and runs them on background goroutines, bounded by a
// concurrency limit. Submission never blocks on the limit; queued jobs stay
// pending until a slot frees up.
type Manager struct {
	store   Store
	sem     *semaphore.Weighted
	logger  logging.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager builds a manager running at most maxConcurrent jobs at once.
func NewManager(store Store, maxConcurrent int, logger logging.Logger) *Manager {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:   store,
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		logger:  logging.OrNop(logger),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Submit records a pending job and schedules it. The returned job snapshot
// has status pending; poll Get for progress.
func (m *Manager) Submit(ctx context.Context, jobType string, input Input, run Runner) (*Job, error) {
	job := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusPending,
		Input:     input,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Create(ctx, job); err != nil {
		return nil, err
	}
	m.logger.Info("job %s submitted type=%s", job.ID, jobType)

	m.wg.Add(1)
	go m.execute(job.ID, input, run)

	snapshot := *job
	return &snapshot, nil
}

func (m *Manager) execute(id string, input Input, run Runner) {
	defer m.wg.Done()

	if err := m.sem.Acquire(m.baseCtx, 1); err != nil {
		m.fail(id, "manager shut down before job started")
		return
	}
	defer m.sem.Release(1)

	job, err := m.store.Get(m.baseCtx, id)
	if err != nil {
		m.logger.Error("job %s vanished before start: %v", id, err)
		return
	}
	started := time.Now().UTC()
	job.Status = StatusRunning
	job.StartedAt = &started
	if err := m.store.Update(m.baseCtx, job); err != nil {
		m.logger.Error("job %s: marking running: %v", id, err)
		return
	}

	result, runErr := run(m.baseCtx, input)

	completed := time.Now().UTC()
	job.CompletedAt = &completed
	job.Duration = completed.Sub(started).Seconds()
	if runErr != nil {
		job.Status = StatusFailed
		job.Error = runErr.Error()
		m.logger.Error("job %s failed after %.2fs: %v", id, job.Duration, runErr)
	} else {
		job.Status = StatusCompleted
		job.Result = result
		m.logger.Info("job %s completed in %.2fs", id, job.Duration)
	}
	if err := m.store.Update(m.baseCtx, job); err != nil {
		m.logger.Error("job %s: recording outcome: %v", id, err)
	}
}

func (m *Manager) fail(id, reason string) {
	job, err := m.store.Get(context.Background(), id)
	if err != nil {
		return
	}
	job.Status = StatusFailed
	job.Error = reason
	_ = m.store.Update(context.Background(), job)
}

// Get returns a job snapshot.
func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	return m.store.Get(ctx, id)
}

// List returns all jobs in submission order.
func (m *Manager) List(ctx context.Context) ([]*Job, error) {
	return m.store.List(ctx)
}

// Delete removes a job record. Running jobs keep running; only the record
// goes away.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Wait blocks until every submitted job has finished. Used in tests and
// during shutdown.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close stops accepting work and cancels the context running jobs see.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}
