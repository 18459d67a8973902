package jobs

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycleCompleted(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 2, nil)
	defer manager.Close()

	job, err := manager.Submit(context.Background(), "respond", Input{UserQuery: "hello"}, func(ctx context.Context, input Input) (string, error) {
		return `{"response_type":"chat"}`, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.NotEmpty(t, job.ID)

	manager.Wait()

	done, err := manager.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, `{"response_type":"chat"}`, done.Result)
	assert.Empty(t, done.Error)
	require.NotNil(t, done.StartedAt)
	require.NotNil(t, done.CompletedAt)
	assert.False(t, done.CompletedAt.Before(*done.StartedAt))
}

func TestJobLifecycleFailed(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 2, nil)
	defer manager.Close()

	job, err := manager.Submit(context.Background(), "respond", Input{UserQuery: "boom"}, func(ctx context.Context, input Input) (string, error) {
		return "", errors.New("crew run failed: llm unavailable")
	})
	require.NoError(t, err)

	manager.Wait()

	failed, err := manager.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Empty(t, failed.Result)
	assert.Contains(t, failed.Error, "llm unavailable")
}

func TestManagerBoundsConcurrency(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 2, nil)
	defer manager.Close()

	var active, peak int32
	gate := make(chan struct{})
	run := func(ctx context.Context, input Input) (string, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		<-gate
		atomic.AddInt32(&active, -1)
		return "done", nil
	}

	for i := 0; i < 6; i++ {
		_, err := manager.Submit(context.Background(), "respond", Input{}, run)
		require.NoError(t, err)
	}
	close(gate)
	manager.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))

	all, err := manager.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 6)
	for _, job := range all {
		assert.Equal(t, StatusCompleted, job.Status)
	}
}

func TestManagerDelete(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 1, nil)
	defer manager.Close()

	job, err := manager.Submit(context.Background(), "respond", Input{}, func(ctx context.Context, input Input) (string, error) {
		return "x", nil
	})
	require.NoError(t, err)
	manager.Wait()

	require.NoError(t, manager.Delete(context.Background(), job.ID))
	_, err = manager.Get(context.Background(), job.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, manager.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	job := &Job{ID: "j1", Type: "respond", Status: StatusPending}
	require.NoError(t, store.Create(context.Background(), job))

	got, err := store.Get(context.Background(), "j1")
	require.NoError(t, err)
	got.Status = StatusFailed

	again, err := store.Get(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)
}

func TestBuildDocumentContext(t *testing.T) {
	files := []FileContext{
		{
			FileName: "lease.pdf",
			FileType: "pdf",
			Content:  "Lease agreement for 100 Main St.",
			Metrics:  map[string]any{"monthly_rent": 1400},
			Clauses:  []string{"12 month term", "no subletting"},
		},
		{
			FileName:      "inspection.txt",
			Content:       "raw notes",
			ExtractedText: "Roof needs repair within 2 years.",
		},
	}

	block := BuildDocumentContext(files)
	assert.True(t, len(block) > 0)
	assert.Contains(t, block, "\n\n=== DOCUMENT CONTEXT ===\n")
	assert.Contains(t, block, "\n--- File: lease.pdf ---\n")
	assert.Contains(t, block, `Metrics: {"monthly_rent":1400}`)
	assert.Contains(t, block, "Clauses: 12 month term; no subletting\n")
	assert.Contains(t, block, "\n--- File: inspection.txt ---\n")
	assert.Contains(t, block, "Extracted Text: Roof needs repair within 2 years.\n")
	assert.Contains(t, block, "\n=== END DOCUMENT CONTEXT ===\n\n")
}

func TestBuildDocumentContextHeaderAdjacentToContent(t *testing.T) {
	block := BuildDocumentContext([]FileContext{
		{FileName: "lease.pdf", FileType: "pdf", Content: "Lease agreement for 100 Main St."},
	})
	assert.Contains(t, block, "--- File: lease.pdf ---\nContent: Lease agreement for 100 Main St.\n")
	assert.NotContains(t, block, "Type:")
}

func TestBuildDocumentContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildDocumentContext(nil))
	assert.Equal(t, "show me condos", QueryWithContext("show me condos", nil, InstructionRespond))
}

func TestQueryWithContextAppendsBlockAndInstruction(t *testing.T) {
	out := QueryWithContext("summarize this lease", []FileContext{{FileName: "a.txt", Content: "hi"}}, InstructionRespond)
	assert.Contains(t, out, "summarize this lease\n\n=== DOCUMENT CONTEXT ===")
	assert.True(t, strings.HasSuffix(out, "=== END DOCUMENT CONTEXT ===\n\nPlease consider the uploaded documents in classification and generation."))
}
