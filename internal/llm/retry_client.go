package llm

import (
	"context"
	"time"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

// retryClient wraps an LLM client with bounded retries for transient
// failures. Non-transient errors (auth, malformed request) fail immediately.
type retryClient struct {
	underlying ports.LLMClient
	maxRetries int
	baseDelay  time.Duration
	logger     logging.Logger
}

// NewRetryClient wraps client with up to maxRetries additional attempts.
func NewRetryClient(client ports.LLMClient, maxRetries int) ports.LLMClient {
	if maxRetries <= 0 {
		return client
	}
	return &retryClient{
		underlying: client,
		maxRetries: maxRetries,
		baseDelay:  500 * time.Millisecond,
		logger:     logging.NewComponentLogger("llm-retry"),
	}
}

func (c *retryClient) Model() string { return c.underlying.Model() }

func (c *retryClient) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	var lastErr error
	delay := c.baseDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying completion (attempt %d/%d) after: %v", attempt, c.maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		resp, err := c.underlying.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}
	}
	return nil, lastErr
}
