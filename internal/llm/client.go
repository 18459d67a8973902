// Package llm provides clients for OpenAI-compatible chat-completion APIs.
package llm

import (
	"errors"
	"fmt"
)

// Config holds provider connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Timeout is the per-request HTTP timeout in seconds. Zero means the
	// default of 120s.
	Timeout int
	// MaxRetries is consumed by the retry wrapper, not the base client.
	MaxRetries int
	Headers    map[string]string
}

// transientError marks failures worth retrying (throttling, 5xx, transport).
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func markTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func mapHTTPError(status int, body []byte) error {
	err := fmt.Errorf("llm request failed (status %d): %s", status, truncate(string(body), 512))
	if status == 408 || status == 429 || status >= 500 {
		return markTransient(err)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
