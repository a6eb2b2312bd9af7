package tts

import (
	"errors"
	"fmt"
)

// Common errors returned by TTS providers.
var (
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("tts: no API key provided")

	// ErrNoGroupID is returned when MiniMax is configured without a
	// group ID.
	ErrNoGroupID = errors.New("tts: no group ID provided")

	// ErrEmptyText is returned when synthesis is requested for empty text.
	ErrEmptyText = errors.New("tts: empty text")

	// ErrBadPayload is returned when the provider response cannot be
	// decoded or is missing audio.
	ErrBadPayload = errors.New("tts: malformed provider response")

	// ErrSynthesisTimeout is returned when an async job does not
	// complete within the polling budget.
	ErrSynthesisTimeout = errors.New("tts: synthesis job did not complete in time")

	// ErrJobFailed is returned when an async job reports a terminal
	// failure state.
	ErrJobFailed = errors.New("tts: synthesis job failed")
)

// APIError represents an error response from a provider API.
type APIError struct {
	StatusCode int
	Message    string
	Provider   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tts: %s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsRateLimited returns true if the error is a rate limit error.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized returns true if the error is an authentication error.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsServerError returns true if the error is a server-side error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// ProviderError wraps provider-specific errors with context.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("tts: %s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider context.
func WrapError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}
