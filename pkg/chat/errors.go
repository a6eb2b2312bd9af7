package chat

import (
	"errors"
	"fmt"
)

// Common errors returned by generation providers.
var (
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("chat: no API key provided")

	// ErrNoEndpoint is returned when a relay provider has no endpoint URL.
	ErrNoEndpoint = errors.New("chat: no endpoint URL provided")

	// ErrNoUserTurn is returned when a relay request is built from a
	// history that contains no user turn.
	ErrNoUserTurn = errors.New("chat: history contains no user turn")

	// ErrBadPayload is returned when the provider response cannot be decoded.
	ErrBadPayload = errors.New("chat: malformed provider response")
)

// APIError represents an error response from a provider API.
type APIError struct {
	StatusCode int
	Message    string
	Provider   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat: %s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
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
	return fmt.Sprintf("chat: %s %s: %v", e.Provider, e.Op, e.Err)
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
