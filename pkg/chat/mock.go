package chat

import (
	"context"
	"sync"
	"time"
)

// Mock is a mock generator for testing.
type Mock struct {
	mu    sync.Mutex
	calls []MockCall

	// GenerateFunc allows customizing generation behavior.
	GenerateFunc func(ctx context.Context, turns []Turn) (string, error)

	// HealthFunc allows customizing health check behavior.
	HealthFunc func(ctx context.Context) error

	// CloseFunc allows customizing close behavior.
	CloseFunc func() error
}

// MockCall records a single call to the mock.
type MockCall struct {
	Method string
	Turns  []Turn
	Time   time.Time
}

// NewMock creates a mock generator that echoes the latest user turn.
func NewMock() *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, turns []Turn) (string, error) {
			if prompt, ok := latestUserTurn(turns); ok {
				return prompt, nil
			}
			return "", ErrNoUserTurn
		},
	}
}

// WithReply returns a mock that always replies with the given text.
func (m *Mock) WithReply(text string) *Mock {
	m.GenerateFunc = func(ctx context.Context, turns []Turn) (string, error) {
		return text, nil
	}
	return m
}

// WithError returns a mock that always fails with the given error.
func (m *Mock) WithError(err error) *Mock {
	m.GenerateFunc = func(ctx context.Context, turns []Turn) (string, error) {
		return "", err
	}
	return m
}

// Generate implements Generator.
func (m *Mock) Generate(ctx context.Context, turns []Turn) (string, error) {
	m.record("Generate", turns)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, turns)
	}
	return "", nil
}

// Health implements Generator.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health", nil)
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close implements Generator.
func (m *Mock) Close() error {
	m.record("Close", nil)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method string, turns []Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method: method,
		Turns:  append([]Turn(nil), turns...),
		Time:   time.Now(),
	})
}

// Calls returns a copy of all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// CallCount returns the number of calls to the given method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var _ Generator = (*Mock)(nil)
