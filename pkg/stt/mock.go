package stt

import (
	"context"
	"sync"
	"time"
)

// Mock implements Transcriber for testing.
// All methods can be customized via function fields.
type Mock struct {
	// TranscribeFunc is called when Transcribe is invoked.
	// If nil, returns a fixed transcript.
	TranscribeFunc func(ctx context.Context, audio []byte, filename string) (string, error)

	// HealthFunc is called when Health is invoked.
	// If nil, returns nil (healthy).
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Bytes  int
	Time   time.Time
}

// NewMock creates a new mock provider with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		TranscribeFunc: func(ctx context.Context, audio []byte, filename string) (string, error) {
			return "hello there", nil
		},
	}
}

// WithTranscript returns a mock that always returns the given text.
func (m *Mock) WithTranscript(text string) *Mock {
	m.TranscribeFunc = func(ctx context.Context, audio []byte, filename string) (string, error) {
		return text, nil
	}
	return m
}

// WithError returns a mock whose methods all fail with err.
func (m *Mock) WithError(err error) *Mock {
	m.TranscribeFunc = func(ctx context.Context, audio []byte, filename string) (string, error) {
		return "", err
	}
	m.HealthFunc = func(ctx context.Context) error {
		return err
	}
	return m
}

// Transcribe calls TranscribeFunc and records the call.
func (m *Mock) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	m.record("Transcribe", len(audio))
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, filename)
	}
	return "", WrapError("mock", ErrBadPayload)
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health", 0)
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close", 0)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method string, bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Bytes: bytes, Time: time.Now()})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
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

// Verify Mock implements Transcriber at compile time.
var _ Transcriber = (*Mock)(nil)
