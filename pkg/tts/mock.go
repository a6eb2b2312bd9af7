package tts

import (
	"context"
	"sync"
	"time"
)

// Mock is a mock synthesizer for testing.
type Mock struct {
	mu    sync.Mutex
	calls []MockCall

	// SynthesizeFunc allows customizing synthesis behavior.
	SynthesizeFunc func(ctx context.Context, text string) (*AudioResult, error)

	// HealthFunc allows customizing health check behavior.
	HealthFunc func(ctx context.Context) error

	// CloseFunc allows customizing close behavior.
	CloseFunc func() error
}

// MockCall records a single call to the mock.
type MockCall struct {
	Method string
	Text   string
	Time   time.Time
}

// NewMock creates a mock synthesizer that returns placeholder audio.
func NewMock() *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string) (*AudioResult, error) {
			if text == "" {
				return nil, ErrEmptyText
			}
			return &AudioResult{
				Audio:     []byte("mock-audio:" + text),
				Format:    FormatMP3,
				CharCount: len(text),
			}, nil
		},
	}
}

// WithAudio returns a mock that always responds with the given bytes.
func (m *Mock) WithAudio(audio []byte) *Mock {
	m.SynthesizeFunc = func(ctx context.Context, text string) (*AudioResult, error) {
		return &AudioResult{
			Audio:     audio,
			Format:    FormatMP3,
			CharCount: len(text),
		}, nil
	}
	return m
}

// WithError returns a mock that always fails with the given error.
func (m *Mock) WithError(err error) *Mock {
	m.SynthesizeFunc = func(ctx context.Context, text string) (*AudioResult, error) {
		return nil, err
	}
	return m
}

// Synthesize implements Synthesizer.
func (m *Mock) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	m.record("Synthesize", text)
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return &AudioResult{Audio: []byte("mock"), Format: FormatMP3}, nil
}

// Health implements Synthesizer.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health", "")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close implements Synthesizer.
func (m *Mock) Close() error {
	m.record("Close", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Text: text, Time: time.Now()})
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

var _ Synthesizer = (*Mock)(nil)
